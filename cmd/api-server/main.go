package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/market"
	"github.com/Thepathakarpit/stocksfafo-sub001/internals/users"
	"github.com/Thepathakarpit/stocksfafo-sub001/pkg/conf"
	"github.com/Thepathakarpit/stocksfafo-sub001/pkg/kvstore"
)

type App struct {
	Conf     *conf.Config
	Log      *zap.Logger
	R        *chi.Mux
	Users    users.Store
	Quotes   *market.Store
	Sim      *market.Simulator
	KVStore  kvstore.KVStore
	WS       map[*websocket.Conn]bool
	ClientsM sync.Mutex
}

func main() {
	cfg, err := conf.Load()
	failOnError(err, "Failed to load config")

	logger, err := initLogger(cfg)
	failOnError(err, "Failed to build logger")
	defer logger.Sync()

	// Money fields serialize as plain JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	app := &App{
		Conf: cfg,
		Log:  logger,
		WS:   make(map[*websocket.Conn]bool),
	}

	app.Users, err = app.initStore()
	failOnError(err, "Failed to open user store")

	app.KVStore, err = app.initKVStore()
	failOnError(err, "Failed to open session store")

	app.Quotes = market.NewStore(market.DefaultQuotes())
	app.Sim = market.NewSimulator(
		app.Quotes,
		cfg.Market.TickInterval,
		cfg.Market.MaxChangePct,
		market.NewRand(uint64(time.Now().UnixNano())),
		market.RealClock{},
		logger,
	)
	app.Sim.Subscribe(app.broadcastQuotes)

	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)

	app.R = r
	app.initHandlers()

	app.Sim.Start(context.Background())

	srv := &http.Server{Addr: cfg.App.Port, Handler: r}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.App.Port), zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("HTTP Error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	app.Sim.Stop()
	app.closeClients()
	srv.Shutdown(context.Background())
	logger.Info("Shutdown complete")
}

// closeClients drops every live websocket so Shutdown does not hang on
// their open connections.
func (app *App) closeClients() {
	app.ClientsM.Lock()
	defer app.ClientsM.Unlock()
	for conn := range app.WS {
		conn.Close()
		delete(app.WS, conn)
	}
}
