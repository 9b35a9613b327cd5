package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/users"
	"github.com/Thepathakarpit/stocksfafo-sub001/pkg/conf"
	"github.com/Thepathakarpit/stocksfafo-sub001/pkg/kvstore"
)

func failOnError(err error, msg string) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}

func initLogger(cfg *conf.Config) (*zap.Logger, error) {
	if cfg.App.Env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (app *App) initStore() (users.Store, error) {
	switch app.Conf.Store.Backend {
	case "postgres":
		return users.NewPostgres(app.Conf.Postgres.DSN)
	default:
		return users.NewFileStore(app.Conf.Store.Path)
	}
}

// initKVStore picks the session backend. Without a redis address
// sessions live in process memory and die with it.
func (app *App) initKVStore() (kvstore.KVStore, error) {
	if app.Conf.Redis.Addr != "" {
		return kvstore.NewRedis(app.Conf.Redis.Addr, app.Conf.Redis.Password, app.Conf.Redis.DB)
	}
	return kvstore.NewMemory(), nil
}
