package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Thepathakarpit/stocksfafo-sub001/internals/market"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type stockUpdate struct {
	Event string         `json:"event"`
	Data  []market.Quote `json:"data"`
}

func marshalStockUpdate(quotes []market.Quote) ([]byte, error) {
	return json.Marshal(stockUpdate{Event: "stockUpdate", Data: quotes})
}

// handleWebSocket sends the current snapshot as the first frame, then
// registers the client for tick broadcasts. The read loop only exists
// to notice the peer going away.
func (app *App) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Could not open websocket connection", http.StatusBadRequest)
		return
	}

	defer func() {
		conn.Close()
		app.ClientsM.Lock()
		delete(app.WS, conn)
		app.ClientsM.Unlock()
	}()

	data, err := marshalStockUpdate(app.Quotes.Snapshot())
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return
	}

	// Register only after the first frame; the broadcaster must not
	// write concurrently with it.
	app.ClientsM.Lock()
	app.WS[conn] = true
	app.ClientsM.Unlock()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

// broadcastQuotes fans a tick out to every client. It runs on the
// simulator goroutine. Closing a dead connection here makes its read
// loop exit, which removes it from the client set.
func (app *App) broadcastQuotes(quotes []market.Quote) {
	data, err := marshalStockUpdate(quotes)
	if err != nil {
		app.Log.Error("marshalling stock update", zap.Error(err))
		return
	}

	app.ClientsM.Lock()
	for conn := range app.WS {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
		}
	}
	app.ClientsM.Unlock()
}
