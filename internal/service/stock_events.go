package service

import (
	"encoding/json"

	"inventaris/internal/model"
	ws "inventaris/internal/websocket"
)

// StockEvent is the payload broadcast to websocket clients whenever a
// committed mutation changed an item's stock counter.
type StockEvent struct {
	Event string         `json:"event"`
	Data  StockEventData `json:"data"`
}

type StockEventData struct {
	ItemID     uint   `json:"item_id"`
	ItemCode   string `json:"item_code"`
	StockAfter int    `json:"stock_after"`
}

// broadcastStockChange pushes a stock.changed event to the hub. The send
// is best-effort: a full or absent hub never blocks the request path.
func broadcastStockChange(hub *ws.Hub, item *model.Item) {
	if hub == nil || item == nil {
		return
	}
	payload, err := json.Marshal(StockEvent{
		Event: "stock.changed",
		Data: StockEventData{
			ItemID:     item.ID,
			ItemCode:   item.Code,
			StockAfter: item.StockQuantity,
		},
	})
	if err != nil {
		return
	}
	select {
	case hub.Broadcast <- payload:
	default:
	}
}
