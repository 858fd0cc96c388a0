package notify

import "log"

// Dispatcher delivers order notifications fire-and-forget. Implementations
// log failures; callers never wait on delivery.
type Dispatcher interface {
	OrderPlaced(userID string, orderID uint, orderNumber string)
}

// LogDispatcher writes notifications to the application log and, when a hub
// is attached, broadcasts them to connected websocket clients.
type LogDispatcher struct {
	Hub *Hub
}

func NewLogDispatcher(hub *Hub) *LogDispatcher {
	return &LogDispatcher{Hub: hub}
}

type orderPlacedEvent struct {
	Event       string `json:"event"`
	UserID      string `json:"user_id"`
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
}

func (d *LogDispatcher) OrderPlaced(userID string, orderID uint, orderNumber string) {
	log.Printf("📦 Order placed: %s (user %s)", orderNumber, userID)
	if d.Hub != nil {
		d.Hub.Broadcast(orderPlacedEvent{
			Event:       "order_placed",
			UserID:      userID,
			OrderID:     orderID,
			OrderNumber: orderNumber,
		})
	}
}
