package ws

import (
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

// TrackingHub fans order status changes out to per-order subscriber
// channels. Every UPDATE transition lands here via
// OrderService.Publisher; websocket connections are plain subscribers.
type TrackingHub struct {
	subscribed map[uint]map[chan services.StatusEvent]bool
	broadcast  chan services.StatusEvent
	mu         sync.Mutex
	db         *gorm.DB

	// Source feeds connected clients. Defaults to the hub itself;
	// demo deployments swap in the status simulator and clients
	// cannot tell the difference.
	Source services.StatusSource
}

func NewTrackingHub(db *gorm.DB) *TrackingHub {
	h := &TrackingHub{
		subscribed: make(map[uint]map[chan services.StatusEvent]bool),
		broadcast:  make(chan services.StatusEvent, 16),
		db:         db,
	}
	h.Source = h
	return h
}

// PublishStatus implements services.StatusPublisher.
func (h *TrackingHub) PublishStatus(order *entity.Order, update *entity.TrackingUpdate) {
	h.broadcast <- services.StatusEvent{Event: "UPDATE", New: order, Update: update}
}

// Subscribe implements services.StatusSource; the returned teardown
// must be called or the channel leaks.
func (h *TrackingHub) Subscribe(orderID uint) (<-chan services.StatusEvent, func()) {
	ch := make(chan services.StatusEvent, 8)
	h.mu.Lock()
	if h.subscribed[orderID] == nil {
		h.subscribed[orderID] = make(map[chan services.StatusEvent]bool)
	}
	h.subscribed[orderID][ch] = true
	h.mu.Unlock()

	var once sync.Once
	teardown := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribed[orderID], ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, teardown
}

// Run delivers broadcast events to that order's subscribers forever.
func (h *TrackingHub) Run() {
	for ev := range h.broadcast {
		orderID := ev.New.ID
		h.mu.Lock()
		for ch := range h.subscribed[orderID] {
			select {
			case ch <- ev:
			default: // slow consumer, drop rather than block the hub
			}
		}
		h.mu.Unlock()
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/orders/:id
func (h *TrackingHub) HandleWebSocket(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	orderID := uint(id)

	userIDVal, _ := c.Get("userId")
	userID, _ := userIDVal.(uint)

	var order entity.Order
	if err := h.db.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	ok, err := h.canAccess(userID, &order)
	if err != nil || !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "no access"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	events, teardown := h.Source.Subscribe(orderID)
	go h.pump(conn, events)
	go h.waitForClose(conn, teardown)
}

// pump writes subscribed events to one connection until its channel
// closes or a write fails.
func (h *TrackingHub) pump(conn *websocket.Conn, events <-chan services.StatusEvent) {
	for ev := range events {
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("ws write error: %v", err)
			conn.Close()
			return
		}
	}
	conn.Close()
}

// canAccess: the order's customer or the restaurant owner.
func (h *TrackingHub) canAccess(userID uint, order *entity.Order) (bool, error) {
	if order.UserID == userID {
		return true, nil
	}
	var count int64
	err := h.db.Model(&entity.Restaurant{}).
		Where("id = ? AND owner_id = ?", order.RestaurantID, userID).
		Count(&count).Error
	return count > 0, err
}

// waitForClose drains the connection until the peer goes away; the
// tracking channel is push-only.
func (h *TrackingHub) waitForClose(conn *websocket.Conn, teardown func()) {
	defer teardown()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
