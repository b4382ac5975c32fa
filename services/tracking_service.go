package services

import (
	"sync"
	"time"

	"github.com/Pirategrand/savory-cart-portal/entity"
)

// StatusEvent is the row-change payload pushed to tracking views, the
// same shape for real transitions and the simulator.
type StatusEvent struct {
	Event  string                 `json:"event"` // always "UPDATE"
	New    *entity.Order          `json:"new"`
	Update *entity.TrackingUpdate `json:"update,omitempty"`
}

// StatusSource delivers status events for one order. The websocket hub
// and the local simulator both satisfy it, so consuming views cannot
// tell simulation from genuine pushes.
type StatusSource interface {
	Subscribe(orderID uint) (<-chan StatusEvent, func())
}

// ProgressFor maps a status onto the five display stages. Preparing and
// ready-for-pickup share the middle band.
func ProgressFor(status entity.OrderStatus) int {
	switch status {
	case entity.StatusPending:
		return 0
	case entity.StatusConfirmed:
		return 25
	case entity.StatusPreparing, entity.StatusReadyForPickup:
		return 50
	case entity.StatusOutForDelivery:
		return 75
	case entity.StatusDelivered:
		return 100
	default:
		return 0
	}
}

// PartnerVisible: the delivery-partner card only shows while the order
// is on the road, the 75–99 band.
func PartnerVisible(progress int) bool {
	return progress >= 75 && progress < 100
}

// TrackingView is the read-only order progress payload.
type TrackingView struct {
	OrderID           uint                    `json:"orderId"`
	Status            entity.OrderStatus      `json:"status"`
	Progress          int                     `json:"progress"`
	EstimatedDelivery time.Time               `json:"estimatedDelivery"`
	Updates           []entity.TrackingUpdate `json:"updates"`
	DeliveryPartner   *entity.DeliveryPartner `json:"deliveryPartner,omitempty"`
}

// BuildTrackingView renders an order for the status screen. The latest
// tracking update wins over the order row when both are present.
func BuildTrackingView(o *entity.Order) TrackingView {
	status := o.Status
	if n := len(o.TrackingUpdates); n > 0 {
		status = o.TrackingUpdates[n-1].Status
	}
	progress := ProgressFor(status)

	v := TrackingView{
		OrderID:           o.ID,
		Status:            status,
		Progress:          progress,
		EstimatedDelivery: o.EstimatedDelivery,
		Updates:           o.TrackingUpdates,
	}
	if PartnerVisible(progress) {
		v.DeliveryPartner = o.DeliveryPartner
	}
	return v
}

// StatusSimulator fakes backend progression on local timers. It exists
// so demo orders move without an admin clicking through stages; real
// pushes replace it without touching consumers.
type StatusSimulator struct {
	Interval time.Duration

	mu     sync.Mutex
	cancel map[uint]chan struct{}
}

func NewStatusSimulator(interval time.Duration) *StatusSimulator {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &StatusSimulator{Interval: interval, cancel: make(map[uint]chan struct{})}
}

func (s *StatusSimulator) Subscribe(orderID uint) (<-chan StatusEvent, func()) {
	events := make(chan StatusEvent, len(entity.OrderStatuses))
	stop := make(chan struct{})

	s.mu.Lock()
	s.cancel[orderID] = stop
	s.mu.Unlock()

	go func() {
		defer close(events)
		status := entity.StatusPending
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				next := status.Next()
				if next == "" {
					return
				}
				status = next
				o := &entity.Order{Status: status}
				o.ID = orderID
				tu := &entity.TrackingUpdate{
					OrderID:     orderID,
					Status:      status,
					Description: transitionNotes[status],
					RecordedAt:  time.Now(),
				}
				select {
				case events <- StatusEvent{Event: "UPDATE", New: o, Update: tu}:
				case <-stop:
					return
				}
			case <-stop:
				return
			}
		}
	}()

	once := sync.Once{}
	teardown := func() {
		once.Do(func() {
			close(stop)
			s.mu.Lock()
			delete(s.cancel, orderID)
			s.mu.Unlock()
		})
	}
	return events, teardown
}
