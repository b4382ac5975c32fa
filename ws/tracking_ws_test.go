package ws

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publishedOrder(id uint, status entity.OrderStatus) *entity.Order {
	o := &entity.Order{Status: status}
	o.ID = id
	return o
}

func TestHubDeliversToSubscriber(t *testing.T) {
	hub := NewTrackingHub(nil)
	go hub.Run()

	events, teardown := hub.Subscribe(5)
	defer teardown()

	hub.PublishStatus(publishedOrder(5, entity.StatusConfirmed), &entity.TrackingUpdate{Status: entity.StatusConfirmed})

	select {
	case ev := <-events:
		assert.Equal(t, "UPDATE", ev.Event)
		assert.Equal(t, uint(5), ev.New.ID)
		assert.Equal(t, entity.StatusConfirmed, ev.New.Status)
		require.NotNil(t, ev.Update)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestHubScopesEventsToOrder(t *testing.T) {
	hub := NewTrackingHub(nil)
	go hub.Run()

	events, teardown := hub.Subscribe(5)
	defer teardown()

	hub.PublishStatus(publishedOrder(6, entity.StatusPreparing), nil)

	select {
	case ev := <-events:
		t.Fatalf("got event for order %d on order 5 subscription", ev.New.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubTeardownClosesChannel(t *testing.T) {
	hub := NewTrackingHub(nil)
	events, teardown := hub.Subscribe(9)

	teardown()
	teardown() // second call is a no-op

	_, open := <-events
	assert.False(t, open)
}

func TestHubIsAStatusSource(t *testing.T) {
	var _ services.StatusSource = NewTrackingHub(nil)
	var _ services.StatusSource = services.NewStatusSimulator(time.Second)
}

func TestHandleWebSocketRejectsBadOrderID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewTrackingHub(nil)

	for _, raw := range []string{"abc", "0", "-3", ""} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ws/orders/"+raw, nil)
		c.Params = gin.Params{{Key: "id", Value: raw}}
		c.Set("userId", uint(1))

		hub.HandleWebSocket(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", raw)
	}
}
