package services

import (
	"context"
	"testing"
	"time"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	orders  []*entity.Order
	updates []*entity.TrackingUpdate
}

func (p *recordingPublisher) PublishStatus(o *entity.Order, tu *entity.TrackingUpdate) {
	p.orders = append(p.orders, o)
	p.updates = append(p.updates, tu)
}

type orderFixture struct {
	db    *gorm.DB
	svc   *OrderService
	pub   *recordingPublisher
	owner entity.User
	rest  entity.Restaurant
}

func newOrderFixture(t *testing.T) *orderFixture {
	db := testDB(t)
	owner := entity.User{Email: "owner@example.com", Role: "owner"}
	require.NoError(t, db.Create(&owner).Error)
	rest := entity.Restaurant{Name: "Bella Cucina", OwnerID: owner.ID}
	require.NoError(t, db.Create(&rest).Error)

	pub := &recordingPublisher{}
	svc := NewOrderService(db, repository.NewOrderRepository(db), repository.NewRestaurantRepository(db))
	svc.Publisher = pub
	return &orderFixture{db: db, svc: svc, pub: pub, owner: owner, rest: rest}
}

func (f *orderFixture) newCustomer(t *testing.T, email string) uint {
	t.Helper()
	u := entity.User{Email: email}
	require.NoError(t, f.db.Create(&u).Error)
	return u.ID
}

func (f *orderFixture) placeOrder(t *testing.T, userID uint) *entity.Order {
	t.Helper()
	item := pizza()
	item.RestaurantID = f.rest.ID
	lines := []entity.CartLine{{
		ID:       "1-1",
		FoodItem: item,
		Quantity: 2,
		SelectedOptions: []entity.SelectedOption{
			{Group: "Size", Label: "Large", PriceDelta: decimal.RequireFromString("2.00")},
		},
	}}
	order, err := f.svc.Place(context.Background(), &PlaceOrderIn{
		UserID:          userID,
		RestaurantID:    f.rest.ID,
		Lines:           lines,
		Totals:          Totals(lines, decimal.RequireFromString("3.99")),
		DeliveryAddress: "1 Main St",
		PaymentMethod:   MethodCreditCard,
	})
	require.NoError(t, err)
	return order
}

func TestPlaceOrderSnapshots(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, 7)

	assert.Equal(t, entity.StatusPending, order.Status)
	// (8.99 + 2.00) * 2 = 21.98 subtotal
	assert.Equal(t, "21.98", order.Subtotal.StringFixed(2))
	assert.InDelta(t, 40*time.Minute, time.Until(order.EstimatedDelivery), float64(time.Minute))

	got, err := f.svc.DetailForUser(7, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Margherita Pizza", got.Items[0].Name)
	assert.Equal(t, "8.99", got.Items[0].UnitPrice.StringFixed(2))
	assert.Contains(t, got.Items[0].SelectedOptions, "Large")

	require.Len(t, got.TrackingUpdates, 1)
	assert.Equal(t, entity.StatusPending, got.TrackingUpdates[0].Status)
}

func TestPlaceOrderRejectsEmptyAndUnknownRestaurant(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Place(context.Background(), &PlaceOrderIn{UserID: 7, RestaurantID: f.rest.ID})
	assert.Error(t, err)

	item := pizza()
	lines := []entity.CartLine{{ID: "1-1", FoodItem: item, Quantity: 1}}
	_, err = f.svc.Place(context.Background(), &PlaceOrderIn{UserID: 7, RestaurantID: 999, Lines: lines})
	assert.Error(t, err)
}

func TestOrderDetailScopedToUser(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, 7)

	_, err := f.svc.DetailForUser(8, order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAdvanceHappyPath(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, 7)

	require.NoError(t, f.svc.Advance(f.owner.ID, order.ID, entity.StatusConfirmed))

	got, err := f.svc.DetailForUser(7, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, got.Status)
	require.Len(t, got.TrackingUpdates, 2)
	assert.Equal(t, entity.StatusConfirmed, got.TrackingUpdates[1].Status)

	require.Len(t, f.pub.orders, 1)
	assert.Equal(t, entity.StatusConfirmed, f.pub.orders[0].Status)
	assert.Equal(t, order.ID, f.pub.updates[0].OrderID)
}

func TestAdvanceRejectsSkippedStage(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, 7)

	err := f.svc.Advance(f.owner.ID, order.ID, entity.StatusPreparing)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = f.svc.Advance(f.owner.ID, order.ID, "sideways")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Empty(t, f.pub.orders)
}

func TestAdvanceRejectsForeignOwner(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, 7)

	other := entity.User{Email: "other@example.com", Role: "owner"}
	require.NoError(t, f.db.Create(&other).Error)

	err := f.svc.Advance(other.ID, order.ID, entity.StatusConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAdvanceAssignsPartnerOnDispatch(t *testing.T) {
	f := newOrderFixture(t)
	partner := entity.DeliveryPartner{Name: "Alex", Available: true}
	require.NoError(t, f.db.Create(&partner).Error)

	order := f.placeOrder(t, 7)
	for _, st := range []entity.OrderStatus{
		entity.StatusConfirmed, entity.StatusPreparing,
		entity.StatusReadyForPickup, entity.StatusOutForDelivery,
	} {
		require.NoError(t, f.svc.Advance(f.owner.ID, order.ID, st))
	}

	got, err := f.svc.DetailForUser(7, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DeliveryPartnerID)
	require.NotNil(t, got.DeliveryPartner)
	assert.Equal(t, "Alex", got.DeliveryPartner.Name)
}

func TestAdvanceDeliveredIsTerminal(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, 7)

	for _, st := range entity.OrderStatuses[1:] {
		require.NoError(t, f.svc.Advance(f.owner.ID, order.ID, st))
	}

	err := f.svc.Advance(f.owner.ID, order.ID, entity.StatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOwnerListScopedToOwnership(t *testing.T) {
	f := newOrderFixture(t)
	f.placeOrder(t, f.newCustomer(t, "a@example.com"))
	f.placeOrder(t, f.newCustomer(t, "b@example.com"))

	out, err := f.svc.ListForRestaurant(f.owner.ID, f.rest.ID, nil, 1, 10)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.EqualValues(t, 2, out.Total)

	_, err = f.svc.ListForRestaurant(999, f.rest.ID, nil, 1, 10)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOwnerListStatusFilter(t *testing.T) {
	f := newOrderFixture(t)
	a := f.placeOrder(t, f.newCustomer(t, "a@example.com"))
	f.placeOrder(t, f.newCustomer(t, "b@example.com"))
	require.NoError(t, f.svc.Advance(f.owner.ID, a.ID, entity.StatusConfirmed))

	st := entity.StatusConfirmed
	out, err := f.svc.ListForRestaurant(f.owner.ID, f.rest.ID, &st, 1, 10)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, a.ID, out.Items[0].ID)
}
