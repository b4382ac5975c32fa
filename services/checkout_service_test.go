package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlacer struct {
	failures int // fail the first N attempts
	calls    int
	last     *PlaceOrderIn
}

func (p *fakePlacer) Place(_ context.Context, in *PlaceOrderIn) (*entity.Order, error) {
	p.calls++
	p.last = in
	if p.calls <= p.failures {
		return nil, errors.New("upstream unavailable")
	}
	o := &entity.Order{UserID: in.UserID, RestaurantID: in.RestaurantID, Status: entity.StatusPending}
	o.ID = 42
	return o, nil
}

type fakeProfiles struct{}

func (fakeProfiles) FetchProfile(_ context.Context, userID uint) (*entity.User, error) {
	u := &entity.User{FirstName: "Jane", Email: "jane@example.com"}
	u.ID = userID
	return u, nil
}

func fastTunables() CheckoutTunables {
	return CheckoutTunables{
		ReadyTimeout:     time.Second,
		ProfileWait:      time.Second,
		CartLoad:         time.Second,
		SubmitTimeout:    time.Second,
		SubmitBackoff:    time.Millisecond,
		MaxAttempts:      3,
		ProcessingSafety: time.Minute,
	}
}

type checkoutFixture struct {
	svc      *CheckoutService
	carts    *CartService
	payments *PaymentService
	placer   *fakePlacer
}

func newCheckoutFixture(t *testing.T, online bool) *checkoutFixture {
	carts, _ := newCartService()
	payments := NewPaymentService(testDB(t), 0)
	placer := &fakePlacer{}
	svc := NewCheckoutService(carts, payments, placer, fakeProfiles{}, StaticMonitor{Up: online}, fastTunables())
	return &checkoutFixture{svc: svc, carts: carts, payments: payments, placer: placer}
}

func (f *checkoutFixture) fillCart(t *testing.T, uid uint) {
	t.Helper()
	_, err := f.carts.Add(context.Background(), uid, pizza(), 2, nil)
	require.NoError(t, err)
}

func validForm() *CheckoutForm {
	return &CheckoutForm{
		Name:       "Jane",
		Phone:      "555-0101",
		Address:    "1 Main St",
		Email:      "jane@example.com",
		CardNumber: "4242424242424242",
		CardExpiry: "12/30",
		CardCVV:    "123",
	}
}

func TestCheckoutBeginReady(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.fillCart(t, 7)

	v := f.svc.Begin(context.Background(), 7)
	assert.Equal(t, StateReady, v.State)
	assert.Equal(t, MethodCreditCard, v.PaymentMethod)
}

func TestCheckoutBeginEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, true)
	v := f.svc.Begin(context.Background(), 7)
	assert.Equal(t, StateEmptyCart, v.State)
}

func TestCheckoutBeginOffline(t *testing.T) {
	f := newCheckoutFixture(t, false)
	v := f.svc.Begin(context.Background(), 7)
	assert.Equal(t, StateOffline, v.State)
}

func TestCheckoutSubmitOfflineBlocksBeforeAnyNetworkCall(t *testing.T) {
	f := newCheckoutFixture(t, false)
	f.fillCart(t, 7)

	_, err := f.svc.Submit(context.Background(), 7, validForm())
	assert.ErrorIs(t, err, ErrOffline)
	assert.Zero(t, f.placer.calls)
}

func TestCheckoutSubmitValidation(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.fillCart(t, 7)

	var vErr *ValidationError

	form := validForm()
	form.Phone = ""
	_, err := f.svc.Submit(context.Background(), 7, form)
	assert.ErrorAs(t, err, &vErr)

	form = validForm()
	form.CardNumber = ""
	_, err = f.svc.Submit(context.Background(), 7, form)
	assert.ErrorAs(t, err, &vErr)

	assert.Zero(t, f.placer.calls)
}

func TestCheckoutSubmitEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, true)
	_, err := f.svc.Submit(context.Background(), 7, validForm())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StateEmptyCart, f.svc.View(7).State)

	// guard released: filling the cart makes the next submit go through
	f.fillCart(t, 7)
	_, err = f.svc.Submit(context.Background(), 7, validForm())
	assert.NoError(t, err)
}

func TestCheckoutSubmitSuccessClearsCart(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.fillCart(t, 7)

	order, err := f.svc.Submit(context.Background(), 7, validForm())
	require.NoError(t, err)
	assert.Equal(t, uint(42), order.ID)
	assert.Equal(t, 1, f.placer.calls)

	assert.Empty(t, f.carts.Load(context.Background(), 7).Lines)
	assert.Equal(t, StateReady, f.svc.View(7).State)

	// totals snapshot went with the order
	require.NotNil(t, f.placer.last)
	assert.Equal(t, "23.41", f.placer.last.Totals.Total.StringFixed(2))
	assert.Equal(t, uint(1), f.placer.last.RestaurantID)
}

func TestCheckoutSubmitRetriesThenSucceeds(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.fillCart(t, 7)
	f.placer.failures = 2

	_, err := f.svc.Submit(context.Background(), 7, validForm())
	require.NoError(t, err)
	assert.Equal(t, 3, f.placer.calls)
}

func TestCheckoutSubmitExhaustsRetries(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.fillCart(t, 7)
	f.placer.failures = 3

	_, err := f.svc.Submit(context.Background(), 7, validForm())
	assert.ErrorIs(t, err, ErrSubmitFailed)
	assert.Equal(t, 3, f.placer.calls)

	v := f.svc.View(7)
	assert.Equal(t, StateError, v.State)
	assert.NotEmpty(t, v.LastError)

	// the cart survives a failed submission
	assert.Len(t, f.carts.Load(context.Background(), 7).Lines, 1)
}

// blockingPlacer parks in Place until released, like a slow upstream.
type blockingPlacer struct {
	release chan struct{}
	calls   int32
}

func (p *blockingPlacer) Place(_ context.Context, in *PlaceOrderIn) (*entity.Order, error) {
	atomic.AddInt32(&p.calls, 1)
	<-p.release
	o := &entity.Order{UserID: in.UserID, Status: entity.StatusPending}
	o.ID = 42
	return o, nil
}

func TestCheckoutConcurrentSubmitsPlaceOneOrder(t *testing.T) {
	carts, _ := newCartService()
	payments := NewPaymentService(testDB(t), 0)
	placer := &blockingPlacer{release: make(chan struct{})}
	svc := NewCheckoutService(carts, payments, placer, fakeProfiles{}, StaticMonitor{Up: true}, fastTunables())

	_, err := carts.Add(context.Background(), 7, pizza(), 2, nil)
	require.NoError(t, err)

	first := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), 7, validForm())
		first <- err
	}()

	// wait for the first submit to claim the session and reach Place
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&placer.calls) == 1
	}, time.Second, time.Millisecond)

	_, err = svc.Submit(context.Background(), 7, validForm())
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(placer.release)
	require.NoError(t, <-first)
	assert.EqualValues(t, 1, atomic.LoadInt32(&placer.calls))
}

func TestCheckoutSubmitClaimReleasedAfterPreflightFailure(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.fillCart(t, 7)

	form := validForm()
	form.Phone = ""
	_, err := f.svc.Submit(context.Background(), 7, form)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	// the failed attempt must not leave the guard held
	_, err = f.svc.Submit(context.Background(), 7, validForm())
	require.NoError(t, err)
}

func TestCheckoutSubmitOverlapGuard(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.fillCart(t, 7)

	f.svc.mu.Lock()
	f.svc.session(7).processing = true
	f.svc.mu.Unlock()

	_, err := f.svc.Submit(context.Background(), 7, validForm())
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.Zero(t, f.placer.calls)
}

func completeAlternateFlow(t *testing.T, f *checkoutFixture, uid uint) {
	t.Helper()
	_, err := f.payments.StartFlow(uid, decimal.RequireFromString("23.41"), "jane@example.com")
	require.NoError(t, err)
	_, err = f.payments.ShowQR(uid)
	require.NoError(t, err)
	require.NoError(t, f.payments.Scan(uid))
	require.NoError(t, f.payments.Resolve(uid, true))
}

func TestCheckoutCashAppRequiresCompletedPayment(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.fillCart(t, 7)
	require.NoError(t, f.svc.SetPaymentMethod(7, MethodCashApp))

	var vErr *ValidationError
	_, err := f.svc.Submit(context.Background(), 7, validForm())
	require.ErrorAs(t, err, &vErr)

	completeAlternateFlow(t, f, 7)
	order, err := f.svc.Submit(context.Background(), 7, validForm())
	require.NoError(t, err)
	assert.Equal(t, MethodCashApp, f.placer.last.PaymentMethod)
	assert.NotNil(t, order)

	// success resets the alternate flow for the next order
	assert.Equal(t, FlowIdle, f.payments.Flow(7).State)
}

func TestCheckoutSwitchingAwayFromCashAppResetsFlow(t *testing.T) {
	f := newCheckoutFixture(t, true)
	require.NoError(t, f.svc.SetPaymentMethod(7, MethodCashApp))
	completeAlternateFlow(t, f, 7)
	require.True(t, f.payments.Completed(7))

	require.NoError(t, f.svc.SetPaymentMethod(7, MethodCash))
	assert.False(t, f.payments.Completed(7))
	assert.Equal(t, FlowIdle, f.payments.Flow(7).State)
}

func TestCheckoutCompletedFlowCoversCardFields(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.fillCart(t, 7)
	completeAlternateFlow(t, f, 7)

	// credit card selected but no card details; the authorized
	// alternate payment stands in
	form := validForm()
	form.CardNumber, form.CardExpiry, form.CardCVV = "", "", ""
	_, err := f.svc.Submit(context.Background(), 7, form)
	assert.NoError(t, err)
}

func TestCheckoutSetPaymentMethodRejectsUnknown(t *testing.T) {
	f := newCheckoutFixture(t, true)
	var vErr *ValidationError
	err := f.svc.SetPaymentMethod(7, "barter")
	assert.ErrorAs(t, err, &vErr)
}

func TestCheckoutEndDropsSession(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.fillCart(t, 7)
	f.svc.Begin(context.Background(), 7)
	f.svc.End(7)

	// a fresh session starts over in loading
	assert.Equal(t, StateLoading, f.svc.View(7).State)
}
