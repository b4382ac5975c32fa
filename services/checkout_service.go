package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Pirategrand/savory-cart-portal/entity"
)

// CheckoutState is the per-user checkout screen state machine.
type CheckoutState string

const (
	StateOffline    CheckoutState = "offline"
	StateLoading    CheckoutState = "loading"
	StateEmptyCart  CheckoutState = "empty_cart"
	StateReady      CheckoutState = "ready"
	StateProcessing CheckoutState = "processing"
	StateError      CheckoutState = "error"
)

// Payment method descriptors as stored on orders.
const (
	MethodCreditCard = "credit_card"
	MethodCash       = "cash"
	MethodCashApp    = "cashapp"
)

var (
	ErrOffline          = errors.New("offline: connection unavailable")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrSubmitFailed     = errors.New("order submission failed")
)

// ValidationError blocks a submit before any network call.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// ConnectivityMonitor reports whether the backend is reachable.
type ConnectivityMonitor interface {
	Online() bool
}

// OrderPlacer persists a validated order. OrderService implements it;
// tests substitute failures.
type OrderPlacer interface {
	Place(ctx context.Context, in *PlaceOrderIn) (*entity.Order, error)
}

// ProfileFetcher loads the user's saved profile to prefill the form.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, userID uint) (*entity.User, error)
}

// CheckoutForm is the delivery + payment detail payload.
type CheckoutForm struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`

	RestaurantID uint `json:"restaurantId"`

	CardNumber string `json:"cardNumber,omitempty"`
	CardExpiry string `json:"cardExpiry,omitempty"`
	CardCVV    string `json:"cardCvv,omitempty"`
}

// CheckoutTunables are the defensive timeouts and retry bounds. Zero
// values fall back to the storefront defaults.
type CheckoutTunables struct {
	ReadyTimeout     time.Duration // overall readiness cap (10s)
	ProfileWait      time.Duration // profile fetch cap (3s)
	CartLoad         time.Duration // cart fetch cap (2s)
	SubmitTimeout    time.Duration // per-attempt cap (10s)
	SubmitBackoff    time.Duration // between attempts (2s)
	MaxAttempts      int           // auto retries (3)
	ProcessingSafety time.Duration // stuck-processing net (15s)
}

func (t *CheckoutTunables) fill() {
	if t.ReadyTimeout <= 0 {
		t.ReadyTimeout = 10 * time.Second
	}
	if t.ProfileWait <= 0 {
		t.ProfileWait = 3 * time.Second
	}
	if t.CartLoad <= 0 {
		t.CartLoad = 2 * time.Second
	}
	if t.SubmitTimeout <= 0 {
		t.SubmitTimeout = 10 * time.Second
	}
	if t.SubmitBackoff <= 0 {
		t.SubmitBackoff = 2 * time.Second
	}
	if t.MaxAttempts <= 0 {
		t.MaxAttempts = 3
	}
	if t.ProcessingSafety <= 0 {
		t.ProcessingSafety = 15 * time.Second
	}
}

type checkoutSession struct {
	State     CheckoutState
	Method    string
	LastError string

	processing bool
	safety     *time.Timer
	alive      bool // cleared on End; deferred updates check it
}

// CheckoutService orchestrates the checkout screen for every user:
// readiness, validation, bounded-retry submission and the interplay
// with the alternate payment flow.
type CheckoutService struct {
	Carts    *CartService
	Payments *PaymentService
	Placer   OrderPlacer
	Users    ProfileFetcher
	Monitor  ConnectivityMonitor
	Tun      CheckoutTunables

	mu       sync.Mutex
	sessions map[uint]*checkoutSession
}

func NewCheckoutService(carts *CartService, payments *PaymentService, placer OrderPlacer, users ProfileFetcher, monitor ConnectivityMonitor, tun CheckoutTunables) *CheckoutService {
	tun.fill()
	return &CheckoutService{
		Carts:    carts,
		Payments: payments,
		Placer:   placer,
		Users:    users,
		Monitor:  monitor,
		Tun:      tun,
		sessions: make(map[uint]*checkoutSession),
	}
}

func (s *CheckoutService) session(uid uint) *checkoutSession {
	if sess, ok := s.sessions[uid]; ok {
		return sess
	}
	sess := &checkoutSession{State: StateLoading, Method: MethodCreditCard, alive: true}
	s.sessions[uid] = sess
	return sess
}

// SessionView is the snapshot handed to the UI.
type SessionView struct {
	State            CheckoutState `json:"state"`
	PaymentMethod    string        `json:"paymentMethod"`
	PaymentCompleted bool          `json:"paymentCompleted"`
	LastError        string        `json:"lastError,omitempty"`
}

func (s *CheckoutService) View(uid uint) SessionView {
	s.mu.Lock()
	sess := s.session(uid)
	v := SessionView{State: sess.State, PaymentMethod: sess.Method, LastError: sess.LastError}
	s.mu.Unlock()
	v.PaymentCompleted = s.Payments.Completed(uid)
	return v
}

// Begin runs the bounded loading phase: the form is declared ready as
// soon as the profile OR the cart arrives, or the overall timeout
// fires, so the UI never blocks indefinitely on a slow dependency.
func (s *CheckoutService) Begin(ctx context.Context, uid uint) SessionView {
	if !s.Monitor.Online() {
		s.setState(uid, StateOffline)
		return s.View(uid)
	}
	s.setState(uid, StateLoading)

	done := make(chan struct{}, 2)
	go func() {
		pctx, cancel := context.WithTimeout(ctx, s.Tun.ProfileWait)
		defer cancel()
		_, _ = s.Users.FetchProfile(pctx, uid)
		done <- struct{}{}
	}()
	go func() {
		cctx, cancel := context.WithTimeout(ctx, s.Tun.CartLoad)
		defer cancel()
		_ = s.Carts.Load(cctx, uid)
		done <- struct{}{}
	}()

	timer := time.NewTimer(s.Tun.ReadyTimeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	case <-ctx.Done():
	}

	cart := s.Carts.Load(ctx, uid)
	if len(cart.Lines) == 0 {
		s.setState(uid, StateEmptyCart)
	} else {
		s.setState(uid, StateReady)
	}
	return s.View(uid)
}

func (s *CheckoutService) setState(uid uint, st CheckoutState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(uid)
	if !sess.alive {
		return
	}
	sess.State = st
}

// SetPaymentMethod records the selection. Moving away from the
// alternate flow resets its completion flag, whatever state it was in.
func (s *CheckoutService) SetPaymentMethod(uid uint, method string) error {
	switch method {
	case MethodCreditCard, MethodCash, MethodCashApp:
	default:
		return &ValidationError{Msg: fmt.Sprintf("unknown payment method %q", method)}
	}

	s.mu.Lock()
	sess := s.session(uid)
	prev := sess.Method
	sess.Method = method
	s.mu.Unlock()

	if prev == MethodCashApp && method != MethodCashApp {
		s.Payments.ResetFlow(uid)
	}
	return nil
}

func (s *CheckoutService) validate(uid uint, form *CheckoutForm, method string) error {
	if form.Name == "" || form.Phone == "" || form.Address == "" {
		return &ValidationError{Msg: "name, phone and address are required"}
	}
	switch method {
	case MethodCreditCard:
		if s.Payments.Completed(uid) {
			return nil // alternate flow already paid
		}
		if form.CardNumber == "" || form.CardExpiry == "" || form.CardCVV == "" {
			return &ValidationError{Msg: "card number, expiry and CVV are required"}
		}
	case MethodCashApp:
		if !s.Payments.Completed(uid) {
			return &ValidationError{Msg: "complete the payment before placing the order"}
		}
	}
	return nil
}

// Submit runs the full submission pipeline: offline gate, overlap
// guard, validation, then up to MaxAttempts tries with SubmitBackoff in
// between. All failures exhaust into StateError with a manual retry
// affordance; success clears the cart and resets the payment flow.
func (s *CheckoutService) Submit(ctx context.Context, uid uint, form *CheckoutForm) (*entity.Order, error) {
	if !s.Monitor.Online() {
		s.setState(uid, StateOffline)
		return nil, ErrOffline
	}

	// claim the session before any slow work; a concurrent submit for
	// the same user must see processing already set
	s.mu.Lock()
	sess := s.session(uid)
	if sess.processing {
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	sess.processing = true
	method := sess.Method
	s.mu.Unlock()

	if err := s.validate(uid, form, method); err != nil {
		s.releaseClaim(sess)
		return nil, err
	}

	cart := s.Carts.Load(ctx, uid)
	if len(cart.Lines) == 0 {
		s.releaseClaim(sess)
		s.setState(uid, StateEmptyCart)
		return nil, ErrEmptyCart
	}

	s.beginProcessing(uid, sess)
	defer s.endProcessing(uid, sess)

	in := &PlaceOrderIn{
		UserID:          uid,
		RestaurantID:    s.restaurantFor(cart, form),
		Lines:           cart.Lines,
		Totals:          Totals(cart.Lines, cart.DeliveryFee),
		DeliveryAddress: form.Address,
		PaymentMethod:   method,
	}

	var lastErr error
	for attempt := 1; attempt <= s.Tun.MaxAttempts; attempt++ {
		actx, cancel := context.WithTimeout(ctx, s.Tun.SubmitTimeout)
		order, err := s.Placer.Place(actx, in)
		cancel()
		if err == nil {
			_ = s.Carts.Clear(ctx, uid)
			s.Payments.ResetFlow(uid)
			s.mu.Lock()
			sess.LastError = ""
			s.mu.Unlock()
			s.setState(uid, StateReady)
			return order, nil
		}
		lastErr = err
		if attempt < s.Tun.MaxAttempts {
			select {
			case <-time.After(s.Tun.SubmitBackoff):
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = s.Tun.MaxAttempts
			}
		}
	}

	s.mu.Lock()
	sess.LastError = lastErr.Error()
	s.mu.Unlock()
	s.setState(uid, StateError)
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrSubmitFailed, s.Tun.MaxAttempts, lastErr)
}

func (s *CheckoutService) restaurantFor(cart *Cart, form *CheckoutForm) uint {
	if form.RestaurantID != 0 {
		return form.RestaurantID
	}
	if len(cart.Lines) > 0 {
		return cart.Lines[0].FoodItem.RestaurantID
	}
	return 0
}

// releaseClaim undoes the Submit claim on a pre-flight exit.
func (s *CheckoutService) releaseClaim(sess *checkoutSession) {
	s.mu.Lock()
	sess.processing = false
	s.mu.Unlock()
}

// beginProcessing flips the already-claimed session into the visible
// processing state and arms the safety timer.
func (s *CheckoutService) beginProcessing(uid uint, sess *checkoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.State = StateProcessing
	// safety net: never leave the button stuck on "Processing"
	sess.safety = time.AfterFunc(s.Tun.ProcessingSafety, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sess.alive && sess.processing {
			sess.processing = false
			sess.State = StateError
			sess.LastError = "request timed out"
		}
	})
}

func (s *CheckoutService) endProcessing(uid uint, sess *checkoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.processing = false
	if sess.safety != nil {
		sess.safety.Stop()
		sess.safety = nil
	}
	if sess.State == StateProcessing {
		sess.State = StateReady
	}
}

// End tears down a session: pending timers are stopped and any deferred
// state update becomes a no-op.
func (s *CheckoutService) End(uid uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[uid]; ok {
		sess.alive = false
		if sess.safety != nil {
			sess.safety.Stop()
		}
		delete(s.sessions, uid)
	}
}
