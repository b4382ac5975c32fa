package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// FlowState is the alternate ("cashapp") payment flow state machine:
// idle → intent_created → qr_shown → scanned → authorized | failed.
type FlowState string

const (
	FlowIdle          FlowState = "idle"
	FlowIntentCreated FlowState = "intent_created"
	FlowQRShown       FlowState = "qr_shown"
	FlowScanned       FlowState = "scanned"
	FlowAuthorized    FlowState = "authorized"
	FlowFailed        FlowState = "failed"
)

var ErrBadFlowState = errors.New("payment flow: operation not valid in current state")

// PaymentFlow tracks one user's in-progress alternate payment.
type PaymentFlow struct {
	State    FlowState `json:"state"`
	IntentID string    `json:"intentId,omitempty"`
}

type PaymentService struct {
	DB    *gorm.DB
	Delay time.Duration // simulated provider processing delay

	mu    sync.Mutex
	flows map[uint]*PaymentFlow
}

func NewPaymentService(db *gorm.DB, delay time.Duration) *PaymentService {
	return &PaymentService{DB: db, Delay: delay, flows: make(map[uint]*PaymentFlow)}
}

// ---------------- Intent operations (provider contract) ----------------

func (s *PaymentService) CreateIntent(amount decimal.Decimal, email string) (*entity.PaymentIntent, error) {
	if !amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	intent := &entity.PaymentIntent{
		ID:     uuid.NewString(),
		Amount: amount,
		Email:  email,
		Status: entity.IntentCreated,
	}
	if err := s.DB.Create(intent).Error; err != nil {
		return nil, err
	}
	return intent, nil
}

func (s *PaymentService) UpdateStatus(id string, status entity.PaymentIntentStatus) error {
	switch status {
	case entity.IntentCreated, entity.IntentProcessing, entity.IntentSucceeded, entity.IntentFailed:
	default:
		return fmt.Errorf("unknown intent status %q", status)
	}
	res := s.DB.Model(&entity.PaymentIntent{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *PaymentService) CheckStatus(id string) (entity.PaymentIntentStatus, error) {
	var intent entity.PaymentIntent
	if err := s.DB.First(&intent, "id = ?", id).Error; err != nil {
		return "", err
	}
	return intent.Status, nil
}

// ---------------- Flow state machine ----------------

func (s *PaymentService) flowFor(uid uint) *PaymentFlow {
	if f, ok := s.flows[uid]; ok {
		return f
	}
	f := &PaymentFlow{State: FlowIdle}
	s.flows[uid] = f
	return f
}

// Flow returns a copy of the user's current flow state.
func (s *PaymentService) Flow(uid uint) PaymentFlow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.flowFor(uid)
}

// StartFlow requests a payment intent; failure leaves the flow in idle.
func (s *PaymentService) StartFlow(uid uint, amount decimal.Decimal, email string) (*entity.PaymentIntent, error) {
	s.mu.Lock()
	f := s.flowFor(uid)
	if f.State != FlowIdle && f.State != FlowFailed {
		s.mu.Unlock()
		return nil, ErrBadFlowState
	}
	f.State = FlowIdle
	s.mu.Unlock()

	intent, err := s.CreateIntent(amount, email)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	f.State = FlowIntentCreated
	f.IntentID = intent.ID
	s.mu.Unlock()
	return intent, nil
}

// ShowQR renders the scannable code for the current intent as a PNG.
func (s *PaymentService) ShowQR(uid uint) ([]byte, error) {
	s.mu.Lock()
	f := s.flowFor(uid)
	if f.State != FlowIntentCreated && f.State != FlowQRShown {
		s.mu.Unlock()
		return nil, ErrBadFlowState
	}
	intentID := f.IntentID
	f.State = FlowQRShown
	s.mu.Unlock()

	return qrcode.Encode("savory://pay/"+intentID, qrcode.Medium, 256)
}

// Scan simulates the mobile scan. No network effect.
func (s *PaymentService) Scan(uid uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flowFor(uid)
	if f.State != FlowQRShown {
		return ErrBadFlowState
	}
	f.State = FlowScanned
	return nil
}

// Resolve settles a scanned payment after the simulated provider delay.
// Failure is terminal for the attempt; the caller must restart the flow.
func (s *PaymentService) Resolve(uid uint, authorize bool) error {
	s.mu.Lock()
	f := s.flowFor(uid)
	if f.State != FlowScanned {
		s.mu.Unlock()
		return ErrBadFlowState
	}
	intentID := f.IntentID
	s.mu.Unlock()

	time.Sleep(s.Delay)

	status := entity.IntentSucceeded
	next := FlowAuthorized
	if !authorize {
		status = entity.IntentFailed
		next = FlowFailed
	}
	if err := s.UpdateStatus(intentID, status); err != nil {
		return err
	}

	s.mu.Lock()
	f.State = next
	s.mu.Unlock()

	if !authorize {
		return errors.New("payment failed")
	}
	return nil
}

// Completed reports whether the alternate flow finished successfully.
func (s *PaymentService) Completed(uid uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flowFor(uid).State == FlowAuthorized
}

// ResetFlow returns the flow to idle. Called when the outer payment
// method selection changes away while the flow is incomplete, and after
// a successful order submission.
func (s *PaymentService) ResetFlow(uid uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[uid] = &PaymentFlow{State: FlowIdle}
}
