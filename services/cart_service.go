package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/pkg/kv"
	"github.com/shopspring/decimal"
)

// Cart is the in-memory view of a user's persisted cart. The store copy
// is best-effort; this value stays authoritative when a write fails.
type Cart struct {
	Lines       []entity.CartLine `json:"lines"`
	DeliveryFee decimal.Decimal   `json:"deliveryFee"`

	// Expired is set once when a stale cart was discarded on load, so
	// the caller can tell the user.
	Expired bool `json:"expired,omitempty"`
}

type CartService struct {
	Store kv.Store
	TTL   time.Duration
	Fee   decimal.Decimal // default delivery fee
}

func NewCartService(store kv.Store, ttl time.Duration, defaultFee decimal.Decimal) *CartService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CartService{Store: store, TTL: ttl, Fee: defaultFee}
}

func cartKey(uid uint) string  { return fmt.Sprintf("cart:%d", uid) }
func stampKey(uid uint) string { return fmt.Sprintf("cart-timestamp:%d", uid) }
func feeKey(uid uint) string   { return fmt.Sprintf("delivery-fee:%d", uid) }

// Load reads the stored cart. Corrupt JSON or individual bad entries are
// dropped silently; a cart older than the TTL is discarded whole and
// flagged so the UI can notify.
func (s *CartService) Load(ctx context.Context, uid uint) *Cart {
	cart := &Cart{DeliveryFee: s.deliveryFee(ctx, uid)}

	if raw, err := s.Store.Get(ctx, stampKey(uid)); err == nil {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && time.Since(time.UnixMilli(ms)) > s.TTL {
			_ = s.Store.Del(ctx, cartKey(uid), stampKey(uid))
			cart.Expired = true
			return cart
		}
	}

	raw, err := s.Store.Get(ctx, cartKey(uid))
	if err != nil {
		return cart
	}

	// element-wise decode: one malformed entry must not reject the rest
	var rawLines []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rawLines); err != nil {
		_ = s.Store.Del(ctx, cartKey(uid), stampKey(uid))
		return cart
	}
	for _, rl := range rawLines {
		var line entity.CartLine
		if err := json.Unmarshal(rl, &line); err != nil {
			continue
		}
		if !line.Valid() {
			continue
		}
		cart.Lines = append(cart.Lines, line)
	}
	return cart
}

func (s *CartService) deliveryFee(ctx context.Context, uid uint) decimal.Decimal {
	raw, err := s.Store.Get(ctx, feeKey(uid))
	if err != nil {
		return s.Fee
	}
	fee, err := decimal.NewFromString(raw)
	if err != nil || fee.IsNegative() {
		return s.Fee
	}
	return fee
}

// persist rewrites the whole cart and refreshes the timestamp.
func (s *CartService) persist(ctx context.Context, uid uint, lines []entity.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := s.Store.Set(ctx, cartKey(uid), string(data), s.TTL); err != nil {
		return err
	}
	return s.Store.Set(ctx, stampKey(uid), now, s.TTL)
}

// Add appends a new line. The returned error is a persistence warning
// only; the returned cart already contains the line either way.
func (s *CartService) Add(ctx context.Context, uid uint, item entity.FoodItem, qty int, opts []entity.SelectedOption) (*Cart, error) {
	if qty <= 0 {
		qty = 1
	}
	cart := s.Load(ctx, uid)
	line := entity.CartLine{
		ID:              fmt.Sprintf("%d-%d", item.ID, time.Now().UnixMilli()),
		FoodItem:        item,
		Quantity:        qty,
		SelectedOptions: opts,
	}
	cart.Lines = append(cart.Lines, line)
	return cart, s.persist(ctx, uid, cart.Lines)
}

// ErrLineNotFound is returned when a cart line id is unknown.
var ErrLineNotFound = errors.New("cart line not found")

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, uid uint, lineID string, qty int) (*Cart, error) {
	if qty <= 0 {
		return s.Remove(ctx, uid, lineID)
	}
	cart := s.Load(ctx, uid)
	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ID == lineID {
			cart.Lines[i].Quantity = qty
			found = true
			break
		}
	}
	if !found {
		return cart, ErrLineNotFound
	}
	return cart, s.persist(ctx, uid, cart.Lines)
}

func (s *CartService) Remove(ctx context.Context, uid uint, lineID string) (*Cart, error) {
	cart := s.Load(ctx, uid)
	kept := cart.Lines[:0]
	for _, l := range cart.Lines {
		if l.ID != lineID {
			kept = append(kept, l)
		}
	}
	cart.Lines = kept
	if len(cart.Lines) == 0 {
		// deleting the keys, not writing an empty array
		return cart, s.Store.Del(ctx, cartKey(uid), stampKey(uid))
	}
	return cart, s.persist(ctx, uid, cart.Lines)
}

// Clear removes the storage entries entirely.
func (s *CartService) Clear(ctx context.Context, uid uint) error {
	return s.Store.Del(ctx, cartKey(uid), stampKey(uid))
}

func (s *CartService) SetDeliveryFee(ctx context.Context, uid uint, fee decimal.Decimal) error {
	if fee.IsNegative() {
		return errors.New("delivery fee must not be negative")
	}
	return s.Store.Set(ctx, feeKey(uid), fee.StringFixed(2), 0)
}

// Totals derives the money view for the user's current cart.
func (s *CartService) Totals(ctx context.Context, uid uint) CartTotals {
	cart := s.Load(ctx, uid)
	return Totals(cart.Lines, cart.DeliveryFee)
}
