package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/repository"
	"gorm.io/gorm"
)

// StatusPublisher pushes order status changes to subscribed clients.
// The websocket hub implements it; tests use a recorder.
type StatusPublisher interface {
	PublishStatus(order *entity.Order, update *entity.TrackingUpdate)
}

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	RestRepo *repository.RestaurantRepository

	// optional; nil means no realtime fanout
	Publisher StatusPublisher
}

func NewOrderService(db *gorm.DB, repo *repository.OrderRepository, restRepo *repository.RestaurantRepository) *OrderService {
	return &OrderService{DB: db, Repo: repo, RestRepo: restRepo}
}

// PlaceOrderIn carries everything checkout snapshots into an order.
type PlaceOrderIn struct {
	UserID          uint
	RestaurantID    uint
	Lines           []entity.CartLine
	Totals          CartTotals
	DeliveryAddress string
	PaymentMethod   string
}

// Place persists the order with immutable item snapshots and the initial
// tracking entry. Estimated delivery is a flat 40 minutes out.
func (s *OrderService) Place(ctx context.Context, in *PlaceOrderIn) (*entity.Order, error) {
	if len(in.Lines) == 0 {
		return nil, errors.New("order has no items")
	}

	rest, err := s.RestRepo.FindByID(in.RestaurantID)
	if err != nil {
		return nil, errors.New("restaurant not found")
	}

	var order entity.Order
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order = entity.Order{
			UserID:            in.UserID,
			RestaurantID:      rest.ID,
			Status:            entity.StatusPending,
			Subtotal:          in.Totals.Subtotal,
			DeliveryFee:       in.Totals.DeliveryFee,
			Tax:               in.Totals.Tax,
			Total:             in.Totals.Total,
			DeliveryAddress:   in.DeliveryAddress,
			PaymentMethod:     in.PaymentMethod,
			EstimatedDelivery: time.Now().Add(40 * time.Minute),
		}
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}

		for _, l := range in.Lines {
			opts := ""
			if len(l.SelectedOptions) > 0 {
				if b, err := json.Marshal(l.SelectedOptions); err == nil {
					opts = string(b)
				}
			}
			oi := entity.OrderItem{
				OrderID:         order.ID,
				FoodItemID:      l.FoodItem.ID,
				Name:            l.FoodItem.Name,
				Qty:             l.Quantity,
				UnitPrice:       l.FoodItem.Price,
				Total:           LineTotal(l),
				SelectedOptions: opts,
			}
			if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
				return err
			}
		}

		tu := entity.TrackingUpdate{
			OrderID:     order.ID,
			Status:      entity.StatusPending,
			Description: "Order placed, waiting for the restaurant to confirm",
			RecordedAt:  time.Now(),
		}
		return s.Repo.AppendTracking(tx, &tu)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ---------------- Customer views ----------------

func (s *OrderService) ListForUser(userID uint, limit int) ([]repository.OrderSummary, error) {
	return s.Repo.ListOrdersForUser(userID, limit)
}

func (s *OrderService) DetailForUser(userID, orderID uint) (*entity.Order, error) {
	return s.Repo.GetOrderForUser(userID, orderID)
}

// ---------------- Owner views ----------------

type OwnerOrderListOut struct {
	Items []repository.OwnerOrderSummary `json:"items"`
	Total int64                          `json:"total"`
	Page  int                            `json:"page"`
	Limit int                            `json:"limit"`
}

var ErrForbidden = errors.New("forbidden")

func (s *OrderService) ListForRestaurant(userID, restID uint, status *entity.OrderStatus, page, limit int) (*OwnerOrderListOut, error) {
	ok, err := s.RestRepo.IsOwnedBy(restID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	items, total, err := s.Repo.ListOrdersForRestaurant(restID, status, page, limit)
	if err != nil {
		return nil, err
	}
	return &OwnerOrderListOut{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *OrderService) DetailForRestaurant(userID, restID, orderID uint) (*entity.Order, error) {
	ok, err := s.RestRepo.IsOwnedBy(restID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return s.Repo.GetOrderForRestaurant(restID, orderID)
}
