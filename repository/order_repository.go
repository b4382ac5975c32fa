package repository

import (
	"strings"
	"time"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

func (r *OrderRepository) GetOrder(orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderSummary is the customer order-history row.
type OrderSummary struct {
	ID           uint               `json:"id"`
	RestaurantID uint               `json:"restaurantId"`
	Total        decimal.Decimal    `json:"total"`
	Status       entity.OrderStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForUser(userID uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []OrderSummary
	err := r.DB.Model(&entity.Order{}).
		Select("id, restaurant_id, total, status, created_at").
		Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *OrderRepository) GetOrderForUser(userID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Where("id = ? AND user_id = ?", orderID, userID).
		Preload("Items").
		Preload("TrackingUpdates", func(db *gorm.DB) *gorm.DB {
			return db.Order("recorded_at ASC")
		}).
		Preload("DeliveryPartner").
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// OwnerOrderSummary is one row of the restaurant-admin order list.
type OwnerOrderSummary struct {
	ID           uint               `json:"id"`
	UserID       uint               `json:"userId"`
	CustomerName string             `json:"customerName"`
	Total        decimal.Decimal    `json:"total"`
	Status       entity.OrderStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForRestaurant(restID uint, status *entity.OrderStatus, page, limit int) ([]OwnerOrderSummary, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int64
	dbCount := r.DB.Table("orders AS o").Where("o.restaurant_id = ? AND o.deleted_at IS NULL", restID)
	if status != nil && *status != "" {
		dbCount = dbCount.Where("o.status = ?", *status)
	}
	if err := dbCount.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []struct {
		ID        uint
		UserID    uint
		Total     decimal.Decimal
		Status    entity.OrderStatus
		CreatedAt time.Time
		FirstName string
		LastName  string
	}
	db := r.DB.Table("orders AS o").
		Select("o.id, o.user_id, o.total, o.status, o.created_at, u.first_name, u.last_name").
		Joins("JOIN users u ON u.id = o.user_id").
		Where("o.restaurant_id = ? AND o.deleted_at IS NULL", restID)
	if status != nil && *status != "" {
		db = db.Where("o.status = ?", *status)
	}
	if err := db.Order("o.id DESC").Limit(limit).Offset(offset).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]OwnerOrderSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, OwnerOrderSummary{
			ID:           row.ID,
			UserID:       row.UserID,
			CustomerName: strings.TrimSpace(row.FirstName + " " + row.LastName),
			Total:        row.Total,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
		})
	}
	return out, total, nil
}

func (r *OrderRepository) GetOrderForRestaurant(restID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Where("id = ? AND restaurant_id = ?", orderID, restID).
		Preload("Items").
		Preload("DeliveryPartner").
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ---------------- Status transitions ----------------

// UpdateStatusGuard advances status only when the order is still at
// `from`; the compare-and-swap keeps concurrent admin clicks from
// skipping or repeating stages.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to entity.OrderStatus) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) AppendTracking(tx *gorm.DB, tu *entity.TrackingUpdate) error {
	return tx.Create(tu).Error
}

func (r *OrderRepository) AssignDeliveryPartner(tx *gorm.DB, orderID, partnerID uint) error {
	return tx.Model(&entity.Order{}).
		Where("id = ?", orderID).
		Update("delivery_partner_id", partnerID).Error
}

// PickAvailablePartner grabs any free delivery partner; nil when none.
func (r *OrderRepository) PickAvailablePartner() (*entity.DeliveryPartner, error) {
	var p entity.DeliveryPartner
	err := r.DB.Where("available = ?", true).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
