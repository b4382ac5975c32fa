package services

import (
	"errors"
	"time"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"gorm.io/gorm"
)

var ErrInvalidTransition = errors.New("invalid_or_conflict")

var transitionNotes = map[entity.OrderStatus]string{
	entity.StatusConfirmed:      "Restaurant confirmed your order",
	entity.StatusPreparing:      "Your food is being prepared",
	entity.StatusReadyForPickup: "Order is packed and ready for pickup",
	entity.StatusOutForDelivery: "Your order is on its way",
	entity.StatusDelivered:      "Delivered. Enjoy!",
}

// Advance moves an order to `to`, which must be exactly the next stage.
// The status column CAS rejects stale or concurrent transitions; a
// delivery partner is attached when the order leaves for delivery.
func (s *OrderService) Advance(ownerID, orderID uint, to entity.OrderStatus) error {
	if !to.Valid() {
		return ErrInvalidTransition
	}

	var updated *entity.Order
	var tracking *entity.TrackingUpdate

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.GetOrder(orderID)
		if err != nil {
			return err
		}
		ok, err := s.RestRepo.IsOwnedBy(o.RestaurantID, ownerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrForbidden
		}

		if o.Status.Next() != to {
			return ErrInvalidTransition
		}

		affected, err := s.Repo.UpdateStatusGuard(tx, o.ID, o.Status, to)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidTransition
		}

		if to == entity.StatusOutForDelivery && o.DeliveryPartnerID == nil {
			if p, err := s.Repo.PickAvailablePartner(); err == nil && p != nil {
				if err := s.Repo.AssignDeliveryPartner(tx, o.ID, p.ID); err != nil {
					return err
				}
				o.DeliveryPartnerID = &p.ID
				o.DeliveryPartner = p
			}
		}

		tu := entity.TrackingUpdate{
			OrderID:     o.ID,
			Status:      to,
			Description: transitionNotes[to],
			RecordedAt:  time.Now(),
		}
		if err := s.Repo.AppendTracking(tx, &tu); err != nil {
			return err
		}

		o.Status = to
		updated = o
		tracking = &tu
		return nil
	})
	if err != nil {
		return err
	}

	if s.Publisher != nil {
		s.Publisher.PublishStatus(updated, tracking)
	}
	return nil
}
