package controllers

import (
	"errors"
	"strconv"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/pkg/resp"
	"github.com/Pirategrand/savory-cart-portal/services"
	"github.com/Pirategrand/savory-cart-portal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OwnerOrderController is the restaurant-admin side of order handling:
// queue listing, detail and the forward-only status transitions.
type OwnerOrderController struct {
	Svc *services.OrderService
}

func NewOwnerOrderController(svc *services.OrderService) *OwnerOrderController {
	return &OwnerOrderController{Svc: svc}
}

// GET /partner/restaurants/:id/orders?status=&page=&limit=
func (h *OwnerOrderController) List(c *gin.Context) {
	restID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var status *entity.OrderStatus
	if raw := c.Query("status"); raw != "" {
		st := entity.NormalizeStatus(raw)
		if !st.Valid() {
			resp.BadRequest(c, "unknown status")
			return
		}
		status = &st
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	out, err := h.Svc.ListForRestaurant(utils.CurrentUserID(c), restID, status, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			resp.Forbidden(c, "not your restaurant")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /partner/restaurants/:id/orders/:oid
func (h *OwnerOrderController) Detail(c *gin.Context) {
	restID, ok := paramID(c, "id")
	if !ok {
		return
	}
	orderID, ok := paramID(c, "oid")
	if !ok {
		return
	}

	order, err := h.Svc.DetailForRestaurant(utils.CurrentUserID(c), restID, orderID)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			resp.Forbidden(c, "not your restaurant")
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "order not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, order)
}

// PATCH /partner/orders/:id/status {"status": "<next stage>"}
func (h *OwnerOrderController) Advance(c *gin.Context) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	to := entity.NormalizeStatus(body.Status)
	err := h.Svc.Advance(utils.CurrentUserID(c), orderID, to)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			resp.Forbidden(c, "not your restaurant")
		case errors.Is(err, services.ErrInvalidTransition):
			resp.Conflict(c, "transition not allowed from the current status")
		case errors.Is(err, gorm.ErrRecordNotFound):
			resp.NotFound(c, "order not found")
		default:
			resp.ServerError(c, err)
		}
		return
	}
	resp.OK(c, gin.H{"status": to})
}
