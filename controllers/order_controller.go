package controllers

import (
	"errors"
	"strconv"

	"github.com/Pirategrand/savory-cart-portal/pkg/resp"
	"github.com/Pirategrand/savory-cart-portal/services"
	"github.com/Pirategrand/savory-cart-portal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderController struct {
	Svc *services.OrderService
}

func NewOrderController(svc *services.OrderService) *OrderController {
	return &OrderController{Svc: svc}
}

// GET /orders
func (h *OrderController) ListForMe(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	orders, err := h.Svc.ListForUser(uid, limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, orders)
}

// GET /orders/:id
func (h *OrderController) Detail(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.Svc.DetailForUser(uid, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "order not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, order)
}

// GET /orders/:id/tracking
// Read-only progress view: discrete stages plus the partner card while
// the order is on the road.
func (h *OrderController) Tracking(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := h.Svc.DetailForUser(uid, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "order not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, services.BuildTrackingView(order))
}
