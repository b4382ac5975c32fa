package controllers

import (
	"errors"
	"net/http"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/pkg/resp"
	"github.com/Pirategrand/savory-cart-portal/services"
	"github.com/Pirategrand/savory-cart-portal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentController struct {
	Svc   *services.PaymentService
	Carts *services.CartService
}

func NewPaymentController(svc *services.PaymentService, carts *services.CartService) *PaymentController {
	return &PaymentController{Svc: svc, Carts: carts}
}

// POST /payments/intents
func (h *PaymentController) CreateIntent(c *gin.Context) {
	var body struct {
		Amount string `json:"amount" binding:"required"`
		Email  string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		resp.BadRequest(c, "invalid amount")
		return
	}
	intent, err := h.Svc.CreateIntent(amount, body.Email)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.Created(c, gin.H{"id": intent.ID})
}

// GET /payments/intents/:id
func (h *PaymentController) CheckStatus(c *gin.Context) {
	status, err := h.Svc.CheckStatus(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "intent not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"status": status})
}

// PATCH /payments/intents/:id
func (h *PaymentController) UpdateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	err := h.Svc.UpdateStatus(c.Param("id"), entity.PaymentIntentStatus(body.Status))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "intent not found")
			return
		}
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, gin.H{"updated": true})
}

// ---------------- Alternate ("cashapp") flow ----------------

// GET /payments/flow
func (h *PaymentController) FlowState(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	resp.OK(c, h.Svc.Flow(uid))
}

// POST /payments/flow/start
// Amount defaults to the caller's current cart total.
func (h *PaymentController) StartFlow(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	totals := h.Carts.Totals(c.Request.Context(), uid)
	intent, err := h.Svc.StartFlow(uid, totals.Total, body.Email)
	if err != nil {
		if errors.Is(err, services.ErrBadFlowState) {
			resp.Conflict(c, err.Error())
			return
		}
		resp.BadRequest(c, err.Error())
		return
	}
	resp.Created(c, gin.H{"intentId": intent.ID, "flow": h.Svc.Flow(uid)})
}

// GET /payments/flow/qr returns the scannable code as a PNG.
func (h *PaymentController) ShowQR(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	png, err := h.Svc.ShowQR(uid)
	if err != nil {
		if errors.Is(err, services.ErrBadFlowState) {
			resp.Conflict(c, err.Error())
			return
		}
		resp.ServerError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// POST /payments/flow/scan
func (h *PaymentController) Scan(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	if err := h.Svc.Scan(uid); err != nil {
		resp.Conflict(c, err.Error())
		return
	}
	resp.OK(c, h.Svc.Flow(uid))
}

// POST /payments/flow/resolve
func (h *PaymentController) Resolve(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	var body struct {
		Outcome string `json:"outcome" binding:"required,oneof=authorize fail"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	err := h.Svc.Resolve(uid, body.Outcome == "authorize")
	if err != nil {
		if errors.Is(err, services.ErrBadFlowState) {
			resp.Conflict(c, err.Error())
			return
		}
		// simulated decline: the flow parked in failed, no auto-retry
		c.JSON(http.StatusPaymentRequired, gin.H{"ok": false, "error": err.Error(), "flow": h.Svc.Flow(uid)})
		return
	}
	resp.OK(c, h.Svc.Flow(uid))
}
