package controllers

import (
	"errors"
	"net/http"

	"github.com/Pirategrand/savory-cart-portal/pkg/resp"
	"github.com/Pirategrand/savory-cart-portal/services"
	"github.com/Pirategrand/savory-cart-portal/utils"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	Svc *services.CheckoutService
}

func NewCheckoutController(svc *services.CheckoutService) *CheckoutController {
	return &CheckoutController{Svc: svc}
}

// GET /checkout
// Runs the bounded loading phase and reports the session state.
func (h *CheckoutController) Begin(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	resp.OK(c, h.Svc.Begin(c.Request.Context(), uid))
}

// GET /checkout/state
func (h *CheckoutController) State(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	resp.OK(c, h.Svc.View(uid))
}

// PUT /checkout/payment-method
func (h *CheckoutController) SetPaymentMethod(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	var body struct {
		Method string `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.SetPaymentMethod(uid, body.Method); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, h.Svc.View(uid))
}

// POST /checkout/submit
// Also serves the manual retry: the client calls it again after a
// terminal error.
func (h *CheckoutController) Submit(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	var form services.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	order, err := h.Svc.Submit(c.Request.Context(), uid, &form)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.Is(err, services.ErrOffline):
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": err.Error(), "offline": true})
		case errors.Is(err, services.ErrSubmitInProgress):
			resp.Conflict(c, err.Error())
		case errors.Is(err, services.ErrEmptyCart):
			resp.BadRequest(c, err.Error())
		case errors.As(err, &verr):
			resp.BadRequest(c, verr.Msg)
		case errors.Is(err, services.ErrSubmitFailed):
			c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error(), "retryable": true})
		default:
			resp.ServerError(c, err)
		}
		return
	}

	resp.Created(c, gin.H{"order": order, "state": h.Svc.View(uid)})
}

// DELETE /checkout
// Session teardown: stops timers, drops deferred updates.
func (h *CheckoutController) End(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	h.Svc.End(uid)
	resp.OK(c, gin.H{"ended": true})
}
