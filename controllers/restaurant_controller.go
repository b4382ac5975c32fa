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

type RestaurantController struct {
	Svc   *services.RestaurantService
	Prefs *services.PreferenceService
}

func NewRestaurantController(svc *services.RestaurantService, prefs *services.PreferenceService) *RestaurantController {
	return &RestaurantController{Svc: svc, Prefs: prefs}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || n == 0 {
		resp.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(n), true
}

// GET /restaurants
func (h *RestaurantController) List(c *gin.Context) {
	rests, err := h.Svc.List()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, rests)
}

// GET /restaurants/:id
func (h *RestaurantController) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rest, items, err := h.Svc.Detail(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "restaurant not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"restaurant": rest, "items": items})
}

// GET /restaurants/:id/menu
// Applies the caller's stored dietary preferences when logged in.
func (h *RestaurantController) Menu(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	prefs := h.Prefs.Dietary(c.Request.Context(), utils.CurrentUserID(c))
	items, err := h.Svc.Menu(id, prefs)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, items)
}
