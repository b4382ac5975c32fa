package controllers

import (
	"errors"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/pkg/resp"
	"github.com/Pirategrand/savory-cart-portal/repository"
	"github.com/Pirategrand/savory-cart-portal/services"
	"github.com/Pirategrand/savory-cart-portal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartController struct {
	Svc      *services.CartService
	RestRepo *repository.RestaurantRepository
}

func NewCartController(svc *services.CartService, restRepo *repository.RestaurantRepository) *CartController {
	return &CartController{Svc: svc, RestRepo: restRepo}
}

// cartPayload always reflects the in-memory cart; persistErr only adds
// a warning so a full store never loses the user's mutation.
func cartPayload(cart *services.Cart, persistErr error) gin.H {
	out := gin.H{
		"cart":   cart,
		"totals": services.Totals(cart.Lines, cart.DeliveryFee),
	}
	if persistErr != nil {
		out["warning"] = "cart could not be saved; changes may not survive a reload"
	}
	return out
}

// GET /cart
func (h *CartController) Get(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	cart := h.Svc.Load(c.Request.Context(), uid)
	out := cartPayload(cart, nil)
	if cart.Expired {
		out["notice"] = "your cart expired and was cleared"
	}
	resp.OK(c, out)
}

type addToCartReq struct {
	FoodItemID uint `json:"foodItemId" binding:"required"`
	Quantity   int  `json:"quantity"`
	Selections []struct {
		Group string `json:"group" binding:"required"`
		Label string `json:"label" binding:"required"`
	} `json:"selections"`
}

// POST /cart/items
func (h *CartController) Add(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	var req addToCartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	item, err := h.RestRepo.GetFoodItem(req.FoodItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "food item not found")
			return
		}
		resp.ServerError(c, err)
		return
	}

	// resolve selections against the menu so price deltas come from the
	// database, never the client
	opts := make([]entity.SelectedOption, 0, len(req.Selections))
	for _, sel := range req.Selections {
		opt, ok := resolveChoice(item, sel.Group, sel.Label)
		if !ok {
			resp.BadRequest(c, "invalid option selection")
			return
		}
		opts = append(opts, opt)
	}

	cart, persistErr := h.Svc.Add(c.Request.Context(), uid, *item, req.Quantity, opts)
	resp.Created(c, cartPayload(cart, persistErr))
}

func resolveChoice(item *entity.FoodItem, group, label string) (entity.SelectedOption, bool) {
	for _, g := range item.CustomizationGroups {
		if g.Name != group {
			continue
		}
		for _, ch := range g.Choices {
			if ch.Label == label {
				return entity.SelectedOption{Group: group, Label: label, PriceDelta: ch.PriceDelta}, true
			}
		}
	}
	return entity.SelectedOption{}, false
}

// PATCH /cart/items
func (h *CartController) UpdateQuantity(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	var body struct {
		LineID string `json:"lineId" binding:"required"`
		Qty    *int   `json:"qty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	cart, err := h.Svc.UpdateQuantity(c.Request.Context(), uid, body.LineID, *body.Qty)
	if errors.Is(err, services.ErrLineNotFound) {
		resp.NotFound(c, err.Error())
		return
	}
	resp.OK(c, cartPayload(cart, err))
}

// POST /cart/items/remove
func (h *CartController) Remove(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	var body struct {
		LineID string `json:"lineId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	cart, persistErr := h.Svc.Remove(c.Request.Context(), uid, body.LineID)
	resp.OK(c, cartPayload(cart, persistErr))
}

// DELETE /cart
func (h *CartController) Clear(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	if err := h.Svc.Clear(c.Request.Context(), uid); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"cleared": true})
}

// PUT /cart/delivery-fee
func (h *CartController) SetDeliveryFee(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	var body struct {
		Fee string `json:"fee" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	fee, err := decimal.NewFromString(body.Fee)
	if err != nil {
		resp.BadRequest(c, "invalid fee")
		return
	}
	if err := h.Svc.SetDeliveryFee(c.Request.Context(), uid, fee); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, gin.H{"deliveryFee": fee.StringFixed(2)})
}
