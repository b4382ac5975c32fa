package controllers

import (
	"errors"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/pkg/resp"
	"github.com/Pirategrand/savory-cart-portal/repository"
	"github.com/Pirategrand/savory-cart-portal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OwnerMenuController manages a restaurant's food items (admin portal).
type OwnerMenuController struct {
	Repo *repository.RestaurantRepository
}

func NewOwnerMenuController(repo *repository.RestaurantRepository) *OwnerMenuController {
	return &OwnerMenuController{Repo: repo}
}

func (h *OwnerMenuController) ownedRestaurant(c *gin.Context) (uint, bool) {
	restID, ok := paramID(c, "id")
	if !ok {
		return 0, false
	}
	owned, err := h.Repo.IsOwnedBy(restID, utils.CurrentUserID(c))
	if err != nil {
		resp.ServerError(c, err)
		return 0, false
	}
	if !owned {
		resp.Forbidden(c, "not your restaurant")
		return 0, false
	}
	return restID, true
}

// GET /partner/restaurants/:id/menu
func (h *OwnerMenuController) List(c *gin.Context) {
	restID, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	items, err := h.Repo.ListFoodItems(restID)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, items)
}

type foodItemReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Price       string `json:"price" binding:"required"`
	Category    string `json:"category"`
	Popular     bool   `json:"popular"`
	DietaryType string `json:"dietaryType"`

	Nutrition *entity.NutritionalInfo `json:"nutritionalInfo"`

	Options []struct {
		Name    string `json:"name" binding:"required"`
		Choices []struct {
			Label      string `json:"label" binding:"required"`
			PriceDelta string `json:"priceDelta"`
		} `json:"choices" binding:"required,min=1"`
	} `json:"options"`
}

func (r *foodItemReq) toEntity(restID uint) (*entity.FoodItem, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil || !price.IsPositive() {
		return nil, errors.New("invalid price")
	}

	item := &entity.FoodItem{
		Name:         r.Name,
		Description:  r.Description,
		Image:        r.Image,
		Price:        price,
		Category:     r.Category,
		Popular:      r.Popular,
		DietaryType:  entity.DietaryType(r.DietaryType),
		RestaurantID: restID,
		Nutrition:    r.Nutrition,
	}
	for _, g := range r.Options {
		group := entity.CustomizationGroup{Name: g.Name}
		for _, ch := range g.Choices {
			delta := decimal.Zero
			if ch.PriceDelta != "" {
				if delta, err = decimal.NewFromString(ch.PriceDelta); err != nil {
					return nil, errors.New("invalid option price delta")
				}
			}
			group.Choices = append(group.Choices, entity.CustomizationChoice{Label: ch.Label, PriceDelta: delta})
		}
		item.CustomizationGroups = append(item.CustomizationGroups, group)
	}
	return item, nil
}

// POST /partner/restaurants/:id/menu
func (h *OwnerMenuController) Create(c *gin.Context) {
	restID, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}

	var req foodItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item, err := req.toEntity(restID)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Repo.CreateFoodItem(item); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, item)
}

// PATCH /partner/restaurants/:id/menu/:itemId
func (h *OwnerMenuController) Update(c *gin.Context) {
	restID, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}

	existing, err := h.Repo.GetFoodItem(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "food item not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	if existing.RestaurantID != restID {
		resp.Forbidden(c, "item belongs to another restaurant")
		return
	}

	var req foodItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item, err := req.toEntity(restID)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item.ID = existing.ID
	if err := h.Repo.UpdateFoodItem(item); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, item)
}

// DELETE /partner/restaurants/:id/menu/:itemId
func (h *OwnerMenuController) Delete(c *gin.Context) {
	restID, ok := h.ownedRestaurant(c)
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	if err := h.Repo.DeleteFoodItem(restID, itemID); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
