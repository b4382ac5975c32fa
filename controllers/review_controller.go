package controllers

import (
	"errors"

	"github.com/Pirategrand/savory-cart-portal/pkg/resp"
	"github.com/Pirategrand/savory-cart-portal/services"
	"github.com/Pirategrand/savory-cart-portal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReviewController struct {
	Svc *services.ReviewService
}

func NewReviewController(svc *services.ReviewService) *ReviewController {
	return &ReviewController{Svc: svc}
}

// GET /restaurants/:id/reviews
// Public; when the caller is logged in their own votes are marked.
func (h *ReviewController) ListForRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	reviews, err := h.Svc.ListForRestaurant(id, utils.CurrentUserID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, reviews)
}

// POST /reviews
func (h *ReviewController) Create(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	var req services.ReviewIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	rev, created, err := h.Svc.CreateOrUpdate(uid, &req)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if created {
		resp.Created(c, rev)
		return
	}
	resp.OK(c, rev)
}

// DELETE /reviews/:id
func (h *ReviewController) Delete(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Svc.Delete(uid, id); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			resp.Forbidden(c, "not your review")
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "review not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}

// POST /reviews/:id/vote, toggles the caller's helpful vote
func (h *ReviewController) ToggleVote(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	voted, err := h.Svc.ToggleVote(uid, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "review not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"voted": voted})
}
