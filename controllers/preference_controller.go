package controllers

import (
	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/Pirategrand/savory-cart-portal/pkg/resp"
	"github.com/Pirategrand/savory-cart-portal/services"
	"github.com/Pirategrand/savory-cart-portal/utils"

	"github.com/gin-gonic/gin"
)

type PreferenceController struct {
	Svc *services.PreferenceService
}

func NewPreferenceController(svc *services.PreferenceService) *PreferenceController {
	return &PreferenceController{Svc: svc}
}

// GET /preferences/dietary
func (h *PreferenceController) GetDietary(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	resp.OK(c, h.Svc.Dietary(c.Request.Context(), uid))
}

// PUT /preferences/dietary
func (h *PreferenceController) SetDietary(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	var prefs entity.DietaryPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.SetDietary(c.Request.Context(), uid, prefs); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, prefs)
}

// GET /preferences/language
func (h *PreferenceController) GetLanguage(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	resp.OK(c, gin.H{"language": h.Svc.Language(c.Request.Context(), uid)})
}

// PUT /preferences/language
func (h *PreferenceController) SetLanguage(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		resp.Unauthorized(c, "unauthorized")
		return
	}

	var body struct {
		Language string `json:"language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.Svc.SetLanguage(c.Request.Context(), uid, body.Language); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, gin.H{"language": body.Language})
}
