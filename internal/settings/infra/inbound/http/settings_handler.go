package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/carexplorer/internal/settings/application"
	"github.com/davicafu/carexplorer/internal/settings/domain"
	"github.com/davicafu/carexplorer/pkg/utils"
)

// SettingsHandler encapsula los endpoints HTTP de ajustes.
type SettingsHandler struct {
	service *application.SettingsService
}

func NewSettingsHandler(service *application.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetSettings endpoint GET /settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	s, err := h.service.Get(c.Request.Context())
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, s)
}

// SaveSettings endpoint PUT /settings
// Los campos ausentes del body toman el valor por defecto.
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	req := h.service.Defaults()
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	s, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSettings) {
			utils.SendBadRequest(c, err.Error())
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, s)
}

// ResetSettings endpoint DELETE /settings
func (h *SettingsHandler) ResetSettings(c *gin.Context) {
	s, err := h.service.Reset(c.Request.Context())
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, s)
}
