package http

import "github.com/gin-gonic/gin"

func RegisterSettingsRoutes(r *gin.Engine, handler *SettingsHandler) {
	settings := r.Group("/settings")
	{
		settings.GET("", handler.GetSettings)
		settings.PUT("", handler.SaveSettings)
		settings.DELETE("", handler.ResetSettings)
	}
}
