package http

import "github.com/gin-gonic/gin"

// RegisterCarRoutes registra las rutas HTTP del explorador de coches.
func RegisterCarRoutes(r *gin.Engine, handler *CarHandler) {
	sessions := r.Group("/explorer/sessions")
	{
		sessions.POST("", handler.OpenSession)                 // Nueva sesión con valores por defecto
		sessions.GET("/:id", handler.GetSession)               // Vista actual
		sessions.PUT("/:id/filters", handler.SetFilters)       // Reemplazar filtros
		sessions.PATCH("/:id/filters/:key", handler.SetFilter) // Cambiar un filtro
		sessions.DELETE("/:id/filters", handler.ClearFilters)  // Limpiar filtros
		sessions.POST("/:id/sort", handler.SortBy)             // Ordenar por columna
		sessions.POST("/:id/page", handler.GoToPage)           // Cambiar de página
		sessions.GET("/:id/export", handler.DownloadExport)    // Descargar CSV/JSON
		sessions.POST("/:id/export", handler.SaveExport)       // Guardar en EXPORT_DIR
	}

	dataset := r.Group("/dataset")
	{
		dataset.POST("/refresh", handler.RefreshDataset)
		dataset.GET("/status", handler.DatasetStatus)
	}

	r.GET("/features", handler.FeatureOptions)
	r.POST("/predict", handler.Predict)
	r.GET("/dashboard", handler.Dashboard)
	r.GET("/dashboard/insights", handler.Insights)
	r.GET("/notifications", handler.Notifications)
}
