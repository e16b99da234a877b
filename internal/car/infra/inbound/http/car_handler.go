package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/carexplorer/internal/car/application"
	carDomain "github.com/davicafu/carexplorer/internal/car/domain"
	carEvents "github.com/davicafu/carexplorer/internal/car/infra/inbound/events"
	"github.com/davicafu/carexplorer/pkg/utils"
)

// CarHandler encapsula los endpoints HTTP del explorador, el dashboard y la predicción.
type CarHandler struct {
	explorer    *application.ExplorerService
	sessions    *application.SessionService
	dashboard   *application.DashboardService
	predictions *application.PredictionService
	feed        *carEvents.NotificationFeed
	log         *zap.Logger
}

// NewCarHandler crea un nuevo CarHandler.
func NewCarHandler(
	explorer *application.ExplorerService,
	sessions *application.SessionService,
	dashboard *application.DashboardService,
	predictions *application.PredictionService,
	feed *carEvents.NotificationFeed,
	log *zap.Logger,
) *CarHandler {
	return &CarHandler{
		explorer:    explorer,
		sessions:    sessions,
		dashboard:   dashboard,
		predictions: predictions,
		feed:        feed,
		log:         log,
	}
}

// ---------------- Sesiones del explorador ----------------

// OpenSession endpoint POST /explorer/sessions
func (h *CarHandler) OpenSession(c *gin.Context) {
	view, err := h.sessions.OpenSession(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetSession endpoint GET /explorer/sessions/:id
func (h *CarHandler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.View(c.Request.Context(), id)
	h.respondView(c, view, err)
}

// SetFilters endpoint PUT /explorer/sessions/:id/filters
// El body es un mapa plano clave -> valor; acepta snake_case o camelCase.
func (h *CarHandler) SetFilters(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	raw := carDomain.RawFilters{}
	for key, value := range req {
		var err error
		if raw, err = raw.With(key, value); err != nil {
			h.respondError(c, err)
			return
		}
	}

	view, err := h.sessions.SetFilters(c.Request.Context(), id, raw)
	h.respondView(c, view, err)
}

// SetFilter endpoint PATCH /explorer/sessions/:id/filters/:key?value=
func (h *CarHandler) SetFilter(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.SetFilter(c.Request.Context(), id, c.Param("key"), c.Query("value"))
	h.respondView(c, view, err)
}

// ClearFilters endpoint DELETE /explorer/sessions/:id/filters
func (h *CarHandler) ClearFilters(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.ClearFilters(c.Request.Context(), id)
	h.respondView(c, view, err)
}

// SortBy endpoint POST /explorer/sessions/:id/sort?field=
func (h *CarHandler) SortBy(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.sessions.SortBy(c.Request.Context(), id, c.Query("field"))
	h.respondView(c, view, err)
}

// GoToPage endpoint POST /explorer/sessions/:id/page?page=
func (h *CarHandler) GoToPage(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		utils.SendBadRequest(c, "invalid page")
		return
	}
	view, err := h.sessions.GoToPage(c.Request.Context(), id, page)
	h.respondView(c, view, err)
}

// DownloadExport endpoint GET /explorer/sessions/:id/export?format=
func (h *CarHandler) DownloadExport(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	res, err := h.sessions.Export(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.FileName))
	c.Data(http.StatusOK, res.ContentType, res.Data)
}

// SaveExport endpoint POST /explorer/sessions/:id/export?format=
func (h *CarHandler) SaveExport(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	location, res, err := h.sessions.SaveExport(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"file": location, "records": res.Records})
}

// ---------------- Dataset ----------------

// RefreshDataset endpoint POST /dataset/refresh
func (h *CarHandler) RefreshDataset(c *gin.Context) {
	if err := h.explorer.Refresh(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	st := h.explorer.Status()
	c.JSON(http.StatusOK, gin.H{"state": st.State, "records": st.Records})
}

// DatasetStatus endpoint GET /dataset/status
func (h *CarHandler) DatasetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.explorer.Status())
}

// FeatureOptions endpoint GET /features
func (h *CarHandler) FeatureOptions(c *gin.Context) {
	if err := h.explorer.Load(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	options, err := h.explorer.FeatureOptions()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

// ---------------- Predicción y dashboard ----------------

// Predict endpoint POST /predict
func (h *CarHandler) Predict(c *gin.Context) {
	var req struct {
		Brand           string  `json:"brand" binding:"required"`
		Model           string  `json:"model" binding:"required"`
		ModelYear       int     `json:"model_year" binding:"required"`
		Mileage         int     `json:"mileage" binding:"min=0"`
		FuelType        string  `json:"fuel_type" binding:"required"`
		Transmission    string  `json:"transmission" binding:"required"`
		ExteriorColor   string  `json:"exterior_color" binding:"required"`
		InteriorColor   string  `json:"interior_color" binding:"required"`
		AccidentHistory string  `json:"accident_history" binding:"required"`
		CleanTitle      string  `json:"clean_title" binding:"required"`
		Horsepower      int     `json:"horsepower" binding:"required"`
		EngineSize      float64 `json:"engine_size" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	pred, err := h.predictions.Predict(c.Request.Context(), carDomain.CarFeatures(req))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pred)
}

// Dashboard endpoint GET /dashboard
func (h *CarHandler) Dashboard(c *gin.Context) {
	overview, err := h.dashboard.Overview(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Insights endpoint GET /dashboard/insights
func (h *CarHandler) Insights(c *gin.Context) {
	insights, err := h.dashboard.Insights(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, insights)
}

// Notifications endpoint GET /notifications?limit=
func (h *CarHandler) Notifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	c.JSON(http.StatusOK, h.feed.List(limit))
}

// ---------------- Helpers ----------------

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *CarHandler) respondView(c *gin.Context, view *application.SessionView, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// respondError traduce los errores de dominio a códigos HTTP.
func (h *CarHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, carDomain.ErrSessionNotFound):
		utils.SendNotFound(c, err.Error())
	case errors.Is(err, carDomain.ErrDatasetNotReady):
		utils.SendServiceUnavailable(c, err.Error())
	case errors.Is(err, carDomain.ErrEmptyExport):
		utils.SendConflict(c, err.Error())
	case errors.Is(err, carDomain.ErrUpstream):
		utils.SendBadGateway(c, err.Error())
	case errors.Is(err, carDomain.ErrInvalidFeatures),
		errors.Is(err, carDomain.ErrUnknownField),
		errors.Is(err, carDomain.ErrInvalidExportFmt):
		utils.SendBadRequest(c, err.Error())
	default:
		h.log.Error("❌ Error inesperado", zap.String("path", c.FullPath()), zap.Error(err))
		utils.SendInternalServerError(c, "internal server error")
	}
}
