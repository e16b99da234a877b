package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/carexplorer/internal/car/application"
	carDomain "github.com/davicafu/carexplorer/internal/car/domain"
	carEvents "github.com/davicafu/carexplorer/internal/car/infra/inbound/events"
	"github.com/davicafu/carexplorer/tests/mocks"
)

var testRecords = []carDomain.CarRecord{
	{Brand: "BMW", Model: "X5", ModelYear: 2020, Mileage: 30000, FuelType: "Gasoline", Transmission: "Automatic", Horsepower: 335, EngineSize: 3.0, Price: 45000},
	{Brand: "Toyota", Model: "Camry", ModelYear: 2018, Mileage: 60000, FuelType: "Hybrid", Transmission: "Automatic", Horsepower: 208, EngineSize: 2.5, Price: 18000},
	{Brand: "BMW", Model: "M3", ModelYear: 2022, Mileage: 5000, FuelType: "Gasoline", Transmission: "Manual", Horsepower: 473, EngineSize: 3.0, Price: 70000},
}

type handlerFixture struct {
	router    *gin.Engine
	source    *mocks.FakeDatasetSource
	predictor *mocks.MockPredictor
	storage   *mocks.MemoryExportStorage
	feed      *carEvents.NotificationFeed
}

func newHandlerFixture(t *testing.T) handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	source := &mocks.FakeDatasetSource{
		Records: testRecords,
		Options: carDomain.FeatureOptions{"brand": {"BMW", "Toyota"}},
	}
	predictor := &mocks.MockPredictor{}
	storage := &mocks.MemoryExportStorage{}
	metrics := &mocks.MockMetricsSource{}
	stats := &mocks.MockStatsSource{}
	metrics.On("FetchModelMetrics", mock.Anything).Return(&carDomain.ModelMetrics{RMSE: 1200, R2Score: 0.91, ModelType: "xgboost", FeaturesCount: 12}, nil)
	stats.On("FetchDatasetStats", mock.Anything).Return(nil, fmt.Errorf("%w: timeout", carDomain.ErrUpstream))

	explorer := application.NewExplorerService(source, nil, nil, 1000, time.Minute, log)
	sessions := application.NewSessionService(explorer, mocks.NewDummyCache(), nil, storage, nil, time.Minute, log)
	dashboard := application.NewDashboardService(metrics, stats, explorer, log)
	predictions := application.NewPredictionService(predictor, nil, log)
	feed := carEvents.NewNotificationFeed(10)

	r := gin.New()
	RegisterCarRoutes(r, NewCarHandler(explorer, sessions, dashboard, predictions, feed, log))

	return handlerFixture{router: r, source: source, predictor: predictor, storage: storage, feed: feed}
}

func (f handlerFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type viewBody struct {
	SessionID     string                `json:"session_id"`
	Records       []carDomain.CarRecord `json:"records"`
	Filtered      int                   `json:"filtered"`
	Page          int                   `json:"page"`
	TotalPages    int                   `json:"total_pages"`
	ActiveFilters int                   `json:"active_filters"`
	Sort          carDomain.SortSpec    `json:"sort"`
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) viewBody {
	t.Helper()
	var v viewBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func (f handlerFixture) openSession(t *testing.T) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/explorer/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeView(t, w).SessionID
}

func TestCarHandler_FlujoDeSesion(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.openSession(t)

	t.Run("Abrir sesión ordena por precio desc", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/explorer/sessions/"+id, nil)

		require.Equal(t, http.StatusOK, w.Code)
		v := decodeView(t, w)
		assert.Equal(t, 3, v.Filtered)
		assert.Equal(t, 70000.0, v.Records[0].Price)
	})

	t.Run("Filtrar por marca", func(t *testing.T) {
		w := f.do(t, http.MethodPut, "/explorer/sessions/"+id+"/filters", map[string]string{"brand": "BMW", "fuelType": "all"})

		require.Equal(t, http.StatusOK, w.Code)
		v := decodeView(t, w)
		assert.Equal(t, 2, v.Filtered)
		assert.Equal(t, 1, v.ActiveFilters, "'all' no cuenta como filtro activo")
		for _, r := range v.Records {
			assert.Equal(t, "BMW", r.Brand)
		}
	})

	t.Run("Cambiar un filtro suelto", func(t *testing.T) {
		w := f.do(t, http.MethodPatch, "/explorer/sessions/"+id+"/filters/min_price?value=50000", nil)

		require.Equal(t, http.StatusOK, w.Code)
		v := decodeView(t, w)
		assert.Equal(t, 1, v.Filtered)
		assert.Equal(t, "M3", v.Records[0].Model)
	})

	t.Run("Ordenar alterna la dirección", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/explorer/sessions/"+id+"/sort?field=price", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, carDomain.SortAsc, decodeView(t, w).Sort.Direction)
	})

	t.Run("Página fuera de rango se ajusta", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/explorer/sessions/"+id+"/page?page=9", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, decodeView(t, w).Page)
	})

	t.Run("Limpiar filtros", func(t *testing.T) {
		w := f.do(t, http.MethodDelete, "/explorer/sessions/"+id+"/filters", nil)

		require.Equal(t, http.StatusOK, w.Code)
		v := decodeView(t, w)
		assert.Equal(t, 3, v.Filtered)
		assert.Equal(t, 0, v.ActiveFilters)
	})
}

func TestCarHandler_Errores(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.openSession(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
	}{
		{name: "Id inválido", method: http.MethodGet, path: "/explorer/sessions/no-es-uuid", wantStatus: http.StatusBadRequest},
		{name: "Sesión inexistente", method: http.MethodGet, path: "/explorer/sessions/3b241101-e2bb-4255-8caf-4136c566a962", wantStatus: http.StatusNotFound},
		{name: "Campo de orden desconocido", method: http.MethodPost, path: "/explorer/sessions/" + id + "/sort?field=vin", wantStatus: http.StatusBadRequest},
		{name: "Filtro desconocido", method: http.MethodPut, path: "/explorer/sessions/" + id + "/filters", body: map[string]string{"color": "red"}, wantStatus: http.StatusBadRequest},
		{name: "Página no numérica", method: http.MethodPost, path: "/explorer/sessions/" + id + "/page?page=x", wantStatus: http.StatusBadRequest},
		{name: "Formato de export inválido", method: http.MethodGet, path: "/explorer/sessions/" + id + "/export?format=xml", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestCarHandler_Export(t *testing.T) {
	f := newHandlerFixture(t)
	id := f.openSession(t)

	t.Run("Descarga CSV como adjunto", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/explorer/sessions/"+id+"/export?format=csv", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Regexp(t, `attachment; filename="car-dataset-\d+\.csv"`, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Body.String(), "brand,model,model_year")
	})

	t.Run("Guardar export", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/explorer/sessions/"+id+"/export?format=json", nil)

		require.Equal(t, http.StatusCreated, w.Code)
		var body struct {
			File    string `json:"file"`
			Records int    `json:"records"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 3, body.Records)
		assert.Contains(t, body.File, "memory://car-dataset-")
		assert.Len(t, f.storage.Files, 1)
	})

	t.Run("Export vacío devuelve 409", func(t *testing.T) {
		f.do(t, http.MethodPut, "/explorer/sessions/"+id+"/filters", map[string]string{"brand": "Ferrari"})

		w := f.do(t, http.MethodGet, "/explorer/sessions/"+id+"/export", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCarHandler_Dataset(t *testing.T) {
	f := newHandlerFixture(t)

	t.Run("Estado inicial idle", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/dataset/status", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"state":"idle"`)
	})

	t.Run("Features carga el dataset", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/features", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"brand":["BMW","Toyota"]}`, w.Body.String())
	})

	t.Run("Refresh fallido devuelve 502 si la API está caída", func(t *testing.T) {
		f.source.SetSampleErr(fmt.Errorf("%w: status 500", carDomain.ErrUpstream))

		w := f.do(t, http.MethodPost, "/dataset/refresh", nil)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestCarHandler_Predict(t *testing.T) {
	f := newHandlerFixture(t)
	features := carDomain.CarFeatures{
		Brand: "BMW", Model: "X5", ModelYear: 2020, Mileage: 30000, FuelType: "Gasoline",
		Transmission: "Automatic", ExteriorColor: "Black", InteriorColor: "Beige",
		AccidentHistory: "None reported", CleanTitle: "Yes", Horsepower: 335, EngineSize: 3.0,
	}

	t.Run("Predicción correcta", func(t *testing.T) {
		f.predictor.On("PredictPrice", mock.Anything, features).
			Return(&carDomain.Prediction{PredictedPrice: 41000, InputFeatures: features}, nil).Once()

		w := f.do(t, http.MethodPost, "/predict", features)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"predicted_price":41000`)
	})

	t.Run("Rango inválido devuelve 400", func(t *testing.T) {
		bad := features
		bad.ModelYear = 1990

		w := f.do(t, http.MethodPost, "/predict", bad)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Campo obligatorio ausente devuelve 400", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/predict", map[string]interface{}{"brand": "BMW"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("API caída devuelve 502", func(t *testing.T) {
		f.predictor.On("PredictPrice", mock.Anything, features).
			Return(nil, fmt.Errorf("%w: connection refused", carDomain.ErrUpstream)).Once()

		w := f.do(t, http.MethodPost, "/predict", features)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "upstream_error")
	})

	f.predictor.AssertExpectations(t)
}

func TestCarHandler_DashboardYNotificaciones(t *testing.T) {
	f := newHandlerFixture(t)

	t.Run("Dashboard cae a estadísticas del snapshot", func(t *testing.T) {
		require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/features", nil).Code)

		w := f.do(t, http.MethodGet, "/dashboard", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var body application.Dashboard
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.StatsFromSnapshot)
		assert.Equal(t, 3, body.Stats.TotalRecords)
		assert.Equal(t, "xgboost", body.Metrics.ModelType)
	})

	t.Run("Insights", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/dashboard/insights", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "price_histogram")
	})

	t.Run("Feed de notificaciones", func(t *testing.T) {
		f.feed.Add(carEvents.Notification{Type: carDomain.DatasetLoaded, Title: "Dataset loaded"})

		w := f.do(t, http.MethodGet, "/notifications?limit=5", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var items []carEvents.Notification
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, "Dataset loaded", items[0].Title)
	})
}

func TestCarHandler_ErrorInesperado(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &CarHandler{log: zap.NewNop()}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())

	h.respondError(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
