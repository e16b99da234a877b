package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	carDomain "github.com/davicafu/carexplorer/internal/car/domain"
	sharedUtils "github.com/davicafu/carexplorer/shared/utils"
)

// Client habla con la API remota de precios. Implementa los puertos DatasetSource,
// StatsSource, MetricsSource y PricePredictor.
type Client struct {
	baseURL    string
	http       *http.Client
	retries    int
	retryDelay time.Duration
	log        *zap.Logger
}

var (
	_ carDomain.DatasetSource  = (*Client)(nil)
	_ carDomain.StatsSource    = (*Client)(nil)
	_ carDomain.MetricsSource  = (*Client)(nil)
	_ carDomain.PricePredictor = (*Client)(nil)
)

// NewClient retries < 1 equivale a un único intento. Solo se reintentan los GET.
func NewClient(baseURL string, httpClient *http.Client, retries int, log *zap.Logger) *Client {
	if retries < 1 {
		retries = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       httpClient,
		retries:    retries,
		retryDelay: 200 * time.Millisecond,
		log:        log,
	}
}

// StatusError respuesta no 2xx de la API.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Unwrap permite errors.Is(err, ErrUpstream).
func (e *StatusError) Unwrap() error {
	return carDomain.ErrUpstream
}

func (c *Client) FetchDatasetSample(ctx context.Context, limit int) (*carDomain.DatasetSample, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var out carDomain.DatasetSample
	if err := c.get(ctx, "/dataset?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	if out.SampleSize == 0 {
		out.SampleSize = len(out.Data)
	}
	return &out, nil
}

func (c *Client) FetchFeatureOptions(ctx context.Context) (carDomain.FeatureOptions, error) {
	var out carDomain.FeatureOptions
	if err := c.get(ctx, "/features", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FetchModelMetrics(ctx context.Context) (*carDomain.ModelMetrics, error) {
	var out carDomain.ModelMetrics
	if err := c.get(ctx, "/metrics", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchDatasetStats(ctx context.Context) (*carDomain.DatasetStats, error) {
	var out carDomain.DatasetStats
	if err := c.get(ctx, "/dataset/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PredictPrice POST /predict; no se reintenta.
func (c *Client) PredictPrice(ctx context.Context, features carDomain.CarFeatures) (*carDomain.Prediction, error) {
	body, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}
	var out carDomain.Prediction
	if err := c.do(ctx, http.MethodPost, "/predict", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping comprueba GET /health de la API remota.
func (c *Client) Ping(ctx context.Context) error {
	var out map[string]interface{}
	return c.do(ctx, http.MethodGet, "/health", nil, &out)
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	return sharedUtils.Retry(ctx, c.retries, c.retryDelay, func() error {
		return c.do(ctx, http.MethodGet, path, nil, dest)
	})
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("⚠️ API remota no disponible", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %s %s: %v", carDomain.ErrUpstream, method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("API remota",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode %s: %v", carDomain.ErrUpstream, path, err)
	}
	return nil
}
