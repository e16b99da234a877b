package domain

import (
	"fmt"
	"strings"
)

// CarRecord es una fila del dataset de coches usados. Inmutable una vez descargada.
// El orden de declaración es el orden de columnas del export.
type CarRecord struct {
	Brand           string  `json:"brand"`
	Model           string  `json:"model"`
	ModelYear       int     `json:"model_year"`
	Mileage         int     `json:"mileage"`
	FuelType        string  `json:"fuel_type"`
	Transmission    string  `json:"transmission"`
	ExteriorColor   string  `json:"exterior_color"`
	InteriorColor   string  `json:"interior_color"`
	AccidentHistory string  `json:"accident_history"`
	CleanTitle      string  `json:"clean_title"`
	Horsepower      int     `json:"horsepower"`
	EngineSize      float64 `json:"engine_size"`
	Price           float64 `json:"price"`
}

// DatasetSample es la respuesta de GET /dataset.
type DatasetSample struct {
	Data         []CarRecord `json:"data"`
	TotalRecords int         `json:"total_records"`
	SampleSize   int         `json:"sample_size"`
}

// FeatureOptions vocabulario de valores válidos por campo categórico.
type FeatureOptions map[string][]string

// ---------- Predicción ----------

const (
	MinModelYear  = 2010
	MaxModelYear  = 2024
	MaxMileage    = 500000
	MinHorsepower = 100
	MaxHorsepower = 800
	MinEngineSize = 1.0
	MaxEngineSize = 8.0
)

// CarFeatures entrada del formulario de predicción.
type CarFeatures struct {
	Brand           string  `json:"brand"`
	Model           string  `json:"model"`
	ModelYear       int     `json:"model_year"`
	Mileage         int     `json:"mileage"`
	FuelType        string  `json:"fuel_type"`
	Transmission    string  `json:"transmission"`
	ExteriorColor   string  `json:"exterior_color"`
	InteriorColor   string  `json:"interior_color"`
	AccidentHistory string  `json:"accident_history"`
	CleanTitle      string  `json:"clean_title"`
	Horsepower      int     `json:"horsepower"`
	EngineSize      float64 `json:"engine_size"`
}

// Validate comprueba campos obligatorios y rangos del formulario.
func (f CarFeatures) Validate() error {
	required := map[string]string{
		"brand":            f.Brand,
		"model":            f.Model,
		"fuel_type":        f.FuelType,
		"transmission":     f.Transmission,
		"exterior_color":   f.ExteriorColor,
		"interior_color":   f.InteriorColor,
		"accident_history": f.AccidentHistory,
		"clean_title":      f.CleanTitle,
	}
	var missing []string
	for _, name := range []string{"brand", "model", "fuel_type", "transmission", "exterior_color", "interior_color", "accident_history", "clean_title"} {
		if strings.TrimSpace(required[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidFeatures, strings.Join(missing, ", "))
	}

	switch {
	case f.ModelYear < MinModelYear || f.ModelYear > MaxModelYear:
		return fmt.Errorf("%w: model_year must be between %d and %d", ErrInvalidFeatures, MinModelYear, MaxModelYear)
	case f.Mileage < 0 || f.Mileage > MaxMileage:
		return fmt.Errorf("%w: mileage must be between 0 and %d", ErrInvalidFeatures, MaxMileage)
	case f.Horsepower < MinHorsepower || f.Horsepower > MaxHorsepower:
		return fmt.Errorf("%w: horsepower must be between %d and %d", ErrInvalidFeatures, MinHorsepower, MaxHorsepower)
	case f.EngineSize < MinEngineSize || f.EngineSize > MaxEngineSize:
		return fmt.Errorf("%w: engine_size must be between %.1f and %.1f", ErrInvalidFeatures, MinEngineSize, MaxEngineSize)
	}
	return nil
}

type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Prediction respuesta de POST /predict.
type Prediction struct {
	PredictedPrice     float64            `json:"predicted_price"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	InputFeatures      CarFeatures        `json:"input_features"`
}

// ---------- Métricas y estadísticas ----------

// ModelMetrics respuesta de GET /metrics.
type ModelMetrics struct {
	RMSE          float64 `json:"rmse"`
	R2Score       float64 `json:"r2_score"`
	ModelType     string  `json:"model_type"`
	FeaturesCount int     `json:"features_count"`
}

type PriceStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Std    float64 `json:"std"`
}

type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DatasetStats respuesta de GET /dataset/stats.
type DatasetStats struct {
	TotalRecords      int            `json:"total_records"`
	PriceStats        PriceStats     `json:"price_stats"`
	BrandDistribution map[string]int `json:"brand_distribution"`
	YearRange         YearRange      `json:"year_range"`
}
