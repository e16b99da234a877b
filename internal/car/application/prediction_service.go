package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/davicafu/carexplorer/internal/car/domain"
	sharedEvents "github.com/davicafu/carexplorer/shared/events"
	sharedBus "github.com/davicafu/carexplorer/shared/platform/bus"
)

type PredictionService struct {
	predictor domain.PricePredictor
	publisher sharedBus.EventPublisher
	log       *zap.Logger
}

func NewPredictionService(predictor domain.PricePredictor, publisher sharedBus.EventPublisher, log *zap.Logger) *PredictionService {
	return &PredictionService{predictor: predictor, publisher: publisher, log: log}
}

// Predict valida el formulario y lo reenvía a la API remota.
func (s *PredictionService) Predict(ctx context.Context, features domain.CarFeatures) (*domain.Prediction, error) {
	if err := features.Validate(); err != nil {
		return nil, err
	}

	pred, err := s.predictor.PredictPrice(ctx, features)
	if err != nil {
		s.log.Error("❌ Fallo en la predicción", zap.String("brand", features.Brand), zap.Error(err))
		publish(ctx, s.publisher, domain.PredictionFailed, sharedEvents.PredictionFailed{Reason: err.Error()}, s.log)
		return nil, err
	}

	publish(ctx, s.publisher, domain.PredictionCompleted, sharedEvents.PredictionCompleted{
		Brand:          features.Brand,
		Model:          features.Model,
		PredictedPrice: pred.PredictedPrice,
	}, s.log)
	return pred, nil
}
