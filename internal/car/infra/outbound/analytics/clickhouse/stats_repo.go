package clickhouse

import (
	"context"
	"database/sql"
	"fmt"

	carDomain "github.com/davicafu/carexplorer/internal/car/domain"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// StatsRepo calcula las estadísticas del dataset completo en ClickHouse.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo es el constructor.
func NewStatsRepo(addr string, dbName string) (*StatsRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &StatsRepo{db: conn}, nil
}

// FetchDatasetStats agrega precio, marcas y rango de años.
func (r *StatsRepo) FetchDatasetStats(ctx context.Context) (*carDomain.DatasetStats, error) {
	stats := &carDomain.DatasetStats{BrandDistribution: map[string]int{}}

	var total uint64
	var minYear, maxYear int32
	err := r.db.QueryRowContext(ctx, `
		SELECT
			count(),
			avg(price),
			quantileExact(0.5)(price),
			min(price),
			max(price),
			stddevSamp(price),
			min(model_year),
			max(model_year)
		FROM cars_dataset
	`).Scan(
		&total,
		&stats.PriceStats.Mean,
		&stats.PriceStats.Median,
		&stats.PriceStats.Min,
		&stats.PriceStats.Max,
		&stats.PriceStats.Std,
		&minYear,
		&maxYear,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query price stats: %w", err)
	}
	stats.TotalRecords = int(total)
	stats.YearRange = carDomain.YearRange{Min: int(minYear), Max: int(maxYear)}

	rows, err := r.db.QueryContext(ctx, `SELECT brand, count() FROM cars_dataset GROUP BY brand`)
	if err != nil {
		return nil, fmt.Errorf("failed to query brand distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var brand string
		var n uint64
		if err := rows.Scan(&brand, &n); err != nil {
			return nil, err
		}
		stats.BrandDistribution[brand] = int(n)
	}
	return stats, rows.Err()
}

// InitSchema crea la tabla de análisis si no existe.
func (r *StatsRepo) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS cars_dataset (
		brand String,
		model String,
		model_year Int32,
		mileage Int32,
		fuel_type LowCardinality(String),
		transmission LowCardinality(String),
		exterior_color String,
		interior_color String,
		accident_history LowCardinality(String),
		clean_title LowCardinality(String),
		horsepower Int32,
		engine_size Float64,
		price Float64
	) ENGINE = MergeTree()
	ORDER BY (brand, model_year);
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

func (r *StatsRepo) Close() error {
	return r.db.Close()
}

var _ carDomain.StatsSource = (*StatsRepo)(nil)
