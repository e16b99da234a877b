package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	carDomain "github.com/davicafu/carexplorer/internal/car/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // Driver de PostgreSQL
)

// DatasetRepoPostgres implementa DatasetSource leyendo la tabla cars.
type DatasetRepoPostgres struct {
	db *sql.DB
}

// NewDatasetRepoPostgres es el constructor del repositorio.
func NewDatasetRepoPostgres(db *sql.DB) *DatasetRepoPostgres {
	return &DatasetRepoPostgres{db: db}
}

// columnas en el orden de CarRecord
func columns() string {
	names := make([]string, len(carDomain.Fields))
	for i, f := range carDomain.Fields {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

// FetchDatasetSample devuelve una muestra aleatoria de como mucho 'limit' filas.
func (r *DatasetRepoPostgres) FetchDatasetSample(ctx context.Context, limit int) (*carDomain.DatasetSample, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count cars: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM cars ORDER BY random() LIMIT $1`, columns()),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query cars: %w", err)
	}
	defer rows.Close()

	data := make([]carDomain.CarRecord, 0, limit)
	for rows.Next() {
		var c carDomain.CarRecord
		if err := rows.Scan(
			&c.Brand, &c.Model, &c.ModelYear, &c.Mileage, &c.FuelType, &c.Transmission,
			&c.ExteriorColor, &c.InteriorColor, &c.AccidentHistory, &c.CleanTitle,
			&c.Horsepower, &c.EngineSize, &c.Price,
		); err != nil {
			return nil, err
		}
		data = append(data, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &carDomain.DatasetSample{Data: data, TotalRecords: total, SampleSize: len(data)}, nil
}

// FetchFeatureOptions valores distintos de cada columna categórica.
func (r *DatasetRepoPostgres) FetchFeatureOptions(ctx context.Context) (carDomain.FeatureOptions, error) {
	options := carDomain.FeatureOptions{}
	for _, f := range carDomain.Fields {
		if f.IsNumeric() {
			continue
		}
		// El nombre de columna sale del conjunto cerrado de Field, no de la entrada del usuario.
		rows, err := r.db.QueryContext(ctx,
			fmt.Sprintf(`SELECT DISTINCT %[1]s FROM cars WHERE %[1]s <> '' ORDER BY %[1]s`, f.String()),
		)
		if err != nil {
			return nil, fmt.Errorf("distinct %s: %w", f, err)
		}

		values := []string{}
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return nil, err
			}
			values = append(values, v)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
		options[f.String()] = values
	}
	return options, nil
}

// ------------------ Schema ------------------

// InitPostgresCarSchema crea la tabla cars si no existe.
func InitPostgresCarSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS cars (
		id SERIAL PRIMARY KEY,
		brand TEXT NOT NULL,
		model TEXT NOT NULL,
		model_year INTEGER NOT NULL,
		mileage INTEGER NOT NULL,
		fuel_type TEXT NOT NULL DEFAULT '',
		transmission TEXT NOT NULL DEFAULT '',
		exterior_color TEXT NOT NULL DEFAULT '',
		interior_color TEXT NOT NULL DEFAULT '',
		accident_history TEXT NOT NULL DEFAULT '',
		clean_title TEXT NOT NULL DEFAULT '',
		horsepower INTEGER NOT NULL,
		engine_size DOUBLE PRECISION NOT NULL,
		price DOUBLE PRECISION NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cars_brand ON cars(brand);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create cars schema: %w", err)
	}
	return nil
}

var _ carDomain.DatasetSource = (*DatasetRepoPostgres)(nil)
