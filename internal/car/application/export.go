package application

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/davicafu/carexplorer/internal/car/domain"
)

// ExportCSV cabecera con los nombres de campo en orden de declaración y una fila por registro.
// encoding/csv solo entrecomilla los valores que contienen comas, comillas o saltos de línea.
func ExportCSV(records []domain.CarRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(domain.Fields))
	for i, f := range domain.Fields {
		header[i] = f.String()
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	row := make([]string, len(domain.Fields))
	for _, r := range records {
		for i, f := range domain.Fields {
			row[i] = f.Format(r)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv export: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportJSON array de registros con sangría, como el export JSON de la UI.
func ExportJSON(records []domain.CarRecord) ([]byte, error) {
	if records == nil {
		records = []domain.CarRecord{}
	}
	return json.MarshalIndent(records, "", "  ")
}

// Export serializa según el formato pedido.
func Export(records []domain.CarRecord, format domain.ExportFormat) ([]byte, error) {
	switch format {
	case domain.ExportJSON:
		return ExportJSON(records)
	case domain.ExportCSV, "":
		return ExportCSV(records)
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidExportFmt, format)
}
