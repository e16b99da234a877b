package domain

import (
	"fmt"
	"strconv"
	"strings"

	sharedDomain "github.com/davicafu/carexplorer/shared/domain"
)

// AllOption valor de los selects que significa "sin filtro".
const AllOption = "all"

// ---------------- Entrada cruda ----------------

// RawFilters es el estado del formulario de filtros tal cual lo envía la UI.
type RawFilters struct {
	Search       string `json:"search"`
	Brand        string `json:"brand"`
	FuelType     string `json:"fuel_type"`
	Transmission string `json:"transmission"`
	MinYear      string `json:"min_year"`
	MaxYear      string `json:"max_year"`
	MinPrice     string `json:"min_price"`
	MaxPrice     string `json:"max_price"`
}

// With devuelve una copia con una clave actualizada. Acepta snake_case y camelCase.
func (f RawFilters) With(key, value string) (RawFilters, error) {
	switch key {
	case "search":
		f.Search = value
	case "brand":
		f.Brand = value
	case "fuel_type", "fuelType":
		f.FuelType = value
	case "transmission":
		f.Transmission = value
	case "min_year", "minYear":
		f.MinYear = value
	case "max_year", "maxYear":
		f.MaxYear = value
	case "min_price", "minPrice":
		f.MinPrice = value
	case "max_price", "maxPrice":
		f.MaxPrice = value
	default:
		return f, fmt.Errorf("%w: filter %q", ErrUnknownField, key)
	}
	return f.Normalize(), nil
}

// Normalize recorta espacios y convierte "all" en vacío.
func (f RawFilters) Normalize() RawFilters {
	clean := func(v string) string {
		v = strings.TrimSpace(v)
		if strings.EqualFold(v, AllOption) {
			return ""
		}
		return v
	}
	f.Search = strings.TrimSpace(f.Search)
	f.Brand = clean(f.Brand)
	f.FuelType = clean(f.FuelType)
	f.Transmission = clean(f.Transmission)
	f.MinYear = strings.TrimSpace(f.MinYear)
	f.MaxYear = strings.TrimSpace(f.MaxYear)
	f.MinPrice = strings.TrimSpace(f.MinPrice)
	f.MaxPrice = strings.TrimSpace(f.MaxPrice)
	return f
}

// ActiveCount número de campos no vacíos (badge de la UI).
func (f RawFilters) ActiveCount() int {
	f = f.Normalize()
	n := 0
	for _, v := range []string{f.Search, f.Brand, f.FuelType, f.Transmission, f.MinYear, f.MaxYear, f.MinPrice, f.MaxPrice} {
		if v != "" {
			n++
		}
	}
	return n
}

// ---------------- Criterio tipado ----------------

// FilterCriteria restricciones opcionales; cero/nil significa inactiva.
type FilterCriteria struct {
	Search       string
	Brand        string
	FuelType     string
	Transmission string
	MinYear      *int
	MaxYear      *int
	MinPrice     *float64
	MaxPrice     *float64
}

// ParseFilterCriteria convierte la entrada cruda. Un límite no numérico se ignora.
func ParseFilterCriteria(raw RawFilters) FilterCriteria {
	raw = raw.Normalize()
	return FilterCriteria{
		Search:       raw.Search,
		Brand:        raw.Brand,
		FuelType:     raw.FuelType,
		Transmission: raw.Transmission,
		MinYear:      parseInt(raw.MinYear),
		MaxYear:      parseInt(raw.MaxYear),
		MinPrice:     parseFloat(raw.MinPrice),
		MaxPrice:     parseFloat(raw.MaxPrice),
	}
}

func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ActiveCount número de restricciones activas tras el parseo.
func (c FilterCriteria) ActiveCount() int {
	n := 0
	for _, v := range []string{c.Search, c.Brand, c.FuelType, c.Transmission} {
		if v != "" {
			n++
		}
	}
	if c.MinYear != nil {
		n++
	}
	if c.MaxYear != nil {
		n++
	}
	if c.MinPrice != nil {
		n++
	}
	if c.MaxPrice != nil {
		n++
	}
	return n
}

// IsEmpty true si ninguna restricción está activa.
func (c FilterCriteria) IsEmpty() bool {
	return c.Criteria().IsEmpty()
}

// Criteria compone las restricciones activas con AND.
func (c FilterCriteria) Criteria() sharedDomain.CompositeCriteria[CarRecord] {
	var criterias []sharedDomain.Criteria[CarRecord]
	if c.Search != "" {
		criterias = append(criterias, SearchCriteria{Term: c.Search})
	}
	if c.Brand != "" {
		criterias = append(criterias, EqualsCriteria{Field: FieldBrand, Value: c.Brand})
	}
	if c.FuelType != "" {
		criterias = append(criterias, EqualsCriteria{Field: FieldFuelType, Value: c.FuelType})
	}
	if c.Transmission != "" {
		criterias = append(criterias, EqualsCriteria{Field: FieldTransmission, Value: c.Transmission})
	}
	if c.MinYear != nil || c.MaxYear != nil {
		criterias = append(criterias, RangeCriteria{Field: FieldModelYear, Min: intToFloat(c.MinYear), Max: intToFloat(c.MaxYear)})
	}
	if c.MinPrice != nil || c.MaxPrice != nil {
		criterias = append(criterias, RangeCriteria{Field: FieldPrice, Min: c.MinPrice, Max: c.MaxPrice})
	}
	return sharedDomain.And(criterias...)
}

// Match evalúa todas las restricciones activas sobre un registro.
func (c FilterCriteria) Match(r CarRecord) bool {
	return c.Criteria().Match(r)
}

func intToFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

// ---------------- Implementaciones concretas ----------------

// Búsqueda libre: subcadena sin distinguir mayúsculas en marca O modelo
type SearchCriteria struct {
	Term string
}

func (c SearchCriteria) ToConditions() []sharedDomain.Criterion {
	return sharedDomain.Or[CarRecord](
		likeCriteria{Field: FieldBrand, Term: c.Term},
		likeCriteria{Field: FieldModel, Term: c.Term},
	).ToConditions()
}

func (c SearchCriteria) Match(r CarRecord) bool {
	term := strings.ToLower(c.Term)
	return strings.Contains(strings.ToLower(r.Brand), term) ||
		strings.Contains(strings.ToLower(r.Model), term)
}

type likeCriteria struct {
	Field Field
	Term  string
}

func (c likeCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: string(c.Field), Op: sharedDomain.OpILike, Value: "%" + c.Term + "%"}}
}

func (c likeCriteria) Match(r CarRecord) bool {
	return strings.Contains(strings.ToLower(c.Field.StringValue(r)), strings.ToLower(c.Term))
}

// Igualdad exacta sobre una columna de texto
type EqualsCriteria struct {
	Field Field
	Value string
}

func (c EqualsCriteria) ToConditions() []sharedDomain.Criterion {
	return []sharedDomain.Criterion{{Field: string(c.Field), Op: sharedDomain.OpEq, Value: c.Value}}
}

func (c EqualsCriteria) Match(r CarRecord) bool {
	return c.Field.StringValue(r) == c.Value
}

// Rango inclusivo sobre una columna numérica
type RangeCriteria struct {
	Field Field
	Min   *float64
	Max   *float64
}

func (c RangeCriteria) ToConditions() []sharedDomain.Criterion {
	var conds []sharedDomain.Criterion
	if c.Min != nil {
		conds = append(conds, sharedDomain.Criterion{Field: string(c.Field), Op: sharedDomain.OpGte, Value: *c.Min})
	}
	if c.Max != nil {
		conds = append(conds, sharedDomain.Criterion{Field: string(c.Field), Op: sharedDomain.OpLte, Value: *c.Max})
	}
	return conds
}

func (c RangeCriteria) Match(r CarRecord) bool {
	v := c.Field.NumericValue(r)
	if c.Min != nil && v < *c.Min {
		return false
	}
	if c.Max != nil && v > *c.Max {
		return false
	}
	return true
}
