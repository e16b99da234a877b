package domain

import (
	"fmt"
	"strconv"
)

// Field identifica una columna de CarRecord. Conjunto cerrado.
type Field string

const (
	FieldBrand           Field = "brand"
	FieldModel           Field = "model"
	FieldModelYear       Field = "model_year"
	FieldMileage         Field = "mileage"
	FieldFuelType        Field = "fuel_type"
	FieldTransmission    Field = "transmission"
	FieldExteriorColor   Field = "exterior_color"
	FieldInteriorColor   Field = "interior_color"
	FieldAccidentHistory Field = "accident_history"
	FieldCleanTitle      Field = "clean_title"
	FieldHorsepower      Field = "horsepower"
	FieldEngineSize      Field = "engine_size"
	FieldPrice           Field = "price"
)

// Fields en orden de declaración de CarRecord.
var Fields = []Field{
	FieldBrand,
	FieldModel,
	FieldModelYear,
	FieldMileage,
	FieldFuelType,
	FieldTransmission,
	FieldExteriorColor,
	FieldInteriorColor,
	FieldAccidentHistory,
	FieldCleanTitle,
	FieldHorsepower,
	FieldEngineSize,
	FieldPrice,
}

type accessor struct {
	str func(CarRecord) string
	num func(CarRecord) float64
	fmt func(CarRecord) string
}

func intAccessor(get func(CarRecord) int) accessor {
	return accessor{
		num: func(r CarRecord) float64 { return float64(get(r)) },
		fmt: func(r CarRecord) string { return strconv.Itoa(get(r)) },
	}
}

func floatAccessor(get func(CarRecord) float64) accessor {
	return accessor{
		num: get,
		fmt: func(r CarRecord) string { return strconv.FormatFloat(get(r), 'f', -1, 64) },
	}
}

func stringAccessor(get func(CarRecord) string) accessor {
	return accessor{str: get, fmt: get}
}

var accessors = map[Field]accessor{
	FieldBrand:           stringAccessor(func(r CarRecord) string { return r.Brand }),
	FieldModel:           stringAccessor(func(r CarRecord) string { return r.Model }),
	FieldModelYear:       intAccessor(func(r CarRecord) int { return r.ModelYear }),
	FieldMileage:         intAccessor(func(r CarRecord) int { return r.Mileage }),
	FieldFuelType:        stringAccessor(func(r CarRecord) string { return r.FuelType }),
	FieldTransmission:    stringAccessor(func(r CarRecord) string { return r.Transmission }),
	FieldExteriorColor:   stringAccessor(func(r CarRecord) string { return r.ExteriorColor }),
	FieldInteriorColor:   stringAccessor(func(r CarRecord) string { return r.InteriorColor }),
	FieldAccidentHistory: stringAccessor(func(r CarRecord) string { return r.AccidentHistory }),
	FieldCleanTitle:      stringAccessor(func(r CarRecord) string { return r.CleanTitle }),
	FieldHorsepower:      intAccessor(func(r CarRecord) int { return r.Horsepower }),
	FieldEngineSize:      floatAccessor(func(r CarRecord) float64 { return r.EngineSize }),
	FieldPrice:           floatAccessor(func(r CarRecord) float64 { return r.Price }),
}

// ParseField valida un nombre de columna. Devuelve ErrUnknownField si no existe.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if _, ok := accessors[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// Valid indica si el campo pertenece al conjunto cerrado.
func (f Field) Valid() bool {
	_, ok := accessors[f]
	return ok
}

// IsNumeric true para columnas que se comparan numéricamente.
func (f Field) IsNumeric() bool {
	return accessors[f].num != nil
}

// StringValue valor de una columna de texto; "" para columnas numéricas.
func (f Field) StringValue(r CarRecord) string {
	if a := accessors[f]; a.str != nil {
		return a.str(r)
	}
	return ""
}

// NumericValue valor de una columna numérica; 0 para columnas de texto.
func (f Field) NumericValue(r CarRecord) float64 {
	if a := accessors[f]; a.num != nil {
		return a.num(r)
	}
	return 0
}

// Format representación textual usada por el export.
func (f Field) Format(r CarRecord) string {
	if a := accessors[f]; a.fmt != nil {
		return a.fmt(r)
	}
	return ""
}

func (f Field) String() string { return string(f) }
