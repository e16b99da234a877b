package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() CarRecord {
	return CarRecord{
		Brand: "BMW", Model: "X5", ModelYear: 2020, Mileage: 40000,
		FuelType: "Gasoline", Transmission: "Automatic",
		ExteriorColor: "Black", InteriorColor: "Beige",
		AccidentHistory: "None", CleanTitle: "Yes",
		Horsepower: 335, EngineSize: 3.0, Price: 35000.5,
	}
}

func TestFields_OrdenDeDeclaracion(t *testing.T) {
	names := make([]string, len(Fields))
	for i, f := range Fields {
		names[i] = f.String()
	}

	assert.Equal(t, []string{
		"brand", "model", "model_year", "mileage", "fuel_type", "transmission",
		"exterior_color", "interior_color", "accident_history", "clean_title",
		"horsepower", "engine_size", "price",
	}, names)
}

func TestParseField(t *testing.T) {
	f, err := ParseField("price")
	require.NoError(t, err)
	assert.Equal(t, FieldPrice, f)

	_, err = ParseField("color")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestField_Accessors(t *testing.T) {
	r := sampleRecord()

	tests := []struct {
		field   Field
		numeric bool
		str     string
		num     float64
		format  string
	}{
		{field: FieldBrand, str: "BMW", format: "BMW"},
		{field: FieldModelYear, numeric: true, num: 2020, format: "2020"},
		{field: FieldEngineSize, numeric: true, num: 3.0, format: "3"},
		{field: FieldPrice, numeric: true, num: 35000.5, format: "35000.5"},
		{field: FieldCleanTitle, str: "Yes", format: "Yes"},
	}

	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			assert.Equal(t, tt.numeric, tt.field.IsNumeric())
			assert.Equal(t, tt.str, tt.field.StringValue(r))
			assert.Equal(t, tt.num, tt.field.NumericValue(r))
			assert.Equal(t, tt.format, tt.field.Format(r))
		})
	}
}

func TestSortSpec_Toggle(t *testing.T) {
	s := DefaultSort()
	assert.Equal(t, SortSpec{Field: FieldPrice, Direction: SortDesc}, s)

	s = s.Toggle(FieldPrice)
	assert.Equal(t, SortAsc, s.Direction, "mismo campo invierte")

	s = s.Toggle(FieldBrand)
	assert.Equal(t, SortSpec{Field: FieldBrand, Direction: SortDesc}, s, "campo nuevo empieza en desc")

	s = s.Toggle(FieldBrand).Toggle(FieldBrand)
	assert.Equal(t, SortDesc, s.Direction)
}

func TestSortSpec_Normalize(t *testing.T) {
	assert.Equal(t, DefaultSort(), SortSpec{}.Normalize())
	assert.Equal(t, SortSpec{Field: FieldMileage, Direction: SortDesc}, SortSpec{Field: FieldMileage, Direction: "x"}.Normalize())
	assert.Equal(t, SortSpec{Field: FieldMileage, Direction: SortAsc}, SortSpec{Field: FieldMileage, Direction: SortAsc}.Normalize())
}
