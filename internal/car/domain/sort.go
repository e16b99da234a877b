package domain

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec un único campo de orden activo y su dirección.
type SortSpec struct {
	Field     Field         `json:"field"`
	Direction SortDirection `json:"direction"`
}

// DefaultSort precio descendente.
func DefaultSort() SortSpec {
	return SortSpec{Field: FieldPrice, Direction: SortDesc}
}

// Toggle mismo campo invierte la dirección; campo nuevo empieza en descendente.
func (s SortSpec) Toggle(field Field) SortSpec {
	if s.Field == field {
		if s.Direction == SortAsc {
			return SortSpec{Field: field, Direction: SortDesc}
		}
		return SortSpec{Field: field, Direction: SortAsc}
	}
	return SortSpec{Field: field, Direction: SortDesc}
}

// Normalize rellena valores vacíos o inválidos con el orden por defecto.
func (s SortSpec) Normalize() SortSpec {
	if !s.Field.Valid() {
		return DefaultSort()
	}
	if s.Direction != SortAsc {
		s.Direction = SortDesc
	}
	return s
}
