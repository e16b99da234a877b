package query

// ---------- Tipos de paginación ----------

// DefaultPageSize es el tamaño fijo de página del explorador.
const DefaultPageSize = 20

// OffsetPagination para paginación clásica
type OffsetPagination struct {
	Limit  int
	Offset int
}

// PageState es la página actual (base 1) y su tamaño.
type PageState struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// NewPageState normaliza página y tamaño (página mínima 1, tamaño por defecto 20).
func NewPageState(page, size int) PageState {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return PageState{Page: page, Size: size}
}

// TotalPages devuelve ceil(count/size), como mínimo 1 aunque no haya elementos.
func TotalPages(count, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	if count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// Clamp ajusta la página al rango [1, TotalPages(count)].
func (p PageState) Clamp(count int) PageState {
	p = NewPageState(p.Page, p.Size)
	if total := TotalPages(count, p.Size); p.Page > total {
		p.Page = total
	}
	return p
}

// Offset traduce la página a limit/offset.
func (p PageState) Offset() OffsetPagination {
	p = NewPageState(p.Page, p.Size)
	return OffsetPagination{Limit: p.Size, Offset: (p.Page - 1) * p.Size}
}
