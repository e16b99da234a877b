package application

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/davicafu/carexplorer/internal/car/domain"
	sharedDomain "github.com/davicafu/carexplorer/shared/domain"
	"github.com/davicafu/carexplorer/shared/platform/query"
)

// View es la página derivada que consume la tabla del explorador.
type View struct {
	Records       []domain.CarRecord       `json:"records"`
	Total         int                      `json:"total"`
	Filtered      int                      `json:"filtered"`
	Page          int                      `json:"page"`
	PageSize      int                      `json:"page_size"`
	TotalPages    int                      `json:"total_pages"`
	Sort          domain.SortSpec          `json:"sort"`
	ActiveFilters int                      `json:"active_filters"`
	Conditions    []sharedDomain.Criterion `json:"conditions"`
}

// ApplyFilters devuelve los registros que cumplen todas las restricciones activas,
// en el orden original. Sin restricciones devuelve la entrada tal cual.
func ApplyFilters(records []domain.CarRecord, criteria domain.FilterCriteria) []domain.CarRecord {
	composite := criteria.Criteria()
	if composite.IsEmpty() {
		return records
	}

	out := make([]domain.CarRecord, 0, len(records))
	for _, r := range records {
		if composite.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// ApplySort ordena una copia. Texto con collation (inglés), números numéricamente.
// Es estable: los empates conservan el orden de entrada en ambas direcciones.
func ApplySort(records []domain.CarRecord, spec domain.SortSpec) []domain.CarRecord {
	spec = spec.Normalize()
	out := make([]domain.CarRecord, len(records))
	copy(out, records)

	// collate.Collator no es seguro para uso concurrente: uno por llamada
	col := collate.New(language.English)
	field := spec.Field

	compare := func(a, b domain.CarRecord) int {
		if field.IsNumeric() {
			av, bv := field.NumericValue(a), field.NumericValue(b)
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
		return col.CompareString(field.StringValue(a), field.StringValue(b))
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j])
		if spec.Direction == domain.SortAsc {
			return c < 0
		}
		return c > 0
	})
	return out
}

// Paginate devuelve la porción de la página (ajustada al rango válido) y el total de páginas.
func Paginate(records []domain.CarRecord, page, size int) ([]domain.CarRecord, int) {
	state := query.NewPageState(page, size).Clamp(len(records))
	total := query.TotalPages(len(records), state.Size)

	off := state.Offset()
	if off.Offset >= len(records) {
		return []domain.CarRecord{}, total
	}
	end := off.Offset + off.Limit
	if end > len(records) {
		end = len(records)
	}
	return records[off.Offset:end], total
}

// Derive filtrar → ordenar → paginar sobre el snapshot.
func Derive(snapshot []domain.CarRecord, criteria domain.FilterCriteria, spec domain.SortSpec, page query.PageState) View {
	filtered := ApplyFilters(snapshot, criteria)
	sorted := ApplySort(filtered, spec)

	state := page.Clamp(len(sorted))
	records, totalPages := Paginate(sorted, state.Page, state.Size)

	conds := criteria.Criteria().ToConditions()
	if conds == nil {
		conds = []sharedDomain.Criterion{}
	}

	return View{
		Records:       records,
		Total:         len(snapshot),
		Filtered:      len(sorted),
		Page:          state.Page,
		PageSize:      state.Size,
		TotalPages:    totalPages,
		Sort:          spec.Normalize(),
		ActiveFilters: criteria.ActiveCount(),
		Conditions:    conds,
	}
}
