package domain

// ---------------- Operadores ----------------

type Operator string

const (
	OpEq    Operator = "="
	OpGt    Operator = ">"
	OpGte   Operator = ">="
	OpLt    Operator = "<"
	OpLte   Operator = "<="
	OpLike  Operator = "LIKE"
	OpILike Operator = "ILIKE"
)

type LogicalOperator string

const (
	OpAnd LogicalOperator = "AND"
	OpOr  LogicalOperator = "OR"
)

// ---------------- Criterion ----------------

// Criterion describe una condición neutral de filtrado
type Criterion struct {
	Field string      `json:"field"`
	Op    Operator    `json:"op"`
	Value interface{} `json:"value"`
}

// ---------------- Criteria interface ----------------

// Criteria evalúa un elemento en memoria y se describe como condiciones neutrales.
type Criteria[T any] interface {
	ToConditions() []Criterion
	Match(item T) bool
}

// ---------------- Composite Criteria ----------------

type CompositeCriteria[T any] struct {
	Operator  LogicalOperator
	Criterias []Criteria[T]
}

func (c CompositeCriteria[T]) ToConditions() []Criterion {
	var all []Criterion
	for _, crit := range c.Criterias {
		all = append(all, crit.ToConditions()...)
	}
	return all
}

// Match aplica el operador lógico. Un compuesto vacío acepta todo.
func (c CompositeCriteria[T]) Match(item T) bool {
	if len(c.Criterias) == 0 {
		return true
	}
	if c.Operator == OpOr {
		for _, crit := range c.Criterias {
			if crit.Match(item) {
				return true
			}
		}
		return false
	}
	for _, crit := range c.Criterias {
		if !crit.Match(item) {
			return false
		}
	}
	return true
}

// IsEmpty indica si el compuesto no impone ninguna restricción.
func (c CompositeCriteria[T]) IsEmpty() bool {
	return len(c.Criterias) == 0
}

// ---------------- Helpers ----------------

// And crea un CompositeCriteria con operador AND
func And[T any](criterias ...Criteria[T]) CompositeCriteria[T] {
	return CompositeCriteria[T]{Operator: OpAnd, Criterias: criterias}
}

// Or crea un CompositeCriteria con operador OR
func Or[T any](criterias ...Criteria[T]) CompositeCriteria[T] {
	return CompositeCriteria[T]{Operator: OpOr, Criterias: criterias}
}
