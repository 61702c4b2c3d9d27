package stash

type (
	// Predicate decides whether a materialized Row is selected
	Predicate func(Row) bool

	// Where selects the rows an operation applies to. The zero value
	// selects every row, the same as All. Read and delete call sites pass
	// the variant they mean explicitly; there is no nil/absent shape
	Where struct {
		pred Predicate
		eq   Row
		kind whereKind
	}

	whereKind uint8
)

const (
	whereAll whereKind = iota
	whereNone
	whereMatch
	whereEq
)

// All returns a Where that selects every row
func All() Where {
	return Where{kind: whereAll}
}

// None returns a Where that selects no rows
func None() Where {
	return Where{kind: whereNone}
}

// Match returns a Where that selects the rows the Predicate accepts
func Match(p Predicate) Where {
	return Where{kind: whereMatch, pred: p}
}

// Eq returns a Where that selects rows whose columns equal every entry of
// values. An empty map selects no rows, as does a map naming a column the
// table does not have. Neither is an error
func Eq(values Row) Where {
	return Where{kind: whereEq, eq: values}
}
