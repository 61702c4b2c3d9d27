package stash

type (
	// ColumnName is exactly what you think it is
	ColumnName string

	// Row maps column names to scalar Values. Rows returned by a Table
	// always include the PKColumn system column
	Row map[ColumnName]Value
)

// PKColumn is the system column that carries a row's primary key
const PKColumn ColumnName = "_pk"

// PK returns the primary key carried by this Row, or zero if the Row has
// not been committed to a Table
func (r Row) PK() int64 {
	if v, ok := r[PKColumn]; ok {
		if pk, ok := v.Int64(); ok {
			return pk
		}
	}
	return 0
}

// Clone returns a shallow copy of this Row. Values are immutable, so a
// shallow copy is a full copy
func (r Row) Clone() Row {
	res := make(Row, len(r))
	for name, v := range r {
		res[name] = v
	}
	return res
}

// Equal returns whether two Rows carry the same columns and Values
func (r Row) Equal(o Row) bool {
	if len(r) != len(o) {
		return false
	}
	for name, v := range r {
		if ov, ok := o[name]; !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
