package stash

import (
	"encoding/json"
	"fmt"
	"time"
)

type (
	// Kind identifies the scalar kind carried by a Value
	Kind uint8

	// Value is a tagged scalar cell value. Tables only store scalars;
	// anything with structure belongs in a Single or a Queue item
	Value struct {
		t    time.Time
		str  string
		num  float64
		kind Kind
		b    bool
	}
)

// Value kinds
const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindDate
)

// Null returns the null Value, which is also the zero Value
func Null() Value {
	return Value{}
}

// String boxes a string as a Value
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number boxes a float64 as a Value
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Int boxes an integer as a numeric Value
func Int(i int64) Value {
	return Number(float64(i))
}

// Bool boxes a bool as a Value
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Date boxes a time.Time as a Value
func Date(t time.Time) Value {
	return Value{kind: KindDate, t: t}
}

// Kind returns the Kind of this Value
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns whether this Value is the null Value
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Str returns the string this Value carries, if it carries one
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Num returns the number this Value carries, if it carries one
func (v Value) Num() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Int64 returns the number this Value carries, truncated to an integer
func (v Value) Int64() (int64, bool) {
	return int64(v.num), v.kind == KindNumber
}

// Boolean returns the bool this Value carries, if it carries one
func (v Value) Boolean() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Time returns the date this Value carries, if it carries one
func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == KindDate
}

// Equal returns whether two Values have the same kind and payload
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindDate:
		return v.t.Equal(o.t)
	}
	return false
}

// Any returns the payload of this Value as its natural Go type
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindDate:
		return v.t
	}
	return nil
}

func (v Value) String() string {
	if v.kind == KindNull {
		return "null"
	}
	return fmt.Sprintf("%v", v.Any())
}

// MarshalJSON renders the Value for debug dumps. Dates are formatted as
// RFC 3339 strings. This is a one-way encoding, not a persistence format
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindDate:
		return json.Marshal(v.t.Format(time.RFC3339))
	}
	return []byte("null"), nil
}
