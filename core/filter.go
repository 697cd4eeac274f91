package core

// FilterKind discriminates the three filter forms a request can carry.
type FilterKind int

const (
	// FilterNone matches every row.
	FilterNone FilterKind = iota
	// FilterEquality matches rows where every listed column equals its value.
	FilterEquality
	// FilterRaw is an opaque filter expression evaluated by the engine.
	FilterRaw
)

// Filter is the tagged union of the filter forms. The zero value is
// FilterNone.
type Filter struct {
	kind FilterKind
	eq   Document
	raw  string
}

// NoFilter returns the filter that matches everything.
func NoFilter() Filter {
	return Filter{}
}

// EqualityFilter returns a column-equals-value filter.
func EqualityFilter(conditions Document) Filter {
	if len(conditions) == 0 {
		return Filter{}
	}
	return Filter{kind: FilterEquality, eq: conditions}
}

// RawFilter returns an opaque expression filter.
func RawFilter(expr string) Filter {
	if expr == "" {
		return Filter{}
	}
	return Filter{kind: FilterRaw, raw: expr}
}

// FilterFrom combines the where/where_raw pair a caller supplies into one
// filter. A raw expression takes precedence over equality conditions when
// both are present.
func FilterFrom(where Document, whereRaw string) Filter {
	if whereRaw != "" {
		return RawFilter(whereRaw)
	}
	return EqualityFilter(where)
}

// Kind returns the filter's discriminant.
func (f Filter) Kind() FilterKind {
	return f.kind
}

// Wire returns the where/where_raw pair every forwarded payload carries.
// Unused halves are an empty object and an empty string, never null, so the
// engine always receives both fields.
func (f Filter) Wire() (where Document, whereRaw string) {
	switch f.kind {
	case FilterEquality:
		return f.eq, ""
	case FilterRaw:
		return Document{}, f.raw
	default:
		return Document{}, ""
	}
}
