package core

import "fmt"

// The normalizers turn loosely-typed caller input into fully populated
// operations, rejecting malformed requests before any network call happens.
// Each one validates first, collecting every missing required field, then
// fills defaults in place and wraps the payload in an Operation.

// NormalizeInsert validates and shapes a single-row insert.
func NormalizeInsert(req *InsertRequest) (*Operation, error) {
	missing := req.missingFields()
	if len(req.Data) == 0 {
		missing = append(missing, "data")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	return &Operation{Kind: OpInsert, Body: req}, nil
}

// NormalizeBatchInsert validates and shapes a multi-row insert. Rows that do
// not carry their own id_instancia receive the request-level one; a row's
// explicit value is never overwritten.
func NormalizeBatchInsert(req *BatchInsertRequest) (*Operation, error) {
	missing := req.missingFields()
	if len(req.Data) == 0 {
		missing = append(missing, "data")
	}
	for i, row := range req.Data {
		if len(row) == 0 {
			missing = append(missing, fmt.Sprintf("data[%d]", i))
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	for i := range req.Data {
		req.Data[i].SetDefault("id_instancia", req.InstanceID.Value())
	}

	return &Operation{Kind: OpBatchInsert, Body: req}, nil
}

// NormalizeSelect validates and shapes an advanced select. All optional
// fields default to no-restriction values; the presence of joins decides
// between the plain and join select kinds.
func NormalizeSelect(req *SelectRequest) (*Operation, error) {
	if missing := req.missingFields(); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	if req.Select == nil {
		req.Select = []string{}
	}
	if req.Joins == nil {
		req.Joins = []Join{}
	}
	if req.GroupBy == nil {
		req.GroupBy = []string{}
	}
	if req.OrderBy == nil {
		req.OrderBy = []OrderBy{}
	}
	if req.Limit < 0 {
		req.Limit = 0
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	req.Where, req.WhereRaw = FilterFrom(req.Where, req.WhereRaw).Wire()

	kind := OpSelect
	if len(req.Joins) > 0 {
		kind = OpJoinSelect
	}
	return &Operation{Kind: kind, Body: req}, nil
}

// NormalizeUpdate validates and shapes a single-statement update. An absent
// filter defaults to the empty equality map, which the engine treats as
// matching everything.
func NormalizeUpdate(req *UpdateRequest) (*Operation, error) {
	missing := req.missingFields()
	if len(req.Data) == 0 {
		missing = append(missing, "data")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	req.Where, req.WhereRaw = FilterFrom(req.Where, req.WhereRaw).Wire()

	return &Operation{Kind: OpUpdate, Body: req}, nil
}

// NormalizeBatchUpdate validates and shapes a multi-statement update. Every
// element needs data; element filters default to the empty map.
func NormalizeBatchUpdate(req *BatchUpdateRequest) (*Operation, error) {
	missing := req.missingFields()
	if len(req.Updates) == 0 {
		missing = append(missing, "updates")
	}
	for i, u := range req.Updates {
		if len(u.Data) == 0 {
			missing = append(missing, fmt.Sprintf("updates[%d].data", i))
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	for i := range req.Updates {
		if req.Updates[i].Where == nil {
			req.Updates[i].Where = Document{}
		}
	}

	return &Operation{Kind: OpBatchUpdate, Body: req}, nil
}

// NormalizeDelete validates and shapes a deletion. The mode defaults to hard
// removal when unspecified.
func NormalizeDelete(req *DeleteRequest) (*Operation, error) {
	if missing := req.missingFields(); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	if req.Mode == "" {
		req.Mode = DeleteHard
	}
	if !req.Mode.IsValid() {
		return nil, &InvalidFieldError{
			Field:  "mode",
			Reason: fmt.Sprintf("must be %q or %q, got %q", DeleteHard, DeleteSoft, req.Mode),
		}
	}
	req.Where, req.WhereRaw = FilterFrom(req.Where, req.WhereRaw).Wire()

	return &Operation{Kind: OpDelete, Body: req}, nil
}

// NormalizeAggregate validates and shapes an aggregation. Value-producing
// operators require a column; cardinality operators have any supplied column
// cleared before forwarding.
func NormalizeAggregate(req *AggregateRequest) (*Operation, error) {
	missing := req.missingFields()
	if req.Operation == "" {
		missing = append(missing, "operation")
	} else if req.Operation.NeedsColumn() && req.Column == "" {
		missing = append(missing, "column")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	if !req.Operation.IsValid() {
		return nil, &InvalidFieldError{
			Field:  "operation",
			Reason: fmt.Sprintf("must be one of COUNT, SUM, AVG, MIN, MAX, EXISTS, got %q", req.Operation),
		}
	}
	if !req.Operation.NeedsColumn() {
		req.Column = ""
	}
	req.Where, _ = FilterFrom(req.Where, "").Wire()

	return &Operation{Kind: OpAggregate, Body: req}, nil
}
