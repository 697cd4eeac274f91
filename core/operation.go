package core

// OpKind identifies one of the data operations the gateway forwards.
type OpKind string

const (
	OpInsert      OpKind = "insert"
	OpBatchInsert OpKind = "batch_insert"
	OpSelect      OpKind = "select"
	OpJoinSelect  OpKind = "join_select"
	OpUpdate      OpKind = "update"
	OpBatchUpdate OpKind = "batch_update"
	OpDelete      OpKind = "delete"
	OpAggregate   OpKind = "aggregate"
)

// Path returns the engine endpoint the kind is forwarded to. Plain and join
// selects share the /get endpoint; the payload shape tells them apart.
func (k OpKind) Path() string {
	switch k {
	case OpSelect, OpJoinSelect:
		return "/get"
	case OpBatchInsert:
		return "/batch-insert"
	case OpBatchUpdate:
		return "/batch-update"
	default:
		return "/" + string(k)
	}
}

// ExpectsList reports whether the kind produces a list of rows, so the
// response shape can be coerced accordingly.
func (k OpKind) ExpectsList() bool {
	return k == OpSelect || k == OpJoinSelect
}

// Operation is a fully normalized request, ready to forward. Body is the
// kind's wire payload; it marshals to exactly the JSON the engine expects.
type Operation struct {
	Kind OpKind
	Body any

	// IdempotencyKey deduplicates client-side retries of inserts. Set by
	// the inbound boundary for insert kinds only.
	IdempotencyKey string
}

// Target identifies the table a request operates on. All three fields are
// required for every operation kind.
type Target struct {
	ProjectID  ID     `json:"project_id"`
	InstanceID ID     `json:"id_instancia"`
	Table      string `json:"table"`
}

// missingFields lists the required target fields the caller left absent or
// empty, in wire-name form.
func (t Target) missingFields() []string {
	var missing []string
	if t.ProjectID.IsZero() {
		missing = append(missing, "project_id")
	}
	if t.InstanceID.IsZero() {
		missing = append(missing, "id_instancia")
	}
	if t.Table == "" {
		missing = append(missing, "table")
	}
	return missing
}

// InsertRequest is the payload for single-row inserts.
type InsertRequest struct {
	Target
	Data Document `json:"data"`
}

// BatchInsertRequest is the payload for multi-row inserts.
type BatchInsertRequest struct {
	Target
	Data []Document `json:"data"`
}

// Join describes one join clause in an advanced select.
type Join struct {
	Table string `json:"table"`
	Alias string `json:"alias"`
	Type  string `json:"type"`
	On    string `json:"on"`
}

// OrderBy describes one ordering clause in an advanced select.
type OrderBy struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

// SelectRequest is the payload for advanced selects, with or without joins.
// Optional fields default to no-restriction values during normalization so
// the engine always receives the full shape.
type SelectRequest struct {
	Target
	Alias    string    `json:"alias"`
	Select   []string  `json:"select"`
	Joins    []Join    `json:"joins"`
	Where    Document  `json:"where"`
	WhereRaw string    `json:"where_raw"`
	GroupBy  []string  `json:"group_by"`
	Having   string    `json:"having"`
	OrderBy  []OrderBy `json:"order_by"`
	Limit    int64     `json:"limit"`
	Offset   int64     `json:"offset"`
}

// UpdateRequest is the payload for single-statement updates.
type UpdateRequest struct {
	Target
	Data     Document `json:"data"`
	Where    Document `json:"where"`
	WhereRaw string   `json:"where_raw"`
}

// BatchUpdate is one data/filter pair inside a batch update.
type BatchUpdate struct {
	Data  Document `json:"data"`
	Where Document `json:"where"`
}

// BatchUpdateRequest is the payload for multi-statement updates.
type BatchUpdateRequest struct {
	Target
	Updates []BatchUpdate `json:"updates"`
}

// DeleteMode selects between irreversible removal and soft deletion.
type DeleteMode string

const (
	// DeleteHard removes rows permanently. This is the default.
	DeleteHard DeleteMode = "hard"
	// DeleteSoft marks rows deleted without removing them.
	DeleteSoft DeleteMode = "soft"
)

// IsValid reports whether the mode is one of the two supported values.
func (m DeleteMode) IsValid() bool {
	return m == DeleteHard || m == DeleteSoft
}

// DeleteRequest is the payload for deletions. Mode defaults to hard removal;
// callers wanting reversible deletion must ask for soft mode explicitly.
type DeleteRequest struct {
	Target
	Where    Document   `json:"where"`
	WhereRaw string     `json:"where_raw"`
	Mode     DeleteMode `json:"mode"`
}

// AggregateOp is one of the supported aggregation operators.
type AggregateOp string

const (
	AggCount  AggregateOp = "COUNT"
	AggSum    AggregateOp = "SUM"
	AggAvg    AggregateOp = "AVG"
	AggMin    AggregateOp = "MIN"
	AggMax    AggregateOp = "MAX"
	AggExists AggregateOp = "EXISTS"
)

// IsValid reports whether the operator is in the supported set.
func (op AggregateOp) IsValid() bool {
	switch op {
	case AggCount, AggSum, AggAvg, AggMin, AggMax, AggExists:
		return true
	}
	return false
}

// NeedsColumn reports whether the operator aggregates over a column. COUNT
// and EXISTS measure cardinality and take no column.
func (op AggregateOp) NeedsColumn() bool {
	switch op {
	case AggSum, AggAvg, AggMin, AggMax:
		return true
	}
	return false
}

// AggregateRequest is the payload for aggregations.
type AggregateRequest struct {
	Target
	Operation AggregateOp `json:"operation"`
	Column    string      `json:"column"`
	Where     Document    `json:"where"`
}
