package core

// Result is the uniform envelope shared by gateway responses and engine
// responses. Failed calls always carry Success=false with a populated
// message; callers never need to distinguish "empty result" from "failed
// call" by other means.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Count   *int64 `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failure builds a failed envelope. The detail lands in the error field and
// may be empty.
func Failure(message, detail string) *Result {
	return &Result{Success: false, Message: message, Error: detail}
}

// SetCount sets the affected/returned row count.
func (r *Result) SetCount(n int64) {
	r.Count = &n
}

// EnsureListShape coerces Data into list form for list-producing operations.
// A scalar or object is wrapped into a one-element list and a missing value
// becomes the empty list, so callers always receive the type they expect.
// When the engine omitted the count it is derived from the list length.
func (r *Result) EnsureListShape() {
	var list []any
	switch d := r.Data.(type) {
	case nil:
		list = []any{}
	case []any:
		list = d
	default:
		list = []any{d}
	}
	r.Data = list

	if r.Count == nil {
		r.SetCount(int64(len(list)))
	}
}
