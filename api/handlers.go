package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"datagate/config"
	"datagate/core"
	"datagate/engine"
	"datagate/middleware/auth"
	"datagate/middleware/requestid"
)

// Handler returns the HTTP handler for the JSON forwarding surface. Every
// route carries a request ID; everything except /health sits behind the
// API-key check.
func Handler(cfg *config.Config, forwarder core.Forwarder) http.Handler {
	handler := &GatewayHandler{forwarder: forwarder}

	keyed := http.NewServeMux()
	keyed.HandleFunc("/insert", handler.insertHandler)
	keyed.HandleFunc("/batch-insert", handler.batchInsertHandler)
	keyed.HandleFunc("/get", handler.getHandler)
	keyed.HandleFunc("/update", handler.updateHandler)
	keyed.HandleFunc("/batch-update", handler.batchUpdateHandler)
	keyed.HandleFunc("/delete", handler.deleteHandler)
	keyed.HandleFunc("/aggregate", handler.aggregateHandler)

	requireKey := auth.RequireAPIKey(cfg.APIKeys)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handler.healthHandler)
	mux.Handle("/", requireKey(keyed))

	return requestid.Middleware(mux)
}

// GatewayHandler provides the HTTP handler methods of the JSON API
type GatewayHandler struct {
	forwarder core.Forwarder
}

// insertHandler forwards a single-row insert
func (h *GatewayHandler) insertHandler(w http.ResponseWriter, r *http.Request) {
	var req core.InsertRequest
	if !decodePost(w, r, &req) {
		return
	}

	op, err := core.NormalizeInsert(&req)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	h.forward(w, r, op)
}

// batchInsertHandler forwards a multi-row insert
func (h *GatewayHandler) batchInsertHandler(w http.ResponseWriter, r *http.Request) {
	var req core.BatchInsertRequest
	if !decodePost(w, r, &req) {
		return
	}

	op, err := core.NormalizeBatchInsert(&req)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	h.forward(w, r, op)
}

// getHandler forwards an advanced select, with or without joins
func (h *GatewayHandler) getHandler(w http.ResponseWriter, r *http.Request) {
	var req core.SelectRequest
	if !decodePost(w, r, &req) {
		return
	}

	op, err := core.NormalizeSelect(&req)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	h.forward(w, r, op)
}

// updateHandler forwards a filtered update
func (h *GatewayHandler) updateHandler(w http.ResponseWriter, r *http.Request) {
	var req core.UpdateRequest
	if !decodePost(w, r, &req) {
		return
	}

	op, err := core.NormalizeUpdate(&req)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	h.forward(w, r, op)
}

// batchUpdateHandler forwards a list of update pairs
func (h *GatewayHandler) batchUpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req core.BatchUpdateRequest
	if !decodePost(w, r, &req) {
		return
	}

	op, err := core.NormalizeBatchUpdate(&req)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	h.forward(w, r, op)
}

// deleteHandler forwards a hard or soft delete
func (h *GatewayHandler) deleteHandler(w http.ResponseWriter, r *http.Request) {
	var req core.DeleteRequest
	if !decodePost(w, r, &req) {
		return
	}

	op, err := core.NormalizeDelete(&req)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	h.forward(w, r, op)
}

// aggregateHandler forwards an aggregation
func (h *GatewayHandler) aggregateHandler(w http.ResponseWriter, r *http.Request) {
	var req core.AggregateRequest
	if !decodePost(w, r, &req) {
		return
	}

	op, err := core.NormalizeAggregate(&req)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	h.forward(w, r, op)
}

// healthHandler reports gateway and engine status without requiring a key
func (h *GatewayHandler) healthHandler(w http.ResponseWriter, r *http.Request) {
	engineStatus := "up"
	message := "gateway is healthy"
	if err := h.forwarder.Ping(r.Context()); err != nil {
		engineStatus = "down"
		message = "data engine is unreachable"
	}

	writeJSON(w, http.StatusOK, &core.Result{
		Success: true,
		Message: message,
		Data:    map[string]string{"engine": engineStatus},
	})
}

// forward sends a normalized operation downstream and writes the outcome.
// Insert kinds always carry an idempotency key: the caller's when supplied,
// a generated one otherwise, so client-side retries stay deduplicatable.
func (h *GatewayHandler) forward(w http.ResponseWriter, r *http.Request, op *core.Operation) {
	if op.Kind == core.OpInsert || op.Kind == core.OpBatchInsert {
		op.IdempotencyKey = r.Header.Get(engine.IdempotencyKeyHeader)
		if op.IdempotencyKey == "" {
			op.IdempotencyKey = uuid.NewString()
		}
	}

	res, err := h.forwarder.Do(r.Context(), op)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// decodePost enforces the POST-only contract and decodes the JSON body
func decodePost(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		writeFailure(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeFailure(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), "")
		return false
	}
	return true
}
