package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func validTarget() Target {
	return Target{
		ProjectID:  StringID("p1"),
		InstanceID: NumberID(10),
		Table:      "clients",
	}
}

func missingFieldsFrom(t *testing.T, err error) []string {
	t.Helper()
	var mfe *MissingFieldsError
	if !errors.As(err, &mfe) {
		t.Fatalf("Expected MissingFieldsError, got %T: %v", err, err)
	}
	return mfe.Fields
}

func assertFields(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected missing fields %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected missing field %q at index %d, got %q", want[i], i, got[i])
		}
	}
}

func TestNormalizeCollectsAllMissingFields(t *testing.T) {
	tests := []struct {
		name      string
		normalize func() (*Operation, error)
		want      []string
	}{
		{
			name:      "insert",
			normalize: func() (*Operation, error) { return NormalizeInsert(&InsertRequest{}) },
			want:      []string{"project_id", "id_instancia", "table", "data"},
		},
		{
			name:      "batch insert",
			normalize: func() (*Operation, error) { return NormalizeBatchInsert(&BatchInsertRequest{}) },
			want:      []string{"project_id", "id_instancia", "table", "data"},
		},
		{
			name:      "select",
			normalize: func() (*Operation, error) { return NormalizeSelect(&SelectRequest{}) },
			want:      []string{"project_id", "id_instancia", "table"},
		},
		{
			name:      "update",
			normalize: func() (*Operation, error) { return NormalizeUpdate(&UpdateRequest{}) },
			want:      []string{"project_id", "id_instancia", "table", "data"},
		},
		{
			name:      "batch update",
			normalize: func() (*Operation, error) { return NormalizeBatchUpdate(&BatchUpdateRequest{}) },
			want:      []string{"project_id", "id_instancia", "table", "updates"},
		},
		{
			name:      "delete",
			normalize: func() (*Operation, error) { return NormalizeDelete(&DeleteRequest{}) },
			want:      []string{"project_id", "id_instancia", "table"},
		},
		{
			name:      "aggregate",
			normalize: func() (*Operation, error) { return NormalizeAggregate(&AggregateRequest{}) },
			want:      []string{"project_id", "id_instancia", "table", "operation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := tt.normalize()
			if op != nil {
				t.Error("Expected no operation for an empty request")
			}
			assertFields(t, missingFieldsFrom(t, err), tt.want)
		})
	}
}

func TestNormalizeInsert(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := &InsertRequest{
			Target: validTarget(),
			Data:   Document{{Name: "name", Value: "A"}},
		}
		op, err := NormalizeInsert(req)
		if err != nil {
			t.Fatalf("Failed to normalize insert: %v", err)
		}
		if op.Kind != OpInsert {
			t.Errorf("Expected kind %q, got %q", OpInsert, op.Kind)
		}
	})

	t.Run("empty data counts as missing", func(t *testing.T) {
		req := &InsertRequest{Target: validTarget(), Data: Document{}}
		_, err := NormalizeInsert(req)
		assertFields(t, missingFieldsFrom(t, err), []string{"data"})
	})
}

func TestNormalizeBatchInsertCopiesInstanceID(t *testing.T) {
	req := &BatchInsertRequest{
		Target: validTarget(),
		Data: []Document{
			{{Name: "name", Value: "A"}},
			{{Name: "name", Value: "B"}, {Name: "id_instancia", Value: float64(99)}},
		},
	}

	op, err := NormalizeBatchInsert(req)
	if err != nil {
		t.Fatalf("Failed to normalize batch insert: %v", err)
	}
	if op.Kind != OpBatchInsert {
		t.Errorf("Expected kind %q, got %q", OpBatchInsert, op.Kind)
	}

	// Row without id_instancia receives the request-level value
	v, ok := req.Data[0].Get("id_instancia")
	if !ok {
		t.Fatal("Expected first row to receive id_instancia")
	}
	if v != json.Number("10") {
		t.Errorf("Expected first row id_instancia 10, got %v", v)
	}

	// Row with its own id_instancia keeps it
	v, _ = req.Data[1].Get("id_instancia")
	if v != float64(99) {
		t.Errorf("Expected second row to keep id_instancia 99, got %v", v)
	}
}

func TestNormalizeBatchInsertRejectsEmptyRows(t *testing.T) {
	req := &BatchInsertRequest{
		Target: validTarget(),
		Data:   []Document{{{Name: "name", Value: "A"}}, {}},
	}
	_, err := NormalizeBatchInsert(req)
	assertFields(t, missingFieldsFrom(t, err), []string{"data[1]"})
}

func TestNormalizeSelect(t *testing.T) {
	t.Run("defaults fill every optional field", func(t *testing.T) {
		req := &SelectRequest{Target: validTarget(), Limit: -5, Offset: -1}
		op, err := NormalizeSelect(req)
		if err != nil {
			t.Fatalf("Failed to normalize select: %v", err)
		}
		if op.Kind != OpSelect {
			t.Errorf("Expected kind %q, got %q", OpSelect, op.Kind)
		}
		if req.Select == nil || req.Joins == nil || req.GroupBy == nil || req.OrderBy == nil {
			t.Error("Expected all list fields to be non-nil after normalization")
		}
		if req.Where == nil {
			t.Error("Expected where to be an empty document, got nil")
		}
		if req.Limit != 0 || req.Offset != 0 {
			t.Errorf("Expected negative limit/offset clamped to 0, got %d/%d", req.Limit, req.Offset)
		}
	})

	t.Run("joins switch the kind", func(t *testing.T) {
		req := &SelectRequest{
			Target: validTarget(),
			Joins:  []Join{{Table: "orders", Alias: "o", Type: "inner", On: "o.client_id = clients.id"}},
		}
		op, err := NormalizeSelect(req)
		if err != nil {
			t.Fatalf("Failed to normalize join select: %v", err)
		}
		if op.Kind != OpJoinSelect {
			t.Errorf("Expected kind %q, got %q", OpJoinSelect, op.Kind)
		}
	})

	t.Run("raw filter wins", func(t *testing.T) {
		req := &SelectRequest{
			Target:   validTarget(),
			Where:    Document{{Name: "id", Value: 1}},
			WhereRaw: "id > 100",
		}
		if _, err := NormalizeSelect(req); err != nil {
			t.Fatalf("Failed to normalize select: %v", err)
		}
		if len(req.Where) != 0 {
			t.Errorf("Expected equality conditions cleared when raw filter is present, got %v", req.Where)
		}
		if req.WhereRaw != "id > 100" {
			t.Errorf("Expected raw filter preserved, got %q", req.WhereRaw)
		}
	})
}

func TestNormalizeUpdate(t *testing.T) {
	req := &UpdateRequest{
		Target: validTarget(),
		Data:   Document{{Name: "status", Value: "done"}},
	}
	op, err := NormalizeUpdate(req)
	if err != nil {
		t.Fatalf("Failed to normalize update: %v", err)
	}
	if op.Kind != OpUpdate {
		t.Errorf("Expected kind %q, got %q", OpUpdate, op.Kind)
	}
	if req.Where == nil {
		t.Error("Expected absent filter to default to empty document")
	}
}

func TestNormalizeBatchUpdateValidatesElements(t *testing.T) {
	req := &BatchUpdateRequest{
		Target: validTarget(),
		Updates: []BatchUpdate{
			{Data: Document{{Name: "a", Value: 1}}},
			{Where: Document{{Name: "id", Value: 3}}},
		},
	}
	_, err := NormalizeBatchUpdate(req)
	assertFields(t, missingFieldsFrom(t, err), []string{"updates[1].data"})
}

func TestNormalizeBatchUpdateDefaultsElementFilters(t *testing.T) {
	req := &BatchUpdateRequest{
		Target:  validTarget(),
		Updates: []BatchUpdate{{Data: Document{{Name: "a", Value: 1}}}},
	}
	op, err := NormalizeBatchUpdate(req)
	if err != nil {
		t.Fatalf("Failed to normalize batch update: %v", err)
	}
	if op.Kind != OpBatchUpdate {
		t.Errorf("Expected kind %q, got %q", OpBatchUpdate, op.Kind)
	}
	if req.Updates[0].Where == nil {
		t.Error("Expected element filter to default to empty document")
	}
}

func TestNormalizeDelete(t *testing.T) {
	t.Run("mode defaults to hard", func(t *testing.T) {
		req := &DeleteRequest{Target: validTarget()}
		op, err := NormalizeDelete(req)
		if err != nil {
			t.Fatalf("Failed to normalize delete: %v", err)
		}
		if op.Kind != OpDelete {
			t.Errorf("Expected kind %q, got %q", OpDelete, op.Kind)
		}
		if req.Mode != DeleteHard {
			t.Errorf("Expected default mode %q, got %q", DeleteHard, req.Mode)
		}
	})

	t.Run("explicit soft mode passes through", func(t *testing.T) {
		req := &DeleteRequest{Target: validTarget(), Mode: DeleteSoft}
		if _, err := NormalizeDelete(req); err != nil {
			t.Fatalf("Failed to normalize delete: %v", err)
		}
		if req.Mode != DeleteSoft {
			t.Errorf("Expected mode %q, got %q", DeleteSoft, req.Mode)
		}
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		req := &DeleteRequest{Target: validTarget(), Mode: "purge"}
		_, err := NormalizeDelete(req)
		var ife *InvalidFieldError
		if !errors.As(err, &ife) {
			t.Fatalf("Expected InvalidFieldError, got %T: %v", err, err)
		}
		if ife.Field != "mode" {
			t.Errorf("Expected field \"mode\", got %q", ife.Field)
		}
	})
}

func TestNormalizeAggregate(t *testing.T) {
	t.Run("SUM without column rejected", func(t *testing.T) {
		req := &AggregateRequest{Target: validTarget(), Operation: AggSum}
		_, err := NormalizeAggregate(req)
		assertFields(t, missingFieldsFrom(t, err), []string{"column"})
	})

	t.Run("COUNT without column succeeds", func(t *testing.T) {
		req := &AggregateRequest{Target: validTarget(), Operation: AggCount}
		op, err := NormalizeAggregate(req)
		if err != nil {
			t.Fatalf("Failed to normalize aggregate: %v", err)
		}
		if op.Kind != OpAggregate {
			t.Errorf("Expected kind %q, got %q", OpAggregate, op.Kind)
		}
	})

	t.Run("COUNT with column clears it", func(t *testing.T) {
		req := &AggregateRequest{Target: validTarget(), Operation: AggCount, Column: "id"}
		if _, err := NormalizeAggregate(req); err != nil {
			t.Fatalf("Failed to normalize aggregate: %v", err)
		}
		if req.Column != "" {
			t.Errorf("Expected column cleared for COUNT, got %q", req.Column)
		}
	})

	t.Run("EXISTS with filter", func(t *testing.T) {
		req := &AggregateRequest{
			Target:    validTarget(),
			Operation: AggExists,
			Where:     Document{{Name: "email", Value: "a@b.c"}},
		}
		if _, err := NormalizeAggregate(req); err != nil {
			t.Fatalf("Failed to normalize aggregate: %v", err)
		}
		if len(req.Where) != 1 {
			t.Errorf("Expected filter preserved, got %v", req.Where)
		}
	})

	t.Run("unknown operator rejected", func(t *testing.T) {
		req := &AggregateRequest{Target: validTarget(), Operation: "MEDIAN"}
		_, err := NormalizeAggregate(req)
		var ife *InvalidFieldError
		if !errors.As(err, &ife) {
			t.Fatalf("Expected InvalidFieldError, got %T: %v", err, err)
		}
		if ife.Field != "operation" {
			t.Errorf("Expected field \"operation\", got %q", ife.Field)
		}
	})
}
