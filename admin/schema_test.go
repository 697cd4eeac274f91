package admin

import (
	"net/url"
	"testing"
)

func TestParseSchemaForm(t *testing.T) {
	form := url.Values{
		"table_name":   {"Order Items"},
		"col_name":     {"ID", "customerName", "total", ""},
		"col_type":     {"number", "text", "number", "text"},
		"col_required": {"true", "true", "false", "false"},
		"col_default":  {"", "", "0", ""},
	}

	schema, err := parseSchemaForm("p1", form)
	if err != nil {
		t.Fatalf("Expected schema, got error: %v", err)
	}

	if schema.ProjectID != "p1" {
		t.Errorf("Expected project ID p1, got %s", schema.ProjectID)
	}
	if schema.Name != "order_items" {
		t.Errorf("Expected table name order_items, got %s", schema.Name)
	}
	if len(schema.Columns) != 3 {
		t.Fatalf("Expected 3 columns (blank row skipped), got %d", len(schema.Columns))
	}

	expected := []struct {
		name     string
		typ      string
		required bool
		def      string
	}{
		{"id", "number", true, ""},
		{"customer_name", "text", true, ""},
		{"total", "number", false, "0"},
	}

	for i, want := range expected {
		col := schema.Columns[i]
		if col.Name != want.name {
			t.Errorf("Column %d: expected name %s, got %s", i, want.name, col.Name)
		}
		if col.Type != want.typ {
			t.Errorf("Column %d: expected type %s, got %s", i, want.typ, col.Type)
		}
		if col.Required != want.required {
			t.Errorf("Column %d: expected required=%v, got %v", i, want.required, col.Required)
		}
		if col.Default != want.def {
			t.Errorf("Column %d: expected default %q, got %q", i, want.def, col.Default)
		}
	}
}

func TestParseSchemaFormValidation(t *testing.T) {
	tests := []struct {
		name        string
		form        url.Values
		expectedErr string
	}{
		{
			name: "missing table name",
			form: url.Values{
				"col_name": {"id"},
				"col_type": {"number"},
			},
			expectedErr: "table name is required",
		},
		{
			name: "no columns",
			form: url.Values{
				"table_name": {"orders"},
				"col_name":   {"", "  "},
				"col_type":   {"text", "text"},
			},
			expectedErr: "at least one column is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSchemaForm("p1", tt.form)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if err.Error() != tt.expectedErr {
				t.Errorf("Expected error %q, got %q", tt.expectedErr, err.Error())
			}
		})
	}
}

func TestParseSchemaFormUnknownTypeFallsBack(t *testing.T) {
	form := url.Values{
		"table_name": {"orders"},
		"col_name":   {"notes"},
		"col_type":   {"blob"},
	}

	schema, err := parseSchemaForm("p1", form)
	if err != nil {
		t.Fatalf("Expected schema, got error: %v", err)
	}

	if schema.Columns[0].Type != "text" {
		t.Errorf("Expected unknown type to fall back to text, got %s", schema.Columns[0].Type)
	}
}
