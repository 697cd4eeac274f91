package core

import (
	"encoding/json"
	"testing"
)

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "string form", input: `"proj-1"`, want: "proj-1"},
		{name: "number form", input: `10`, want: "10"},
		{name: "null is zero", input: `null`, want: ""},
		{name: "object rejected", input: `{"id":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected unmarshal of %s to fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to unmarshal %s: %v", tt.input, err)
			}
			if id.String() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, id.String())
			}
		})
	}
}

func TestIDMarshalPreservesForm(t *testing.T) {
	var numeric ID
	if err := json.Unmarshal([]byte(`10`), &numeric); err != nil {
		t.Fatalf("Failed to unmarshal numeric ID: %v", err)
	}
	data, err := json.Marshal(numeric)
	if err != nil {
		t.Fatalf("Failed to marshal numeric ID: %v", err)
	}
	if string(data) != "10" {
		t.Errorf("Expected numeric ID to marshal as 10, got %s", string(data))
	}

	var text ID
	if err := json.Unmarshal([]byte(`"10"`), &text); err != nil {
		t.Fatalf("Failed to unmarshal string ID: %v", err)
	}
	data, err = json.Marshal(text)
	if err != nil {
		t.Fatalf("Failed to marshal string ID: %v", err)
	}
	if string(data) != `"10"` {
		t.Errorf("Expected string ID to marshal as \"10\", got %s", string(data))
	}
}

func TestIDValue(t *testing.T) {
	if v := NumberID(10).Value(); v != json.Number("10") {
		t.Errorf("Expected json.Number(\"10\"), got %v (%T)", v, v)
	}
	if v := StringID("abc").Value(); v != "abc" {
		t.Errorf("Expected \"abc\", got %v (%T)", v, v)
	}
}

func TestIDIsZero(t *testing.T) {
	if !(ID{}).IsZero() {
		t.Error("Expected zero ID to report IsZero")
	}
	if StringID("x").IsZero() {
		t.Error("Expected non-empty ID to not report IsZero")
	}
}
