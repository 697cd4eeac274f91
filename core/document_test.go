package core

import (
	"encoding/json"
	"testing"
)

func TestDocumentFromMapOrdersFields(t *testing.T) {
	doc := DocumentFromMap(map[string]any{
		"zeta":  1,
		"alpha": 2,
		"mid":   3,
	})

	got := doc.Names()
	want := []string{"alpha", "mid", "zeta"}

	if len(got) != len(want) {
		t.Fatalf("Expected %d fields, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected field %q at index %d, got %q", want[i], i, got[i])
		}
	}
}

func TestDocumentMarshalPreservesOrder(t *testing.T) {
	doc := Document{
		{Name: "name", Value: "widget"},
		{Name: "price", Value: 9.5},
		{Name: "active", Value: true},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document: %v", err)
	}

	want := `{"name":"widget","price":9.5,"active":true}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, string(data))
	}
}

func TestDocumentMarshalEmpty(t *testing.T) {
	var nilDoc Document
	data, err := json.Marshal(nilDoc)
	if err != nil {
		t.Fatalf("Failed to marshal nil document: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected nil document to marshal as {}, got %s", string(data))
	}

	data, err = json.Marshal(Document{})
	if err != nil {
		t.Fatalf("Failed to marshal empty document: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty document to marshal as {}, got %s", string(data))
	}
}

func TestDocumentUnmarshal(t *testing.T) {
	var doc Document
	if err := json.Unmarshal([]byte(`{"b":2,"a":"x","c":null}`), &doc); err != nil {
		t.Fatalf("Failed to unmarshal document: %v", err)
	}

	if len(doc) != 3 {
		t.Fatalf("Expected 3 fields, got %d", len(doc))
	}

	// Fields come out sorted by name regardless of input order
	names := doc.Names()
	want := []string{"a", "b", "c"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected field %q at index %d, got %q", want[i], i, names[i])
		}
	}

	if v, ok := doc.Get("a"); !ok || v != "x" {
		t.Errorf("Expected field a to be \"x\", got %v (present=%t)", v, ok)
	}

	// Numbers keep their literal form through a round trip
	if v, _ := doc.Get("b"); v != json.Number("2") {
		t.Errorf("Expected field b to decode as json.Number, got %T %v", v, v)
	}
}

func TestDocumentUnmarshalRejectsNonObject(t *testing.T) {
	var doc Document
	if err := json.Unmarshal([]byte(`["not","an","object"]`), &doc); err == nil {
		t.Error("Expected unmarshal of a JSON array to fail")
	}
}

func TestDocumentSetDefault(t *testing.T) {
	doc := Document{{Name: "name", Value: "A"}}

	if added := doc.SetDefault("id_instancia", 10); !added {
		t.Error("Expected SetDefault to add an absent field")
	}
	if v, _ := doc.Get("id_instancia"); v != 10 {
		t.Errorf("Expected id_instancia to be 10, got %v", v)
	}

	if added := doc.SetDefault("id_instancia", 99); added {
		t.Error("Expected SetDefault to leave an existing field unchanged")
	}
	if v, _ := doc.Get("id_instancia"); v != 10 {
		t.Errorf("Expected id_instancia to stay 10, got %v", v)
	}
}

func TestDocumentSet(t *testing.T) {
	var doc Document

	doc.Set("status", "new")
	doc.Set("status", "done")

	if len(doc) != 1 {
		t.Fatalf("Expected 1 field after double Set, got %d", len(doc))
	}
	if v, _ := doc.Get("status"); v != "done" {
		t.Errorf("Expected status to be \"done\", got %v", v)
	}
}
