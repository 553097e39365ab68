package chat

import (
	"encoding/json"
	"testing"
)

type weather struct {
	City  string  `json:"city"`
	TempC float64 `json:"temp_c"`
}

func TestJSONOutput_Modes(t *testing.T) {
	var unset JSONOutput
	if unset.IsSet() || unset.WantsJSON() {
		t.Error("zero value should be unset")
	}
	if f, err := unset.Format(); err != nil || f != nil {
		t.Errorf("expected no format, got %s %v", f, err)
	}

	text := TextMode()
	if !text.IsSet() || text.WantsJSON() {
		t.Error("text mode is set but does not want JSON")
	}
	if f, _ := text.Format(); f != nil {
		t.Errorf("text mode should render no format, got %s", f)
	}

	mode := JSONMode()
	if !mode.WantsJSON() {
		t.Error("JSON mode should want JSON")
	}
	if f, _ := mode.Format(); string(f) != `"json"` {
		t.Errorf("expected \"json\", got %s", f)
	}
}

func TestSchemaFor(t *testing.T) {
	out, err := SchemaFor[weather]()
	if err != nil {
		t.Fatalf("SchemaFor: %v", err)
	}
	if !out.WantsJSON() || out.Schema() == nil {
		t.Fatal("expected structured directive")
	}
	raw, err := out.Format()
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("schema is not a JSON object: %v", err)
	}
	if doc["type"] != "object" {
		t.Errorf("expected object schema, got %v", doc["type"])
	}
	props, _ := doc["properties"].(map[string]any)
	if _, ok := props["city"]; !ok {
		t.Errorf("expected city property, got %v", props)
	}
}
