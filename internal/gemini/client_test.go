package gemini

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestTypeFieldShapes(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{`"Fire"`, []string{"Fire"}},
		{`["Fire","Flying"]`, []string{"Fire", "Flying"}},
		{`""`, nil},
		{`null`, nil},
		{`42`, nil},
	}
	for _, tt := range tests {
		var field TypeField
		if err := json.Unmarshal([]byte(tt.raw), &field); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.raw, err)
		}
		if len(field.Tags) != len(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.raw, field.Tags, tt.want)
			continue
		}
		for i := range tt.want {
			if field.Tags[i] != tt.want[i] {
				t.Errorf("%s: got %v, want %v", tt.raw, field.Tags, tt.want)
			}
		}
	}
}

func TestMetaDecoding(t *testing.T) {
	raw := `{
		"name": "Blazemander",
		"type": ["Fire", "Flying"],
		"powers": [{"name": "Flame Burst", "description": "Blazemander bursts."}],
		"characteristics": "Bold."
	}`

	var meta Meta
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if meta.Name != "Blazemander" || len(meta.Type.Tags) != 2 || len(meta.Powers) != 1 {
		t.Errorf("got %+v", meta)
	}
}

func TestGenerationErrorUnwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := newGenerationError("creature_meta", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}

	var genErr *GenerationError
	if !errors.As(error(err), &genErr) {
		t.Fatal("errors.As failed")
	}
	if genErr.Stage != "creature_meta" {
		t.Errorf("got stage %q", genErr.Stage)
	}
}
