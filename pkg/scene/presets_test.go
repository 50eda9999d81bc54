package scene

import (
	"errors"
	"testing"

	"github.com/teslashibe/go-grasp/pkg/physics"
)

func TestListEmbedded(t *testing.T) {
	names, err := ListEmbedded()
	if err != nil {
		t.Fatalf("ListEmbedded failed: %v", err)
	}

	found := make(map[string]bool)
	for _, name := range names {
		found[name] = true
	}
	for _, want := range []string{"sandbox", "duo", "juggle"} {
		if !found[want] {
			t.Errorf("embedded preset %q missing from %v", want, names)
		}
	}
}

func TestLoadEmbedded(t *testing.T) {
	preset, err := LoadEmbedded("sandbox")
	if err != nil {
		t.Fatalf("LoadEmbedded(sandbox) failed: %v", err)
	}

	if preset.Name != "sandbox" {
		t.Errorf("Expected name 'sandbox', got %q", preset.Name)
	}
	if preset.Description == "" {
		t.Error("Expected non-empty description")
	}
	if len(preset.Bodies) != 6 {
		t.Errorf("Expected 6 bodies, got %d", len(preset.Bodies))
	}
	for i, b := range preset.Bodies {
		if b.Color == "" {
			t.Errorf("body %d has no color", i)
		}
	}
}

func TestLoadEmbedded_NotFound(t *testing.T) {
	_, err := LoadEmbedded("no_such_preset_12345")
	if err == nil {
		t.Fatal("Expected error for nonexistent preset")
	}
	if !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}
}

func TestLoadEmbedded_CameraOverride(t *testing.T) {
	preset, err := LoadEmbedded("juggle")
	if err != nil {
		t.Fatalf("LoadEmbedded(juggle) failed: %v", err)
	}

	if preset.Camera.Position.Z != 6.0 {
		t.Errorf("camera Z = %v, want the preset's 6.0", preset.Camera.Position.Z)
	}
	if preset.Camera.FOV <= DefaultCamera().FOV {
		t.Errorf("juggle camera FOV %v should widen past the default %v",
			preset.Camera.FOV, DefaultCamera().FOV)
	}
}

func TestLoadEmbedded_DefaultCamera(t *testing.T) {
	preset, err := LoadEmbedded("sandbox")
	if err != nil {
		t.Fatalf("LoadEmbedded(sandbox) failed: %v", err)
	}

	if preset.Camera != DefaultCamera() {
		t.Errorf("preset without camera block should use the default, got %+v", preset.Camera)
	}
}

func TestParsePresetJSON_Validation(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{bodies`},
		{"no bodies", `{"description": "empty", "bodies": []}`},
		{"zero radius", `{"bodies": [{"radius": 0, "color": "#fff"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parsePresetJSON("bad", []byte(tt.json)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestPreset_Populate(t *testing.T) {
	preset, err := LoadEmbedded("duo")
	if err != nil {
		t.Fatalf("LoadEmbedded(duo) failed: %v", err)
	}

	w := physics.NewWorld(physics.DefaultConfig())
	colors := preset.Populate(w)

	if w.Count() != 2 {
		t.Fatalf("expected 2 bodies in world, got %d", w.Count())
	}
	if len(colors) != 2 {
		t.Fatalf("expected 2 color entries, got %d", len(colors))
	}

	// Fixed positions come through verbatim.
	bodies := w.Bodies()
	if bodies[0].Position.X != -1.0 || bodies[1].Position.X != 1.0 {
		t.Errorf("fixed positions not honored: %+v, %+v", bodies[0].Position, bodies[1].Position)
	}
	for _, b := range bodies {
		if colors[b.ID] == "" {
			t.Errorf("body %s has no color entry", b.ID)
		}
	}
}
