package scene

import (
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/teslashibe/go-grasp/pkg/math3"
	"github.com/teslashibe/go-grasp/pkg/physics"
)

//go:embed data/*.json
var embeddedPresets embed.FS

// BodySpec describes one body in a preset. Position is optional; bodies
// without one get a random collision-free placement at populate time.
type BodySpec struct {
	Radius   float64     `json:"radius"`
	Position *[3]float64 `json:"position,omitempty"`
	Color    string      `json:"color"`
}

// CameraSpec is an optional per-preset camera override. FOV is in
// degrees in the JSON for readability.
type CameraSpec struct {
	Position [3]float64 `json:"position"`
	FOV      float64    `json:"fov"`
}

// presetData is the raw JSON structure of a preset file.
type presetData struct {
	Description string      `json:"description"`
	Bodies      []BodySpec  `json:"bodies"`
	Camera      *CameraSpec `json:"camera,omitempty"`
}

// Preset is a loaded, spawnable scene.
type Preset struct {
	Name        string
	Description string
	Bodies      []BodySpec
	Camera      Camera
}

// LoadEmbedded loads a preset from the embedded data.
func LoadEmbedded(name string) (*Preset, error) {
	filename := fmt.Sprintf("data/%s.json", name)
	data, err := embeddedPresets.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return parsePresetJSON(name, data)
}

// LoadFromFile loads a preset from a JSON file on disk. This allows
// users to bring their own scenes.
func LoadFromFile(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	return parsePresetJSON(name, data)
}

// ListEmbedded returns the names of all embedded presets.
func ListEmbedded() ([]string, error) {
	entries, err := embeddedPresets.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded presets: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	return names, nil
}

// Descriptions returns every embedded preset's description keyed by name.
func Descriptions() (map[string]string, error) {
	names, err := ListEmbedded()
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(names))
	for _, name := range names {
		preset, err := LoadEmbedded(name)
		if err != nil {
			return nil, err
		}
		result[name] = preset.Description
	}
	return result, nil
}

// parsePresetJSON parses and validates raw preset data.
func parsePresetJSON(name string, data []byte) (*Preset, error) {
	var raw presetData
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse preset JSON: %w", err)
	}

	if len(raw.Bodies) == 0 {
		return nil, fmt.Errorf("preset %q has no bodies", name)
	}
	for i, b := range raw.Bodies {
		if b.Radius <= 0 {
			return nil, fmt.Errorf("preset %q body %d has non-positive radius", name, i)
		}
	}

	camera := DefaultCamera()
	if raw.Camera != nil {
		camera.Position = math3.V3(raw.Camera.Position[0], raw.Camera.Position[1], raw.Camera.Position[2])
		if raw.Camera.FOV > 0 {
			camera.FOV = raw.Camera.FOV * math.Pi / 180
		}
	}

	return &Preset{
		Name:        name,
		Description: raw.Description,
		Bodies:      raw.Bodies,
		Camera:      camera,
	}, nil
}

// Populate spawns the preset's bodies into the world and returns each
// spawned body's color keyed by id, for the render side. Physics state
// stays color-free.
func (p *Preset) Populate(w *physics.World) map[string]string {
	colors := make(map[string]string, len(p.Bodies))
	for _, spec := range p.Bodies {
		var b *physics.RigidBody
		if spec.Position != nil {
			b = w.SpawnAt(math3.V3(spec.Position[0], spec.Position[1], spec.Position[2]), spec.Radius)
		} else {
			b = w.Spawn(spec.Radius)
		}
		colors[b.ID] = spec.Color
	}
	return colors
}
