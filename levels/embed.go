package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed *.json
var LevelsFS embed.FS

// DiskRoot is checked for an edited copy of a scene before the embedded one.
var DiskRoot = "levels"

// Scene is a placed composition of prefabs. Position and Scale apply to every
// entity in the scene.
type Scene struct {
	Name     string   `json:"name"`
	Position Vec3     `json:"position"`
	Scale    float64  `json:"scale"`
	Entities []Entity `json:"entities"`
}

// Entity places one prefab. Components are merged over the prefab's own
// component blocks.
type Entity struct {
	Prefab     string         `json:"prefab"`
	Name       string         `json:"name,omitempty"`
	Position   Vec3           `json:"position"`
	Yaw        float64        `json:"yaw,omitempty"` // degrees
	Components map[string]any `json:"components,omitempty"`
}

type Vec3 [3]float64

func LoadSceneFromFS(name string) (*Scene, error) {
	data, err := os.ReadFile(filepath.Join(DiskRoot, name))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	var scene Scene
	if err := json.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("unmarshal scene: %w", err)
	}
	if scene.Scale == 0 {
		scene.Scale = 1
	}
	for i, ent := range scene.Entities {
		if ent.Prefab == "" {
			return nil, fmt.Errorf("scene %s: entity %d has no prefab", name, i)
		}
	}
	return &scene, nil
}
