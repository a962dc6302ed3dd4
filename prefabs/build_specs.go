package prefabs

import (
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// EntityBuildSpec is a prefab: a named set of component blocks plus child
// prefabs that are parented under the built entity.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
	Children   []ChildSpec    `yaml:"children"`
}

// ChildSpec places another prefab under its parent at Offset.
type ChildSpec struct {
	Prefab     string         `yaml:"prefab"`
	Name       string         `yaml:"name"`
	Offset     Vec3           `yaml:"offset"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// MergeComponents overlays override onto base. Nested mappings merge key by
// key; any other value replaces the base value. Neither input is modified.
func MergeComponents(base, override map[string]any) map[string]any {
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]any, len(override))
	}
	for k, v := range override {
		if bm, ok := toStringMap(out[k]); ok {
			if om, ok := toStringMap(v); ok {
				out[k] = MergeComponents(bm, om)
				continue
			}
		}
		out[k] = v
	}
	return out
}

func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

type TransformComponentSpec struct {
	Position Vec3    `yaml:"position"`
	Yaw      float64 `yaml:"yaw"`   // degrees
	Pitch    float64 `yaml:"pitch"` // degrees
}

type CameraComponentSpec struct {
	FOV             float64 `yaml:"fov"`
	Near            float64 `yaml:"near"`
	Far             float64 `yaml:"far"`
	LookSensitivity float64 `yaml:"look_sensitivity"`
}

type FlyComponentSpec struct {
	Speed float64 `yaml:"speed"`
}

type PlayerControllerComponentSpec struct {
	MoveSpeed     float64  `yaml:"move_speed"`
	JumpSpeed     float64  `yaml:"jump_speed"`
	JumpMode      string   `yaml:"jump_mode"`
	FallThreshold *float64 `yaml:"fall_threshold"`
}

type InteractorComponentSpec struct {
	MaxDistance *float64 `yaml:"max_distance"`
}

type RigidBodyComponentSpec struct {
	Type         string   `yaml:"type"`
	Collider     string   `yaml:"collider"`
	Size         Vec3     `yaml:"size"`
	Offset       Vec3     `yaml:"offset"`
	Mass         float64  `yaml:"mass"`
	Friction     float64  `yaml:"friction"`
	Restitution  float64  `yaml:"restitution"`
	GravityScale *float64 `yaml:"gravity_scale"`
}

type GroundSensorComponentSpec struct {
	Depth float64 `yaml:"depth"`
}

type MeshComponentSpec struct {
	Shape  string    `yaml:"shape"`
	Size   Vec3      `yaml:"size"`
	Color  YAMLColor `yaml:"color"`
	Hidden bool      `yaml:"hidden"`
}

type LayersComponentSpec struct {
	Interactable bool `yaml:"interactable"`
}

type InteractableComponentSpec struct {
	ID              string `yaml:"id"`
	InteractionText string `yaml:"interaction_text"`
}

type ButtonComponentSpec struct {
	ID             string  `yaml:"id"`
	Label          string  `yaml:"label"`
	UseGlobalState bool    `yaml:"use_global_state"`
	Script         string  `yaml:"script"`
	PressDepth     float64 `yaml:"press_depth"`
	PressDuration  float64 `yaml:"press_duration"`
}

type AttachmentComponentSpec struct {
	Offset Vec3 `yaml:"offset"`
}

type OrbitComponentSpec struct {
	Radius float64 `yaml:"radius"`
	Speed  float64 `yaml:"speed"`
	Height float64 `yaml:"height"`
}

type SurfaceComponentSpec struct {
	Kind    string  `yaml:"kind"`
	ID      string  `yaml:"id"`
	URL     string  `yaml:"url"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Playing bool    `yaml:"playing"`
	Volume  float64 `yaml:"volume"`
}

type LightComponentSpec struct {
	Kind       string    `yaml:"kind"`
	Intensity  float64   `yaml:"intensity"`
	Direction  Vec3      `yaml:"direction"`
	Color      YAMLColor `yaml:"color"`
	CastShadow bool      `yaml:"cast_shadow"`
}

type SpawnPointComponentSpec struct {
	Yaw float64 `yaml:"yaw"`
}

type SkyboxComponentSpec struct {
	Radius float64 `yaml:"radius"`
}

type UserHUDComponentSpec struct {
	Height float64 `yaml:"height"`
	MaxHP  int     `yaml:"max_hp"`
}

type MemberBoardComponentSpec struct {
	Title string `yaml:"title"`
}
