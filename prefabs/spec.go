package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Vec3 decodes either a [x, y, z] sequence or a {x, y, z} mapping.
type Vec3 struct {
	mgl64.Vec3
	Set bool
}

func (v *Vec3) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xs []float64
		if err := value.Decode(&xs); err != nil {
			return err
		}
		if len(xs) != 3 {
			return fmt.Errorf("vector must have 3 components, got %d", len(xs))
		}
		v.Vec3 = mgl64.Vec3{xs[0], xs[1], xs[2]}
	case yaml.MappingNode:
		var m struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
			Z float64 `yaml:"z"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		v.Vec3 = mgl64.Vec3{m.X, m.Y, m.Z}
	default:
		return fmt.Errorf("vector must be a sequence or mapping")
	}
	v.Set = true
	return nil
}

// MarshalYAML keeps vectors round-trippable through DecodeComponentSpec.
func (v Vec3) MarshalYAML() (any, error) {
	if !v.Set {
		return nil, nil
	}
	return []float64{v.X(), v.Y(), v.Z()}, nil
}

// Or returns the vector, or def when it was not given.
func (v Vec3) Or(def mgl64.Vec3) mgl64.Vec3 {
	if !v.Set {
		return def
	}
	return v.Vec3
}

type YAMLColor struct {
	color.RGBA
	Set bool
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseHexColor(value.Value)
	if err != nil {
		return err
	}
	c.RGBA = parsed
	c.Set = true
	return nil
}

func (c YAMLColor) MarshalYAML() (any, error) {
	if !c.Set {
		return nil, nil
	}
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A), nil
}

// Or returns the colour, or def when it was not given.
func (c YAMLColor) Or(def color.RGBA) color.RGBA {
	if !c.Set {
		return def
	}
	return c.RGBA
}

// ParseHexColor parses #rrggbb or #rrggbbaa.
func ParseHexColor(v string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(v), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color format: %q", v)
	}

	parse := func(start int) (uint8, error) {
		n, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(n), err
	}

	r, err := parse(0)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse red component: %w", err)
	}
	g, err := parse(2)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse green component: %w", err)
	}
	b, err := parse(4)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse blue component: %w", err)
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parse alpha component: %w", err)
		}
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
