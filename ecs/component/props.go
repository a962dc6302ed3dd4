package component

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Orbit circles an entity around the point it was placed at.
type Orbit struct {
	Radius      float64
	Speed       float64 // radians per second
	Height      float64
	Angle       float64
	Center      mgl64.Vec3
	Initialized bool
}

var OrbitComponent = NewComponent[Orbit]()

type SurfaceKind string

const (
	SurfaceMirror      SurfaceKind = "mirror"
	SurfaceVideo       SurfaceKind = "video"
	SurfaceLiveVideo   SurfaceKind = "live_video"
	SurfaceScreenShare SurfaceKind = "screen_share"
)

// Surface is a flat display panel: a mirror, a video, a live stream or a
// shared screen. Playback itself belongs to the host.
type Surface struct {
	Kind    SurfaceKind
	ID      string
	URL     string
	Width   float64
	Height  float64
	Playing bool
	Volume  float64
}

var SurfaceComponent = NewComponent[Surface]()

type LightKind string

const (
	LightAmbient     LightKind = "ambient"
	LightDirectional LightKind = "directional"
)

type Light struct {
	Kind       LightKind
	Intensity  float64
	Direction  mgl64.Vec3
	Color      color.RGBA
	CastShadow bool
}

var LightComponent = NewComponent[Light]()

// SpawnPoint marks where players enter the world. Yaw is in degrees.
type SpawnPoint struct {
	Yaw float64
}

var SpawnPointComponent = NewComponent[SpawnPoint]()

type Skybox struct {
	Radius float64
}

var SkyboxComponent = NewComponent[Skybox]()
