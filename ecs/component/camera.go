package component

// Camera marks the entity whose transform is the viewpoint.
type Camera struct {
	FOV             float64 // vertical, degrees
	Near            float64
	Far             float64
	LookSensitivity float64 // radians per pixel of pointer motion
}

var CameraComponent = NewComponent[Camera]()
