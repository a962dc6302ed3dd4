package common

// Logical screen size; the window scales it to fit.
const (
	BaseWidth  = 1280
	BaseHeight = 720
)
