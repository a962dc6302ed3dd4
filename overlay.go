package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/worldscene/common"
)

const (
	crosshairSize       = 20
	crosshairThickness  = 2
	crosshairActiveLine = 3
)

var (
	crosshairIdle   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 26}
	crosshairActive = color.NRGBA{R: 0x4d, G: 0xab, B: 0xf7, A: 0xff}
)

// drawCrosshair draws the screen-centre cross. It switches to the active
// colour while an interactable is hovered and prints its interaction text.
func drawCrosshair(screen *ebiten.Image, active bool, text string) {
	cx := float32(common.BaseWidth) / 2
	cy := float32(common.BaseHeight) / 2
	half := float32(crosshairSize) / 2

	c := color.Color(crosshairIdle)
	width := float32(crosshairThickness)
	if active {
		c = crosshairActive
		width = crosshairActiveLine
	}
	vector.StrokeLine(screen, cx-half, cy, cx+half, cy, width, c, true)
	vector.StrokeLine(screen, cx, cy-half, cx, cy+half, width, c, true)

	if active && text != "" {
		ebitenutil.DebugPrintAt(screen, text, int(cx)-len(text)*3, int(cy+half)+6)
	}
}

func drawLockHint(screen *ebiten.Image) {
	const msg = "Click to look around"
	ebitenutil.DebugPrintAt(screen, msg, common.BaseWidth/2-len(msg)*3, common.BaseHeight-40)
}
