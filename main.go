package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/worldscene/common"
	"github.com/milk9111/worldscene/ecs/component"
	"github.com/milk9111/worldscene/ecs/entity"
)

func main() {
	sceneName := flag.String("scene", "world", "scene name in levels/ (basename, .json optional)")
	modeName := flag.String("mode", "fly", "control mode: fly or physics")
	jumpName := flag.String("jump", "", "physics jump mode: free or grounded (default from the player prefab)")
	bots := flag.Int("bots", 0, "number of simulated remote participants")
	name := flag.String("name", "", "display name of the local participant")
	debug := flag.Bool("debug", false, "enable debug mode")
	watch := flag.Bool("watch", false, "rebuild the scene when prefab, script or scene files change")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	mode, err := entity.ParseControlMode(*modeName)
	if err != nil {
		log.Fatal(err)
	}
	var jump *component.JumpMode
	if *jumpName != "" {
		m, err := component.ParseJumpMode(*jumpName)
		if err != nil {
			log.Fatal(err)
		}
		jump = &m
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("worldscene")

	game, err := NewGame(GameConfig{
		Scene: *sceneName,
		Mode:  mode,
		Jump:  jump,
		Bots:  *bots,
		Name:  *name,
		Debug: *debug,
		Watch: *watch,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
