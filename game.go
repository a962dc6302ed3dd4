package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/worldscene/common"
	"github.com/milk9111/worldscene/ecs"
	"github.com/milk9111/worldscene/ecs/component"
	"github.com/milk9111/worldscene/ecs/entity"
	"github.com/milk9111/worldscene/ecs/render"
	"github.com/milk9111/worldscene/ecs/system"
	"github.com/milk9111/worldscene/levels"
	"github.com/milk9111/worldscene/prefabs"
	"github.com/milk9111/worldscene/roster"
	"github.com/milk9111/worldscene/state"
)

// GameConfig is the harness configuration taken from the command line.
type GameConfig struct {
	Scene string
	Mode  entity.ControlMode
	Jump  *component.JumpMode
	Bots  int
	Name  string
	Debug bool
	Watch bool
}

type Game struct {
	frames int
	cfg    GameConfig

	world     *ecs.World
	scheduler *ecs.Scheduler
	renderer  *render.Renderer
	input     *render.EbitenInput

	physics    *system.PhysicsSystem
	raycast    *system.InteractionRaycastSystem
	rosterSync *system.RosterSyncSystem
	bots       *system.BotSystem

	roster   *roster.Roster
	instance *state.Instance
	local    *state.Local
	shared   *state.Shared

	hovering     bool
	landings     int
	lastInteract string
	showHelp     bool
	helpUI       *ebitenui.UI

	watcher *prefabs.Watcher
	reload  chan prefabs.Change
}

func NewGame(cfg GameConfig) (*Game, error) {
	g := &Game{
		cfg:      cfg,
		world:    ecs.NewWorld(),
		renderer: render.NewRenderer(),
		input:    render.NewEbitenInput(),
		roster:   roster.New(roster.NewUser(cfg.Name)),
		instance: state.NewInstance(),
		local:    state.NewLocal(),
		showHelp: true,
		reload:   make(chan prefabs.Change, 1),
	}
	g.shared = g.instance.Join(g.roster.Local().ID)
	log.Printf("state: joined instance as %s (%s)", g.roster.Local().DisplayName, g.shared.Participant())

	g.physics = system.NewPhysicsSystem()
	g.raycast = system.NewInteractionRaycastSystem(func(hovering bool) {
		g.hovering = hovering
	})
	g.rosterSync = system.NewRosterSyncSystem(g.roster)
	g.bots = system.NewBotSystem(g.roster, cfg.Bots, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))

	g.scheduler = ecs.NewScheduler(
		system.NewInputSystem(g.input),
		system.NewCameraLookSystem(),
		system.NewFlyMovementSystem(),
		system.NewPlayerControllerSystem(),
		g.physics,
		system.NewFallGuardSystem(),
		system.NewOrbitSystem(),
		g.bots,
		g.rosterSync,
		g.raycast,
		system.NewInteractSystem(g.raycast),
		system.NewButtonSystem(g.local, g.shared),
		system.NewAttachmentSystem(),
	)

	if err := g.loadScene(); err != nil {
		return nil, err
	}

	g.helpUI = NewHelpUI(g)

	if cfg.Watch {
		w, err := prefabs.NewWatcher(prefabs.DiskRoot, filepath.Join(prefabs.DiskRoot, "scripts"), levels.DiskRoot)
		if err != nil {
			log.Printf("watch: disabled: %v", err)
		} else {
			g.watcher = w
			go g.forwardReloads()
		}
	}

	return g, nil
}

func (g *Game) loadScene() error {
	name := g.cfg.Scene
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	scene, err := levels.LoadSceneFromFS(name)
	if err != nil {
		return err
	}

	ecs.Clear(g.world)
	handles, err := entity.LoadSceneToWorld(g.world, scene, entity.SceneOptions{Mode: g.cfg.Mode, JumpMode: g.cfg.Jump})
	if err != nil {
		return err
	}
	g.rosterSync.Reset()
	g.bots.Rejoin()
	log.Printf("scene: loaded %s (%d entities, %s mode, spawn %.2f %.2f %.2f)", name, len(ecs.Entities(g.world)), g.cfg.Mode, handles.Spawn.X(), handles.Spawn.Y(), handles.Spawn.Z())
	return nil
}

// forwardReloads collapses watcher events into a single pending reload the
// frame loop picks up.
func (g *Game) forwardReloads() {
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				return
			}
			select {
			case g.reload <- change:
			default:
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		}
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.instance.Leave(g.roster.Local().ID)
}

func (g *Game) Update() error {
	g.frames++

	select {
	case change := <-g.reload:
		log.Printf("watch: %s %s changed, rebuilding scene", change.Kind, change.Path)
		if err := g.loadScene(); err != nil {
			log.Printf("watch: rebuild failed: %v", err)
		}
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showHelp = !g.showHelp
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.cfg.Debug = !g.cfg.Debug
	}

	g.scheduler.Update(g.world, 1.0/float64(ebiten.TPS()))

	for _, ev := range g.world.Events().Drain() {
		switch data := ev.Data.(type) {
		case ecs.CollisionEvent:
			if data.Kind == ecs.CollisionEventGrounded && ecs.Has(g.world, data.Entity, component.PlayerTagComponent.Kind()) {
				g.landings++
			}
		case ecs.InteractEvent:
			g.lastInteract = data.HandlerID
		}
	}

	if g.showHelp {
		g.helpUI.Update()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(g.world, screen)

	if g.cfg.Debug {
		if view, ok := render.ViewFromWorld(g.world, screen.Bounds().Dx(), screen.Bounds().Dy()); ok {
			render.DrawPhysicsDebug(g.physics, view, screen)
		}
		render.DrawPlayerStateDebug(g.world, screen)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Frames: %d  FPS: %.2f  Landings: %d  Shared keys: %d  Last click: %s", g.frames, ebiten.ActualFPS(), g.landings, len(g.instance.Snapshot()), g.lastInteract), 10, common.BaseHeight-20)
	}

	text := ""
	if hit, ok := g.raycast.Current(); ok {
		text = system.InteractionText(g.world, hit.Entity)
	}
	drawCrosshair(screen, g.hovering, text)
	if !g.input.PointerLocked() {
		drawLockHint(screen)
	}

	if g.showHelp {
		g.helpUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
