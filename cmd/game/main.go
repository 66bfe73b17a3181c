package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/1siamBot/fitview/engine/assets"
	"github.com/1siamBot/fitview/engine/camera"
	"github.com/1siamBot/fitview/engine/config"
	"github.com/1siamBot/fitview/engine/control"
	"github.com/1siamBot/fitview/engine/core"
	"github.com/1siamBot/fitview/engine/input"
	"github.com/1siamBot/fitview/engine/logging"
	"github.com/1siamBot/fitview/engine/render"
	"github.com/1siamBot/fitview/engine/replay"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game implements ebiten.Game
type Game struct {
	camera   *camera.Camera
	ctl      *control.Controller
	input    *input.InputState
	renderer *render.Renderer
	eventBus *core.EventBus
	log      *slog.Logger

	recorder *replay.Recorder
	playback *replay.Replay
}

func NewGame(cfg config.Config) (*Game, error) {
	log := logging.WithComponent("game")

	cam, err := camera.New(cfg.CameraOptions())
	if err != nil {
		return nil, err
	}

	img, err := assets.Backdrop(cfg.Scene.Backdrop, cfg.Camera.WorldWidth, cfg.Camera.WorldHeight, cfg.Scene.CellSize)
	if err != nil {
		return nil, err
	}
	_, _, scale, err := assets.BackdropSize(cfg.Camera.WorldWidth, cfg.Camera.WorldHeight)
	if err != nil {
		return nil, err
	}

	g := &Game{
		camera:   cam,
		input:    input.NewInputState(cfg.Input.DragThreshold),
		renderer: render.NewRenderer(cam, img, scale),
		eventBus: core.NewEventBus(),
		log:      log,
	}
	g.renderer.ShowHUD = cfg.Scene.ShowHUD
	g.ctl = control.NewController(cam, g.eventBus, cfg.Bindings())
	g.subscribe()

	log.Info("camera ready",
		"world_w", cfg.Camera.WorldWidth, "world_h", cfg.Camera.WorldHeight,
		"padding", cfg.Camera.Padding, "full_overlay", cfg.Camera.FullOverlay,
		"backdrop", cfg.Scene.Backdrop)
	return g, nil
}

func (g *Game) subscribe() {
	log := logging.WithOperation(g.log, "events")
	g.eventBus.On(core.EvtViewportResized, func(e core.Event) {
		p := e.Payload.(core.ResizePayload)
		vp := g.camera.WorldViewport()
		log.Debug(e.Type.String(), "frame", e.Frame, "screen_w", p.ScreenW, "screen_h", p.ScreenH,
			"vp_x", vp.X, "vp_y", vp.Y, "vp_w", vp.W, "vp_h", vp.H)
	})
	g.eventBus.On(core.EvtZoomed, func(e core.Event) {
		p := e.Payload.(core.ZoomPayload)
		log.Debug(e.Type.String(), "frame", e.Frame, "from", p.From, "to", p.To)
	})
	for _, t := range []core.EventType{core.EvtPanned, core.EvtCentered} {
		g.eventBus.On(t, func(e core.Event) {
			p := e.Payload.(core.PanPayload)
			log.Debug(e.Type.String(), "frame", e.Frame, "x", p.To.X(), "y", p.To.Y())
		})
	}
	g.eventBus.On(core.EvtPicked, func(e core.Event) {
		p := e.Payload.(core.PickPayload)
		log.Info(e.Type.String(), "screen_x", p.ScreenX, "screen_y", p.ScreenY,
			"world_ok", p.WorldOK, "world_x", p.World.X(), "world_y", p.World.Y(),
			"overlay_ok", p.OverlayOK, "overlay_x", p.Overlay.X(), "overlay_y", p.Overlay.Y())
	})
	g.eventBus.On(core.EvtPicked, g.renderer.OnPick)
	g.eventBus.On(core.EvtOverlayUnavailable, func(e core.Event) {
		log.Warn(e.Type.String(), "frame", e.Frame, "err", e.Payload)
	})
}

func (g *Game) Update() error {
	if g.playback != nil {
		g.playback.Step(g.ctl)
		g.eventBus.Dispatch()
		if g.playback.Done() {
			g.log.Info("replay finished", "ticks", g.playback.Tick())
			return ebiten.Termination
		}
		return nil
	}

	g.input.Update()
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.renderer.ShowHUD = !g.renderer.ShowHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	f := g.input.Frame()
	g.ctl.Apply(f)
	if g.recorder != nil {
		if err := g.recorder.Frame(f); err != nil {
			return err
		}
		g.recorder.Advance()
	}
	g.eventBus.Dispatch()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.input.MouseX, g.input.MouseY)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.playback != nil {
		if w, h, ok := g.playback.ScreenSize(); ok {
			return w, h
		}
		return outsideWidth, outsideHeight
	}
	if g.ctl.Resize(outsideWidth, outsideHeight) && g.recorder != nil {
		if err := g.recorder.Resize(outsideWidth, outsideHeight); err != nil {
			g.log.Error("record resize", "err", err)
		}
	}
	return outsideWidth, outsideHeight
}

func main() {
	configPath := flag.String("config", "fitview.yaml", "path to the YAML config")
	recordPath := flag.String("record", "", "record input to this replay file")
	replayPath := flag.String("replay", "", "play input back from this replay file")
	writeConfig := flag.Bool("write-config", false, "write the effective config to -config and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.L().Error("load config", "path", *configPath, "err", err)
		os.Exit(1)
	}
	logging.Init(logging.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		File:      cfg.Logging.File,
		AddSource: cfg.Logging.Source,
	})
	defer logging.Close()
	log := logging.WithComponent("main")

	if *writeConfig {
		if err := config.Save(*configPath, cfg); err != nil {
			log.Error("write config", "path", *configPath, "err", err)
			os.Exit(1)
		}
		log.Info("config written", "path", *configPath)
		return
	}

	game, err := NewGame(cfg)
	if err != nil {
		log.Error("init", "err", err)
		os.Exit(1)
	}

	if *replayPath != "" {
		p, err := replay.Load(*replayPath)
		if err != nil {
			log.Error("load replay", "path", *replayPath, "err", err)
			os.Exit(1)
		}
		game.playback = p
		log.Info("replaying", "path", *replayPath, "records", len(p.Records))
	} else if *recordPath != "" {
		r, err := replay.NewRecorder(*recordPath)
		if err != nil {
			log.Error("create replay", "path", *recordPath, "err", err)
			os.Exit(1)
		}
		game.recorder = r
		defer func() {
			if err := r.Close(); err != nil {
				log.Error("close replay", "err", err)
				return
			}
			log.Info("replay saved", "path", *recordPath, "records", r.Count())
		}()
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("run", "err", err)
		os.Exit(1)
	}
}
