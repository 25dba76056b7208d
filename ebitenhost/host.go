// Package ebitenhost presents sharc stages in an Ebitengine window, either
// rendering locally or showing frames streamed by a remote worker.Renderer.
package ebitenhost

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	sharc "github.com/gitpushjoe/sharc-sub000"
	"github.com/gitpushjoe/sharc-sub000/worker"
)

// RunConfig holds window settings.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	FrameRate float64
	ShowFPS   bool
	Logger    *log.Logger
}

func (c RunConfig) withDefaults() RunConfig {
	if c.Title == "" {
		c.Title = "sharc"
	}
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.FrameRate <= 0 {
		c.FrameRate = 60
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}

// --- Local ---

type localGame struct {
	cfg     RunConfig
	stage   *sharc.Stage
	surface *sharc.GGSurface
	sched   *sharc.ManualScheduler
	in      *sampler
	events  []sharc.InputEvent
}

// Run opens a window and runs a stage on it until the window closes or the
// stage faults. build populates the stage before the first frame; stageCfg
// supplies everything but the size.
func Run(cfg RunConfig, stageCfg sharc.Config, build func(*sharc.Stage)) error {
	cfg = cfg.withDefaults()
	stageCfg.Width, stageCfg.Height = cfg.Width, cfg.Height

	g := &localGame{
		cfg:     cfg,
		surface: sharc.NewGGSurface(cfg.Width, cfg.Height),
		sched:   &sharc.ManualScheduler{},
		in:      newSampler(),
	}
	g.stage = sharc.NewStage(g.surface, stageCfg,
		sharc.WithLogger(cfg.Logger),
		sharc.WithScheduler(g.sched),
	)
	if build != nil {
		build(g.stage)
	}
	g.stage.Start(cfg.FrameRate)
	defer g.stage.Stop()

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return g.stage.Err()
}

func (g *localGame) Update() error {
	g.events = g.in.sample(g.events[:0])
	for _, ev := range g.events {
		g.stage.Dispatch(ev)
	}
	g.sched.Tick(time.Now())
	if g.stage.State() == sharc.StateIdle {
		return ebiten.Termination
	}
	return nil
}

func (g *localGame) Draw(screen *ebiten.Image) {
	present(screen, g.surface.Image())
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  frame: %.2fms", ebiten.ActualFPS(), g.stage.LastRenderMs()))
	}
}

func (g *localGame) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// present copies a premultiplied RGBA frame onto the screen.
func present(screen *ebiten.Image, img image.Image) {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		return
	}
	b := screen.Bounds()
	if rgba.Bounds().Dx() != b.Dx() || rgba.Bounds().Dy() != b.Dy() {
		return
	}
	screen.WritePixels(rgba.Pix)
}

// --- Remote ---

type remoteGame struct {
	cfg    RunConfig
	ctx    context.Context
	client *worker.Client
	canvas sharc.CanvasProperties
	in     *sampler
	events []sharc.InputEvent

	mu      sync.Mutex
	frame   *worker.Bitmap
	lastMs  float64
	err     error
	stopped bool
}

// View opens a window presenting frames streamed over t by a worker.Renderer
// and forwards local input to it. It returns when the window closes, the
// remote loop stops, or it reports a fault.
func View(ctx context.Context, t worker.Transport, cfg RunConfig) error {
	cfg = cfg.withDefaults()
	g := &remoteGame{
		cfg:    cfg,
		ctx:    ctx,
		canvas: sharc.CanvasProperties{Width: cfg.Width, Height: cfg.Height},
		in:     newSampler(),
	}
	g.client = worker.NewClient(t, worker.Handlers{
		Render: g.onRender,
		Error: func(msg, _ string) {
			g.mu.Lock()
			g.err = fmt.Errorf("remote draw fault: %s", msg)
			g.mu.Unlock()
		},
		Stopped: func() {
			g.mu.Lock()
			g.stopped = true
			g.mu.Unlock()
		},
	}, cfg.Logger)

	if err := g.client.Init(ctx, cfg.Width, cfg.Height); err != nil {
		return err
	}
	if err := g.client.BeginLoop(ctx, cfg.FrameRate, nil, g.canvas); err != nil {
		return fmt.Errorf("begin loop: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := g.client.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Logger.Error("client stopped", "err", err)
		}
	}()

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	err := ebiten.RunGame(g)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	g.mu.Lock()
	stopped := g.stopped
	g.mu.Unlock()
	if !stopped {
		_ = g.client.Stop(stopCtx)
	}

	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

func (g *remoteGame) onRender(bm *worker.Bitmap, lastMs float64, _ int) {
	g.mu.Lock()
	g.frame = bm
	g.lastMs = lastMs
	g.mu.Unlock()
}

func (g *remoteGame) Update() error {
	g.mu.Lock()
	done := g.err != nil || g.stopped
	g.mu.Unlock()
	if done || g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.events = g.in.sample(g.events[:0])
	if len(g.events) > 0 {
		if err := g.client.SendState(g.ctx, g.events, g.canvas); err != nil {
			return err
		}
	}
	return nil
}

func (g *remoteGame) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	bm, lastMs := g.frame, g.lastMs
	g.mu.Unlock()
	if bm != nil {
		present(screen, bm.Image())
	}
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  remote frame: %.2fms", ebiten.ActualFPS(), lastMs))
	}
}

func (g *remoteGame) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
