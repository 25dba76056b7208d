package sharc

import (
	"context"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// State is the loop state of a Stage.
type State uint8

const (
	StateIdle   State = iota // not scheduling frames
	StateActive              // scheduling frames
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// FrameInfo describes a completed frame to render hooks.
type FrameInfo struct {
	Number       int
	LastRenderMs float64
	Surface      Surface
}

// Stage owns the root node and runs the render loop against one surface.
//
// Frames run on the scheduler's goroutine. The tree must only be mutated
// from inside a frame (listeners, BeforeDraw hooks) or while the loop is
// idle; input may be queued from any goroutine.
type Stage struct {
	root       *Node
	surface    Surface
	cfg        Config
	background Color
	logger     *log.Logger
	scheduler  Scheduler
	onError    func(error)

	renderHooks []func(FrameInfo)
	stopHooks   []func()

	// mu guards pending input, canvas geometry, focus and capture queues.
	mu              sync.Mutex
	input           []InputEvent
	injectQueue     []InputEvent
	canvas          CanvasProperties
	keyTarget       string
	scrollTarget    string
	screenshotQueue []string

	// runMu guards loop transitions.
	runMu     sync.Mutex
	running   atomic.Bool
	stopCh    chan struct{}
	frameRate float64
	interval  time.Duration
	lastTick  time.Time
	err       error

	// frameMu serializes frames.
	frameMu      sync.Mutex
	number       int
	lastRenderMs float64
	prev         Frame
	script       *Script
}

// Option configures a Stage.
type Option func(*Stage)

// WithLogger sets the stage's logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Stage) { s.logger = l }
}

// WithScheduler sets the frame scheduler. The default is a TickerScheduler
// at Config.RefreshRate.
func WithScheduler(sch Scheduler) Option {
	return func(s *Stage) { s.scheduler = sch }
}

// WithErrorHandler sets the handler that receives the DrawFault that stopped
// the loop.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Stage) { s.onError = fn }
}

// NewStage creates a stage drawing onto surface. Invalid config values fall
// back to DefaultConfig's.
func NewStage(surface Surface, cfg Config, opts ...Option) *Stage {
	cfg = cfg.withDefaults()
	s := &Stage{
		root:    NewContainer("root"),
		surface: surface,
		cfg:     cfg,
		canvas: CanvasProperties{
			Width:  surface.Width(),
			Height: surface.Height(),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = newLogger(cfg)
	}
	bg, err := ParseHexColor(cfg.Background)
	if err != nil {
		s.logger.Warn("bad background color, using white", "err", err)
		bg = ColorWhite
	}
	s.background = bg
	if s.scheduler == nil {
		s.scheduler = &TickerScheduler{Refresh: time.Duration(float64(time.Second) / cfg.RefreshRate)}
	}
	if cfg.CenterRoot {
		s.root.SetCenter(Vec2{float64(surface.Width()) / 2, float64(surface.Height()) / 2})
	}
	if cfg.Debug {
		globalDebug.Store(true)
	}
	return s
}

func newLogger(cfg Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if cfg.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "sharc",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Root returns the stage's root node.
func (s *Stage) Root() *Node { return s.root }

// Surface returns the surface the stage draws onto.
func (s *Stage) Surface() Surface { return s.surface }

// Config returns the stage configuration.
func (s *Stage) Config() Config { return s.cfg }

// Logger returns the stage logger.
func (s *Stage) Logger() *log.Logger { return s.logger }

// CurrentFrame returns the number of frames rendered so far.
func (s *Stage) CurrentFrame() int {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	return s.number
}

// currentFrame is CurrentFrame for callers already inside a frame.
func (s *Stage) currentFrame() int { return s.number }

// LastRenderMs returns how long the last frame took to render.
func (s *Stage) LastRenderMs() float64 { return s.lastRenderMs }

// --- Focus ---

// KeyTarget returns the name of the node receiving keyboard events.
func (s *Stage) KeyTarget() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyTarget
}

// SetKeyTarget routes keyboard events to nodes called name ("" for none).
func (s *Stage) SetKeyTarget(name string) {
	s.mu.Lock()
	s.keyTarget = name
	s.mu.Unlock()
}

// ScrollTarget returns the name of the node receiving wheel events.
func (s *Stage) ScrollTarget() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollTarget
}

// SetScrollTarget routes wheel events to nodes called name ("" for none).
func (s *Stage) SetScrollTarget(name string) {
	s.mu.Lock()
	s.scrollTarget = name
	s.mu.Unlock()
}

// resetFocus drops a focus target whose node no longer holds any pointer:
// keyboard focus on release, scroll focus on press.
func (s *Stage) resetFocus(f *Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fresh(f.Up) != nil && s.keyTarget != "" && !s.claimed(s.keyTarget) {
		s.keyTarget = ""
	}
	if fresh(f.Down) != nil && s.scrollTarget != "" && !s.claimed(s.scrollTarget) {
		s.scrollTarget = ""
	}
}

func (s *Stage) claimed(name string) bool {
	if s.root.Name == name && s.root.pointerID != NoPointer {
		return true
	}
	for _, n := range s.root.FindAll(name) {
		if n.pointerID != NoPointer {
			return true
		}
	}
	return false
}

// --- Hooks ---

// OnRender registers fn to run after every frame, on the loop goroutine.
func (s *Stage) OnRender(fn func(FrameInfo)) {
	s.runMu.Lock()
	s.renderHooks = append(s.renderHooks, fn)
	s.runMu.Unlock()
}

// OnStop registers fn to run whenever the loop goes idle.
func (s *Stage) OnStop(fn func()) {
	s.runMu.Lock()
	s.stopHooks = append(s.stopHooks, fn)
	s.runMu.Unlock()
}

// --- Loop ---

// State returns the loop state.
func (s *Stage) State() State {
	if s.running.Load() {
		return StateActive
	}
	return StateIdle
}

// Err returns the fault that last stopped the loop, if any.
func (s *Stage) Err() error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.err
}

// Start begins scheduling frames at up to frameRate per second (the config
// frame rate when frameRate <= 0). No-op if already active.
func (s *Stage) Start(frameRate float64) {
	s.runMu.Lock()
	if s.running.Load() {
		s.runMu.Unlock()
		return
	}
	if frameRate <= 0 {
		frameRate = s.cfg.FrameRate
	}
	s.frameRate = frameRate
	s.interval = time.Duration(float64(time.Second) / frameRate)
	s.lastTick = time.Time{}
	s.err = nil
	s.stopCh = make(chan struct{})
	stop := s.stopCh
	s.running.Store(true)
	s.runMu.Unlock()

	s.logger.Debug("loop started", "frameRate", frameRate)
	s.scheduler.Schedule(stop, s.tick)
}

// Stop halts the loop. It is idempotent and safe to call from inside a
// frame; a frame already in progress completes, later ticks are declined.
func (s *Stage) Stop() {
	s.runMu.Lock()
	if !s.running.Load() {
		s.runMu.Unlock()
		return
	}
	s.running.Store(false)
	close(s.stopCh)
	hooks := append([]func(){}, s.stopHooks...)
	s.runMu.Unlock()

	s.logger.Debug("loop stopped")
	for _, h := range hooks {
		h()
	}
}

// Run starts the loop and blocks until it stops or ctx is done. It returns
// the fault that stopped the loop, or ctx.Err().
func (s *Stage) Run(ctx context.Context, frameRate float64) error {
	s.Start(frameRate)
	s.runMu.Lock()
	stop := s.stopCh
	s.runMu.Unlock()
	select {
	case <-ctx.Done():
		s.Stop()
		return ctx.Err()
	case <-stop:
		return s.Err()
	}
}

// tick is called by the scheduler once per host refresh. It throttles to the
// requested frame rate and declines to draw once the loop has stopped.
func (s *Stage) tick(now time.Time) {
	if !s.running.Load() {
		return
	}
	if !s.lastTick.IsZero() && now.Sub(s.lastTick) < s.interval-throttleSlack {
		return
	}
	s.lastTick = now
	if err := s.RenderFrame(); err != nil {
		s.fail(err)
	}
}

// throttleSlack absorbs scheduler jitter so a loop at the refresh rate does
// not skip every other tick.
const throttleSlack = 2 * time.Millisecond

// fail reports err once, then stops the loop. The error handler runs
// before the stop hooks so observers see the fault ahead of the stop.
func (s *Stage) fail(err error) {
	s.logger.Error("frame failed, loop stopped", "err", err)
	s.runMu.Lock()
	s.err = err
	s.runMu.Unlock()
	if s.onError != nil {
		s.onError(err)
	}
	s.Stop()
}

// RenderFrame draws one frame synchronously, independent of the loop state:
// clear, snapshot input, draw the tree, run the deferred claim, reset focus
// and run render hooks. Any panic or error escaping the tree is returned as
// a *DrawFault.
func (s *Stage) RenderFrame() (err error) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	start := time.Now()
	f := s.buildFrame()
	defer func() {
		if r := recover(); r != nil {
			err = newDrawFault(r, f.Number, debug.Stack())
		}
	}()

	s.surface.ClearTo(s.background)
	if derr := s.root.Draw(s.surface, f); derr != nil {
		return newDrawFault(derr, f.Number, debug.Stack())
	}
	drawTime := time.Since(start)
	s.resetFocus(f)

	s.number++
	s.lastRenderMs = float64(time.Since(start).Microseconds()) / 1000
	s.flushScreenshots()

	s.runMu.Lock()
	hooks := s.renderHooks
	s.runMu.Unlock()
	info := FrameInfo{Number: s.number, LastRenderMs: s.lastRenderMs, Surface: s.surface}
	for _, h := range hooks {
		h(info)
	}

	if s.cfg.Debug {
		s.debugLog(debugStats{frame: f.Number, drawTime: drawTime, totalTime: time.Since(start), nodeCount: 1 + len(s.root.Descendants())})
	}
	return nil
}
