package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"

	sharc "github.com/gitpushjoe/sharc-sub000"
)

// RatePadding scales the requested frame rate on the background side, since
// presenting a frame on the visible side adds latency of its own.
const RatePadding = 1.25

// SetupFunc builds the scene on a freshly allocated stage.
type SetupFunc func(r *Renderer, s *sharc.Stage)

// Renderer is the background side of the protocol. It owns an off-screen
// surface and the stage drawing onto it, and streams every frame back.
type Renderer struct {
	t      Transport
	cfg    sharc.Config
	setup  SetupFunc
	logger *log.Logger

	onCustom  func(json.RawMessage)
	stageOpts []sharc.Option

	ctx        context.Context
	surface    *sharc.GGSurface
	stage      *sharc.Stage
	remoteStop atomic.Bool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithRendererLogger sets the renderer's logger. The stage shares it.
func WithRendererLogger(l *log.Logger) RendererOption {
	return func(r *Renderer) { r.logger = l }
}

// OnCustom sets the handler for custom messages from the visible side.
func OnCustom(fn func(json.RawMessage)) RendererOption {
	return func(r *Renderer) { r.onCustom = fn }
}

// WithStageOptions passes extra options to every stage the renderer
// allocates, e.g. a ManualScheduler.
func WithStageOptions(opts ...sharc.Option) RendererOption {
	return func(r *Renderer) { r.stageOpts = append(r.stageOpts, opts...) }
}

// NewRenderer creates a renderer speaking over t. setup runs once per init,
// after the stage is allocated.
func NewRenderer(t Transport, cfg sharc.Config, setup SetupFunc, opts ...RendererOption) *Renderer {
	r := &Renderer{t: t, cfg: cfg, setup: setup}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default().WithPrefix("renderer")
	}
	return r
}

// Stage returns the stage allocated by the last init, or nil.
func (r *Renderer) Stage() *sharc.Stage { return r.stage }

// Custom sends an application payload to the visible side.
func (r *Renderer) Custom(payload json.RawMessage) error {
	return r.send(Custom(payload))
}

// Run serves the protocol until ctx is done or the transport closes. The
// stage is stopped on return.
func (r *Renderer) Run(ctx context.Context) error {
	r.ctx = ctx
	defer func() {
		if r.stage != nil {
			r.remoteStop.Store(true)
			r.stage.Stop()
		}
	}()
	for {
		m, err := r.t.Receive(ctx)
		if errors.Is(err, ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := r.handle(m); err != nil {
			return err
		}
	}
}

func (r *Renderer) handle(m Message) error {
	switch m.Type {
	case TypeInit:
		return r.init(m.Width, m.Height)
	case TypeBeginLoop:
		if r.stage == nil {
			r.logger.Warn("beginLoop before init, ignoring")
			return nil
		}
		if m.State != nil {
			r.stage.ApplyState(m.State.Events, m.State.Canvas)
		}
		rate := m.FrameRate
		if rate <= 0 {
			rate = r.cfg.FrameRate
		}
		r.stage.Start(rate * RatePadding)
	case TypeStageState:
		if r.stage == nil || m.State == nil {
			return nil
		}
		r.stage.ApplyState(m.State.Events, m.State.Canvas)
	case TypeStopLoop:
		if r.stage == nil {
			return nil
		}
		// Acknowledge by stopping without notifying back.
		r.remoteStop.Store(true)
		r.stage.Stop()
		r.remoteStop.Store(false)
	case TypeCustom:
		if r.onCustom != nil {
			r.onCustom(m.Payload)
		}
	default:
		r.logger.Warn("unexpected message", "type", m.Type)
	}
	return nil
}

func (r *Renderer) init(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("init: invalid size %dx%d", width, height)
	}
	if r.stage != nil {
		r.remoteStop.Store(true)
		r.stage.Stop()
		r.remoteStop.Store(false)
	}
	cfg := r.cfg
	cfg.Width, cfg.Height = width, height
	r.surface = sharc.NewGGSurface(width, height)
	opts := append([]sharc.Option{
		sharc.WithLogger(r.logger),
		sharc.WithErrorHandler(r.forwardFault),
	}, r.stageOpts...)
	r.stage = sharc.NewStage(r.surface, cfg, opts...)
	r.stage.OnRender(r.emitFrame)
	r.stage.OnStop(func() {
		if r.remoteStop.Load() {
			return
		}
		if err := r.send(StopLoop()); err != nil {
			r.logger.Debug("stopLoop not delivered", "err", err)
		}
	})
	if r.setup != nil {
		r.setup(r, r.stage)
	}
	r.logger.Debug("surface allocated", "width", width, "height", height)
	return r.send(Ready())
}

func (r *Renderer) emitFrame(info sharc.FrameInfo) {
	bm := NewBitmap(r.surface.Snapshot())
	if err := r.send(Render(bm, info.LastRenderMs, info.Number)); err != nil {
		r.logger.Debug("frame not delivered", "frame", info.Number, "err", err)
	}
}

// forwardFault relays a fault instead of raising it here, since the
// background side has no visible surface to show a broken frame on.
func (r *Renderer) forwardFault(err error) {
	var df *sharc.DrawFault
	msg := Error(err.Error(), "")
	if errors.As(err, &df) {
		msg = Error(df.Message, df.Stack)
	}
	if serr := r.send(msg); serr != nil {
		r.logger.Error("draw fault not delivered", "err", err, "sendErr", serr)
	}
}

func (r *Renderer) send(m Message) error {
	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return r.t.Send(ctx, m)
}
