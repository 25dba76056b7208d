package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	sharc "github.com/gitpushjoe/sharc-sub000"
)

// Handlers receive messages from the background side. Nil handlers are
// skipped.
type Handlers struct {
	Render  func(bm *Bitmap, lastRenderMs float64, currentFrame int)
	Custom  func(payload json.RawMessage)
	Error   func(message, stack string)
	Stopped func() // the background loop stopped on its own
}

// Client is the visible side of the protocol.
type Client struct {
	t      Transport
	h      Handlers
	logger *log.Logger
}

// NewClient creates a client speaking over t. A nil logger uses the default.
func NewClient(t Transport, h Handlers, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default().WithPrefix("client")
	}
	return &Client{t: t, h: h, logger: logger}
}

// Init asks the background side to allocate a width x height surface and
// waits for it to be ready. Call it before Run.
func (c *Client) Init(ctx context.Context, width, height int) error {
	if err := c.t.Send(ctx, Init(width, height)); err != nil {
		return fmt.Errorf("send init: %w", err)
	}
	for {
		m, err := c.t.Receive(ctx)
		if err != nil {
			return fmt.Errorf("await ready: %w", err)
		}
		if m.Type == TypeReady {
			return nil
		}
		c.handle(m)
	}
}

// BeginLoop starts the background loop at frameRate with an initial input
// snapshot.
func (c *Client) BeginLoop(ctx context.Context, frameRate float64, events []sharc.InputEvent, canvas sharc.CanvasProperties) error {
	return c.t.Send(ctx, BeginLoop(frameRate, StageState{Events: events, Canvas: canvas}))
}

// SendState forwards one input snapshot.
func (c *Client) SendState(ctx context.Context, events []sharc.InputEvent, canvas sharc.CanvasProperties) error {
	return c.t.Send(ctx, State(events, canvas))
}

// Stop halts the background loop.
func (c *Client) Stop(ctx context.Context) error {
	return c.t.Send(ctx, StopLoop())
}

// Custom sends an application payload.
func (c *Client) Custom(ctx context.Context, payload json.RawMessage) error {
	return c.t.Send(ctx, Custom(payload))
}

// Run dispatches incoming messages to the handlers until ctx is done or the
// transport closes.
func (c *Client) Run(ctx context.Context) error {
	for {
		m, err := c.t.Receive(ctx)
		if errors.Is(err, ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		c.handle(m)
	}
}

func (c *Client) handle(m Message) {
	switch m.Type {
	case TypeRender:
		if c.h.Render != nil && m.Bitmap != nil {
			c.h.Render(m.Bitmap, m.LastRenderMs, m.CurrentFrame)
		}
	case TypeCustom:
		if c.h.Custom != nil {
			c.h.Custom(m.Payload)
		}
	case TypeError:
		c.logger.Error("background draw fault", "err", m.Error)
		if c.h.Error != nil {
			c.h.Error(m.Error, m.Stack)
		}
	case TypeStopLoop:
		// The background loop already stopped; acknowledging would echo.
		if c.h.Stopped != nil {
			c.h.Stopped()
		}
	case TypeReady:
	default:
		c.logger.Warn("unexpected message", "type", m.Type)
	}
}
