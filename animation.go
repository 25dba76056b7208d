package sharc

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultDuration is the duration in frames of an Animation that leaves
// Duration at zero.
const DefaultDuration = 60

// ToFunc computes a tween's end value from its resolved start value. It is
// called once, on the tween's first active frame.
type ToFunc func(from any) any

// Animation describes a single property tween over a window of frames.
//
// A nil From is resolved from the node's live property value on the tween's
// first active frame. To may be a literal or a ToFunc.
//
// Duration is in frames. The zero value means unset and becomes
// DefaultDuration; a negative Duration fails validation with
// ErrInvalidAnimation.
type Animation struct {
	Property string
	From     any
	To       any
	Duration int
	Delay    int
	Easing   ease.TweenFunc
	Name     string

	// Resolved at activation.
	from    any
	to      any
	frame   int
	channel int
	tween   *gween.Tween
}

// Frame returns the tween's current frame offset (0..Duration).
func (a *Animation) Frame() int { return a.frame }

// Channel returns the index of the channel that is playing the tween.
func (a *Animation) Channel() int { return a.channel }

// ResolvedFrom returns the start value captured at activation.
func (a *Animation) ResolvedFrom() any { return a.from }

// ResolvedTo returns the end value captured at activation.
func (a *Animation) ResolvedTo() any { return a.to }

// ratio returns the eased progress for the current frame.
func (a *Animation) ratio() float64 {
	if a.tween == nil {
		a.tween = gween.New(0, 1, float32(a.Duration), a.Easing)
	}
	r, _ := a.tween.Set(float32(a.frame))
	return float64(r)
}

// validate fills defaults and rejects bad descriptors.
func (a *Animation) validate() error {
	if a.Duration < 0 {
		return fmt.Errorf("%w: %q has duration %d", ErrInvalidAnimation, a.Property, a.Duration)
	}
	if a.Duration == 0 {
		a.Duration = DefaultDuration
	}
	if a.Delay < 0 {
		a.Delay = 0
	}
	if a.Easing == nil {
		a.Easing = ease.Linear
	}
	if a.Property == "" {
		return fmt.Errorf("%w: missing property name", ErrInvalidAnimation)
	}
	return nil
}

// PackageOptions are the playback parameters shared by a batch of animations.
type PackageOptions struct {
	Loop       bool
	Iterations int // values below 1 mean 1
	Delay      int // frames before the first animation of each run
}

// Package is a validated batch of animations queued on a Channel.
type Package struct {
	animations []*Animation
	loop       bool
	iterations int
	delay      int

	step  int
	index int
	cycle int
}

func newPackage(anims []Animation, opts PackageOptions) (*Package, error) {
	if len(anims) == 0 {
		return nil, fmt.Errorf("%w: empty package", ErrInvalidAnimation)
	}
	p := &Package{
		animations: make([]*Animation, len(anims)),
		loop:       opts.Loop,
		iterations: max(opts.Iterations, 1),
		delay:      max(opts.Delay, 0),
		step:       -1,
	}
	for i := range anims {
		a := anims[i]
		if err := a.validate(); err != nil {
			return nil, err
		}
		p.animations[i] = &a
	}
	return p, nil
}

// Animations returns copies of the package's descriptors.
func (p *Package) Animations() []Animation {
	out := make([]Animation, len(p.animations))
	for i, a := range p.animations {
		out[i] = *a
	}
	return out
}

// Loop reports whether the package replays forever.
func (p *Package) Loop() bool { return p.loop }

// Iterations is the number of passes through the animation list per run.
func (p *Package) Iterations() int { return p.iterations }

// preDelay is the package delay, applied before the first animation of a run.
func (p *Package) preDelay() int {
	if p.index == 0 && p.cycle == 0 {
		return p.delay
	}
	return 0
}

// EasingByName resolves the easing functions shipped with gween by their
// conventional names. It returns nil for unknown names.
func EasingByName(name string) ease.TweenFunc {
	return easings[name]
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"inQuad":       ease.InQuad,
	"outQuad":      ease.OutQuad,
	"inOutQuad":    ease.InOutQuad,
	"inCubic":      ease.InCubic,
	"outCubic":     ease.OutCubic,
	"inOutCubic":   ease.InOutCubic,
	"inSine":       ease.InSine,
	"outSine":      ease.OutSine,
	"inOutSine":    ease.InOutSine,
	"inExpo":       ease.InExpo,
	"outExpo":      ease.OutExpo,
	"inOutExpo":    ease.InOutExpo,
	"inCirc":       ease.InCirc,
	"outCirc":      ease.OutCirc,
	"inOutCirc":    ease.InOutCirc,
	"inBack":       ease.InBack,
	"outBack":      ease.OutBack,
	"inOutBack":    ease.InOutBack,
	"inElastic":    ease.InElastic,
	"outElastic":   ease.OutElastic,
	"inOutElastic": ease.InOutElastic,
	"inBounce":     ease.InBounce,
	"outBounce":    ease.OutBounce,
	"inOutBounce":  ease.InOutBounce,
}
