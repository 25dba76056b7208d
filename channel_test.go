package sharc

import (
	"errors"
	"testing"
)

// stepsToExhaust pushes anims and counts StepForward calls until the channel
// goes idle, or gives up after limit calls.
func stepsToExhaust(t *testing.T, anims []Animation, opts PackageOptions, limit int) (int, []int) {
	t.Helper()
	var c Channel
	if err := c.Push(anims, opts); err != nil {
		t.Fatalf("Push: %v", err)
	}
	var frames []int
	for i := 1; i <= limit; i++ {
		a := c.StepForward()
		if a != nil {
			frames = append(frames, a.Frame())
		} else {
			frames = append(frames, -1)
		}
		if c.Idle() {
			return i, frames
		}
	}
	return -1, frames
}

func TestChannelExhaustion(t *testing.T) {
	tests := []struct {
		name  string
		anims []Animation
		opts  PackageOptions
	}{
		{"single", []Animation{{Property: "x", Duration: 3}}, PackageOptions{}},
		{"delay", []Animation{{Property: "x", Duration: 3, Delay: 2}}, PackageOptions{}},
		{"package delay", []Animation{{Property: "x", Duration: 3}}, PackageOptions{Delay: 2}},
		{"iterations", []Animation{{Property: "x", Duration: 3}}, PackageOptions{Iterations: 2, Delay: 2}},
		{"sequence", []Animation{
			{Property: "x", Duration: 2, Delay: 1},
			{Property: "y", Duration: 3},
		}, PackageOptions{Delay: 1, Iterations: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iters := max(tt.opts.Iterations, 1)
			sum := 0
			for _, a := range tt.anims {
				sum += a.Delay + a.Duration + 1
			}
			want := iters*sum + tt.opts.Delay + 1

			got, _ := stepsToExhaust(t, tt.anims, tt.opts, 1000)
			if got != want {
				t.Errorf("exhausted after %d steps, want %d", got, want)
			}
		})
	}
}

func TestChannelFrameSequence(t *testing.T) {
	_, frames := stepsToExhaust(t,
		[]Animation{{Property: "x", Duration: 2, Delay: 1}},
		PackageOptions{Delay: 1}, 100)
	want := []int{-1, -1, 0, 1, 2, -1}
	if len(frames) != len(want) {
		t.Fatalf("frames = %v, want %v", frames, want)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frames = %v, want %v", frames, want)
			break
		}
	}
}

func TestChannelLoopNeverExhausts(t *testing.T) {
	got, _ := stepsToExhaust(t,
		[]Animation{{Property: "x", Duration: 3}, {Property: "y", Duration: 1, Delay: 2}},
		PackageOptions{Loop: true, Delay: 4}, 5000)
	if got != -1 {
		t.Errorf("looping package exhausted after %d steps", got)
	}
}

func TestChannelRejectsInvalid(t *testing.T) {
	var c Channel
	err := c.Push([]Animation{{Property: "x", Duration: -1}}, PackageOptions{})
	if !errors.Is(err, ErrInvalidAnimation) {
		t.Errorf("negative duration: err = %v, want ErrInvalidAnimation", err)
	}
	if err := c.Push(nil, PackageOptions{}); !errors.Is(err, ErrInvalidAnimation) {
		t.Errorf("empty package: err = %v, want ErrInvalidAnimation", err)
	}
	if err := c.Push([]Animation{{Duration: 5}}, PackageOptions{}); !errors.Is(err, ErrInvalidAnimation) {
		t.Errorf("missing property: err = %v, want ErrInvalidAnimation", err)
	}
	if !c.Idle() {
		t.Errorf("Len = %d after rejected pushes, want 0", c.Len())
	}
}

func TestChannelDefaults(t *testing.T) {
	var c Channel
	if err := c.Push([]Animation{{Property: "x", Duration: -1}}, PackageOptions{}); !errors.Is(err, ErrInvalidAnimation) {
		t.Errorf("Duration -1: err = %v, want ErrInvalidAnimation", err)
	}
	if c.Len() != 0 {
		t.Fatalf("Len = %d after rejected push, want 0", c.Len())
	}
	if err := c.Push([]Animation{{Property: "x", Duration: 0, Delay: -4}}, PackageOptions{Iterations: -2}); err != nil {
		t.Fatal(err)
	}
	p := c.Current()
	a := p.Animations()[0]
	if a.Duration != DefaultDuration {
		t.Errorf("Duration = %d, want %d", a.Duration, DefaultDuration)
	}
	if a.Delay != 0 {
		t.Errorf("Delay = %d, want 0", a.Delay)
	}
	if a.Easing == nil {
		t.Error("Easing not defaulted")
	}
	if p.Iterations() != 1 {
		t.Errorf("Iterations = %d, want 1", p.Iterations())
	}
}

func TestChannelPushCopiesDescriptors(t *testing.T) {
	anims := []Animation{{Property: "x", Duration: 5}}
	var c Channel
	if err := c.Push(anims, PackageOptions{}); err != nil {
		t.Fatal(err)
	}
	anims[0].Duration = 99
	if got := c.Current().Animations()[0].Duration; got != 5 {
		t.Errorf("Duration = %d, want 5", got)
	}
}

func TestChannelNextPackageStartsOnRollover(t *testing.T) {
	var c Channel
	_ = c.Push([]Animation{{Property: "x", Duration: 1}}, PackageOptions{})
	_ = c.Push([]Animation{{Property: "y", Duration: 2}}, PackageOptions{})

	var props []string
	for i := 0; i < 6; i++ {
		if a := c.StepForward(); a != nil {
			props = append(props, a.Property)
		} else {
			props = append(props, "-")
		}
	}
	want := []string{"x", "x", "y", "y", "y", "-"}
	for i := range want {
		if props[i] != want[i] {
			t.Fatalf("props = %v, want %v", props, want)
		}
	}
	if !c.Idle() {
		t.Error("channel not idle after both packages")
	}
}

func TestChannelUnshiftInterrupts(t *testing.T) {
	var c Channel
	_ = c.Push([]Animation{{Property: "x", Duration: 4}}, PackageOptions{})
	c.StepForward() // x frame 0
	c.StepForward() // x frame 1

	if err := c.Unshift([]Animation{{Property: "y", Duration: 1}}, PackageOptions{}); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if a := c.StepForward(); a == nil || a.Property != "y" || a.Frame() != 0 {
		t.Fatalf("after Unshift got %+v, want y frame 0", a)
	}
	c.StepForward() // y frame 1
	a := c.StepForward()
	if a == nil || a.Property != "x" || a.Frame() != 2 {
		t.Errorf("resumed %+v, want x frame 2", a)
	}
}

func TestChannelEnqueueBounded(t *testing.T) {
	var c Channel
	if err := c.Push([]Animation{{Property: "x", Duration: 30}, {Property: "y", Duration: 30}}, PackageOptions{}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		if err := c.Enqueue([]Animation{{Property: "z", Duration: 10}}, 1, PackageOptions{}); err != nil {
			t.Fatal(err)
		}
		if c.Len() > 2 {
			t.Fatalf("frame %d: Len = %d, want <= 2", i, c.Len())
		}
		c.StepForward()
	}
}

func TestChannelEnqueueSlots(t *testing.T) {
	var c Channel
	z := []Animation{{Property: "z", Duration: 1}}

	if err := c.Enqueue(z, 3, PackageOptions{}); err != nil || c.Len() != 1 {
		t.Fatalf("Enqueue on empty: Len = %d, err = %v", c.Len(), err)
	}
	_ = c.Push([]Animation{{Property: "a", Duration: 1}}, PackageOptions{})
	_ = c.Push([]Animation{{Property: "b", Duration: 1}}, PackageOptions{})

	_ = c.Enqueue([]Animation{{Property: "w", Duration: 1}}, 1, PackageOptions{})
	if c.Len() != 3 || c.queue[1].animations[0].Property != "w" {
		t.Errorf("slot 1 overwrite: Len = %d, slot 1 = %q", c.Len(), c.queue[1].animations[0].Property)
	}

	_ = c.Enqueue(z, 10, PackageOptions{})
	if c.Len() != 4 {
		t.Errorf("slot past end: Len = %d, want 4", c.Len())
	}

	_ = c.Enqueue([]Animation{{Property: "only", Duration: 1}}, 0, PackageOptions{})
	if c.Len() != 1 || c.Current().animations[0].Property != "only" {
		t.Errorf("slot 0: Len = %d, want 1 with the new package", c.Len())
	}
}

func TestChannelClear(t *testing.T) {
	var c Channel
	_ = c.Push([]Animation{{Property: "x", Duration: 1}}, PackageOptions{Loop: true})
	c.Clear()
	if !c.Idle() || c.StepForward() != nil {
		t.Error("cleared channel not idle")
	}
}
