package sharc

import (
	"os"
	"strings"
	"testing"
)

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"bad json", `{`, "parse script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "dance"}]}`, "unknown action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestScriptClick(t *testing.T) {
	s, _, _ := newTestStage(t, 100, 100)
	n := box("n", 0, 0, 40, 40)
	s.Root().AddChild(n)
	clicks := record(n, EventClick)
	releases := record(n, EventRelease)

	sc, err := LoadScript([]byte(`{"steps": [{"action": "click", "x": 20, "y": 20}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetScript(sc)

	renderN(t, s, 1)
	if len(*clicks) != 1 || len(*releases) != 0 || sc.Done() {
		t.Fatalf("frame 1: clicks %d, releases %d, done %v", len(*clicks), len(*releases), sc.Done())
	}
	renderN(t, s, 1)
	if len(*releases) != 1 || sc.Done() {
		t.Fatalf("frame 2: releases %d, done %v", len(*releases), sc.Done())
	}
	renderN(t, s, 1)
	if !sc.Done() {
		t.Error("script not done after its input drained")
	}
}

func TestScriptWaitThenScreenshot(t *testing.T) {
	s, _, _ := newTestStage(t, 16, 16)
	sc, err := LoadScript([]byte(`{"steps": [
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "end"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetScript(sc)

	renderN(t, s, 3)
	if sc.Done() {
		t.Fatal("done during the wait")
	}
	if entries, _ := os.ReadDir(s.Config().ScreenshotDir); len(entries) != 0 {
		t.Fatalf("screenshot taken early: %d files", len(entries))
	}
	renderN(t, s, 1)
	if !sc.Done() {
		t.Error("not done after the last step")
	}
	entries, err := os.ReadDir(s.Config().ScreenshotDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), "_end.png") {
		t.Errorf("screenshots = %v", entries)
	}
}

func TestScriptKeyAndScroll(t *testing.T) {
	s, _, _ := newTestStage(t, 100, 100)
	n := box("n", 0, 0, 40, 40)
	s.Root().AddChild(n)
	keys := record(n, EventKeyDown)
	scrolls := record(n, EventScroll)
	s.SetKeyTarget("n")
	s.SetScrollTarget("n")

	sc, err := LoadScript([]byte(`{"steps": [
		{"action": "key", "key": "Enter", "code": "Enter"},
		{"action": "scroll", "x": 10, "y": 10, "dy": 5}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetScript(sc)
	renderN(t, s, 5)

	if len(*keys) != 1 || (*keys)[0].Key != "Enter" {
		t.Errorf("keys = %+v", *keys)
	}
	if len(*scrolls) != 1 || (*scrolls)[0].Delta != (Vec2{0, 5}) {
		t.Errorf("scrolls = %+v", *scrolls)
	}
	if !sc.Done() {
		t.Error("script not done")
	}
}

func TestScriptDragAndWait(t *testing.T) {
	s, _, _ := newTestStage(t, 100, 100)
	n := box("n", 0, 0, 20, 20)
	s.Root().AddChild(n)
	var last Vec2
	n.On(EventClick, func(_ *Node, e Event) Result {
		last = e.Device
		return Continue
	})
	n.On(EventDrag, func(n *Node, e Event) Result {
		n.SetCenter(n.Center().Add(e.Device.Sub(last)))
		last = e.Device
		return Continue
	})

	sc, err := LoadScript([]byte(`{"steps": [
		{"action": "drag", "fromX": 10, "fromY": 10, "toX": 40, "toY": 10, "frames": 3},
		{"action": "wait", "frames": 2}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetScript(sc)

	// Three frames of drag input and two of waiting; the next frame finishes.
	renderN(t, s, 5)
	if sc.Done() {
		t.Fatal("done before the wait elapsed")
	}
	renderN(t, s, 1)
	if !sc.Done() {
		t.Error("not done after the wait")
	}
	if n.Center() != (Vec2{25, 10}) {
		t.Errorf("Center = %v, want (25, 10)", n.Center())
	}
}
