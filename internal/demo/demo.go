// Package demo builds the scene shown by the sharc command: draggable
// boxes that take keyboard focus when clicked, a wheel-driven dial and a
// looping spinner.
package demo

import (
	"fmt"

	"github.com/tanema/gween/ease"

	sharc "github.com/gitpushjoe/sharc-sub000"
)

// Notify receives app-level signals from the scene, e.g. "box1 clicked".
type Notify func(event string)

const boxSize = 60

var palette = []sharc.Color{
	{R: 0.9, G: 0.3, B: 0.3, A: 1},
	{R: 0.3, G: 0.7, B: 0.9, A: 1},
	{R: 0.3, G: 0.9, B: 0.5, A: 1},
}

var highlight = sharc.Color{R: 1, G: 0.85, B: 0.3, A: 1}

// Build populates s. Coordinates are relative to the root, which the stage
// centers when Config.CenterRoot is set.
func Build(s *sharc.Stage, notify Notify) {
	if notify == nil {
		notify = func(string) {}
	}
	root := s.Root()

	for i, c := range palette {
		x := float64(i-1) * 140
		box := sharc.NewRect(fmt.Sprintf("box%d", i),
			sharc.Vec2{X: x - boxSize/2, Y: -boxSize/2 - 80},
			sharc.Vec2{X: x + boxSize/2, Y: boxSize/2 - 80}, c)
		warn(s, box, box.Set("lineWidth", 2.0))
		makeDraggable(s, box, c, notify)
		root.AddChild(box)
	}

	dial := sharc.NewEllipse("dial", sharc.Vec2{X: -50, Y: 60}, sharc.Vec2{X: 50, Y: 160}, sharc.Color{R: 0.5, G: 0.5, B: 0.6, A: 1})
	needle := sharc.NewRect("needle", sharc.Vec2{X: -3, Y: -45}, sharc.Vec2{X: 3, Y: 0}, sharc.ColorBlack)
	dial.AddChild(needle)
	dial.On(sharc.EventClick, func(n *sharc.Node, _ sharc.Event) sharc.Result {
		s.SetScrollTarget(n.Name)
		return sharc.Continue
	})
	dial.On(sharc.EventScroll, func(n *sharc.Node, e sharc.Event) sharc.Result {
		warn(s, n, n.Channel(0).Enqueue([]sharc.Animation{{
			Property: "rotation",
			To:       sharc.ToFunc(func(from any) any { return from.(float64) + e.Delta.Y/4 }),
			Duration: 6,
			Easing:   ease.OutQuad,
		}}, 1, sharc.PackageOptions{}))
		return sharc.Continue
	})
	root.AddChild(dial)

	spinner := sharc.NewPolygon("spinner", []sharc.Vec2{
		{X: 200, Y: 80}, {X: 230, Y: 140}, {X: 170, Y: 140},
	}, sharc.Color{R: 0.8, G: 0.4, B: 0.9, A: 1})
	warn(s, spinner, spinner.Channel(0).Push([]sharc.Animation{
		{Property: "rotation", From: 0.0, To: 360.0, Duration: 120},
	}, sharc.PackageOptions{Loop: true}))
	warn(s, spinner, spinner.Channel(1).Push([]sharc.Animation{
		{Property: "opacity", From: 1.0, To: 0.3, Duration: 45, Easing: ease.InOutSine},
		{Property: "opacity", From: 0.3, To: 1.0, Duration: 45, Easing: ease.InOutSine},
	}, sharc.PackageOptions{Loop: true}))
	root.AddChild(spinner)
}

func makeDraggable(s *sharc.Stage, box *sharc.Node, base sharc.Color, notify Notify) {
	var last sharc.Vec2
	box.On(sharc.EventClick, func(n *sharc.Node, e sharc.Event) sharc.Result {
		last = e.Device
		s.SetKeyTarget(n.Name)
		n.BringToFront()
		warn(s, n, n.Channel(1).Unshift([]sharc.Animation{
			{Property: "scale", To: sharc.Vec2{X: 1.15, Y: 1.15}, Duration: 6, Easing: ease.OutQuad},
			{Property: "scale", To: sharc.Vec2{X: 1, Y: 1}, Duration: 6, Easing: ease.InQuad},
		}, sharc.PackageOptions{}))
		notify(n.Name + " clicked")
		return sharc.Continue
	})
	box.On(sharc.EventDrag, func(n *sharc.Node, e sharc.Event) sharc.Result {
		n.SetCenter(n.Center().Add(e.Device.Sub(last)))
		last = e.Device
		return sharc.Continue
	})
	box.On(sharc.EventRelease, func(n *sharc.Node, _ sharc.Event) sharc.Result {
		notify(n.Name + " released")
		return sharc.Continue
	})
	box.On(sharc.EventHover, func(n *sharc.Node, _ sharc.Event) sharc.Result {
		warn(s, n, n.Channel(2).Enqueue([]sharc.Animation{{Property: "stroke", To: highlight, Duration: 8}}, 0, sharc.PackageOptions{}))
		return sharc.Continue
	})
	box.On(sharc.EventHoverEnd, func(n *sharc.Node, _ sharc.Event) sharc.Result {
		warn(s, n, n.Channel(2).Enqueue([]sharc.Animation{{Property: "stroke", To: sharc.ColorBlack, Duration: 8}}, 0, sharc.PackageOptions{}))
		return sharc.Continue
	})
	box.On(sharc.EventKeyDown, func(n *sharc.Node, e sharc.Event) sharc.Result {
		step := map[string]sharc.Vec2{
			"ArrowLeft": {X: -10}, "ArrowRight": {X: 10},
			"ArrowUp": {Y: -10}, "ArrowDown": {Y: 10},
		}[e.Key]
		if step != (sharc.Vec2{}) {
			warn(s, n, n.Channel(0).Enqueue([]sharc.Animation{{
				Property: "center",
				To:       sharc.ToFunc(func(from any) any { return from.(sharc.Vec2).Add(step) }),
				Duration: 5,
			}}, 1, sharc.PackageOptions{}))
		}
		if e.Key == " " {
			warn(s, n, n.Set("fill", base))
		}
		return sharc.Continue
	})
}

// warn logs a rejected scene update; the scene keeps running without it.
func warn(s *sharc.Stage, n *sharc.Node, err error) {
	if err != nil {
		s.Logger().Warn("scene update rejected", "node", n.Name, "err", err)
	}
}
