// Package sharc is a retained-mode 2D scene graph for canvas-style surfaces.
//
// Sharc provides the node tree, per-node animation channels, a frame loop,
// and pointer/keyboard/scroll dispatch that hit-tests against the regions
// nodes actually painted. Drawing goes through a [Surface]; [GGSurface]
// renders off-screen with fogleman/gg, and the ebitenhost package presents
// frames in a window.
//
// # Quick start
//
//	surf := sharc.NewGGSurface(640, 480)
//	stage := sharc.NewStage(surf, sharc.DefaultConfig())
//
//	box := sharc.NewRect("box", sharc.Vec2{-40, -20}, sharc.Vec2{40, 20}, sharc.ColorBlack)
//	box.On(sharc.EventClick, func(n *sharc.Node, e sharc.Event) sharc.Result {
//		n.Channel(0).Push([]sharc.Animation{{Property: "rotation", To: 90.0, Duration: 30}}, sharc.PackageOptions{})
//		return sharc.Continue
//	})
//	stage.Root().AddChild(box)
//	stage.Start(60)
//
// # Scene graph
//
// Every element is a [Node]: two corners in the parent's frame, a rotation
// (degrees) and scale about the center, an opacity, and a [DrawFunc] that
// paints in local coordinates with the origin at the center. Children are
// drawn in order after their parent, inside the parent's transform.
//
// Nodes expose their state as named properties ([Node.Get], [Node.Set]).
// The built-ins are corner1, corner2, center, width, height, rotation,
// scale and opacity; painters add their own with [Node.Declare].
//
// # Animation
//
// Each node has [NumChannels] independent [Channel]s. A channel plays a
// queue of packages one at a time; a package is a list of [Animation]s
// played in sequence, optionally repeated or looped. A nil From starts the
// tween from the property's live value when it activates.
//
// # Frames and input
//
// [Stage] drains queued [InputEvent]s into a [Frame] (at most one
// observation per kind), draws the tree, and dispatches after each node's
// subtree. Only one node claims a pointer per press: the last node in
// post-order whose region contains the point. Keyboard and wheel events go
// to the nodes named by [Stage.SetKeyTarget] and [Stage.SetScrollTarget].
//
// Any panic or error escaping a frame stops the loop and is reported as a
// [*DrawFault].
//
// # Testing
//
// [Stage.RenderFrame] draws one frame synchronously. [Stage.InjectClick],
// [Stage.InjectDrag] and [Stage.InjectKey] feed synthetic input one event
// per frame; [LoadScript] sequences them with screenshots.
package sharc
