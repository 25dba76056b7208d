package sharc

import (
	"fmt"
	"maps"
	"sort"
)

// builtinProperties lists the property names every node carries.
var builtinProperties = []string{
	"corner1", "corner2", "center", "width", "height", "rotation", "scale", "opacity",
}

// Lookup returns the live value of the named property. It never fails; ok is
// false for names the node does not carry.
func (n *Node) Lookup(name string) (v any, ok bool) {
	switch name {
	case "corner1":
		return n.Corner1, true
	case "corner2":
		return n.Corner2, true
	case "center":
		return n.Center(), true
	case "width":
		return n.Width(), true
	case "height":
		return n.Height(), true
	case "rotation":
		return n.Rotation, true
	case "scale":
		return n.Scale, true
	case "opacity":
		return n.Opacity, true
	}
	v, ok = n.props[name]
	if b, isBag := v.(Bag); isBag {
		return maps.Clone(b), true
	}
	return v, ok
}

// Get is Lookup that reports unknown names as ErrUnknownProperty.
func (n *Node) Get(name string) (any, error) {
	v, ok := n.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q on node %q", ErrUnknownProperty, name, n.Name)
	}
	return v, nil
}

// Set assigns the named property. Unknown names fail with ErrUnknownProperty;
// values of the wrong shape fail with ErrAnimationTypeMismatch.
func (n *Node) Set(name string, v any) error {
	v = normalizeValue(v)
	switch name {
	case "corner1", "corner2", "center", "scale":
		p, ok := v.(Vec2)
		if !ok {
			return propertyTypeError(n, name, Vec2{}, v)
		}
		switch name {
		case "corner1":
			n.Corner1 = p
		case "corner2":
			n.Corner2 = p
		case "center":
			n.SetCenter(p)
		case "scale":
			n.Scale = p
		}
		return nil
	case "width", "height", "rotation", "opacity":
		f, ok := v.(float64)
		if !ok {
			return propertyTypeError(n, name, 0.0, v)
		}
		switch name {
		case "width":
			n.SetWidth(f)
		case "height":
			n.SetHeight(f)
		case "rotation":
			n.Rotation = f
		case "opacity":
			n.Opacity = f
		}
		return nil
	}
	old, ok := n.props[name]
	if !ok {
		return fmt.Errorf("%w: %q on node %q", ErrUnknownProperty, name, n.Name)
	}
	if !sameShape(old, v) {
		return propertyTypeError(n, name, old, v)
	}
	if b, isBag := v.(Bag); isBag {
		v = maps.Clone(b)
	}
	n.props[name] = v
	return nil
}

// TrySet is Set for speculative writes: it reports success instead of failing.
func (n *Node) TrySet(name string, v any) bool {
	return n.Set(name, v) == nil
}

// Declare adds a custom property with its default value, or resets an
// existing one. Painters declare the properties they read this way.
func (n *Node) Declare(name string, def any) {
	for _, b := range builtinProperties {
		if b == name {
			panic(fmt.Sprintf("sharc: %q is a built-in property", name))
		}
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = normalizeValue(def)
}

// Properties returns the sorted names of every property the node carries.
func (n *Node) Properties() []string {
	names := append([]string(nil), builtinProperties...)
	custom := make([]string, 0, len(n.props))
	for k := range n.props {
		custom = append(custom, k)
	}
	sort.Strings(custom)
	return append(names, custom...)
}

func propertyTypeError(n *Node, name string, want, got any) error {
	return fmt.Errorf("%w: property %q on node %q wants %T, got %T",
		ErrAnimationTypeMismatch, name, n.Name, want, got)
}

// normalizeValue widens numeric literals to float64.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case map[string]float64:
		return Bag(x)
	}
	return v
}

func sameShape(a, b any) bool {
	if _, ok := a.(float64); ok {
		_, ok = b.(float64)
		return ok
	}
	ca, okA := components(a)
	cb, okB := components(b)
	if okA || okB {
		return okA && okB && sameKeys(ca, cb)
	}
	return fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
}

// components flattens a composite value into its keyed numbers.
func components(v any) (Bag, bool) {
	switch x := v.(type) {
	case Vec2:
		return Bag{"x": x.X, "y": x.Y}, true
	case Color:
		return Bag{"r": x.R, "g": x.G, "b": x.B, "a": x.A}, true
	case Bag:
		return x, true
	}
	return nil, false
}

// rebuild turns keyed numbers back into a value shaped like template.
func rebuild(template any, b Bag) any {
	switch template.(type) {
	case Vec2:
		return Vec2{b["x"], b["y"]}
	case Color:
		return Color{b["r"], b["g"], b["b"], b["a"]}
	}
	return b
}

func sameKeys(a, b Bag) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// interpolate blends from and to at ratio, shaped like the property's
// current value cur.
func interpolate(cur, from, to any, ratio float64) (any, error) {
	if _, ok := cur.(float64); ok {
		f, okF := from.(float64)
		t, okT := to.(float64)
		if !okF || !okT {
			return nil, fmt.Errorf("%w: numeric property tweened from %T to %T", ErrAnimationTypeMismatch, from, to)
		}
		return f + ratio*(t-f), nil
	}
	cc, ok := components(cur)
	if !ok {
		return nil, fmt.Errorf("%w: property of type %T cannot be tweened", ErrAnimationTypeMismatch, cur)
	}
	cf, okF := components(from)
	ct, okT := components(to)
	if !okF || !okT {
		return nil, fmt.Errorf("%w: composite property tweened from %T to %T", ErrAnimationTypeMismatch, from, to)
	}
	out := make(Bag, len(cc))
	for k := range cc {
		f, okF := cf[k]
		t, okT := ct[k]
		if !okF || !okT {
			return nil, fmt.Errorf("%w: key %q missing from an endpoint", ErrAnimationTypeMismatch, k)
		}
		out[k] = f + ratio*(t-f)
	}
	if len(cf) != len(cc) || len(ct) != len(cc) {
		return nil, fmt.Errorf("%w: endpoints carry keys the property lacks", ErrAnimationTypeMismatch)
	}
	return rebuild(cur, out), nil
}

// applyAnimation writes the tween's value for this frame onto the node.
func (n *Node) applyAnimation(f *Frame, a *Animation) error {
	cur, ok := n.Lookup(a.Property)
	if !ok {
		return fmt.Errorf("%w: %q on node %q (animation %q)", ErrUnknownProperty, a.Property, n.Name, a.Name)
	}
	if a.frame == 0 || a.tween == nil {
		a.from = normalizeValue(a.From)
		if a.from == nil {
			a.from = cur
		}
		switch to := a.To.(type) {
		case ToFunc:
			a.to = normalizeValue(to(a.from))
		case func(any) any:
			a.to = normalizeValue(to(a.from))
		default:
			a.to = normalizeValue(to)
		}
		a.tween = nil
	}
	v, err := interpolate(cur, a.from, a.to, a.ratio())
	if err != nil {
		return fmt.Errorf("animation %q on node %q: %w", a.Property, n.Name, err)
	}
	if err := n.Set(a.Property, v); err != nil {
		return err
	}
	if a.frame == a.Duration {
		done := *a
		n.emit(f, EventAnimationFinish, Event{Animation: &done})
	}
	return nil
}
