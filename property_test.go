package sharc

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuiltinProperties(t *testing.T) {
	n := box("b", 0, 0, 10, 20)

	if v, err := n.Get("width"); err != nil || v != 10.0 {
		t.Errorf("Get(width) = %v, %v; want 10", v, err)
	}
	if v, _ := n.Get("center"); v != (Vec2{5, 10}) {
		t.Errorf("Get(center) = %v, want (5, 10)", v)
	}

	if err := n.Set("center", Vec2{5, 5}); err != nil {
		t.Fatal(err)
	}
	if n.Corner1 != (Vec2{0, -5}) || n.Corner2 != (Vec2{10, 15}) {
		t.Errorf("corners = %v %v, want (0,-5) (10,15)", n.Corner1, n.Corner2)
	}

	if err := n.Set("rotation", 45); err != nil {
		t.Errorf("Set(rotation, int) = %v", err)
	}
	if n.Rotation != 45 {
		t.Errorf("Rotation = %v, want 45", n.Rotation)
	}

	if err := n.Set("height", 40.0); err != nil {
		t.Fatal(err)
	}
	if n.Height() != 40 || n.Center() != (Vec2{5, 5}) {
		t.Errorf("after Set(height): Height = %v, Center = %v", n.Height(), n.Center())
	}
}

func TestSetErrors(t *testing.T) {
	n := box("b", 0, 0, 10, 10)
	if err := n.Set("nope", 1.0); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("Set(nope) err = %v, want ErrUnknownProperty", err)
	}
	if _, err := n.Get("nope"); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("Get(nope) err = %v, want ErrUnknownProperty", err)
	}
	if err := n.Set("rotation", "fast"); !errors.Is(err, ErrAnimationTypeMismatch) {
		t.Errorf("Set(rotation, string) err = %v, want ErrAnimationTypeMismatch", err)
	}
	if err := n.Set("fill", 1.0); !errors.Is(err, ErrAnimationTypeMismatch) {
		t.Errorf("Set(fill, float) err = %v, want ErrAnimationTypeMismatch", err)
	}
	if n.TrySet("nope", 1.0) {
		t.Error("TrySet(nope) = true")
	}
	if !n.TrySet("lineWidth", 3) {
		t.Error("TrySet(lineWidth, 3) = false")
	}
}

func TestLookupNeverFails(t *testing.T) {
	n := NewContainer("c")
	if v, ok := n.Lookup("missing"); ok || v != nil {
		t.Errorf("Lookup(missing) = %v, %v", v, ok)
	}
}

func TestDeclareBuiltinPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Declare(opacity) did not panic")
		}
	}()
	NewContainer("c").Declare("opacity", 0.5)
}

func TestBagProperty(t *testing.T) {
	n := NewContainer("c")
	n.Declare("offset", map[string]float64{"u": 1, "v": 2})

	v, _ := n.Lookup("offset")
	b := v.(Bag)
	b["u"] = 99
	if again, _ := n.Lookup("offset"); again.(Bag)["u"] != 1 {
		t.Error("Lookup returned the stored bag, not a copy")
	}

	if err := n.Set("offset", Bag{"u": 3}); !errors.Is(err, ErrAnimationTypeMismatch) {
		t.Errorf("Set with missing key err = %v, want ErrAnimationTypeMismatch", err)
	}
	if err := n.Set("offset", Bag{"u": 3, "v": 4}); err != nil {
		t.Errorf("Set(offset) = %v", err)
	}
}

func TestProperties(t *testing.T) {
	n := box("b", 0, 0, 1, 1)
	got := n.Properties()
	want := append(append([]string(nil), builtinProperties...), "fill", "lineWidth", "stroke")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Properties = %v, want %v", got, want)
	}
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name          string
		cur, from, to any
		ratio         float64
		want          any
	}{
		{"number", 0.0, 10.0, 20.0, 0.25, 12.5},
		{"vec", Vec2{}, Vec2{0, 0}, Vec2{10, -10}, 0.5, Vec2{5, -5}},
		{"color", Color{}, ColorBlack, ColorWhite, 0.5, Color{0.5, 0.5, 0.5, 1}},
		{"bag", Bag{"a": 0}, Bag{"a": 2}, Bag{"a": 4}, 0.5, Bag{"a": 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := interpolate(tt.cur, tt.from, tt.to, tt.ratio)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("interpolate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInterpolateMismatch(t *testing.T) {
	tests := []struct {
		name          string
		cur, from, to any
	}{
		{"number to vec", 0.0, 0.0, Vec2{}},
		{"vec to number", Vec2{}, Vec2{}, 1.0},
		{"bag keys", Bag{"a": 0}, Bag{"a": 0}, Bag{"b": 1}},
		{"extra keys", Bag{"a": 0}, Bag{"a": 0, "b": 0}, Bag{"a": 1, "b": 1}},
		{"string", "x", "x", "y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := interpolate(tt.cur, tt.from, tt.to, 0.5); !errors.Is(err, ErrAnimationTypeMismatch) {
				t.Errorf("err = %v, want ErrAnimationTypeMismatch", err)
			}
		})
	}
}
