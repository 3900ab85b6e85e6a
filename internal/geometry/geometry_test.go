package geometry

import (
	"testing"

	"github.com/winmcp/winmcp/internal/model"
)

func TestIntersect(t *testing.T) {
	screen := model.NewBoundingBox(0, 0, 1920, 1080)

	tests := []struct {
		name    string
		window  model.BoundingBox
		element model.BoundingBox
		want    model.BoundingBox
	}{
		{
			name:    "element_inside_window",
			window:  model.NewBoundingBox(100, 100, 800, 600),
			element: model.NewBoundingBox(200, 200, 400, 300),
			want:    model.NewBoundingBox(200, 200, 400, 300),
		},
		{
			name:    "element_overhangs_window",
			window:  model.NewBoundingBox(100, 100, 800, 600),
			element: model.NewBoundingBox(700, 500, 900, 700),
			want:    model.NewBoundingBox(700, 500, 800, 600),
		},
		{
			name:    "element_outside_window",
			window:  model.NewBoundingBox(100, 100, 800, 600),
			element: model.NewBoundingBox(900, 700, 1000, 800),
			want:    model.BoundingBox{},
		},
		{
			name:    "touching_edges_is_empty",
			window:  model.NewBoundingBox(0, 0, 100, 100),
			element: model.NewBoundingBox(100, 0, 200, 100),
			want:    model.BoundingBox{},
		},
		{
			name:    "clamped_to_screen",
			window:  model.NewBoundingBox(1800, 900, 2200, 1300),
			element: model.NewBoundingBox(1850, 950, 2100, 1200),
			want:    model.NewBoundingBox(1850, 950, 1920, 1080),
		},
		{
			name:    "negative_origin_multi_monitor",
			window:  model.NewBoundingBox(-500, 0, 500, 500),
			element: model.NewBoundingBox(-400, 100, -100, 200),
			want:    model.BoundingBox{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intersect(tt.window, tt.element, screen)
			if got != tt.want {
				t.Errorf("Intersect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIntersectNegativeScreen(t *testing.T) {
	// A secondary monitor left of the primary gives the virtual screen a
	// negative origin; elements there must survive the clamp.
	screen := model.NewBoundingBox(-1920, 0, 1920, 1080)
	window := model.NewBoundingBox(-1000, 100, -200, 600)
	element := model.NewBoundingBox(-900, 200, -300, 400)

	got := Intersect(window, element, screen)
	want := model.NewBoundingBox(-900, 200, -300, 400)
	if got != want {
		t.Errorf("Intersect() = %+v, want %+v", got, want)
	}
}

func TestRandomPointWithinStaysInside(t *testing.T) {
	box := model.NewBoundingBox(100, 200, 300, 260)
	for i := 0; i < 100; i++ {
		p := RandomPointWithin(box, 1.0)
		if p.X < box.Left || p.X > box.Right || p.Y < box.Top || p.Y > box.Bottom {
			t.Fatalf("point (%d,%d) outside box %+v", p.X, p.Y, box)
		}
	}
}

func TestRandomPointWithinScaledStaysCentered(t *testing.T) {
	box := model.NewBoundingBox(0, 0, 100, 100)
	// Scale 0.5 confines points to the centered 50x50 region.
	for i := 0; i < 100; i++ {
		p := RandomPointWithin(box, 0.5)
		if p.X < 25 || p.X > 75 || p.Y < 25 || p.Y > 75 {
			t.Fatalf("point (%d,%d) outside centered region", p.X, p.Y)
		}
	}
}

func TestRandomPointWithinDegenerateBox(t *testing.T) {
	box := model.NewBoundingBox(50, 60, 50, 60)
	p := RandomPointWithin(box, 1.0)
	if p.X != 50 || p.Y != 60 {
		t.Errorf("degenerate box returned (%d,%d), want (50,60)", p.X, p.Y)
	}
}
