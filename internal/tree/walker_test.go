package tree

import (
	"errors"
	"testing"

	"github.com/winmcp/winmcp/internal/model"
	"github.com/winmcp/winmcp/internal/platform"
)

// fakeElement implements platform.Element for walker tests.
type fakeElement struct {
	name        string
	controlType string
	role        string
	value       string
	shortcut    string
	enabled     bool
	offscreen   bool
	focused     bool
	rect        model.BoundingBox
	children    []*fakeElement

	// childFailures makes the first N Children calls fail.
	childFailures int
	nameErr       error
	typeErr       error
}

func (f *fakeElement) Name() (string, error) {
	if f.nameErr != nil {
		return "", f.nameErr
	}
	return f.name, nil
}

func (f *fakeElement) ControlType() (string, error) {
	if f.typeErr != nil {
		return "", f.typeErr
	}
	return f.controlType, nil
}

func (f *fakeElement) Role() (string, error)      { return f.role, nil }
func (f *fakeElement) Value() (string, error)     { return f.value, nil }
func (f *fakeElement) Shortcut() (string, error)  { return f.shortcut, nil }
func (f *fakeElement) IsEnabled() (bool, error)   { return f.enabled, nil }
func (f *fakeElement) IsOffscreen() (bool, error) { return f.offscreen, nil }
func (f *fakeElement) IsFocused() (bool, error)   { return f.focused, nil }

func (f *fakeElement) Rect() (model.BoundingBox, error) { return f.rect, nil }

func (f *fakeElement) Children() ([]platform.Element, error) {
	if f.childFailures > 0 {
		f.childFailures--
		return nil, errors.New("transient provider failure")
	}
	out := make([]platform.Element, len(f.children))
	for i, c := range f.children {
		out[i] = c
	}
	return out, nil
}

func button(name string, left, top, right, bottom int) *fakeElement {
	return &fakeElement{
		name:        name,
		controlType: "ButtonControl",
		enabled:     true,
		rect:        model.NewBoundingBox(left, top, right, bottom),
	}
}

func testWindow() model.Window {
	return model.Window{
		Name:        "Test App",
		BoundingBox: model.NewBoundingBox(0, 0, 800, 600),
	}
}

func testScreen() model.BoundingBox {
	return model.NewBoundingBox(0, 0, 1920, 1080)
}

func TestWalkEmitsInDocumentOrder(t *testing.T) {
	root := &fakeElement{
		controlType: "PaneControl",
		enabled:     true,
		rect:        model.NewBoundingBox(0, 0, 800, 600),
		children: []*fakeElement{
			button("First", 10, 10, 100, 40),
			{
				name:        "Body",
				controlType: "GroupControl",
				enabled:     true,
				rect:        model.NewBoundingBox(0, 50, 800, 600),
				children: []*fakeElement{
					button("Second", 10, 60, 100, 90),
					{
						name:        "Hint",
						controlType: "TextControl",
						enabled:     true,
						rect:        model.NewBoundingBox(10, 100, 200, 120),
					},
				},
			},
			button("Third", 10, 150, 100, 180),
		},
	}

	w := NewWalker(testScreen(), Config{}, nil)
	nodes, err := w.Walk(testWindow(), root)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	wantNames := []string{"First", "Second", "Hint", "Third"}
	if len(nodes) != len(wantNames) {
		t.Fatalf("got %d nodes, want %d", len(nodes), len(wantNames))
	}
	for i, want := range wantNames {
		if nodes[i].Name != want {
			t.Errorf("node[%d] = %q, want %q", i, nodes[i].Name, want)
		}
	}
	if nodes[2].Category != Informative {
		t.Errorf("Hint classified %v, want Informative", nodes[2].Category)
	}
}

func TestWalkIsDeterministic(t *testing.T) {
	build := func() *fakeElement {
		return &fakeElement{
			controlType: "PaneControl",
			enabled:     true,
			rect:        model.NewBoundingBox(0, 0, 800, 600),
			children: []*fakeElement{
				button("A", 0, 0, 50, 20),
				button("B", 0, 30, 50, 50),
				button("C", 0, 60, 50, 80),
			},
		}
	}

	w := NewWalker(testScreen(), Config{}, nil)
	first, _ := w.Walk(testWindow(), build())
	second, _ := w.Walk(testWindow(), build())

	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name || first[i].BoundingBox != second[i].BoundingBox {
			t.Errorf("run mismatch at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestWalkNilRoot(t *testing.T) {
	w := NewWalker(testScreen(), Config{}, nil)
	_, err := w.Walk(testWindow(), nil)
	if !errors.Is(err, ErrRootUnreachable) {
		t.Errorf("err = %v, want ErrRootUnreachable", err)
	}
}

func TestWalkSkipsDisabledAndOffscreen(t *testing.T) {
	disabled := button("Disabled", 0, 0, 50, 20)
	disabled.enabled = false
	offscreen := button("Offscreen", 0, 30, 50, 50)
	offscreen.offscreen = true

	root := &fakeElement{
		controlType: "PaneControl",
		enabled:     true,
		rect:        model.NewBoundingBox(0, 0, 800, 600),
		children:    []*fakeElement{disabled, offscreen, button("Visible", 0, 60, 50, 80)},
	}

	w := NewWalker(testScreen(), Config{}, nil)
	nodes, _ := w.Walk(testWindow(), root)
	if len(nodes) != 1 || nodes[0].Name != "Visible" {
		t.Errorf("got %d nodes %v, want only Visible", len(nodes), names(nodes))
	}
}

func TestWalkKeepsOffscreenEditControl(t *testing.T) {
	// Edit fields scrolled out of view remain typing targets.
	edit := &fakeElement{
		name:        "Search",
		controlType: "EditControl",
		enabled:     true,
		offscreen:   true,
		rect:        model.NewBoundingBox(10, 10, 200, 40),
	}
	root := &fakeElement{
		controlType: "PaneControl",
		enabled:     true,
		rect:        model.NewBoundingBox(0, 0, 800, 600),
		children:    []*fakeElement{edit},
	}

	w := NewWalker(testScreen(), Config{}, nil)
	nodes, _ := w.Walk(testWindow(), root)
	if len(nodes) != 1 || nodes[0].Name != "Search" {
		t.Errorf("offscreen edit control dropped: %v", names(nodes))
	}
}

func TestWalkDeduplicatesSameNameSameBox(t *testing.T) {
	root := &fakeElement{
		controlType: "PaneControl",
		enabled:     true,
		rect:        model.NewBoundingBox(0, 0, 800, 600),
		children: []*fakeElement{
			button("OK", 10, 10, 100, 40),
			button("OK", 10, 10, 100, 40),
			button("OK", 10, 50, 100, 80), // same name, different place
		},
	}

	w := NewWalker(testScreen(), Config{}, nil)
	nodes, _ := w.Walk(testWindow(), root)
	if len(nodes) != 2 {
		t.Errorf("got %d nodes %v, want 2 after dedup", len(nodes), names(nodes))
	}
}

func TestWalkDedupTolerance(t *testing.T) {
	root := &fakeElement{
		controlType: "PaneControl",
		enabled:     true,
		rect:        model.NewBoundingBox(0, 0, 800, 600),
		children: []*fakeElement{
			button("Save", 10, 10, 100, 40),
			button("Save", 11, 11, 101, 41), // 1px off
		},
	}

	exact := NewWalker(testScreen(), Config{}, nil)
	nodes, _ := exact.Walk(testWindow(), root)
	if len(nodes) != 2 {
		t.Errorf("tolerance 0: got %d nodes, want 2", len(nodes))
	}

	fuzzy := NewWalker(testScreen(), Config{DedupTolerance: 2}, nil)
	nodes, _ = fuzzy.Walk(testWindow(), root)
	if len(nodes) != 1 {
		t.Errorf("tolerance 2: got %d nodes, want 1", len(nodes))
	}
}

func TestWalkRetriesChildQuery(t *testing.T) {
	flaky := &fakeElement{
		name:          "Flaky",
		controlType:   "GroupControl",
		enabled:       true,
		rect:          model.NewBoundingBox(0, 0, 800, 600),
		childFailures: 2, // succeeds on the third attempt
		children:      []*fakeElement{button("Recovered", 10, 10, 100, 40)},
	}
	root := &fakeElement{
		controlType: "PaneControl",
		enabled:     true,
		rect:        model.NewBoundingBox(0, 0, 800, 600),
		children:    []*fakeElement{flaky},
	}

	w := NewWalker(testScreen(), Config{}, nil)
	nodes, _ := w.Walk(testWindow(), root)
	if len(nodes) != 1 || nodes[0].Name != "Recovered" {
		t.Errorf("retry did not recover branch: %v", names(nodes))
	}
}

func TestWalkAbandonsBranchAfterRetriesExhausted(t *testing.T) {
	broken := &fakeElement{
		name:          "Broken",
		controlType:   "GroupControl",
		enabled:       true,
		rect:          model.NewBoundingBox(0, 0, 400, 600),
		childFailures: 100,
		children:      []*fakeElement{button("Unreachable", 10, 10, 100, 40)},
	}
	root := &fakeElement{
		controlType: "PaneControl",
		enabled:     true,
		rect:        model.NewBoundingBox(0, 0, 800, 600),
		children:    []*fakeElement{broken, button("Sibling", 500, 10, 600, 40)},
	}

	w := NewWalker(testScreen(), Config{ChildRetries: 3}, nil)
	nodes, err := w.Walk(testWindow(), root)
	if err != nil {
		t.Fatalf("Walk must not fail on branch errors: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Name != "Sibling" {
		t.Errorf("sibling lost after branch abandonment: %v", names(nodes))
	}
}

func TestWalkDepthCap(t *testing.T) {
	// A chain deeper than MaxDepth stops quietly.
	leaf := button("Deep", 10, 10, 100, 40)
	var node *fakeElement = leaf
	for i := 0; i < 10; i++ {
		node = &fakeElement{
			controlType: "GroupControl",
			enabled:     true,
			rect:        model.NewBoundingBox(0, 0, 800, 600),
			children:    []*fakeElement{node},
		}
	}

	w := NewWalker(testScreen(), Config{MaxDepth: 5}, nil)
	nodes, err := w.Walk(testWindow(), node)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("got %v, want nothing below the depth cap", names(nodes))
	}
}

func TestWalkClipsToWindowAndScreen(t *testing.T) {
	// Element pokes out of the window; only the visible part is reported.
	wide := button("Wide", 700, 10, 1000, 40)
	outside := button("Outside", 900, 100, 1000, 140)
	root := &fakeElement{
		controlType: "PaneControl",
		enabled:     true,
		rect:        model.NewBoundingBox(0, 0, 800, 600),
		children:    []*fakeElement{wide, outside},
	}

	w := NewWalker(testScreen(), Config{}, nil)
	nodes, _ := w.Walk(testWindow(), root)
	if len(nodes) != 1 {
		t.Fatalf("got %v, want only the clipped Wide", names(nodes))
	}
	want := model.NewBoundingBox(700, 10, 800, 40)
	if nodes[0].BoundingBox != want {
		t.Errorf("clipped box = %+v, want %+v", nodes[0].BoundingBox, want)
	}
}

func TestWalkInteractiveExtras(t *testing.T) {
	edit := &fakeElement{
		name:        "Username",
		controlType: "EditControl",
		enabled:     true,
		focused:     true,
		value:       "alice",
		shortcut:    "Alt+U",
		rect:        model.NewBoundingBox(10, 10, 200, 40),
	}
	text := &fakeElement{
		name:        "Label",
		controlType: "TextControl",
		enabled:     true,
		value:       "should not appear",
		rect:        model.NewBoundingBox(10, 50, 200, 70),
	}
	root := &fakeElement{
		controlType: "PaneControl",
		enabled:     true,
		rect:        model.NewBoundingBox(0, 0, 800, 600),
		children:    []*fakeElement{edit, text},
	}

	w := NewWalker(testScreen(), Config{}, nil)
	nodes, _ := w.Walk(testWindow(), root)
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	if nodes[0].Value != "alice" || nodes[0].Shortcut != "Alt+U" || !nodes[0].IsFocused {
		t.Errorf("interactive extras missing: %+v", nodes[0].TreeElementNode)
	}
	if len(nodes[0].Actions) == 0 {
		t.Error("interactive node has no actions")
	}
	if nodes[1].Value != "" || len(nodes[1].Actions) != 0 {
		t.Errorf("informative node carries interactive extras: %+v", nodes[1].TreeElementNode)
	}
}

func names(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}
