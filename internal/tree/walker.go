package tree

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/winmcp/winmcp/internal/geometry"
	"github.com/winmcp/winmcp/internal/model"
	"github.com/winmcp/winmcp/internal/platform"
)

const (
	// DefaultMaxDepth caps traversal depth per window.
	DefaultMaxDepth = 50
	// DefaultChildRetries is how many times a failing child query is
	// retried before its branch is abandoned.
	DefaultChildRetries = 3
)

// Config tunes one walker instance.
type Config struct {
	// MaxDepth bounds recursion depth. Zero means DefaultMaxDepth.
	MaxDepth int
	// ChildRetries bounds retries of a failing provider query before the
	// branch is dropped. Zero means DefaultChildRetries.
	ChildRetries int
	// DedupTolerance is the pixel slack when comparing bounding boxes of
	// same-named nodes for visual deduplication. The safe default is 0
	// (exact equality).
	DedupTolerance int
}

func (c Config) withDefaults() Config {
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.ChildRetries <= 0 {
		c.ChildRetries = DefaultChildRetries
	}
	return c
}

// Node is one emitted element together with its classification. The
// orchestrator assigns global labels over the combined stream, so the
// walker keeps interactive and informative nodes in one ordered list.
type Node struct {
	model.TreeElementNode
	Category Category
}

// ErrRootUnreachable marks a window whose accessibility root could not be
// bound at all; the window contributes zero nodes.
var ErrRootUnreachable = errors.New("automation root unreachable")

// Walker traverses one window's accessibility subtree. A single Walker is
// safe for concurrent use: each Walk call owns its own accumulation state.
type Walker struct {
	screen model.BoundingBox
	cfg    Config
	log    *slog.Logger
}

// NewWalker builds a walker clamping against the given screen rectangle.
func NewWalker(screen model.BoundingBox, cfg Config, log *slog.Logger) *Walker {
	if log == nil {
		log = slog.Default()
	}
	return &Walker{screen: screen, cfg: cfg.withDefaults(), log: log}
}

// walkState is the per-call accumulation: emitted nodes plus the dedup
// index.
type walkState struct {
	nodes []Node
	seen  []dedupKey
}

type dedupKey struct {
	name string
	box  model.BoundingBox
}

// Walk traverses the subtree under root in document order (depth-first,
// children in provider-reported order) and returns the emitted nodes.
// Errors inside a branch never fail the walk; only an unreachable root is
// fatal, and the caller treats that as zero nodes for this window.
func (w *Walker) Walk(win model.Window, root platform.Element) ([]Node, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: window %q", ErrRootUnreachable, win.Name)
	}
	st := &walkState{}
	w.visit(root, win, st, 0)
	return st.nodes, nil
}

func (w *Walker) visit(el platform.Element, win model.Window, st *walkState, depth int) {
	if depth >= w.cfg.MaxDepth {
		w.log.Warn("max tree depth reached, stopping traversal",
			"window", win.Name, "depth", depth)
		return
	}

	w.emit(el, win, st)

	children, err := w.childrenWithRetry(el)
	if err != nil {
		// Branch abandoned: siblings and the rest of the walk continue.
		w.log.Debug("child query failed, abandoning branch",
			"window", win.Name, "depth", depth, "error", err)
		return
	}
	for _, child := range children {
		w.visit(child, win, st, depth+1)
	}
}

// emit classifies the element and appends it to the result if it qualifies.
// Any property-read failure just drops the emission; the subtree is still
// visited by the caller.
func (w *Walker) emit(el platform.Element, win model.Window, st *walkState) {
	controlType, err := el.ControlType()
	if err != nil {
		return
	}
	role, err := el.Role()
	if err != nil {
		// Role is advisory; classification falls back to control type.
		role = ""
	}

	category := Classify(controlType, role)
	if category != Interactive && category != Informative {
		return
	}

	enabled, err := el.IsEnabled()
	if err != nil || !enabled {
		return
	}
	offscreen, err := el.IsOffscreen()
	if err != nil {
		return
	}
	// Offscreen edit fields stay visible to the agent: they are routinely
	// scrolled out of view yet still the typing target.
	if offscreen && controlType != "EditControl" {
		return
	}

	rect, err := el.Rect()
	if err != nil {
		return
	}
	box := geometry.Intersect(win.BoundingBox, rect, w.screen)
	if box.IsEmpty() {
		return
	}

	name, err := el.Name()
	if err != nil {
		return
	}
	name = strings.TrimSpace(name)

	if w.isDuplicate(st, name, box) {
		return
	}
	st.seen = append(st.seen, dedupKey{name: name, box: box})

	node := Node{
		TreeElementNode: model.TreeElementNode{
			Name:        name,
			ControlType: controlType,
			WindowName:  win.Name,
			BoundingBox: box,
			Center:      box.GetCenter(),
		},
		Category: category,
	}

	if category == Interactive {
		node.Actions = ActionsFor(controlType)
		if v, err := el.Value(); err == nil {
			node.Value = strings.TrimSpace(v)
		}
		if s, err := el.Shortcut(); err == nil {
			node.Shortcut = s
		}
		if f, err := el.IsFocused(); err == nil {
			node.IsFocused = f
		}
	}

	st.nodes = append(st.nodes, node)
}

// isDuplicate reports whether a node with the same name and a bounding box
// within the configured tolerance was already emitted. Automation providers
// frequently expose both a logical item and a decorative wrapper at the
// same screen location; the first occurrence wins.
func (w *Walker) isDuplicate(st *walkState, name string, box model.BoundingBox) bool {
	tol := w.cfg.DedupTolerance
	for _, k := range st.seen {
		if k.name != name {
			continue
		}
		if tol == 0 {
			if k.box == box {
				return true
			}
			continue
		}
		if absDiff(k.box.Left, box.Left) <= tol &&
			absDiff(k.box.Top, box.Top) <= tol &&
			absDiff(k.box.Right, box.Right) <= tol &&
			absDiff(k.box.Bottom, box.Bottom) <= tol {
			return true
		}
	}
	return false
}

func (w *Walker) childrenWithRetry(el platform.Element) ([]platform.Element, error) {
	var lastErr error
	for attempt := 0; attempt < w.cfg.ChildRetries; attempt++ {
		children, err := el.Children()
		if err == nil {
			return children, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", w.cfg.ChildRetries, lastErr)
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
