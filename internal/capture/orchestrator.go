// Package capture runs the element walker over all top-level windows with
// bounded parallelism and assembles the DesktopState snapshot.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/winmcp/winmcp/internal/model"
	"github.com/winmcp/winmcp/internal/platform"
	"github.com/winmcp/winmcp/internal/tree"
	"github.com/winmcp/winmcp/internal/window"
)

const (
	// DefaultPoolSize caps concurrent window walks. Unbounded concurrency
	// contends on the automation provider and can exhaust COM resources.
	DefaultPoolSize = 8
	// DefaultWindowTimeout bounds one window's walk. A window that blows
	// the budget contributes zero nodes instead of stalling the capture.
	DefaultWindowTimeout = 5 * time.Second
)

// ErrEnumeration marks a capture that failed before any walking started:
// the window manager could not be enumerated at all. Distinct from an
// empty capture, which is a valid result.
var ErrEnumeration = errors.New("window enumeration failed")

// Config tunes the orchestrator.
type Config struct {
	PoolSize      int
	WindowTimeout time.Duration
	Walker        tree.Config
}

func (c Config) withDefaults() Config {
	if c.PoolSize <= 0 {
		c.PoolSize = DefaultPoolSize
	}
	if c.WindowTimeout <= 0 {
		c.WindowTimeout = DefaultWindowTimeout
	}
	return c
}

// Orchestrator produces DesktopState snapshots. Safe for concurrent use:
// every Capture call owns its aggregation state.
type Orchestrator struct {
	windows *window.Service
	auto    platform.Automation
	api     platform.WindowAPI
	cfg     Config
	log     *slog.Logger
}

// New builds an orchestrator over the window service and automation
// provider.
func New(windows *window.Service, auto platform.Automation, api platform.WindowAPI, cfg Config, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		windows: windows,
		auto:    auto,
		api:     api,
		cfg:     cfg.withDefaults(),
		log:     log,
	}
}

// Capture walks every top-level window concurrently and returns the
// aggregated snapshot. Per-window failures and timeouts degrade to zero
// nodes for that window; only enumeration failure is fatal.
func (o *Orchestrator) Capture(ctx context.Context) (*model.DesktopState, error) {
	start := time.Now()

	windows, err := o.windows.ListWindows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnumeration, err)
	}
	active := o.windows.ActiveWindow(windows)
	activeDesktop, allDesktops := o.api.VirtualDesktops()

	// The active window is walked first and reported separately; the
	// remaining list keeps enumeration order.
	order := make([]model.Window, 0, len(windows))
	others := make([]model.Window, 0, len(windows))
	if active != nil {
		order = append(order, *active)
	}
	for _, w := range windows {
		if active != nil && w.Handle == active.Handle {
			continue
		}
		order = append(order, w)
		others = append(others, w)
	}

	results := o.walkAll(ctx, order)

	state := &model.DesktopState{
		ActiveDesktop: activeDesktop,
		AllDesktops:   allDesktops,
		ActiveWindow:  active,
		Windows:       others,
	}

	// Global labels follow window order first, in-window traversal order
	// second, across both node classes.
	label := 0
	for _, nodes := range results {
		for _, n := range nodes {
			n.TreeElementNode.Label = label
			label++
			switch n.Category {
			case tree.Interactive:
				state.InteractiveNodes = append(state.InteractiveNodes, n.TreeElementNode)
			case tree.Informative:
				state.InformativeNodes = append(state.InformativeNodes, n.TreeElementNode)
			}
		}
	}

	o.log.Info("desktop state captured",
		"windows", len(order),
		"interactive", len(state.InteractiveNodes),
		"informative", len(state.InformativeNodes),
		"dpi_scale", o.api.DPIScale(),
		"took", time.Since(start))
	return state, nil
}

// walkAll fans the walk out over a bounded pool, one unit per window, and
// collects per-window node lists into isolated slots. A walk that outlives
// its timeout keeps running on its goroutine (provider calls are not
// interruptible) but its eventual result is discarded, never merged.
func (o *Orchestrator) walkAll(ctx context.Context, order []model.Window) [][]tree.Node {
	walker := tree.NewWalker(o.api.VirtualScreen(), o.cfg.Walker, o.log)
	results := make([][]tree.Node, len(order))

	g := new(errgroup.Group)
	g.SetLimit(min(o.cfg.PoolSize, max(len(order), 1)))
	for i, win := range order {
		g.Go(func() error {
			done := make(chan []tree.Node, 1)
			go func() {
				root, err := o.auto.ElementFromHandle(win.Handle)
				if err != nil {
					// Window closed before traversal started.
					o.log.Debug("automation root unavailable",
						"window", win.Name, "error", err)
					done <- nil
					return
				}
				nodes, err := walker.Walk(win, root)
				if err != nil {
					o.log.Debug("window walk failed",
						"window", win.Name, "error", err)
					done <- nil
					return
				}
				done <- nodes
			}()

			select {
			case nodes := <-done:
				results[i] = nodes
			case <-time.After(o.cfg.WindowTimeout):
				o.log.Warn("window walk timed out",
					"window", win.Name, "timeout", o.cfg.WindowTimeout)
			case <-ctx.Done():
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
