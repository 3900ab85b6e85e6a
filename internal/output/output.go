// Package output renders capture results for humans (yaml/json) and for
// agents (the compact numbered text format).
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatAgent Format = "agent"
)

// Print serializes v to w in the given format. The agent format only
// applies to types implementing AgentFormatter; everything else falls back
// to YAML.
func Print(w io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}
		return nil
	case FormatAgent:
		if f, ok := v.(AgentFormatter); ok {
			_, err := io.WriteString(w, f.AgentString())
			return err
		}
		fallthrough
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s (use yaml, json, or agent)", format)
	}
}

// AgentFormatter is implemented by results that have a compact agent
// rendering.
type AgentFormatter interface {
	AgentString() string
}

// IsOutputPiped reports whether stdout is not a terminal. Piped output is
// assumed to be consumed by an agent.
func IsOutputPiped() bool {
	return !isatty.IsTerminal(os.Stdout.Fd())
}
