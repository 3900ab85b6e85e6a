// Package shell runs PowerShell commands with a timeout and a blocklist of
// destructive command families.
package shell

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// blocklist matches command families an agent must not run through the
// shell tool. Conservative by design: format/diskpart/bcdedit can brick
// the machine, the rest are privilege or persistence vectors.
var blocklist = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bformat(\.com)?\b`),
	regexp.MustCompile(`(?i)\bdiskpart\b`),
	regexp.MustCompile(`(?i)\bbcdedit\b`),
	regexp.MustCompile(`(?i)\bcipher\s+/w\b`),
	regexp.MustCompile(`(?i)\bvssadmin\s+delete\b`),
	regexp.MustCompile(`(?i)remove-item\s+.*-recurse.*\\(windows|system32)`),
	regexp.MustCompile(`(?i)\bnet\s+user\s+.*\s+/add\b`),
	regexp.MustCompile(`(?i)\breg\s+delete\s+hklm\\(system|sam|security)\b`),
}

// CheckBlocklist returns a human-readable reason when the command is
// refused, or empty when it is allowed.
func CheckBlocklist(command string) string {
	for _, re := range blocklist {
		if re.MatchString(command) {
			return fmt.Sprintf("command refused: matches blocked pattern %q", re.String())
		}
	}
	return ""
}

// PSQuote single-quotes a value for safe interpolation into a PowerShell
// command.
func PSQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// Runner executes PowerShell commands. Implements platform.Shell.
type Runner struct{}

// Execute runs the command under powershell with the given timeout and
// returns combined output plus the exit status.
func (Runner) Execute(command string, timeout time.Duration) (string, int, error) {
	if reason := CheckBlocklist(command); reason != "" {
		return "", 1, fmt.Errorf("%s", reason)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", command)
	out, err := cmd.CombinedOutput()
	status := 0
	if cmd.ProcessState != nil {
		status = cmd.ProcessState.ExitCode()
	}
	if ctx.Err() == context.DeadlineExceeded {
		return string(out), status, fmt.Errorf("command timed out after %s", timeout)
	}
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// Non-zero exit: output and status carry the story.
			return string(out), status, nil
		}
		return string(out), status, fmt.Errorf("run command: %w", err)
	}
	return string(out), status, nil
}
