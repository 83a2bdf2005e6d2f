package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cratesup/cratesup/internal/app/plan"
	"github.com/cratesup/cratesup/internal/app/update"
	"github.com/cratesup/cratesup/internal/domain"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiDim    = "\x1b[2m"
	ansiRed    = "\x1b[38;5;196m"
	ansiGreen  = "\x1b[38;5;82m"
	ansiYellow = "\x1b[38;5;214m"
	ansiCyan   = "\x1b[38;5;51m"
)

type renderer struct {
	color bool
}

func newRenderer(out io.Writer, asJSON bool) renderer {
	return renderer{color: colorEnabled(out, asJSON)}
}

func colorEnabled(out io.Writer, asJSON bool) bool {
	if asJSON {
		return false
	}
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return false
	}
	return isTerminal(out)
}

func spinnerEnabled(out io.Writer, asJSON bool) bool {
	if asJSON {
		return false
	}
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return false
	}
	return isTerminal(out)
}

func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeCharDevice == 0 {
		return false
	}
	term := strings.TrimSpace(os.Getenv("TERM"))
	return term != "" && term != "dumb"
}

func (r renderer) wrap(code, value string) string {
	if !r.color || value == "" {
		return value
	}
	return code + value + ansiReset
}

func (r renderer) key(value string) string {
	return r.wrap(ansiBold+ansiCyan, value)
}

func (r renderer) ok(value string) string {
	return r.wrap(ansiBold+ansiGreen, value)
}

func (r renderer) warn(value string) string {
	return r.wrap(ansiBold+ansiYellow, value)
}

func (r renderer) err(value string) string {
	return r.wrap(ansiBold+ansiRed, value)
}

func (r renderer) dim(value string) string {
	return r.wrap(ansiDim, value)
}

const minNameWidth = 7

// renderDecisions prints the per-package status table. Widths are padded
// before coloring so the escape codes don't skew the columns.
func (r renderer) renderDecisions(w io.Writer, decisions []plan.Decision) {
	nameWidth := minNameWidth
	for _, decision := range decisions {
		if len(decision.Name) > nameWidth {
			nameWidth = len(decision.Name)
		}
	}

	for _, decision := range decisions {
		label := sourceLabel(decision.Source)
		name := fmt.Sprintf("%-*s", nameWidth, decision.Name)
		installed := displayValue(decision, decision.Installed)
		available := displayValue(decision, decision.Available)

		switch decision.Class {
		case plan.ClassUpdatable:
			fmt.Fprintf(w, "%12s %s %9s -> %s\n",
				r.key(label), name, installed, r.warn(fmt.Sprintf("%9s", available)))
		case plan.ClassUpToDate:
			fmt.Fprintf(w, "%12s %s %s\n",
				r.key(label), name, r.ok(fmt.Sprintf("%9s", installed)))
		default:
			reason := decision.Reason
			if reason == "" {
				reason = "status unknown"
			}
			fmt.Fprintf(w, "%12s %s %9s %s\n",
				r.key(label), name, installed, r.dim(reason))
		}
	}
}

func (r renderer) renderResults(w io.Writer, results []update.Result) {
	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", r.err("failed"), result.Name, result.Err)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", r.ok("updated"), result.Name)
	}
}

func sourceLabel(kind domain.SourceKind) string {
	switch kind {
	case domain.SourceRegistry:
		return "Registry"
	case domain.SourceGit:
		return "Git"
	default:
		return "Unknown"
	}
}

// displayValue truncates git revisions to the short form; registry
// versions pass through untouched.
func displayValue(decision plan.Decision, value string) string {
	if decision.Source == domain.SourceGit && len(value) > 9 {
		return value[:9]
	}
	return value
}

func withSpinner(ctx context.Context, out io.Writer, enabled bool, label string, fn func() error) error {
	if !enabled {
		return fn()
	}
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	frames := []string{"|", "/", "-", "\\"}
	ticker := time.NewTicker(120 * time.Millisecond)
	defer ticker.Stop()

	frame := 0
	ctxDone := ctx.Done()
	for {
		select {
		case err := <-done:
			clearLine(out)
			return err
		case <-ticker.C:
			fmt.Fprintf(out, "\r%s %s", frames[frame%len(frames)], label)
			frame++
		case <-ctxDone:
			// Keep spinning until fn returns so output isn't cut mid-flight,
			// but stop selecting on the closed channel.
			ctxDone = nil
		}
	}
}

func clearLine(out io.Writer) {
	fmt.Fprint(out, "\r\x1b[2K")
}

// stdinConfirmer answers the update service's confirmation prompt from an
// interactive reader. Anything but y/yes declines.
type stdinConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (c stdinConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	reader := bufio.NewReader(c.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
