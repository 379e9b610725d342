package session

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/timebox-sh/timebox/internal/core/config"
	"github.com/timebox-sh/timebox/internal/styles"
	"github.com/timebox-sh/timebox/pkg/executil"
	"github.com/timebox-sh/timebox/pkg/tmpl"
)

// HookRunner executes the shell commands configured for session events.
type HookRunner struct {
	log      zerolog.Logger
	executor executil.Executor
	stdout   io.Writer
	stderr   io.Writer
}

// NewHookRunner creates a new HookRunner.
func NewHookRunner(log zerolog.Logger, executor executil.Executor, stdout, stderr io.Writer) *HookRunner {
	return &HookRunner{
		log:      log,
		executor: executor,
		stdout:   stdout,
		stderr:   stderr,
	}
}

// RunEvent executes every hook registered for the event. Commands are
// rendered as templates with the session data before running.
func (h *HookRunner) RunEvent(ctx context.Context, hooks []config.Hook, event string, data config.HookTemplateData) error {
	h.log.Debug().
		Str("event", event).
		Int("hook_count", len(hooks)).
		Msg("evaluating hooks")

	hookNum := 0
	for _, hook := range hooks {
		if hook.Event != event {
			continue
		}

		hookNum++

		h.log.Debug().
			Str("event", hook.Event).
			Strs("commands", hook.Commands).
			Msg("running hook")

		for i, cmd := range hook.Commands {
			rendered, err := tmpl.Render(cmd, data)
			if err != nil {
				return fmt.Errorf("render hook %q command %q: %w", event, cmd, err)
			}

			h.printCommandHeader(hookNum, i+1, len(hook.Commands), rendered)

			if err := h.executor.RunStream(ctx, h.stdout, h.stderr, "sh", "-c", rendered); err != nil {
				return fmt.Errorf("run hook %q command %q: %w", event, cmd, err)
			}

			_, _ = fmt.Fprintln(h.stdout)
		}
	}

	return nil
}

// printCommandHeader prints a styled header for a hook command.
func (h *HookRunner) printCommandHeader(hookNum, cmdNum, totalCmds int, cmd string) {
	divider := styles.DividerStyle.Render(strings.Repeat("─", 50))
	header := styles.CommandHeaderStyle.Render(fmt.Sprintf("hook %d", hookNum))
	cmdLabel := styles.DividerStyle.Render(fmt.Sprintf("[%d/%d]", cmdNum, totalCmds))
	command := styles.CommandStyle.Render(cmd)

	_, _ = fmt.Fprintln(h.stdout)
	_, _ = fmt.Fprintln(h.stdout, divider)
	_, _ = fmt.Fprintf(h.stdout, "%s %s %s\n", header, cmdLabel, command)
	_, _ = fmt.Fprintln(h.stdout, divider)
}
