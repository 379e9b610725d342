package commands

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

//go:embed docs/getting-started.md
var docGettingStarted string

//go:embed docs/hooks.md
var docHooks string

type DocCmd struct {
	flags *Flags
	plain bool
}

func NewDocCmd(flags *Flags) *DocCmd {
	return &DocCmd{flags: flags}
}

func (cmd *DocCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doc",
		Usage: "Documentation and guides",
		Description: `Access documentation for timebox.

Use 'timebox doc getting-started' for a tour of budgets, activities, and sessions.
Use 'timebox doc hooks' for the hook events and template variables.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "print raw markdown without terminal rendering",
				Destination: &cmd.plain,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "getting-started",
				Usage:  "Show the getting started guide",
				Action: cmd.guide(docGettingStarted),
			},
			{
				Name:   "hooks",
				Usage:  "Show the hook configuration guide",
				Action: cmd.guide(docHooks),
			},
		},
	})
	return app
}

// guide returns an action that renders the given markdown guide.
func (cmd *DocCmd) guide(markdown string) cli.ActionFunc {
	return func(_ context.Context, c *cli.Command) error {
		w := c.Root().Writer

		if cmd.plain {
			_, err := fmt.Fprint(w, markdown)
			return err
		}

		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || width <= 0 || width > 100 {
			width = 100
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return fmt.Errorf("create renderer: %w", err)
		}

		out, err := r.Render(markdown)
		if err != nil {
			return fmt.Errorf("render guide: %w", err)
		}

		_, err = fmt.Fprint(w, out)
		return err
	}
}
