package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/timebox-sh/timebox/internal/core/palette"
	"github.com/timebox-sh/timebox/internal/core/validate"
	"github.com/timebox-sh/timebox/internal/printer"
	"github.com/timebox-sh/timebox/internal/styles"
)

type NewCmd struct {
	flags       *Flags
	description string
	color       string
}

// NewNewCmd creates a new new command
func NewNewCmd(flags *Flags) *NewCmd {
	return &NewCmd{flags: flags}
}

// Register adds the new command to the application
func (cmd *NewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "new",
		Usage:     "Create a new activity",
		UsageText: "timebox new [name...]",
		Description: `Creates a new activity to run against the session budget.

With no arguments an interactive form collects the name, description,
and color. Colors cycle through the palette automatically; pass --color
to pick one by name.

Example:
  timebox new Deep Work
  timebox new emails --color blue`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "description",
				Aliases:     []string{"d"},
				Usage:       "short description shown in listings",
				Destination: &cmd.description,
			},
			&cli.StringFlag{
				Name:        "color",
				Usage:       "palette color name (see 'timebox ls --colors')",
				Destination: &cmd.color,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NewCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	name := strings.Join(c.Args().Slice(), " ")
	colorIndex := -1

	if cmd.color != "" {
		idx, err := colorIndexByName(cmd.color)
		if err != nil {
			return err
		}
		colorIndex = idx
	}

	if name == "" {
		var err error
		name, colorIndex, err = cmd.runForm()
		if err != nil {
			return err
		}
	}

	def, err := cmd.flags.Service.CreateActivity(ctx, name, cmd.description)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}

	if colorIndex >= 0 && colorIndex != def.ColorIndex {
		if err := cmd.flags.Service.SetActivityColor(ctx, def.ID, colorIndex); err != nil {
			return fmt.Errorf("set activity color: %w", err)
		}
		def.ColorIndex = colorIndex
	}

	p.Success("Activity created", fmt.Sprintf("%s (%s)", def.Name, palette.At(def.ColorIndex).Name))
	return nil
}

// runForm collects the activity interactively.
func (cmd *NewCmd) runForm() (string, int, error) {
	var name string
	colorIndex := 0

	options := make([]huh.Option[int], 0, palette.Len())
	for i, set := range palette.Sets() {
		options = append(options, huh.NewOption(set.Name, i))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&name).
				Validate(validate.ActivityName),
			huh.NewText().
				Title("Description").
				Value(&cmd.description).
				Lines(2),
			huh.NewSelect[int]().
				Title("Color").
				Options(options...).
				Value(&colorIndex),
		),
	).WithTheme(styles.FormTheme())

	if err := form.Run(); err != nil {
		return "", -1, err
	}

	return name, colorIndex, nil
}

// colorIndexByName resolves a palette color by its name.
func colorIndexByName(name string) (int, error) {
	for i, set := range palette.Sets() {
		if strings.EqualFold(set.Name, name) {
			return i, nil
		}
	}

	names := make([]string, 0, palette.Len())
	for _, set := range palette.Sets() {
		names = append(names, set.Name)
	}
	return -1, fmt.Errorf("unknown color %q (available: %s)", name, strings.Join(names, ", "))
}
