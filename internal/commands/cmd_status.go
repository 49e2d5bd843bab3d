package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/jasonkneen/emdash/internal/core/detect"
	"github.com/jasonkneen/emdash/internal/core/provider"
	"github.com/jasonkneen/emdash/pkg/iojson"
)

type StatusCmd struct {
	flags  *Flags
	app    *App
	cached bool
	format string
}

func NewStatusCmd(flags *Flags, app *App) *StatusCmd {
	return &StatusCmd{flags: flags, app: app}
}

func (cmd *StatusCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:        "status",
		Usage:       "Show connectivity status for agent providers",
		UsageText:   "emdash status [options] [pattern]",
		Description: "Probes every provider matching the glob pattern (default: all) and prints the result.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "cached",
				Usage:       "print the persisted statuses without probing",
				Destination: &cmd.cached,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return root
}

func (cmd *StatusCmd) run(ctx context.Context, c *cli.Command) error {
	pattern := c.Args().First()
	if pattern == "" {
		pattern = "*"
	}

	defs := cmd.app.Registry.Match(pattern)
	if len(defs) == 0 {
		return fmt.Errorf("no providers match %q", pattern)
	}

	var statuses map[string]provider.Status
	if cmd.cached {
		var err error
		statuses, err = cmd.app.Store.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("load persisted statuses: %w", err)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for _, def := range defs {
			g.Go(func() error {
				_, err := cmd.app.Detector.Check(gctx, def.ID, detect.ReasonManual, detect.CheckOptions{
					Timeout: cmd.app.Config.Detection.Timeout(),
				})
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		statuses = cmd.app.Detector.Cached()
	}

	if cmd.format == "json" {
		out := make(map[string]provider.Status, len(defs))
		for _, def := range defs {
			if st, ok := statuses[def.ID]; ok {
				out[def.ID] = st
			}
		}
		return iojson.Write(c.Root().Writer, out)
	}

	return PrintStatuses(c.Root().Writer, defs, statuses)
}
