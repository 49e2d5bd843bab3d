package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/jasonkneen/emdash/internal/core/detect"
	"github.com/jasonkneen/emdash/internal/core/provider"
	"github.com/jasonkneen/emdash/pkg/iojson"
)

type CheckCmd struct {
	flags   *Flags
	app     *App
	timeout time.Duration
	noRetry bool
	format  string
}

func NewCheckCmd(flags *Flags, app *App) *CheckCmd {
	return &CheckCmd{flags: flags, app: app}
}

func (cmd *CheckCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:        "check",
		Usage:       "Probe a single provider",
		UsageText:   "emdash check [options] <provider-id>",
		Description: "Runs the probe cascade for one provider and prints the classified status.\nExits non-zero when the provider is not connected.",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "probe timeout",
				Destination: &cmd.timeout,
			},
			&cli.BoolFlag{
				Name:        "no-retry",
				Usage:       "do not schedule a deferred re-probe after a timeout",
				Destination: &cmd.noRetry,
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

func (cmd *CheckCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: emdash check <provider-id>")
	}
	def, ok := cmd.app.Registry.Get(id)
	if !ok {
		return fmt.Errorf("unknown provider %q (see `emdash ls`)", id)
	}

	timeout := cmd.timeout
	if timeout <= 0 {
		timeout = cmd.app.Config.Detection.Timeout()
	}

	st, err := cmd.app.Detector.Check(ctx, id, detect.ReasonManual, detect.CheckOptions{
		Timeout: timeout,
		NoRetry: cmd.noRetry,
	})
	if err != nil {
		return err
	}

	if cmd.format == "json" {
		if err := iojson.Write(c.Root().Writer, provider.Event{ProviderID: id, Status: st}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(c.Root().Writer, "%s: %s", def.Name, st.Code)
		if st.Version != "" {
			fmt.Fprintf(c.Root().Writer, " (v%s)", st.Version)
		}
		fmt.Fprintln(c.Root().Writer)
		if st.Message != "" {
			fmt.Fprintln(c.Root().Writer, st.Message)
		}
		if st.Code == provider.StatusMissing && def.InstallHint != "" {
			fmt.Fprintf(c.Root().Writer, "install: %s\n", def.InstallHint)
		}
	}

	if st.Code != provider.StatusConnected {
		return cli.Exit("", 1)
	}
	return nil
}
