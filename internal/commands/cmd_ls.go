package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

type LsCmd struct {
	flags *Flags
	app   *App
}

func NewLsCmd(flags *Flags, app *App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

func (cmd *LsCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List known agent providers",
		UsageText: "emdash ls",
		Action:    cmd.run,
	})
	return root
}

func (cmd *LsCmd) run(_ context.Context, c *cli.Command) error {
	w := tabwriter.NewWriter(c.Root().Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOMMANDS\tINSTALL")
	for _, def := range cmd.app.Registry.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			def.ID, def.Name, strings.Join(def.Commands, ", "), def.InstallHint)
	}
	return w.Flush()
}
