package commands

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/jasonkneen/emdash/internal/core/provider"
)

// PrintStatuses renders a provider status table, one row per definition in
// id order. Providers that were never checked render a placeholder row.
func PrintStatuses(w io.Writer, defs []provider.Definition, statuses map[string]provider.Status) error {
	sorted := make([]provider.Definition, len(defs))
	copy(sorted, defs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tSTATUS\tVERSION\tDETAIL")
	for _, def := range sorted {
		st, ok := statuses[def.ID]
		if !ok {
			fmt.Fprintf(tw, "%s\tunknown\t\t(never checked)\n", def.ID)
			continue
		}
		detail := st.Path
		if st.Message != "" {
			detail = st.Message
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", def.ID, st.Code, st.Version, detail)
	}
	return tw.Flush()
}
