package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/netlab/netlabctl/internal/tui"
)

// RouteResult is one entry of the view table.
type RouteResult struct {
	Key  int    `json:"key"`
	Path string `json:"path"`
	Name string `json:"name"`
}

// NewRoutesCommand lists the views of the terminal UI in key order.
func NewRoutesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "routes",
		Short:         "List the views and their paths",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var res []RouteResult
			for i, r := range tui.NewRouteTable().Routes() {
				res = append(res, RouteResult{Key: i + 1, Path: r.Path, Name: r.Name})
			}
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Emit(res, func(w io.Writer) error {
				rows := make([][]string, 0, len(res))
				for _, r := range res {
					rows = append(rows, []string{strconv.Itoa(r.Key), r.Path, r.Name})
				}
				return writeTable(w, []string{"KEY", "PATH", "NAME"}, rows)
			})
		},
	}
}
