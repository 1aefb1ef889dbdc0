package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/netlab/netlabctl/internal/api"
)

// withUser opens the environment, makes sure an identity exists and hands the
// current id to fn.
func withUser(ctx context.Context, opts *RootOptions, fn func(e *env, userID string) error) error {
	e, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	e.store.Initialize(ctx)
	id, _ := e.store.CurrentID()
	return fn(e, id)
}

// NodeResult is one container of the user's topology.
type NodeResult struct {
	Name    string `json:"name"`
	Running bool   `json:"running"`
}

// NewTopologiesCommand lists the nodes of the current user's topology.
func NewTopologiesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "topologies",
		Short:         "List the nodes of your running topology",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withUser(ctx, rootOpts, func(e *env, userID string) error {
				topo, err := e.client.UserTopologies(ctx, userID)
				if err != nil {
					return err
				}
				res := []NodeResult{}
				for _, n := range topo.Nodes() {
					res = append(res, NodeResult{Name: n.Name, Running: n.Running})
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Emit(res, func(w io.Writer) error {
					if len(res) == 0 {
						_, err := fmt.Fprintln(w, "no nodes running")
						return err
					}
					rows := make([][]string, 0, len(res))
					for _, n := range res {
						state := "stopped"
						if n.Running {
							state = "running"
						}
						rows = append(rows, []string{n.Name, state})
					}
					return writeTable(w, []string{"NODE", "STATE"}, rows)
				})
			})
		},
	}
}

// NewStartCommand starts one of the known topologies for the current user.
func NewStartCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "start <topology>",
		Short:         "Start a topology (" + strings.Join(api.Topologies, ", ") + ")",
		Args:          cobra.ExactArgs(1),
		ValidArgs:     api.Topologies,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !slices.Contains(api.Topologies, name) {
				return fmt.Errorf("unknown topology %q: want one of %s", name, strings.Join(api.Topologies, ", "))
			}
			ctx := cmd.Context()
			return withUser(ctx, rootOpts, func(e *env, userID string) error {
				res, err := e.client.StartTopology(ctx, userID, name)
				if err != nil {
					return err
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Emit(res, func(w io.Writer) error {
					msg := res.Message
					if msg == "" {
						msg = fmt.Sprintf("topology %s started for %s", name, userID)
					}
					_, err := fmt.Fprintln(w, msg)
					return err
				})
			})
		},
	}
}

// NewClearCommand removes every node of the current user's topology.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Stop and remove your topology",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withUser(ctx, rootOpts, func(e *env, userID string) error {
				msg, err := e.client.ClearTopology(ctx, userID)
				if err != nil {
					return err
				}
				if msg == "" {
					msg = "topology cleared"
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Emit(map[string]string{"message": msg}, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, msg)
					return err
				})
			})
		},
	}
}

// NewPcapsCommand lists saved captures, with save and delete subcommands.
func NewPcapsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pcaps",
		Short:         "List your saved packet captures",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withUser(ctx, rootOpts, func(e *env, userID string) error {
				pcaps, err := e.client.UserPcaps(ctx, userID)
				if err != nil {
					return err
				}
				if pcaps == nil {
					pcaps = []api.Pcap{}
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Emit(pcaps, func(w io.Writer) error {
					if len(pcaps) == 0 {
						_, err := fmt.Fprintln(w, "no saved captures")
						return err
					}
					rows := make([][]string, 0, len(pcaps))
					for _, p := range pcaps {
						rows = append(rows, []string{
							strconv.FormatInt(p.ID, 10),
							p.Filename,
							p.TopologyName,
							humanize.Bytes(uint64(max(p.FileSize, 0))),
						})
					}
					return writeTable(w, []string{"ID", "FILE", "TOPOLOGY", "SIZE"}, rows)
				})
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "save",
		Short:         "Save the current capture of your topology",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withUser(ctx, rootOpts, func(e *env, userID string) error {
				id, err := e.client.SavePcap(ctx, userID)
				if err != nil {
					return err
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Emit(map[string]int64{"pcap_id": id}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "saved capture #%d\n", id)
					return err
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "delete <pcap-id>",
		Short:         "Delete a saved capture",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pcapID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("pcap id %q: %w", args[0], err)
			}
			ctx := cmd.Context()
			return withUser(ctx, rootOpts, func(e *env, userID string) error {
				if err := e.client.DeletePcap(ctx, pcapID, userID); err != nil {
					return err
				}
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Emit(map[string]int64{"deleted": pcapID}, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "deleted capture #%d\n", pcapID)
					return err
				})
			})
		},
	})

	return cmd
}
