// Package cli wires configuration, logging, storage, the session store and the
// backend client into the netlab command tree.
package cli

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/netlab/netlabctl/internal/tui"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Ephemeral  bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the netlab command. Without a subcommand it runs the terminal UI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	var startPath string

	cmd := &cobra.Command{
		Use:   "netlab",
		Short: "NetLab terminal client",
		Long: `Build, run and capture virtual network topologies from the terminal.

Your identity is kept between runs. Without a login you browse as a guest
whose id is generated on first start.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, startPath)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $NETLAB_CONFIG or ~/.config/netlab/config.toml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().BoolVar(&opts.Ephemeral, "ephemeral", false, "keep the identity in memory only")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.Flags().StringVar(&startPath, "path", tui.PathStart, "view to open first")

	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewRoutesCommand(opts))
	cmd.AddCommand(NewTopologiesCommand(opts))
	cmd.AddCommand(NewStartCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewPcapsCommand(opts))

	return cmd
}

func runTUI(cmd *cobra.Command, opts *RootOptions, startPath string) error {
	ctx := cmd.Context()
	e, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.New(ctx, tui.Deps{
		Session:   e.store,
		Backend:   e.client,
		Logger:    e.logger,
		StartPath: startPath,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
