package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/netlab/netlabctl/internal/session"
)

// IdentityResult is the JSON form of the session identity.
type IdentityResult struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Guest bool   `json:"guest"`
}

func identityResult(s *session.Store) IdentityResult {
	id := s.Identity()
	return IdentityResult{ID: id.ID, Kind: id.Kind.String(), Guest: s.IsGuest()}
}

func writeIdentity(w io.Writer, r IdentityResult) error {
	if r.ID == "" {
		_, err := fmt.Fprintln(w, "no identity")
		return err
	}
	_, err := fmt.Fprintf(w, "%s (%s)\n", r.ID, r.Kind)
	return err
}

// NewWhoamiCommand creates the whoami command. It creates a guest id on first use.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "whoami",
		Short:         "Print the current identity",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()

			e.store.Initialize(cmd.Context())
			res := identityResult(e.store)
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Emit(res, func(w io.Writer) error { return writeIdentity(w, res) })
		},
	}
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <user-id>",
		Short: "Use an assigned user id",
		Long: `Replace the stored identity with the given user id.

Ids starting with guest_ are kept but still count as guests.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return fmt.Errorf("user id must not be empty, use logout to clear it")
			}
			e, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()

			e.store.SetUser(cmd.Context(), args[0])
			res := identityResult(e.store)
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Emit(res, func(w io.Writer) error { return writeIdentity(w, res) })
		},
	}
}

// NewLogoutCommand creates the logout command. The next run starts a new guest.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "Forget the stored identity",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()

			e.store.SetUser(cmd.Context(), "")
			res := identityResult(e.store)
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Emit(res, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "signed out")
				return err
			})
		},
	}
}
