package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/microclaims/internal/claim"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Description string
	Severity    string
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a claim's description or severity",
		Long: `Edit a claim. Only the flags given are changed; with none, the claim is
shown unchanged.

Examples:
  claims update 12 --severity High
  claims update 12 --description "Crushed pallet, two cases lost"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "new severity")

	return cmd
}

func runUpdate(opts *UpdateOptions, arg string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	id, err := parseID(arg)
	if err != nil {
		return formatter.Fail("invalid claim id", err)
	}

	var u claim.FieldUpdate
	if cmd.Flags().Changed("description") {
		u.Description = &opts.Description
	}
	if cmd.Flags().Changed("severity") {
		sev, err := claim.ParseSeverity(opts.Severity)
		if err != nil {
			return formatter.Fail("invalid severity", err)
		}
		u.Severity = &sev
	}

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return formatter.Fail("failed to open data directory", err)
	}
	defer sess.Close()

	c, err := sess.store.UpdateFields(ctx, id, u)
	if err != nil {
		return formatter.Fail("failed to update claim", err)
	}

	if opts.Format == "json" {
		return formatter.Success(c)
	}
	return formatter.Success(describeClaim(c))
}
