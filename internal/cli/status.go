package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/microclaims/internal/claim"
)

// StatusOptions holds flags for the status command.
type StatusOptions struct {
	*RootOptions
	Status  string
	Note    string
	Outcome string
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "status <id>",
		Short: "Move a claim to a new status",
		Long: `Move a claim to Open, In Review or Resolved. Any status may follow any other.

Resolving stamps the resolution time and records --outcome. Moving away from
Resolved clears both. --note is saved whatever the target status and is kept
when a claim is reopened.

Examples:
  claims status 12 --status "In Review"
  claims status 12 --status Resolved --outcome Valid --note "credited"
  claims status 12 --status Open`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "target status (required)")
	_ = cmd.MarkFlagRequired("status")
	cmd.Flags().StringVar(&opts.Note, "note", "", "resolution note")
	cmd.Flags().StringVar(&opts.Outcome, "outcome", "", "resolution outcome: Valid or Invalid")

	return cmd
}

func runStatus(opts *StatusOptions, arg string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	id, err := parseID(arg)
	if err != nil {
		return formatter.Fail("invalid claim id", err)
	}

	change := claim.StatusChange{}
	if change.Status, err = claim.ParseStatus(opts.Status); err != nil {
		return formatter.Fail("invalid status", err)
	}
	if opts.Outcome != "" {
		if change.Outcome, err = claim.ParseOutcome(opts.Outcome); err != nil {
			return formatter.Fail("invalid outcome", err)
		}
	}
	if cmd.Flags().Changed("note") {
		change.ResolvedNote = &opts.Note
	}

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return formatter.Fail("failed to open data directory", err)
	}
	defer sess.Close()

	c, err := sess.store.TransitionStatus(ctx, id, change)
	if err != nil {
		return formatter.Fail("failed to change status", err)
	}

	if opts.Format == "json" {
		return formatter.Success(c)
	}
	return formatter.Success(describeClaim(c))
}
