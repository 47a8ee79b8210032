package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/microclaims/internal/claim"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	UUID string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one claim",
		Long: `Show a claim by numeric id, or by idempotency key with --uuid.

Examples:
  claims show 12
  claims show --uuid 4f1c0a2e-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.UUID, "uuid", "", "look up by claim uuid")

	return cmd
}

func runShow(opts *ShowOptions, args []string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	if (len(args) == 1) == (opts.UUID != "") {
		return formatter.Fail("invalid arguments", fmt.Errorf("%w: give either an id or --uuid", errUsage))
	}

	var id int64
	if len(args) == 1 {
		var err error
		if id, err = parseID(args[0]); err != nil {
			return formatter.Fail("invalid claim id", err)
		}
	}

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return formatter.Fail("failed to open data directory", err)
	}
	defer sess.Close()

	var c claim.Claim
	if opts.UUID != "" {
		c, err = sess.store.GetByUUID(ctx, opts.UUID)
	} else {
		c, err = sess.store.Get(ctx, id)
	}
	if err != nil {
		return formatter.Fail("failed to load claim", err)
	}

	if opts.Format == "json" {
		return formatter.Success(c)
	}
	return formatter.Success(describeClaim(c))
}

// parseID parses a positive claim id.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a claim id", errUsage, s)
	}
	return id, nil
}
