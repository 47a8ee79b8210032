package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/microclaims/internal/claim"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Status   string
	Severity string
	Type     string
	Search   string
	From     string
	To       string
	Week     bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List claims, newest first",
		Long: `List claims matching every given filter, newest first.

--from and --to are inclusive and accept YYYY-MM-DD or an ISO date-time;
a date-only --to covers the whole day. --week starts the range at Monday
00:00 of the current week.

Examples:
  claims list --status Open --severity High
  claims list --search pallet --week
  claims list --from 2024-01-01 --to 2024-01-07 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "filter by status")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "filter by severity")
	cmd.Flags().StringVar(&opts.Type, "type", "", "filter by type")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "case-insensitive text in description or note")
	cmd.Flags().StringVar(&opts.From, "from", "", "created on or after")
	cmd.Flags().StringVar(&opts.To, "to", "", "created on or before")
	cmd.Flags().BoolVar(&opts.Week, "week", false, "only claims created this week")
	cmd.MarkFlagsMutuallyExclusive("week", "from")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return formatter.Fail("failed to open data directory", err)
	}
	defer sess.Close()

	filter, err := opts.filter(sess)
	if err != nil {
		return formatter.Fail("invalid filter", err)
	}

	claims, err := sess.store.List(ctx, filter)
	if err != nil {
		return formatter.Fail("failed to list claims", err)
	}

	if opts.Format == "json" {
		return formatter.Success(claims)
	}
	var b strings.Builder
	if err := writeClaimTable(&b, claims); err != nil {
		return formatter.Fail("failed to render claims", err)
	}
	return formatter.Success(strings.TrimSuffix(b.String(), "\n"))
}

// filter builds the list filter from flags.
func (o *ListOptions) filter(sess *session) (claim.Filter, error) {
	var f claim.Filter
	var err error

	if o.Status != "" {
		if f.Status, err = claim.ParseStatus(o.Status); err != nil {
			return f, err
		}
	}
	if o.Severity != "" {
		if f.Severity, err = claim.ParseSeverity(o.Severity); err != nil {
			return f, err
		}
	}
	if o.Type != "" {
		if f.Type, err = claim.ParseType(o.Type); err != nil {
			return f, err
		}
	}
	f.Search = strings.TrimSpace(o.Search)

	switch {
	case o.Week:
		start := claim.WeekStart(sess.now().UTC())
		f.From = &start
	case o.From != "":
		from, err := claim.ParseBound(o.From, false)
		if err != nil {
			return f, fmt.Errorf("--from: %w", err)
		}
		f.From = &from
	}
	if o.To != "" {
		to, err := claim.ParseBound(o.To, true)
		if err != nil {
			return f, fmt.Errorf("--to: %w", err)
		}
		f.To = &to
	}

	return f, f.Validate()
}
