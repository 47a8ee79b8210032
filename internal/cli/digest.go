package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/microclaims/internal/claim"
	"github.com/roach88/microclaims/internal/digest"
)

// DigestOptions holds flags for the digest command.
type DigestOptions struct {
	*RootOptions
	From   string
	To     string
	OutDir string // "-" writes to stdout
}

// DigestResult reports a written digest.
type DigestResult struct {
	Path   string `json:"path"`
	From   string `json:"from"`
	To     string `json:"to"`
	Claims int    `json:"claims"`
}

// NewDigestCommand creates the digest command.
func NewDigestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DigestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Write the weekly digest for a date range",
		Long: `Write a Markdown digest of the claims created in an inclusive date range:
summary counts by status, severity and type, then one table row per claim.

The file is named claims_digest_<from>_to_<to>.md. Use --out - to print it.

Examples:
  claims digest --from 2024-01-01 --to 2024-01-07
  claims digest --from 2024-01-01 --to 2024-01-07 --out ./reports
  claims digest --from 2024-01-01 --to 2024-01-07 --out -`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "first day (required)")
	_ = cmd.MarkFlagRequired("from")
	cmd.Flags().StringVar(&opts.To, "to", "", "last day (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", ".", "output directory, or - for stdout")

	return cmd
}

func runDigest(opts *DigestOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	from, to, err := claim.ParseRange(opts.From, opts.To)
	if err != nil {
		return formatter.Fail("invalid date range", err)
	}

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return formatter.Fail("failed to open data directory", err)
	}
	defer sess.Close()

	claims, err := sess.store.List(ctx, claim.Filter{From: &from, To: &to})
	if err != nil {
		return formatter.Fail("failed to list claims", err)
	}
	generatedAt := sess.now().UTC()

	if opts.OutDir == "-" {
		if err := digest.Write(cmd.OutOrStdout(), claims, from, to, generatedAt); err != nil {
			return formatter.Fail("failed to write digest", err)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	}

	path := filepath.Join(opts.OutDir, digest.Filename(from, to))
	if err := writeDigestFile(path, claims, from, to, generatedAt); err != nil {
		return formatter.Fail("failed to write digest", err)
	}

	sess.log.WithFields(logrus.Fields{
		"from":   formatDate(from),
		"to":     formatDate(to),
		"claims": len(claims),
	}).Info("digest generated")

	result := DigestResult{
		Path:   path,
		From:   formatDate(from),
		To:     formatDate(to),
		Claims: len(claims),
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("Wrote %s (%d claims)", result.Path, result.Claims))
}

func writeDigestFile(path string, claims []claim.Claim, from, to, generatedAt time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := digest.Write(f, claims, from, to, generatedAt); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
