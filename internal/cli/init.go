package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/microclaims/internal/datadir"
)

// InitResult reports the initialized data directory.
type InitResult struct {
	DataDir       string `json:"data_dir"`
	Database      string `json:"database"`
	SchemaVersion int    `json:"schema_version"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and database",
		Long: `Create the data directory, its uploads folder and the claims database.

Safe to run repeatedly; an existing database is left as it is.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}
	return cmd
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	sess, err := openSession(opts, cmd)
	if err != nil {
		return formatter.Fail("failed to open data directory", err)
	}
	defer sess.Close()

	version, err := sess.store.SchemaVersion(context.Background())
	if err != nil {
		return formatter.Fail("failed to read schema version", err)
	}

	result := InitResult{
		DataDir:       sess.root,
		Database:      datadir.DBPath(sess.root),
		SchemaVersion: version,
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("Initialized claims database at %s (schema v%d)", result.Database, result.SchemaVersion))
}
