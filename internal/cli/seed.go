package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/microclaims/internal/claim"
)

// SeedFile is the YAML document accepted by the seed command.
//
//	claims:
//	  - claim_uuid: dock-2024-001
//	    type: Damage
//	    severity: High
//	    description: Crushed pallet
type SeedFile struct {
	Claims []claim.Draft `yaml:"claims"`
}

// SeedResult reports what a seed run did.
type SeedResult struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Bulk-load claims from a YAML file",
		Long: `Create every claim listed in a YAML file.

Every entry needs a claim_uuid, so re-running the same file is safe: claims
that already exist are counted as duplicates and left untouched. The whole
file is validated before anything is written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSeed(opts *RootOptions, path string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts, cmd)

	drafts, err := loadSeedFile(path)
	if err != nil {
		return formatter.Fail("invalid seed file", err)
	}

	sess, err := openSession(opts, cmd)
	if err != nil {
		return formatter.Fail("failed to open data directory", err)
	}
	defer sess.Close()

	var result SeedResult
	for _, d := range drafts {
		_, err := sess.store.Create(ctx, d)
		switch {
		case errors.Is(err, claim.ErrDuplicateClaim):
			result.Duplicates++
		case err != nil:
			return formatter.Fail(fmt.Sprintf("failed to create claim %q", d.ClaimUUID), err)
		default:
			result.Created++
		}
	}

	sess.log.WithFields(logrus.Fields{
		"file":       path,
		"created":    result.Created,
		"duplicates": result.Duplicates,
	}).Info("seed finished")

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("Seeded %d claim(s), %d already present", result.Created, result.Duplicates))
}

// loadSeedFile decodes and validates every draft in path.
func loadSeedFile(path string) ([]claim.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	defer f.Close()

	var doc SeedFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %w", errUsage, path, err)
	}

	for i, d := range doc.Claims {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	return doc.Claims, nil
}
