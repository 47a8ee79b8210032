package cli

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewPhotoCommand creates the photo command.
func NewPhotoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photo <id> <file>",
		Short: "Attach or replace a claim's photo",
		Long: `Copy an image into the uploads directory and attach it to a claim.

The stored file is named after the claim's uuid. A previous attachment with a
different name is removed.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPhoto(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runPhoto(opts *RootOptions, arg, path string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts, cmd)

	id, err := parseID(arg)
	if err != nil {
		return formatter.Fail("invalid claim id", err)
	}

	sess, err := openSession(opts, cmd)
	if err != nil {
		return formatter.Fail("failed to open data directory", err)
	}
	defer sess.Close()

	current, err := sess.store.Get(ctx, id)
	if err != nil {
		return formatter.Fail("failed to load claim", err)
	}

	name, err := savePhoto(sess, current.ClaimUUID, path)
	if err != nil {
		return formatter.Fail("failed to store photo", err)
	}

	c, err := sess.store.UpdatePhotoReference(ctx, id, name)
	if err != nil {
		return formatter.Fail("failed to attach photo", err)
	}

	if current.PhotoPath != nil && *current.PhotoPath != name {
		if err := sess.files.Delete(*current.PhotoPath); err != nil {
			// The new photo is attached; a stale file is only logged.
			sess.log.WithError(err).WithField("photo_path", *current.PhotoPath).Warn("failed to remove previous photo")
		}
	}

	sess.log.WithFields(logrus.Fields{
		"claim_id":   id,
		"photo_path": name,
	}).Info("claim photo updated")

	if opts.Format == "json" {
		return formatter.Success(c)
	}
	return formatter.Success(describeClaim(c))
}
