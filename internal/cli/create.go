package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/microclaims/internal/claim"
)

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	UUID        string
	Type        string
	Severity    string
	Description string
	Photo       string // path to a local image file
}

// CreateResult reports the claim a create call resolved to.
type CreateResult struct {
	ID        int64  `json:"id"`
	ClaimUUID string `json:"claim_uuid"`
	Duplicate bool   `json:"duplicate"`
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a new claim",
		Long: `Record a new claim in status Open.

--uuid is the idempotency key. Submitting the same uuid again does not create
a second claim; the existing claim's id is reported instead. When omitted, a
new time-ordered UUID is generated.

Examples:
  claims create --type Damage --severity High --description "Crushed pallet"
  claims create --uuid 4f1c... --type "Missing Kit" --severity Med --photo ./kit.jpg`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.UUID, "uuid", "", "idempotency key (default: generated)")
	cmd.Flags().StringVar(&opts.Type, "type", "", "claim type: Damage, Shortage, Missing Kit, Safety, Other (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "severity: Low, Med, High (required)")
	_ = cmd.MarkFlagRequired("severity")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "free-text description")
	cmd.Flags().StringVar(&opts.Photo, "photo", "", "photo file to attach")

	return cmd
}

func runCreate(opts *CreateOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	draft, err := opts.draft()
	if err != nil {
		return formatter.Fail("invalid claim", err)
	}
	if err := draft.Validate(); err != nil {
		return formatter.Fail("invalid claim", err)
	}

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return formatter.Fail("failed to open data directory", err)
	}
	defer sess.Close()

	if opts.Photo != "" {
		name, err := savePhoto(sess, draft.ClaimUUID, opts.Photo)
		if err != nil {
			return formatter.Fail("failed to store photo", err)
		}
		draft.PhotoPath = name
	}

	result := CreateResult{ClaimUUID: draft.ClaimUUID}
	id, err := sess.store.Create(ctx, draft)
	var dup *claim.DuplicateClaimError
	switch {
	case errors.As(err, &dup):
		// Already captured: report the existing claim.
		result.ID = dup.ID
		result.Duplicate = true
	case err != nil:
		return formatter.Fail("failed to create claim", err)
	default:
		result.ID = id
	}

	sess.log.WithFields(logrus.Fields{
		"claim_id":   result.ID,
		"claim_uuid": result.ClaimUUID,
		"duplicate":  result.Duplicate,
	}).Debug("create finished")

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	if result.Duplicate {
		return formatter.Success(fmt.Sprintf("Claim already recorded: #%d (%s)", result.ID, result.ClaimUUID))
	}
	return formatter.Success(fmt.Sprintf("Created claim #%d (%s)", result.ID, result.ClaimUUID))
}

// draft builds the claim draft from flags.
func (o *CreateOptions) draft() (claim.Draft, error) {
	typ, err := claim.ParseType(o.Type)
	if err != nil {
		return claim.Draft{}, err
	}
	sev, err := claim.ParseSeverity(o.Severity)
	if err != nil {
		return claim.Draft{}, err
	}

	id := o.UUID
	if id == "" {
		u, err := uuid.NewV7()
		if err != nil {
			return claim.Draft{}, fmt.Errorf("generate uuid: %w", err)
		}
		id = u.String()
	}

	return claim.Draft{
		ClaimUUID:   id,
		Type:        typ,
		Severity:    sev,
		Description: o.Description,
	}, nil
}

// savePhoto copies a local file into the uploads directory.
func savePhoto(sess *session, claimUUID, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errUsage, err)
	}
	defer f.Close()

	return sess.files.Save(claimUUID, filepath.Base(path), f)
}
