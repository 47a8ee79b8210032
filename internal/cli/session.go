package cli

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/microclaims/internal/attachment"
	"github.com/roach88/microclaims/internal/datadir"
	"github.com/roach88/microclaims/internal/store"
)

// session is the per-invocation environment shared by commands.
type session struct {
	root  string
	log   *logrus.Logger
	store *store.Store
	files *attachment.Store
	now   func() time.Time
}

// openSession loads configuration, resolves the data directory and opens
// the store. The caller must Close the session.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfg, err := datadir.LoadConfig()
	if err != nil {
		return nil, err
	}

	log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, opts.Verbose)

	override := opts.DataDir
	if override == "" {
		override = cfg.DataDir
	}
	root, err := datadir.Resolve(override)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(datadir.DBPath(root), store.WithLogger(log))
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"data_dir":         root,
		"max_upload_bytes": cfg.MaxUploadBytes,
	}).Debug("store opened")

	return &session{
		root:  root,
		log:   log,
		store: st,
		files: attachment.New(datadir.UploadsDir(root), cfg.MaxUploadBytes),
		now:   time.Now,
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// newLogger builds the stderr logger. Verbose forces debug level; an
// unknown level name falls back to warn.
func newLogger(w io.Writer, level string, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	log.SetLevel(lvl)
	return log
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
