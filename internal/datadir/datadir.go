// Package datadir locates the directory that holds the claims database and
// uploaded attachments, and loads process configuration from the environment.
package datadir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kelseyhightower/envconfig"

	"github.com/roach88/microclaims/internal/claim"
)

const (
	// DirName is the per-user directory created under the home or APPDATA dir.
	DirName = ".claims_tracker"

	// DBFile is the database file name inside the data directory.
	DBFile = "claims.db"

	// UploadsDirName holds attachment files inside the data directory.
	UploadsDirName = "uploads"

	// DefaultMaxUploadBytes is the attachment size limit (5 MiB).
	DefaultMaxUploadBytes = 5 << 20
)

// Config is read from the environment. Command-line flags override it.
type Config struct {
	DataDir        string `envconfig:"CLAIMS_DATA_DIR"`
	LogLevel       string `envconfig:"CLAIMS_LOG_LEVEL" default:"warn"`
	MaxUploadBytes int64  `envconfig:"CLAIMS_MAX_UPLOAD_BYTES" default:"5242880"`
}

// LoadConfig processes the CLAIMS_* environment variables.
func LoadConfig() (*Config, error) {
	c := new(Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}

	return c, nil
}

// Resolve returns the data directory, creating it and its uploads
// subdirectory if needed.
//
// A non-empty override wins. Otherwise the directory is
// %APPDATA%\.claims_tracker on Windows and ~/.claims_tracker elsewhere.
// Failure to create either directory is reported as
// claim.ErrStorageUnavailable.
func Resolve(override string) (string, error) {
	root := override
	if root == "" {
		var err error
		root, err = defaultRoot(runtime.GOOS, os.Getenv, os.UserHomeDir)
		if err != nil {
			return "", fmt.Errorf("resolve data dir: %w: %w", claim.ErrStorageUnavailable, err)
		}
	}

	if err := os.MkdirAll(UploadsDir(root), 0o755); err != nil {
		return "", fmt.Errorf("create data dir %s: %w: %w", root, claim.ErrStorageUnavailable, err)
	}

	return root, nil
}

// DBPath returns the database file inside root.
func DBPath(root string) string {
	return filepath.Join(root, DBFile)
}

// UploadsDir returns the attachment directory inside root.
func UploadsDir(root string) string {
	return filepath.Join(root, UploadsDirName)
}

func defaultRoot(goos string, getenv func(string) string, home func() (string, error)) (string, error) {
	if goos == "windows" {
		appData := getenv("APPDATA")
		if appData == "" {
			return "", errors.New("APPDATA is not set")
		}
		return filepath.Join(appData, DirName), nil
	}

	h, err := home()
	if err != nil {
		return "", err
	}
	return filepath.Join(h, DirName), nil
}
