package testsupport

import (
	"path/filepath"
	"testing"

	"reelsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Database = filepath.Join(base, "catalog.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LockFile = filepath.Join(base, "sync.lock")
	cfgVal.Drive.TokenFile = filepath.Join(base, "token.json")
	cfgVal.Drive.CredentialsFile = filepath.Join(base, "credentials.json")
	cfgVal.Drive.RootFolderIDs = []string{"root"}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRootFolders overrides the Drive root folder ids on the test config.
func WithRootFolders(ids ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Drive.RootFolderIDs = ids
	}
}

// WithCopyPrefixes overrides the duplicate-marker prefixes on the test config.
func WithCopyPrefixes(prefixes ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Drive.CopyPrefixes = prefixes
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.Database)
}
