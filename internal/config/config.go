package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory configuration.
type Paths struct {
	Database string `toml:"database"`
	LogDir   string `toml:"log_dir"`
	LockFile string `toml:"lock_file"`
}

// Drive contains configuration for the Google Drive tree walker.
type Drive struct {
	RootFolderIDs   []string `toml:"root_folder_ids"`
	SkipFolderIDs   []string `toml:"skip_folder_ids"`
	SkipFolderNames []string `toml:"skip_folder_names"`
	CopyPrefixes    []string `toml:"copy_prefixes"`
	VideoExtensions []string `toml:"video_extensions"`
	TokenFile       string   `toml:"token_file"`
	CredentialsFile string   `toml:"credentials_file"`
	SortLocale      string   `toml:"sort_locale"`
	PageSize        int      `toml:"page_size"`
	RequestTimeout  int      `toml:"request_timeout"`
	MaxRetries      int      `toml:"max_retries"`
}

// Taxonomy contains configuration for the classification vocabulary.
type Taxonomy struct {
	// IndexPath overrides the embedded technique index when set.
	IndexPath string `toml:"index_path"`
	// Aliases remaps extracted folder numbers to canonical technique ids.
	// An empty string target means the number never matches.
	Aliases map[string]string `toml:"aliases"`
	// SkipFolders lists folder names that never classify by name or tag.
	SkipFolders []string `toml:"skip_folders"`
}

// Fusion contains the weighting applied when combining folder and AI signals.
type Fusion struct {
	FolderWeight float64 `toml:"folder_weight"`
	AIWeight     float64 `toml:"ai_weight"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelsync.
//
// Configuration sections by subsystem:
//   - Paths: catalog database, log directory, run lock
//   - Drive: traversal roots, skip rules, auth, retry budget
//   - Taxonomy: technique index, number aliases, classification denylist
//   - Fusion: folder/AI signal weighting
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Drive    Drive    `toml:"drive"`
	Taxonomy Taxonomy `toml:"taxonomy"`
	Fusion   Fusion   `toml:"fusion"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reelsync/config.toml")
}

// SampleConfig returns the annotated sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the annotated sample configuration to target.
func CreateSample(target string) error {
	if err := os.WriteFile(target, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves ~ and produces an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Paths.Database),
		c.Paths.LogDir,
		filepath.Dir(c.Paths.LockFile),
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
