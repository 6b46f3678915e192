package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeDrive(); err != nil {
		return err
	}
	c.normalizeTaxonomy()
	c.normalizeFusion()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Database) == "" {
		c.Paths.Database = defaultDatabasePath
	}
	if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockFile) == "" {
		c.Paths.LockFile = defaultLockFile
	}
	if c.Paths.LockFile, err = expandPath(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeDrive() error {
	var err error
	c.Drive.RootFolderIDs = trimAll(c.Drive.RootFolderIDs)
	c.Drive.SkipFolderIDs = trimAll(c.Drive.SkipFolderIDs)

	// Skip names match against lower-cased trimmed folder names.
	names := make([]string, 0, len(c.Drive.SkipFolderNames))
	for _, name := range c.Drive.SkipFolderNames {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			names = append(names, name)
		}
	}
	c.Drive.SkipFolderNames = names

	exts := make([]string, 0, len(c.Drive.VideoExtensions))
	for _, ext := range c.Drive.VideoExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	c.Drive.VideoExtensions = exts

	if strings.TrimSpace(c.Drive.TokenFile) == "" {
		c.Drive.TokenFile = defaultTokenFile
	}
	if c.Drive.TokenFile, err = expandPath(c.Drive.TokenFile); err != nil {
		return fmt.Errorf("drive.token_file: %w", err)
	}
	if strings.TrimSpace(c.Drive.CredentialsFile) == "" {
		c.Drive.CredentialsFile = defaultCredsFile
	}
	if c.Drive.CredentialsFile, err = expandPath(c.Drive.CredentialsFile); err != nil {
		return fmt.Errorf("drive.credentials_file: %w", err)
	}
	c.Drive.SortLocale = strings.TrimSpace(c.Drive.SortLocale)
	if c.Drive.SortLocale == "" {
		c.Drive.SortLocale = defaultSortLocale
	}
	if c.Drive.PageSize == 0 {
		c.Drive.PageSize = defaultPageSize
	}
	if c.Drive.RequestTimeout == 0 {
		c.Drive.RequestTimeout = defaultRequestTimeout
	}
	return nil
}

func (c *Config) normalizeTaxonomy() {
	if c.Taxonomy.Aliases == nil {
		c.Taxonomy.Aliases = map[string]string{}
	}
	skips := make([]string, 0, len(c.Taxonomy.SkipFolders))
	for _, name := range c.Taxonomy.SkipFolders {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			skips = append(skips, name)
		}
	}
	c.Taxonomy.SkipFolders = skips
}

func (c *Config) normalizeFusion() {
	if c.Fusion.FolderWeight == 0 && c.Fusion.AIWeight == 0 {
		c.Fusion.FolderWeight = defaultFolderWeight
		c.Fusion.AIWeight = defaultAIWeight
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimAll(values []string) []string {
	trimmed := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" {
			trimmed = append(trimmed, value)
		}
	}
	return trimmed
}
