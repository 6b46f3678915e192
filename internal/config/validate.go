package config

import (
	"errors"
	"fmt"
	"regexp"
)

var aliasKeyPattern = regexp.MustCompile(`^\d+(\.\d+)*$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDrive(); err != nil {
		return err
	}
	if err := c.validateTaxonomy(); err != nil {
		return err
	}
	if err := c.validateFusion(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDrive() error {
	if c.Drive.PageSize < 1 || c.Drive.PageSize > 1000 {
		return errors.New("drive.page_size must be between 1 and 1000")
	}
	if c.Drive.RequestTimeout <= 0 {
		return errors.New("drive.request_timeout must be positive (seconds)")
	}
	if c.Drive.MaxRetries < 0 {
		return errors.New("drive.max_retries must be >= 0")
	}
	return nil
}

func (c *Config) validateTaxonomy() error {
	for key, target := range c.Taxonomy.Aliases {
		if !aliasKeyPattern.MatchString(key) {
			return fmt.Errorf("taxonomy.aliases: key %q is not a dotted number", key)
		}
		if target != "" && !aliasKeyPattern.MatchString(target) {
			return fmt.Errorf("taxonomy.aliases: target %q for key %q is not a dotted number", target, key)
		}
	}
	return nil
}

func (c *Config) validateFusion() error {
	if c.Fusion.FolderWeight < 0 || c.Fusion.FolderWeight > 1 {
		return errors.New("fusion.folder_weight must be between 0 and 1")
	}
	if c.Fusion.AIWeight < 0 || c.Fusion.AIWeight > 1 {
		return errors.New("fusion.ai_weight must be between 0 and 1")
	}
	if c.Fusion.FolderWeight == 0 && c.Fusion.AIWeight == 0 {
		return errors.New("fusion weights must not both be zero")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}
