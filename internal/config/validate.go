package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateConversion() error {
	switch c.Conversion.OnExists {
	case OnExistsFail, OnExistsOverwrite, OnExistsSuffix:
	default:
		return fmt.Errorf("conversion.on_exists must be one of fail, overwrite, suffix (got %q)", c.Conversion.OnExists)
	}
	if c.Conversion.ProgressLogStep < 0 || c.Conversion.ProgressLogStep > 100 {
		return errors.New("conversion.progress_log_step must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}
