package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"vidconv/internal/config"
	"vidconv/internal/language"
	"vidconv/internal/logging"
	"vidconv/internal/settings"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool
	langFlag    *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	storeOnce sync.Once
	store     *settings.Store
	storeErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool, langFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
		langFlag:    langFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

// loggerValue returns the file logger, mirrored to stderr with --verbose. Log
// setup failures degrade to a no-op logger so they never block a conversion.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg := c.configValue()
		if cfg == nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg, c.verbose())
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) settingsStore() (*settings.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}
		c.store, c.storeErr = settings.Open(cfg.Paths.SettingsFile, settings.WithLogger(c.loggerValue()))
	})
	return c.store, c.storeErr
}

// validateLanguageFlag rejects a --lang value that names no supported language.
func (c *commandContext) validateLanguageFlag() error {
	if c.langFlag == nil || strings.TrimSpace(*c.langFlag) == "" {
		return nil
	}
	if _, ok := language.Normalize(*c.langFlag); !ok {
		return fmt.Errorf("language %q not supported (want one of %v)", *c.langFlag, language.Supported())
	}
	return nil
}

// languageCode resolves the UI language: --lang, then the stored preference,
// then the locale.
func (c *commandContext) languageCode() string {
	if c.langFlag != nil {
		if code, ok := language.Normalize(*c.langFlag); ok {
			return code
		}
	}
	preferred := ""
	if store, err := c.settingsStore(); err == nil {
		preferred = store.Language()
	}
	return language.Resolve(preferred)
}

func (c *commandContext) printer() *message.Printer {
	return language.Printer(c.languageCode())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
