package main

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"prism/internal/config"
	"prism/internal/logging"
	"prism/internal/pipeline"
	"prism/internal/prompt"
)

const currentFileEnv = "PRISM_CURRENT_FILE"

var errNoProject = errors.New("no project configured: set [project] path in the config file")

type commandContext struct {
	configFlag      *string
	currentFileFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	coreOnce sync.Once
	core     *pipeline.Core
	coreErr  error
}

func newCommandContext(configFlag, currentFileFlag *string) *commandContext {
	return &commandContext{
		configFlag:      configFlag,
		currentFileFlag: currentFileFlag,
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
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) currentFile() string {
	if c.currentFileFlag != nil {
		if value := strings.TrimSpace(*c.currentFileFlag); value != "" {
			return value
		}
	}
	return os.Getenv(currentFileEnv)
}

// ensureCore opens the configured project. Prompts go to the command's
// streams so tests can capture them.
func (c *commandContext) ensureCore(cmd *cobra.Command) (*pipeline.Core, error) {
	c.coreOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.coreErr = err
			return
		}
		if !cfg.HasProject() {
			c.coreErr = errNoProject
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.coreErr = err
			return
		}
		c.core, c.coreErr = pipeline.New(cfg, pipeline.Options{
			Logger:      logger,
			Notifier:    prompt.NewTerminal(cmd.InOrStdin(), cmd.ErrOrStderr()),
			CurrentFile: c.currentFile,
		})
	})
	return c.core, c.coreErr
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
