package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var formatVersionPattern = regexp.MustCompile(`^v?\d+(\.\d+)*$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if err := c.validateProject(); err != nil {
		return err
	}
	return c.validateNaming()
}

func (c *Config) validateProject() error {
	if !formatVersionPattern.MatchString(c.Project.FormatVersion) {
		return fmt.Errorf("project.format_version %q must look like v1.2.1.6", c.Project.FormatVersion)
	}
	if c.Project.UseLocalFiles && strings.TrimSpace(c.Project.LocalPath) == "" {
		return errors.New("project.local_path must be set when project.use_local_files is true")
	}
	if c.Project.UseLocalFiles && c.Project.LocalPath == c.Project.Path {
		return errors.New("project.local_path must differ from project.path")
	}
	return nil
}

func (c *Config) validateNaming() error {
	for key, sep := range map[string]string{
		"naming.filename_separator": c.Naming.FilenameSeparator,
		"naming.sequence_separator": c.Naming.SequenceSeparator,
	} {
		if strings.ContainsAny(sep, `/\`) {
			return fmt.Errorf("%s must not contain path separators", key)
		}
	}
	if c.Naming.FilenameSeparator == c.Naming.SequenceSeparator {
		return errors.New("naming.sequence_separator must differ from naming.filename_separator")
	}
	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)", e.Namespace(), e.Tag(), e.Value())
	}
	return fmt.Errorf("validation failed: %w", err)
}
