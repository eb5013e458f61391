// Package config loads view-engine settings from YAML documents.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures the engine settings an application usually keeps in a
// deployment file rather than code.
type Config struct {
	// Dir is the template directory prepended to template names.
	Dir string `yaml:"dir"`

	// Extension overrides the HTML renderer's template extension.
	Extension string `yaml:"extension"`

	// ContentType selects the default renderer for new trees.
	ContentType string `yaml:"content_type"`

	// Watch recompiles templates when files under Dir change.
	Watch bool `yaml:"watch"`

	// Globals are context values available to every template.
	Globals map[string]any `yaml:"globals"`

	// StatusTemplates maps status codes to override templates used by the
	// status helpers when no explicit template is passed.
	StatusTemplates map[int]string `yaml:"status_templates"`
}

// Load reads and parses a YAML config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document into a normalised Config.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode yaml: %w", err)
	}

	cfg.Dir = strings.TrimSpace(cfg.Dir)
	cfg.ContentType = strings.TrimSpace(cfg.ContentType)

	if ext := strings.TrimSpace(cfg.Extension); ext != "" && !strings.HasPrefix(ext, ".") {
		cfg.Extension = "." + ext
	} else {
		cfg.Extension = ext
	}

	for code, template := range cfg.StatusTemplates {
		trimmed := strings.TrimSpace(template)
		if trimmed == "" {
			return Config{}, fmt.Errorf("config: status template for %d is empty", code)
		}
		cfg.StatusTemplates[code] = trimmed
	}

	return cfg, nil
}
