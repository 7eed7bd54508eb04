package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-sitegen/pkg/model"
)

func readConfigFile(path string) (model.TemplateConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.TemplateConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := model.Decode(data)
	if err != nil {
		return model.TemplateConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// writeConfigFile writes YAML for .yaml/.yml paths and indented JSON
// otherwise.
func writeConfigFile(path string, cfg model.TemplateConfig) error {
	data, err := encodeConfig(cfg, formatFor(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func encodeConfig(cfg model.TemplateConfig, format string) ([]byte, error) {
	data, err := model.Encode(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if format != "yaml" {
		return append(data, '\n'), nil
	}

	// Round-trip through a generic value so YAML keys follow the JSON names.
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode config as yaml: %w", err)
	}
	return out, nil
}

func writeOutput(a *app, path string, data []byte) error {
	if path == "" {
		_, err := a.out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.printf("wrote %s\n", path)
	return nil
}
