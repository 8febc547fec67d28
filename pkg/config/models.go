package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alantheprice/vibecode/pkg/llm"
	"github.com/alantheprice/vibecode/pkg/utils"
)

//go:embed models.yaml
var defaultModels []byte

type modelsFile struct {
	Models map[string]llm.Limits `yaml:"models"`
}

// ParseModelLimits decodes a models table.
func ParseModelLimits(data []byte) (map[string]llm.Limits, error) {
	var f modelsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Models == nil {
		f.Models = map[string]llm.Limits{}
	}
	return f.Models, nil
}

// LoadModelLimits returns the built-in table merged with models.yaml from
// configDir when present.
func LoadModelLimits(configDir string) (map[string]llm.Limits, error) {
	limits, err := ParseModelLimits(defaultModels)
	if err != nil {
		return nil, utils.NewConfigurationError("models.yaml (built-in)", err)
	}
	if configDir == "" {
		return limits, nil
	}

	path := filepath.Join(configDir, "models.yaml")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return limits, nil
	}
	if err != nil {
		return nil, utils.NewFileSystemError("read models table", path, err)
	}
	user, err := ParseModelLimits(data)
	if err != nil {
		return nil, utils.NewConfigurationError(path, err)
	}
	for model, l := range user {
		limits[model] = l
	}
	return limits, nil
}
