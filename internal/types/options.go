package types

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed options.yaml
var optionsYAML []byte

// Option is one selectable value of a configuration field.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// OptionField describes one configuration field offered by the interface.
type OptionField struct {
	Key      string   `yaml:"key" json:"key"`
	Label    string   `yaml:"label" json:"label"`
	FreeText bool     `yaml:"freeText" json:"freeText,omitempty"`
	Options  []Option `yaml:"options" json:"options,omitempty"`
}

// OptionCatalog lists the option sets and the initial configuration.
type OptionCatalog struct {
	Defaults RefactorConfiguration `yaml:"defaults" json:"defaults"`
	Fields   []OptionField         `yaml:"fields" json:"fields"`
}

var (
	catalogOnce sync.Once
	catalog     OptionCatalog
	catalogErr  error
)

// ParseOptionCatalog decodes a catalog document.
func ParseOptionCatalog(raw []byte) (OptionCatalog, error) {
	var c OptionCatalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return OptionCatalog{}, fmt.Errorf("parse option catalog: %w", err)
	}
	return c, nil
}

// Options returns the embedded catalog.
func Options() (OptionCatalog, error) {
	catalogOnce.Do(func() {
		catalog, catalogErr = ParseOptionCatalog(optionsYAML)
	})
	return catalog, catalogErr
}

// DefaultConfiguration is the configuration a new workspace starts with.
func DefaultConfiguration() RefactorConfiguration {
	c, err := Options()
	if err != nil {
		return RefactorConfiguration{TargetGoal: "modernize", TargetLanguage: "keep"}
	}
	return c.Defaults
}

// Field looks up a field by key.
func (c OptionCatalog) Field(key string) (OptionField, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return OptionField{}, false
}

// Set assigns value to the field named by its JSON key.
func (cfg *RefactorConfiguration) Set(key, value string) bool {
	switch key {
	case "targetGoal":
		cfg.TargetGoal = value
	case "targetLanguage":
		cfg.TargetLanguage = value
	case "architectureStyle":
		cfg.ArchitectureStyle = value
	case "namingConvention":
		cfg.NamingConvention = value
	case "documentationLevel":
		cfg.DocumentationLevel = value
	case "additionalPrompt":
		cfg.AdditionalPrompt = value
	default:
		return false
	}
	return true
}
