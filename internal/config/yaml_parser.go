package config

import (
	"gopkg.in/yaml.v3"
)

// YAMLParser implements koanf.Parser on top of gopkg.in/yaml.v3
type YAMLParser struct{}

// NewYAMLParser returns a YAML parser for koanf
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Unmarshal parses YAML bytes into a flat-or-nested map
func (p *YAMLParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]interface{}{}
	}
	return out, nil
}

// Marshal renders a map as YAML
func (p *YAMLParser) Marshal(o map[string]interface{}) ([]byte, error) {
	return yaml.Marshal(o)
}
