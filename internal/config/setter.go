package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteTemplate when the file already exists
var ErrConfigExists = errors.New("config file already exists")

// SetValue sets key to value in the top-level mapping of a YAML document.
// Existing keys keep their position and comments.
func SetValue(root *yaml.Node, key string, value interface{}) error {
	if root.Kind == 0 {
		root.Kind = yaml.DocumentNode
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.MappingNode})
	}
	var mapNode *yaml.Node
	switch {
	case root.Kind == yaml.DocumentNode && len(root.Content) > 0:
		mapNode = root.Content[0]
	case root.Kind == yaml.MappingNode:
		mapNode = root
	default:
		return fmt.Errorf("root node must be document or mapping, got %v", root.Kind)
	}
	if mapNode.Kind != yaml.MappingNode {
		return fmt.Errorf("config document must be a mapping")
	}

	if i := findKeyIndex(mapNode, key); i >= 0 {
		setScalarValue(mapNode.Content[i+1], value)
		return nil
	}
	valueNode := &yaml.Node{}
	setScalarValue(valueNode, value)
	mapNode.Content = append(mapNode.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, valueNode)
	return nil
}

// GetValue returns the value node for key, or nil if it is not set
func GetValue(root *yaml.Node, key string) *yaml.Node {
	if root == nil {
		return nil
	}
	mapNode := root
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		mapNode = root.Content[0]
	}
	if mapNode.Kind != yaml.MappingNode {
		return nil
	}
	i := findKeyIndex(mapNode, key)
	if i < 0 {
		return nil
	}
	return mapNode.Content[i+1]
}

// findKeyIndex finds the index of a key in a mapping node's content.
// Returns -1 if the key is not found.
func findKeyIndex(node *yaml.Node, key string) int {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// setScalarValue sets the value and tag of a scalar node.
func setScalarValue(node *yaml.Node, value interface{}) {
	node.Kind = yaml.ScalarNode
	node.Content = nil
	node.Style = 0
	switch v := value.(type) {
	case bool:
		node.Tag = "!!bool"
		node.Value = fmt.Sprintf("%t", v)
	case string:
		node.Tag = "!!str"
		node.Value = v
		if v == "" {
			node.Style = yaml.DoubleQuotedStyle
		}
	default:
		node.Tag = ""
		node.Value = fmt.Sprintf("%v", v)
	}
}

// writeAtomically writes content to a file atomically using a temporary file and rename.
// Creates parent directories if they don't exist.
func writeAtomically(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmpFile, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()
	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	tmpPath = ""
	return nil
}

// SetConfigValue sets a configuration value in a YAML file.
// Validates the key and value against the schema before writing.
// Creates the file if it doesn't exist.
func SetConfigValue(filePath, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return fmt.Errorf("validating value: %w", err)
	}
	root, err := loadOrCreateYAML(filePath)
	if err != nil {
		return err
	}
	if err := SetValue(root, key, parsed.Parsed); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	content, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := writeAtomically(filePath, content); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// WriteTemplate writes the default config template to filePath.
// An existing file is only replaced when force is set.
func WriteTemplate(filePath string, force bool) error {
	if _, err := os.Stat(filePath); err == nil && !force {
		return fmt.Errorf("%s: %w", filePath, ErrConfigExists)
	}
	return writeAtomically(filePath, []byte(GetDefaultConfigTemplate()))
}

// loadOrCreateYAML loads a YAML file or creates an empty document node.
func loadOrCreateYAML(filePath string) (*yaml.Node, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &yaml.Node{
				Kind:    yaml.DocumentNode,
				Content: []*yaml.Node{{Kind: yaml.MappingNode}},
			}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := ValidateYAMLSyntaxFromBytes(data, filePath); err != nil {
		return nil, err
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}
	return &root, nil
}
