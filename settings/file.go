package settings

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileProvider reads settings from a YAML mapping file. The file is read on
// every Get so edits take effect without a restart; wrap it in a
// CachedProvider to bound the read rate.
//
//	excludedchecks:
//	  - core_cron
//	  - tool_mfa
//	enablecaching: true
//	cachettl: 5m
//
// A sequence value is joined with commas. Scalars are used as written.
type FileProvider struct {
	Path string
}

// NewFileProvider creates a FileProvider for path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

// Get reads key from the file.
func (p *FileProvider) Get(_ context.Context, key string) (string, bool, error) {
	values, err := p.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (p *FileProvider) read() (map[string]string, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("settings: read %s: %w", p.Path, err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes a settings document into raw string values.
func ParseYAML(data []byte) (map[string]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	out := make(map[string]string)
	if len(doc.Content) == 0 {
		return out, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrInvalidFile)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			if val.Tag == "!!null" {
				continue
			}
			out[key] = val.Value
		case yaml.SequenceNode:
			items := make([]string, 0, len(val.Content))
			for _, item := range val.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("%w: %s must be a list of strings", ErrInvalidFile, key)
				}
				items = append(items, item.Value)
			}
			out[key] = strings.Join(items, ",")
		default:
			return nil, fmt.Errorf("%w: unsupported value for %s at line %d", ErrInvalidFile, key, val.Line)
		}
	}
	return out, nil
}

var _ Provider = (*FileProvider)(nil)
