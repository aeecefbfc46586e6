package declare

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML declaration file. Unknown fields are rejected.
func ParseYAML(data []byte) ([]TemplateDef, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return file.Templates, nil
}
