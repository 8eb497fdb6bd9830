// Package codec reads and writes the human-readable task export document.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"todo/internal/task"
)

// Format is an export document format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ErrNotArray is returned when a document's top level is not a list.
var ErrNotArray = errors.New("document is not a list of tasks")

// ParseFormat parses a format name. An empty name yields JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown format: %s", s)
}

// FormatFromPath picks a format from a file extension, falling back to def.
func FormatFromPath(path string, def Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	}
	return def
}

// FileName is the default export file name for f.
func (f Format) FileName() string {
	return "tasks." + string(f)
}

// Encode writes tasks to w as an f document.
func Encode(w io.Writer, tasks []task.Task, f Format) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}
	return fmt.Errorf("unknown format: %s", f)
}

// Decode reads an f document from r. The top level must be a list;
// anything else returns ErrNotArray.
func Decode(r io.Reader, f Format) ([]task.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	switch f {
	case YAML:
		return decodeYAML(data)
	case JSON:
		return decodeJSON(data)
	}
	return nil, fmt.Errorf("unknown format: %s", f)
}

func decodeJSON(data []byte) ([]task.Task, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, ErrNotArray
	}
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

func decodeYAML(data []byte) ([]task.Task, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, ErrNotArray
	}
	tasks := []task.Task{}
	if err := doc.Content[0].Decode(&tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
