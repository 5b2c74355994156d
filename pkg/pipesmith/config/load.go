package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a grid file, choosing the format from its extension: .yaml, .yml, .json or .hcl.
func Load(path string) (*Grid, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".json":
		return LoadJSON(path)
	case ".hcl":
		return LoadHCL(path)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
}

func LoadYAML(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read file %s", path)
	}

	return ParseYAML(data)
}

func LoadJSON(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read file %s", path)
	}

	return ParseJSON(data)
}

func LoadHCL(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read file %s", path)
	}

	return ParseHCL(path, data)
}

// ParseYAML decodes a grid. Unknown keys are rejected.
func ParseYAML(data []byte) (*Grid, error) {
	var grid Grid
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(&grid)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse yaml grid")
	}

	return &grid, nil
}

// ParseJSON decodes a grid. Unknown keys are rejected.
func ParseJSON(data []byte) (*Grid, error) {
	var grid Grid
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(&grid)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse json grid")
	}

	return &grid, nil
}
