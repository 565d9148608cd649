package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// Set updates some keys in a user config file, creating it when needed.
// Keys not mentioned are left untouched.
func Set(fs afero.Fs, file string, values map[string]string) error {
	doc := make(map[string]interface{})

	content, err := afero.ReadFile(fs, file)
	switch {
	case err == nil:
		if err = yaml.Unmarshal(content, &doc); err != nil {
			return ErrRead.Wrap(fmt.Errorf("%s: %w", file, err))
		}
		if doc == nil {
			doc = make(map[string]interface{})
		}
	case os.IsNotExist(err):
	default:
		return ErrRead.Wrap(fmt.Errorf("%s: %w", file, err))
	}

	for key, raw := range values {
		value, err := typedValue(key, raw)
		if err != nil {
			return err
		}
		setNested(doc, key, value)
	}

	o, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("could not serialize config to yaml: %w", err)
	}
	if err = fs.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return fmt.Errorf("could not create directory to hold config %s: %w", filepath.Dir(file), err)
	}
	if err = afero.WriteFile(fs, file, o, 0600); err != nil {
		return fmt.Errorf("error writing config file %s: %w", file, err)
	}
	return nil
}

func typedValue(key, raw string) (interface{}, error) {
	switch key {
	case KeyFeatureFlagsVariables:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, ErrInvalid.Wrap(fmt.Errorf("%s: must be a boolean", key))
		}
		return b, nil
	case KeyMaxRequestsPerSecond:
		f, err := cast.ToFloat64E(raw)
		if err != nil || f < 0 {
			return nil, ErrInvalid.Wrap(fmt.Errorf("%s: must be a positive number", key))
		}
		return f, nil
	}
	for _, known := range stringKeys {
		if key == known {
			return raw, nil
		}
	}
	return nil, ErrUnknownKey.Wrap(fmt.Errorf("%q", key))
}

func setNested(doc map[string]interface{}, key string, value interface{}) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) == 1 {
		doc[key] = value
		return
	}
	child := make(map[string]interface{})
	switch existing := doc[parts[0]].(type) {
	case map[string]interface{}:
		child = existing
	case map[interface{}]interface{}:
		for k, v := range existing {
			child[cast.ToString(k)] = v
		}
	}
	setNested(child, parts[1], value)
	doc[parts[0]] = child
}
