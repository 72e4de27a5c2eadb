package config

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
)

// configBuilder collects configuration layers in priority order. Errors from
// individual sources are joined and reported by build.
type configBuilder struct {
	configs []*StructuredConfig
	args    []string
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
		args:    os.Args[1:],
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error building config: %w", b.err)
	}

	merged := new(StructuredConfig)
	for _, layer := range b.configs {
		if err := mergo.Merge(merged, layer, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if err := merged.validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// add appends the layer produced by load, or records its error.
func (b *configBuilder) add(load func() (*StructuredConfig, error)) *configBuilder {
	layer, err := load()
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	if layer != nil {
		b.configs = append(b.configs, layer)
	}
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	return b.add(parseEnv)
}

func (b *configBuilder) withFlags() *configBuilder {
	return b.add(func() (*StructuredConfig, error) {
		return ParseFlags(b.args)
	})
}

// withJSON loads the file named by the last layer that set JSONFilePath.
func (b *configBuilder) withJSON() *configBuilder {
	path := ""
	for _, layer := range b.configs {
		if layer.JSONFilePath != "" {
			path = layer.JSONFilePath
		}
	}
	if path == "" {
		return b
	}

	return b.add(func() (*StructuredConfig, error) {
		return parseJSON(path)
	})
}

// withDefaults prepends the defaults so that every other source overrides
// them.
func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append([]*StructuredConfig{defaults()}, b.configs...)
	return b
}
