// SPDX-License-Identifier: MIT

package eof

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvleof/decomp"
	"github.com/katalvlaran/lvleof/field"
)

// Config is the YAML form of the solver options, for host applications that
// keep analysis settings in a file:
//
//	center: true
//	ddof: 1
//	method: svd        # svd | eigen | jacobi
//	weights:
//	  shape: [3, 1]
//	  values: [0.5, 0.8, 1.0]
//
// Unset keys keep their defaults.
type Config struct {
	Center  *bool          `yaml:"center,omitempty"`
	DDOF    *int           `yaml:"ddof,omitempty"`
	Method  string         `yaml:"method,omitempty"`
	Weights *WeightsConfig `yaml:"weights,omitempty"`
}

// WeightsConfig is a row-major weight array with an explicit shape.
// An empty shape means a 1-D array of len(values).
type WeightsConfig struct {
	Shape  []int     `yaml:"shape,omitempty,flow"`
	Values []float64 `yaml:"values,flow"`
}

// LoadConfig decodes a Config from r. Unknown keys are rejected; an empty
// document yields the zero Config.
func LoadConfig(r io.Reader) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, eofErrorf("LoadConfig", err)
	}

	return c, nil
}

// Options converts c into solver options.
//
// Errors:
//   - decomp.ErrUnknownMethod for an unrecognized method name.
//   - field.ErrShape for weights whose shape does not match len(values).
func (c Config) Options() ([]Option, error) {
	var opts []Option
	if c.Center != nil {
		opts = append(opts, WithCenter(*c.Center))
	}
	if c.DDOF != nil {
		opts = append(opts, WithDDOF(*c.DDOF))
	}
	if c.Method != "" {
		m, err := decomp.ParseMethod(c.Method)
		if err != nil {
			return nil, eofErrorf("Config.Options", err)
		}
		opts = append(opts, WithMethod(m))
	}
	if c.Weights != nil {
		shape := c.Weights.Shape
		if len(shape) == 0 {
			shape = []int{len(c.Weights.Values)}
		}
		w, err := field.New(shape, c.Weights.Values)
		if err != nil {
			return nil, eofErrorf("Config.Options", fmt.Errorf("weights: %w", err))
		}
		opts = append(opts, WithWeights(w))
	}

	return opts, nil
}
