// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package khuff

import (
	"fmt"
	"io"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/SnellerInc/khuff/compr"
	"github.com/SnellerInc/khuff/huffman"
)

// Config holds the defaults of the khuff
// command. It is read from a YAML or JSON file.
type Config struct {
	// Radix is the default tree arity.
	Radix int `json:"radix,omitempty"`
	// Suffix is appended to the name of a
	// compressed file when no output is given.
	Suffix string `json:"suffix,omitempty"`
	// Verify turns on WithVerify for compression.
	Verify bool `json:"verify,omitempty"`
	// Verbose turns on logging.
	Verbose bool `json:"verbose,omitempty"`
	// Bench lists the codecs that the
	// bench command compares.
	Bench []string `json:"bench,omitempty"`
}

// DefaultConfig returns the configuration
// used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Radix:  2,
		Suffix: ".huff",
		Bench:  compr.Names(),
	}
}

// just pick an upper limit; configs are tiny
const maxConfigSize = 64 * 1024

// DecodeConfig decodes a configuration from src.
// Fields missing from src keep their defaults,
// and unknown fields are rejected.
func DecodeConfig(src io.Reader) (*Config, error) {
	buf, err := io.ReadAll(io.LimitReader(src, maxConfigSize+1))
	if err != nil {
		return nil, err
	}
	if len(buf) > maxConfigSize {
		return nil, fmt.Errorf("config beyond limit %d bytes", maxConfigSize)
	}
	c := DefaultConfig()
	if err := yaml.UnmarshalStrict(buf, c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadConfig reads the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	c, err := DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks c for unusable values.
func (c *Config) Validate() error {
	if err := huffman.CheckRadix(c.Radix); err != nil {
		return err
	}
	if c.Suffix == "" || strings.ContainsAny(c.Suffix, `/\`) {
		return fmt.Errorf("invalid suffix %q", c.Suffix)
	}
	for _, name := range c.Bench {
		if compr.Compression(name) == nil {
			return fmt.Errorf("unknown bench codec %q", name)
		}
	}
	return nil
}

// Options returns the Compress options
// implied by c.
func (c *Config) Options() []Option {
	return []Option{WithVerify(c.Verify)}
}
