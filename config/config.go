// Package config loads the settings of the ctb command line: a YAML (or
// JSON) file, an optional .env file, then CTB_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/etnz/captable"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the file settings.
const (
	EnvCurrency     = "CTB_CURRENCY"
	EnvToleranceBps = "CTB_TOLERANCE_BPS"
	EnvCapTable     = "CTB_CAPTABLE"
	EnvPlain        = "CTB_PLAIN"
)

// Config holds the ctb settings.
type Config struct {
	Currency     string `yaml:"currency" json:"currency"`         // display currency, ISO code
	ToleranceBps int    `yaml:"toleranceBps" json:"toleranceBps"` // price reconciliation tolerance
	CapTableFile string `yaml:"captable" json:"captable"`         // JSONL cap table
	Plain        bool   `yaml:"plain" json:"plain"`               // raw markdown output, no terminal styling
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Currency:     "USD",
		ToleranceBps: captable.DefaultToleranceBps,
		CapTableFile: "captable.jsonl",
	}
}

// Load reads the configuration file at path over the defaults, then applies
// the environment. A missing file is not an error, nor is an empty path.
// Variables in a .env file of the working directory are loaded first, they
// never override the real environment.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return c, fmt.Errorf("cannot read config %q: %w", path, err)
		default:
			if err := decode(data, &c); err != nil {
				return c, fmt.Errorf("cannot decode config %q: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, fmt.Errorf("cannot load .env: %w", err)
	}
	if err := c.applyEnv(); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// decode reads YAML, falling back to JSON for files YAML rejects.
func decode(data []byte, c *Config) error {
	yerr := yaml.Unmarshal(data, c)
	if yerr == nil {
		return nil
	}
	if err := json.Unmarshal(data, c); err != nil {
		return yerr
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvCurrency); ok {
		c.Currency = v
	}
	if v, ok := os.LookupEnv(EnvCapTable); ok {
		c.CapTableFile = v
	}
	if v, ok := os.LookupEnv(EnvToleranceBps); ok {
		bps, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvToleranceBps, v, err)
		}
		c.ToleranceBps = bps
	}
	if v, ok := os.LookupEnv(EnvPlain); ok {
		plain, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvPlain, v, err)
		}
		c.Plain = plain
	}
	return nil
}

// Validate checks the currency code and the tolerance.
func (c Config) Validate() error {
	if !captable.KnownCurrency(c.Currency) {
		return fmt.Errorf("unknown currency %q", c.Currency)
	}
	if c.ToleranceBps < 0 {
		return fmt.Errorf("tolerance must not be negative, got %d bps", c.ToleranceBps)
	}
	return nil
}
