package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/util"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the config directory.
	DefaultConfigPath = "./config"
	// DefaultRequestTimeout is the default REST request timeout.
	DefaultRequestTimeout = 10 * time.Second
	// DefaultDeadline is the default lifetime of created transactions.
	DefaultDeadline = 2 * time.Hour
	// DefaultCacheSize is the default number of cached confirmed transactions.
	DefaultCacheSize = 1024
	// MaxDeadline is the maximum lifetime of a transaction accepted by the
	// network.
	MaxDeadline = 24 * time.Hour
)

// Version is the version of the client, set at build time.
var Version string

// Config is the top level struct representing the config for the client.
type Config struct {
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
	NetworkConfiguration     NetworkConfiguration     `yaml:"NetworkConfiguration"`
}

// ApplicationConfiguration contains settings of the client itself.
type ApplicationConfiguration struct {
	LogLevel string `yaml:"LogLevel"`
	LogPath  string `yaml:"LogPath"`
	// RequestTimeout limits every REST request.
	RequestTimeout time.Duration `yaml:"RequestTimeout"`
	// CacheSize is the number of confirmed transactions kept in memory.
	CacheSize int `yaml:"CacheSize"`
}

// NetworkConfiguration describes the network transactions are created for.
type NetworkConfiguration struct {
	// Endpoint is the REST gateway address, e.g. http://localhost:3000.
	Endpoint string       `yaml:"Endpoint"`
	Network  netmode.Type `yaml:"Network"`
	// GenerationHash is the hex nemesis block generation hash. It's fetched
	// from the node when empty.
	GenerationHash string        `yaml:"GenerationHash"`
	MaxFee         uint64        `yaml:"MaxFee"`
	Deadline       time.Duration `yaml:"Deadline"`
}

// Default returns the configuration used when no file is given.
func Default(network netmode.Type) Config {
	return Config{
		ApplicationConfiguration: ApplicationConfiguration{
			RequestTimeout: DefaultRequestTimeout,
			CacheSize:      DefaultCacheSize,
		},
		NetworkConfiguration: NetworkConfiguration{
			Network:  network,
			Deadline: DefaultDeadline,
		},
	}
}

// FileName returns the name of the config file for the network.
func FileName(network netmode.Type) string {
	return fmt.Sprintf("sirius.%s.yml", strings.ToLower(network.String()))
}

// Load attempts to load the config from the given path for the given network.
func Load(path string, network netmode.Type) (Config, error) {
	return LoadFile(filepath.Join(path, FileName(network)))
}

// LoadFile loads config from the provided path.
func LoadFile(configPath string) (Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config '%s' doesn't exist", configPath)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	return Parse(configData)
}

// Parse decodes YAML config data filling the missing values with defaults.
// Unknown fields are rejected.
func Parse(configData []byte) (Config, error) {
	config := Default(netmode.NotSupported)
	decoder := yaml.NewDecoder(bytes.NewReader(configData))
	decoder.KnownFields(true)
	err := decoder.Decode(&config)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("config is invalid: %w", err)
	}
	return config, nil
}

// Validate checks Config for errors.
func (c Config) Validate() error {
	return c.NetworkConfiguration.Validate()
}

// Validate checks NetworkConfiguration for errors.
func (n NetworkConfiguration) Validate() error {
	if _, ok := n.Network.Prefix(); !ok {
		return fmt.Errorf("%w: %s", netmode.ErrUnknownNetwork, n.Network)
	}
	if n.GenerationHash != "" {
		if _, err := util.Uint256DecodeString(n.GenerationHash); err != nil {
			return fmt.Errorf("invalid GenerationHash: %w", err)
		}
	}
	if n.Deadline <= 0 || n.Deadline > MaxDeadline {
		return fmt.Errorf("invalid Deadline %s: must be in (0, %s]", n.Deadline, MaxDeadline)
	}
	return nil
}
