/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nspcc-dev/sirius-go/cli/input"
	"github.com/nspcc-dev/sirius-go/pkg/config"
	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/io"
	"github.com/nspcc-dev/sirius-go/pkg/rpcclient"
	"github.com/nspcc-dev/sirius-go/pkg/wallet"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultTimeout is the default timeout used for REST requests.
const DefaultTimeout = 10 * time.Second

// RESTEndpointFlag is a long flag name for a REST gateway endpoint. It can be
// used to check for flag presence in the context.
const RESTEndpointFlag = "rest-endpoint"

// Network is a flag for choosing the network to operate on.
var Network = cli.StringFlag{
	Name:  "network, n",
	Usage: "network type: PUBLIC, PUBLIC_TEST, PRIVATE, PRIVATE_TEST, MIJIN or MIJIN_TEST (overrides configuration)",
}

// REST is a set of flags used for REST connections (endpoint and timeout).
var REST = []cli.Flag{
	cli.StringFlag{
		Name:  RESTEndpointFlag + ", r",
		Usage: "REST gateway address (overrides configuration)",
	},
	cli.DurationFlag{
		Name:  "timeout, s",
		Value: DefaultTimeout,
		Usage: "Timeout for the operation",
	},
}

// Config is a flag for commands that use client configuration.
var Config = cli.StringFlag{
	Name:  "config-path",
	Usage: "path to directory with per-network configuration files (may be overridden by --config-file option for the configuration file)",
}

// ConfigFile is a flag for commands that use client configuration and provide
// path to the specific config file instead of config path.
var ConfigFile = cli.StringFlag{
	Name:  "config-file",
	Usage: "path to the client configuration file (overrides --config-path option)",
}

// Debug is a flag for commands that allow debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (overrides configuration)",
}

// Key is a flag for commands that sign something.
var Key = cli.StringFlag{
	Name:  "key, k",
	Usage: "hex private key to sign with, it's requested interactively if omitted",
}

// GenerationHash is a flag for commands signing transactions.
var GenerationHash = cli.StringFlag{
	Name:  "generation-hash, g",
	Usage: "network generation hash (overrides configuration, fetched from the node if unknown)",
}

var errNoEndpoint = errors.New("no REST endpoint specified, use option '--" + RESTEndpointFlag + "' or '-r' or set it in the configuration")

// GetNetwork returns the network given with the network flag, ok is false if
// it's not set.
func GetNetwork(ctx *cli.Context) (netmode.Type, bool, error) {
	name := ctx.String("network")
	if name == "" {
		return netmode.NotSupported, false, nil
	}
	n, err := netmode.FromString(strings.ToUpper(name))
	if err != nil {
		return netmode.NotSupported, false, err
	}
	return n, true, nil
}

// GetTimeoutContext returns a context.Context with the default or a user-set timeout.
func GetTimeoutContext(ctx *cli.Context) (context.Context, func()) {
	dur := ctx.Duration("timeout")
	if dur == 0 {
		dur = DefaultTimeout
	}
	return context.WithTimeout(context.Background(), dur)
}

// GetConfigFromContext loads the configuration pointed to by the config
// flags and applies the network, endpoint and generation hash flags over it.
// Without config flags the default configuration of PUBLIC_TEST or the
// network from the flag is used.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	network, netSet, err := GetNetwork(ctx)
	if err != nil {
		return config.Config{}, err
	}

	var cfg config.Config
	switch {
	case ctx.String("config-file") != "":
		cfg, err = config.LoadFile(ctx.String("config-file"))
	case ctx.String("config-path") != "":
		if !netSet {
			network = netmode.PublicTest
		}
		cfg, err = config.Load(ctx.String("config-path"), network)
	default:
		if !netSet {
			network = netmode.PublicTest
		}
		cfg = config.Default(network)
	}
	if err != nil {
		return config.Config{}, err
	}

	if netSet {
		cfg.NetworkConfiguration.Network = network
	}
	if endpoint := ctx.String(RESTEndpointFlag); endpoint != "" {
		cfg.NetworkConfiguration.Endpoint = endpoint
	}
	if h := ctx.String("generation-hash"); h != "" {
		cfg.NetworkConfiguration.GenerationHash = h
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// GetRESTClient returns an initialized REST client for the configured
// endpoint.
func GetRESTClient(gctx context.Context, cfg config.Config, log *zap.Logger) (*rpcclient.Client, cli.ExitCoder) {
	endpoint := cfg.NetworkConfiguration.Endpoint
	if len(endpoint) == 0 {
		return nil, cli.NewExitError(errNoEndpoint, 1)
	}
	c, err := rpcclient.New(gctx, endpoint, rpcclient.Options{
		RequestTimeout: cfg.ApplicationConfiguration.RequestTimeout,
		CacheSize:      cfg.ApplicationConfiguration.CacheSize,
		Logger:         log,
	})
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	err = c.Init()
	if err != nil {
		c.Close()
		return nil, cli.NewExitError(err, 1)
	}
	return c, nil
}

// GetAccount returns the account of the key given with the key flag or
// entered by the user.
func GetAccount(ctx *cli.Context, network netmode.Type) (*wallet.Account, error) {
	key := ctx.String("key")
	if key == "" {
		var err error
		key, err = input.ReadPassword("Enter private key > ")
		if err != nil {
			return nil, fmt.Errorf("error reading private key: %w", err)
		}
		key = strings.TrimSpace(key)
	}
	return wallet.NewAccountFromPrivateKey(key, network)
}

// HandleLoggingParams reads logging parameters.
// If a user selected debug level -- function enables it.
// If logPath is configured -- function creates a dir and a file for logging.
func HandleLoggingParams(debug bool, cfg config.ApplicationConfiguration) (*zap.Logger, *zap.AtomicLevel, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(cfg.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil
	cc.OutputPaths = []string{"stderr"}

	if logPath := cfg.LogPath; logPath != "" {
		if err := io.MakeDirForFile(logPath, "logger"); err != nil {
			return nil, nil, err
		}
		cc.OutputPaths = []string{logPath}
	}

	log, err := cc.Build()
	return log, &cc.Level, err
}
