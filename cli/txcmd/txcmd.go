/*
Package txcmd contains commands to create, sign, cosign, announce and inspect
transactions.
*/
package txcmd

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nspcc-dev/sirius-go/cli/flags"
	"github.com/nspcc-dev/sirius-go/cli/options"
	"github.com/nspcc-dev/sirius-go/pkg/config"
	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/core/transaction"
	"github.com/nspcc-dev/sirius-go/pkg/rpcclient"
	"github.com/nspcc-dev/sirius-go/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var (
	errNoRecipient = errors.New("recipient is mandatory, use --recipient flag")
	errNoArgument  = errors.New("exactly one argument expected")
	errNoHashes    = errors.New("at least one transaction hash expected")
)

var announceFlag = cli.BoolFlag{
	Name:  "announce, a",
	Usage: "announce the result to the network",
}

// NewCommands returns 'tx' command.
func NewCommands() []cli.Command {
	configFlags := []cli.Flag{options.Config, options.ConfigFile, options.Network, options.Debug}
	configFlags = append(configFlags, options.REST...)

	signFlags := append([]cli.Flag{options.Key, options.GenerationHash, announceFlag}, configFlags...)

	transferFlags := append([]cli.Flag{
		cli.GenericFlag{
			Name:  "recipient, t",
			Usage: "recipient address in the raw, pretty or hex form",
			Value: new(flags.Address),
		},
		cli.GenericFlag{
			Name:  "mosaic, m",
			Usage: "mosaic to send as id:amount where id is a hex id or a namespace name like prx.xpx, can be repeated",
			Value: new(flags.Mosaics),
		},
		cli.StringFlag{
			Name:  "message",
			Usage: "plain text message",
		},
		cli.Uint64Flag{
			Name:  "max-fee",
			Usage: "maximum fee in the smallest units (overrides configuration)",
		},
	}, signFlags...)

	cosignFlags := append([]cli.Flag{
		cli.StringFlag{
			Name:  "hash, H",
			Usage: "hash of the announced aggregate bonded transaction",
		},
		options.Key,
		announceFlag,
	}, configFlags...)

	decodeFlags := []cli.Flag{options.GenerationHash}

	return []cli.Command{{
		Name:  "tx",
		Usage: "create, sign, announce and inspect transactions",
		Subcommands: []cli.Command{
			{
				Name:      "transfer",
				Usage:     "create and sign a transfer transaction",
				UsageText: "sirius-go tx transfer --recipient <address> [--mosaic <id:amount> ...] [--message <text>] [--key <hex>] [--announce] [-r <endpoint>]",
				Description: `Creates a transfer transaction and signs it with the given key. The
   generation hash is taken from the flag or the configuration and is fetched
   from the node if none is known. The hash and the signed payload are
   printed, with --announce the transaction is sent to the node.`,
				Action: transfer,
				Flags:  flags.MarkRequired(transferFlags, "recipient"),
			},
			{
				Name:      "cosign",
				Usage:     "cosign an announced aggregate bonded transaction",
				UsageText: "sirius-go tx cosign --hash <hash> [--key <hex>] [--announce] [-r <endpoint>]",
				Action:    cosign,
				Flags:     flags.MarkRequired(cosignFlags, "hash"),
			},
			{
				Name:      "decode",
				Usage:     "decode a hex transaction payload",
				UsageText: "sirius-go tx decode [--generation-hash <hash>] <payload>",
				Action:    decode,
				Flags:     decodeFlags,
			},
			{
				Name:      "get",
				Usage:     "get a transaction from the node by its hash",
				UsageText: "sirius-go tx get -r <endpoint> <hash>",
				Action:    get,
				Flags:     configFlags,
			},
			{
				Name:      "status",
				Usage:     "get statuses of transactions by their hashes",
				UsageText: "sirius-go tx status -r <endpoint> <hash> [<hash> ...]",
				Action:    status,
				Flags:     configFlags,
			},
		},
	}}
}

// setup loads the configuration and creates a logger for it.
func setup(ctx *cli.Context) (config.Config, *zap.Logger, error) {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cfg, nil, err
	}
	log, _, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

func transfer(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	recipient := ctx.Generic("recipient").(*flags.Address)
	if !recipient.IsSet {
		return cli.NewExitError(errNoRecipient, 1)
	}
	mosaics := ctx.Generic("mosaic").(*flags.Mosaics)
	network := cfg.NetworkConfiguration.Network

	tx, err := transaction.NewTransferTransaction(
		transaction.NewDeadline(cfg.NetworkConfiguration.Deadline),
		recipient.Address(),
		*mosaics,
		transaction.NewPlainMessage(ctx.String("message")),
		network)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	tx.MaxFee = util.Uint64(cfg.NetworkConfiguration.MaxFee)
	if ctx.IsSet("max-fee") {
		tx.MaxFee = util.Uint64(ctx.Uint64("max-fee"))
	}

	acc, err := options.GetAccount(ctx, network)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer acc.Close()

	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	var c *rpcclient.Client
	genHash := cfg.NetworkConfiguration.GenerationHash
	if genHash == "" || ctx.Bool("announce") {
		var exitErr cli.ExitCoder
		c, exitErr = options.GetRESTClient(gctx, cfg, log)
		if exitErr != nil {
			return exitErr
		}
		defer c.Close()
		if genHash, err = nodeGenerationHash(c, cfg); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	signed, err := acc.Sign(tx, genHash)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log.Debug("transaction signed",
		zap.Stringer("type", signed.EntityType),
		zap.String("hash", signed.Hash),
		zap.Stringer("signer", acc.Address))

	w := ctx.App.Writer
	fmt.Fprintf(w, "Hash: %s\n", signed.Hash)
	fmt.Fprintf(w, "Payload: %s\n", signed.Payload)
	if c == nil || !ctx.Bool("announce") {
		return nil
	}
	msg, err := c.Announce(signed)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to announce: %w", err), 1)
	}
	fmt.Fprintf(w, "Announced: %s\n", msg)
	return nil
}

// node is the part of the REST client used to check signing parameters.
type node interface {
	Network() (netmode.Type, error)
	GenerationHash() (string, error)
}

// nodeGenerationHash checks that the node is on the configured network and
// returns the configured generation hash or the node's one if there is none.
func nodeGenerationHash(n node, cfg config.Config) (string, error) {
	network, err := n.Network()
	if err != nil {
		return "", err
	}
	if network != cfg.NetworkConfiguration.Network {
		return "", fmt.Errorf("node network %s doesn't match configured %s", network, cfg.NetworkConfiguration.Network)
	}
	if h := cfg.NetworkConfiguration.GenerationHash; h != "" {
		return h, nil
	}
	h, err := n.GenerationHash()
	if err != nil {
		return "", fmt.Errorf("failed to get generation hash: %w", err)
	}
	return h, nil
}

func cosign(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	acc, err := options.GetAccount(ctx, cfg.NetworkConfiguration.Network)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer acc.Close()

	cosig, err := acc.SignCosignature(ctx.String("hash"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	b, err := json.MarshalIndent(cosig, "", "  ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
	if !ctx.Bool("announce") {
		return nil
	}

	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()
	c, exitErr := options.GetRESTClient(gctx, cfg, log)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()
	msg, err := c.AnnounceCosignature(cosig)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to announce: %w", err), 1)
	}
	fmt.Fprintf(ctx.App.Writer, "Announced: %s\n", msg)
	return nil
}

func decode(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError(errNoArgument, 1)
	}
	payload, err := hex.DecodeString(strings.TrimSpace(ctx.Args().First()))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid payload: %w", err), 1)
	}
	tx, err := transaction.Decode(payload)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	w := ctx.App.Writer
	if h := ctx.String("generation-hash"); h != "" {
		genHash, err := util.Uint256DecodeString(h)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("invalid generation hash: %w", err), 1)
		}
		if agg, ok := tx.(*transaction.AggregateTransaction); ok {
			payload = payload[:len(payload)-len(agg.Cosignatures)*transaction.CosignatureSize]
		}
		txHash, err := transaction.Hash(payload, genHash)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		fmt.Fprintf(w, "Hash: %s\n", txHash)
	}
	printTransaction(w, tx)
	return nil
}

func get(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError(errNoArgument, 1)
	}
	c, done, exitErr := getClient(ctx)
	if exitErr != nil {
		return exitErr
	}
	defer done()

	tx, err := c.GetTransaction(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	printTransaction(ctx.App.Writer, tx)
	return nil
}

func status(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError(errNoHashes, 1)
	}
	c, done, exitErr := getClient(ctx)
	if exitErr != nil {
		return exitErr
	}
	defer done()

	var statuses []*transaction.TransactionStatus
	if ctx.NArg() == 1 {
		s, err := c.GetTransactionStatus(ctx.Args().First())
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		statuses = append(statuses, s)
	} else {
		var err error
		statuses, err = c.GetTransactionStatuses(ctx.Args())
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	}
	for _, s := range statuses {
		fmt.Fprintf(ctx.App.Writer, "%s: %s %s height %d\n", s.Hash, s.Group, s.Status, uint64(s.Height))
	}
	return nil
}

// getClient returns a REST client living until the returned function is
// called.
func getClient(ctx *cli.Context) (*rpcclient.Client, func(), cli.ExitCoder) {
	cfg, log, err := setup(ctx)
	if err != nil {
		return nil, nil, cli.NewExitError(err, 1)
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	c, exitErr := options.GetRESTClient(gctx, cfg, log)
	if exitErr != nil {
		cancel()
		return nil, nil, exitErr
	}
	return c, func() {
		c.Close()
		cancel()
		_ = log.Sync()
	}, nil
}

func printTransaction(w io.Writer, tx transaction.Transaction) {
	h := tx.Header()
	fmt.Fprintf(w, "Type: %s (%s)\n", h.Type, h.Type.Hex())
	fmt.Fprintf(w, "Network: %s\n", h.Network)
	fmt.Fprintf(w, "Version: %d\n", h.Version)
	fmt.Fprintf(w, "State: %s\n", h.State())
	if h.Signer != nil {
		fmt.Fprintf(w, "Signer: %s\n", h.Signer)
	}
	if !h.Deadline.IsZero() {
		fmt.Fprintf(w, "Deadline: %s\n", h.Deadline.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "MaxFee: %d\n", uint64(h.MaxFee))
	if h.Info != nil {
		fmt.Fprintf(w, "Height: %d\n", uint64(h.Info.Height))
	}

	switch t := tx.(type) {
	case *transaction.TransferTransaction:
		fmt.Fprintf(w, "Recipient: %s\n", t.Recipient)
		if len(t.Message.Payload) > 0 {
			fmt.Fprintf(w, "Message: %s\n", t.Message)
		}
		for _, m := range t.Mosaics {
			fmt.Fprintf(w, "Mosaic: %016X %d\n", uint64(m.ID), uint64(m.Amount))
		}
	case *transaction.AggregateTransaction:
		for i, inner := range t.InnerTransactions {
			fmt.Fprintf(w, "Inner %d: %s by %s\n", i, inner.Header().Type, inner.Header().Signer)
		}
		for _, c := range t.Cosignatures {
			fmt.Fprintf(w, "Cosigner: %s\n", c.Signer)
		}
	}
}
