/*
Package address contains commands to create accounts and convert addresses.
*/
package address

import (
	"errors"
	"fmt"
	"io"

	"github.com/nspcc-dev/sirius-go/cli/flags"
	"github.com/nspcc-dev/sirius-go/cli/options"
	"github.com/nspcc-dev/sirius-go/pkg/config/netmode"
	"github.com/nspcc-dev/sirius-go/pkg/crypto/keys"
	"github.com/nspcc-dev/sirius-go/pkg/encoding/address"
	"github.com/nspcc-dev/sirius-go/pkg/wallet"
	"github.com/urfave/cli"
)

var errNoArgument = errors.New("exactly one argument expected")

// NewCommands returns 'address' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "address",
		Usage: "create accounts and convert addresses",
		Subcommands: []cli.Command{
			{
				Name:      "new",
				Usage:     "generate a new account",
				UsageText: "sirius-go address new [--network <type>]",
				Action:    newAccount,
				Flags:     []cli.Flag{options.Network},
			},
			{
				Name:      "from-key",
				Usage:     "derive the address of a public key",
				UsageText: "sirius-go address from-key [--network <type>] <public key>",
				Action:    fromKey,
				Flags:     []cli.Flag{options.Network},
			},
			{
				Name:      "decode",
				Usage:     "print all forms of an address given in the raw, pretty or hex form",
				UsageText: "sirius-go address decode <address>",
				Action:    decode,
			},
		},
	}}
}

func getNetwork(ctx *cli.Context) (netmode.Type, error) {
	n, ok, err := options.GetNetwork(ctx)
	if err != nil {
		return n, err
	}
	if !ok {
		n = netmode.PublicTest
	}
	return n, nil
}

func newAccount(ctx *cli.Context) error {
	network, err := getNetwork(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	acc, err := wallet.NewAccount(network)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer acc.Close()

	w := ctx.App.Writer
	fmt.Fprintf(w, "Private key: %s\n", acc.PrivateKey())
	fmt.Fprintf(w, "Public key: %s\n", acc.PublicKey)
	return printAddress(w, acc.Address)
}

func fromKey(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError(errNoArgument, 1)
	}
	network, err := getNetwork(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	pub, err := keys.NewPublicKeyFromString(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid public key: %w", err), 1)
	}
	return printAddress(ctx.App.Writer, address.FromKey(pub, network))
}

func decode(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError(errNoArgument, 1)
	}
	addr, err := flags.ParseAddress(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if !addr.IsValid() {
		return cli.NewExitError(fmt.Errorf("address %s has invalid checksum", addr), 1)
	}
	return printAddress(ctx.App.Writer, addr)
}

func printAddress(w io.Writer, addr *address.Address) error {
	encoded, err := addr.Encoded()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(w, "Network: %s\n", addr.Network)
	fmt.Fprintf(w, "Address: %s\n", addr)
	fmt.Fprintf(w, "Pretty: %s\n", addr.Prettify())
	fmt.Fprintf(w, "Encoded: %s\n", encoded)
	return nil
}
