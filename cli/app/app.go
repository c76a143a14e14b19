package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nspcc-dev/sirius-go/cli/address"
	"github.com/nspcc-dev/sirius-go/cli/txcmd"
	"github.com/nspcc-dev/sirius-go/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "SiriusGo\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a SiriusGo instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "sirius-go"
	ctl.Version = config.Version
	ctl.Usage = "Go client for Sirius blockchain transactions"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, address.NewCommands()...)
	ctl.Commands = append(ctl.Commands, txcmd.NewCommands()...)
	return ctl
}
