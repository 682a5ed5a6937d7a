package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "inkwell",
		Usage: "After-school program admin backend with e-signature workflows",
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
			sweepCommand,
			nanoidCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
