// Command statuscheckd serves aggregated platform status over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"
)

var appVersion = "0.1.0"

func main() {
	app := cli.NewApp()

	app.Name = "statuscheckd"
	app.Usage = "Platform status aggregation service"
	app.Version = appVersion
	app.Flags = Flags
	app.Action = serveCommand

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "statuscheckd:", err)
		os.Exit(1)
	}
}

func serveCommand(context *cli.Context) error {
	conf := New(context)
	return serve(*conf)
}

func serve(conf Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := newDaemon(ctx, conf, appVersion)
	if err != nil {
		return err
	}
	return d.run(ctx)
}
