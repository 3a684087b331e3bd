package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/signalcraft-lab/signalcraft/internal/logger"
)

func serveAction(ctx context.Context, cmd *cli.Command) error {
	appLog, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer appLog.Sync()

	server := NewSignalServer(appLog)

	if err := server.Start(cmd.String("address")); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
	case <-ctx.Done():
	}

	return server.Stop()
}

func main() {
	cmd := &cli.Command{
		Name:  "signal-server",
		Usage: "Serve the signal pipeline over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Usage:   "Listen address",
				Value:   ":8080",
			},
		},
		Action: serveAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
