package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/jarvault/internal/client/cli"
	"github.com/dmitrijs2005/jarvault/internal/client/config"
	"github.com/dmitrijs2005/jarvault/internal/flagx"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		stop()
		log.Fatalf("%v", err)
	}

	code := app.Run(ctx, flagx.StripArgs(os.Args[1:], config.Flags))
	stop()
	os.Exit(code)

}
