package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/arthur-debert/aisetup/cmd/aisetup/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := commands.Execute(ctx, commands.NewRootCmd())
	stop()
	os.Exit(code)
}
