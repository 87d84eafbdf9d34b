package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/seberle/plume/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override plume config path (optional)")
	server := flag.String("server", "", "instance base URL (overrides config)")
	account := flag.String("account", "", "account to open: handle like alice@example.social, or a numeric id")
	flag.Parse()

	// A bare handle as the only positional argument also works.
	acct := *account
	if acct == "" && flag.NArg() > 0 {
		acct = flag.Arg(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		Server:     *server,
		Account:    acct,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "plume: %v\n", err)
		return 1
	}
	return 0
}
