// Command fa simulates finite automata and converts NFAs to DFAs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lopezrodolfo/nfa/internal/cli"
	"github.com/lopezrodolfo/nfa/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	switch cli.ExitCode(err) {
	case 0:
	case 2:
		fmt.Fprintf(os.Stderr, "fa: %v\n", err)
		os.Exit(2)
	default:
		config.Exitf("fa: %v", err)
	}
}
