/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mikeb26/trugo-td/announce"
	"github.com/mikeb26/trugo-td/internal"
)

//go:embed help.txt
var helpText string

// cmdEnv carries what every command needs besides its arguments.
type cmdEnv struct {
	cfg       *internal.Config
	out       io.Writer
	errOut    io.Writer
	announcer announce.Announcer
}

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, env *cmdEnv, args []string) error

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":      handleHelp,
	"add":       handleAdd,
	"remove":    handleRemove,
	"import":    handleImport,
	"next":      handleNext,
	"scores":    handleScores,
	"correct":   handleCorrect,
	"standings": handleStandings,
	"pairings":  handlePairings,
	"delete":    handleDelete,
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage(os.Stdout)
		os.Exit(1)
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("trugotd.main: %v", err)
	}
	env := &cmdEnv{cfg: cfg, out: os.Stdout, errOut: os.Stderr}
	if cfg.DiscordWebhook != "" {
		hook, err := announce.NewWebhook(cfg.DiscordWebhook)
		if err != nil {
			log.Printf("trugotd.main: announcements disabled: %v", err)
		} else {
			env.announcer = hook
		}
	}

	if err := run(ctx, env, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, env *cmdEnv, cmd string, args []string) error {
	handler, ok := commands[cmd]
	if !ok {
		usage(env.errOut)
		return fmt.Errorf("unknown command: %s", cmd)
	}
	return handler(ctx, env, args)
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "%v", helpText)
}

func handleHelp(ctx context.Context, env *cmdEnv, args []string) error {
	usage(env.out)
	return nil
}
