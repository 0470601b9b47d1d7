package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"

	"github.com/grendel/keyproof/internal/cli"
	"github.com/grendel/keyproof/internal/config"
	"github.com/grendel/keyproof/internal/logger"
	"github.com/grendel/keyproof/internal/prover"
	"github.com/grendel/keyproof/pkg/crypto"
	"github.com/grendel/keyproof/pkg/ui"
	"github.com/pkg/errors"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	// Define command line flags
	envFile := flag.String("env", config.DefaultEnvFile, "Path of the .env file to load")
	chains := flag.String("chains", "", "Comma separated chains to prove")
	account := flag.Int64("account", -1, "Account index of the derivation path")
	payload := flag.String("payload", "", "Payload to sign instead of the current timestamp")
	verbose := flag.Bool("v", false, "Show debug logs, sign documents and signatures")
	help := flag.Bool("help", false, "Display help information")

	// Parse the flags
	flag.Parse()

	// Initialize color scheme for consistent formatting
	cs := ui.DefaultColorScheme()
	registry := crypto.NewChainRegistry()

	if *help {
		cli.DisplayHelp(cs, registry)
		return exitOK
	}

	log := logger.Setup(*verbose)

	cfg, err := config.Load(config.Options{
		EnvFile: *envFile,
		Chains:  *chains,
		Account: *account,
		Payload: *payload,
	}, registry, log)
	if err != nil {
		log.Error().Err(err).Msg("configuration error")
		cs.Normal.Println("Run with -help for the list of options and variables")
		return exitConfig
	}

	ui.PrintHeader(cs, cli.AppTitle)
	cs.Result.Print("Chains: ")
	cs.Chain.Println(strings.Join(cfg.Chains, ", "))
	cs.Result.Print("Account: ")
	cs.Path.Println(cfg.Account)
	cs.Normal.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := prover.New(registry, log).Run(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("proving aborted")
		if errors.Is(err, crypto.ErrInvalidMnemonic) {
			ui.PrintFooter(cs, "Mnemonic rejected, no chain was checked")
		}
		return exitFailed
	}

	cli.PrintReport(cs, report, *verbose)
	if !report.OK() {
		return exitFailed
	}
	return exitOK
}
