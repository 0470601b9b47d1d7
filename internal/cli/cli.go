package cli

import (
	"fmt"

	"github.com/grendel/keyproof/pkg/crypto"
	"github.com/grendel/keyproof/pkg/ui"
)

// AppTitle is printed in the header box of every run
const AppTitle = "keyproof - Cross-Chain Key Control Prover"

// DisplayHelp shows usage information for the application
func DisplayHelp(cs *ui.ColorScheme, registry *crypto.ChainRegistry) {
	ui.PrintHeader(cs, AppTitle)

	ui.PrintSectionHeader(cs, "USAGE:")
	cs.Normal.Println("  keyproof [options]")
	cs.Normal.Println()

	ui.PrintSectionHeader(cs, "OPTIONS:")
	ui.PrintOption(cs, "-env     ", "Path of the .env file to load (default: .env, optional)")
	ui.PrintOption(cs, "-chains  ", "Comma separated chains to prove (default: KEYPROOF_CHAINS or aura,evmos)")
	ui.PrintOption(cs, "-account ", "Account index of the derivation path (default: KEYPROOF_ACCOUNT or 0)")
	ui.PrintOption(cs, "-payload ", "Payload to sign instead of the current timestamp")
	ui.PrintOption(cs, "-v       ", "Show debug logs, sign documents and signatures")
	ui.PrintOption(cs, "-help    ", "Display help information")
	cs.Normal.Println()

	ui.PrintSectionHeader(cs, "CHAINS:")
	for _, name := range registry.Names() {
		chain, _ := registry.GetChain(name)
		ui.PrintOption(cs, fmt.Sprintf("%-8s", name), fmt.Sprintf("prefix %s, path %s", chain.Prefix(), chain.Path(0)))
	}
	cs.Normal.Println()

	ui.PrintSectionHeader(cs, "ENVIRONMENT:")
	ui.PrintOption(cs, "MNEMONIC            ", "BIP-39 mnemonic to derive keys from (required)")
	ui.PrintOption(cs, "MNEMONIC_PASSPHRASE ", "Optional BIP-39 passphrase")
	ui.PrintOption(cs, "EXPECT_AURA_ADDR    ", "Address the aura key must derive to")
	ui.PrintOption(cs, "EXPECT_EVMOS_ADDR   ", "Address the evmos key must derive to")
	ui.PrintOption(cs, "EXPECT_COSMOS_ADDR  ", "Address the cosmos key must derive to")
	cs.Normal.Println()

	ui.PrintSectionHeader(cs, "EXAMPLES:")
	ui.PrintExample(cs, "keyproof                      ", "Prove aura and evmos using .env")
	ui.PrintExample(cs, "keyproof -chains evmos        ", "Prove only the evmos account")
	ui.PrintExample(cs, "keyproof -account 1 -v        ", "Use account index 1 with verbose output")
	ui.PrintExample(cs, "keyproof -env prod.env        ", "Load configuration from prod.env")
	cs.Normal.Println()

	ui.PrintSectionHeader(cs, "DESCRIPTION:")
	cs.Normal.Println("")
	cs.Normal.Println("  keyproof derives a key per chain from one mnemonic and proves control of it:")
	cs.Normal.Println("")
	cs.Normal.Println("  • aura/cosmos: m/44'/118'/0'/0/n, sha256 amino sign doc, r||s signature")
	cs.Normal.Println("  • evmos:       m/44'/60'/0'/0/n, keccak256 amino sign doc, recoverable signature")
	cs.Normal.Println("")
	cs.Normal.Println("  Every chain is checked even when another fails. The exit status is 0 when all")
	cs.Normal.Println("  chains verify, 1 when any fails and 2 on configuration errors.")
	cs.Normal.Println("")
}
