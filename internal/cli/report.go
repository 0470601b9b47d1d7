package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/grendel/keyproof/internal/prover"
	"github.com/grendel/keyproof/pkg/crypto"
	"github.com/grendel/keyproof/pkg/ui"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// PrintReport prints one block per chain followed by a summary footer.
// In verbose mode the signed document and the signature are printed as well.
func PrintReport(cs *ui.ColorScheme, report *prover.Report, verbose bool) {
	for i, r := range report.Results {
		ui.PrintChainHeader(cs, i+1, string(r.Chain), status(r))

		if r.Path != "" {
			ui.PrintField(cs, "Path", cs.Path, r.Path)
		}
		if r.Address != "" {
			ui.PrintField(cs, "Address", cs.Address, r.Address)
		}
		if r.Hex != "" {
			ui.PrintField(cs, "Hex", cs.Address, r.Hex)
		}
		if r.Checked() {
			ui.PrintField(cs, "Expected", cs.Address, r.Expected)
		} else if r.Address != "" {
			ui.PrintField(cs, "Expected", cs.Warning, "not configured, checked against the derived address")
		}

		if verbose {
			if len(r.SignDoc) > 0 {
				ui.PrintField(cs, "SignDoc", cs.Normal, string(r.SignDoc))
			}
			if r.Signature != nil {
				ui.PrintField(cs, "Scheme", cs.Type, string(r.Signature.Scheme()))
				ui.PrintField(cs, "Signature", cs.Key, describeSignature(r.Signature))
			}
		}

		if r.Err != nil {
			printError(cs, r.Err)
		}
		cs.Normal.Println()
	}

	message := fmt.Sprintf("%d of %d chains verified", report.Passed, len(report.Results))
	if report.Unchecked > 0 {
		message += fmt.Sprintf(", %d unchecked", report.Unchecked)
	}
	if report.Failed > 0 {
		message += fmt.Sprintf(", %d failed", report.Failed)
	}
	ui.PrintFooter(cs, message)
}

func status(r prover.ChainResult) ui.ChainStatus {
	switch {
	case !r.Verified:
		return ui.StatusFailed
	case !r.Checked():
		return ui.StatusUnchecked
	default:
		return ui.StatusVerified
	}
}

// printError shows expected and actual values for mismatches and the message otherwise
func printError(cs *ui.ColorScheme, err error) {
	var mismatch *crypto.MismatchError
	if errors.As(err, &mismatch) {
		ui.PrintField(cs, "Error", cs.Error, mismatch.Kind.Error())
		ui.PrintField(cs, "Wanted", cs.Error, mismatch.Expected)
		ui.PrintField(cs, "Got", cs.Error, mismatch.Actual)
		return
	}
	ui.PrintField(cs, "Error", cs.Error, err.Error())
}

func describeSignature(sig crypto.Signature) string {
	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(sig)
	if err != nil {
		return hex.EncodeToString(sig.Bytes())
	}
	return string(out)
}
