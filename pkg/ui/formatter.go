package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const (
	// BoxWidth is the standard width for display boxes
	BoxWidth = 80

	// labelWidth aligns the values printed by PrintField
	labelWidth = 10
)

// ColorScheme defines a set of colors for consistent UI formatting
type ColorScheme struct {
	Header   *color.Color // For box borders and section headers
	Title    *color.Color // For main titles
	Subtitle *color.Color // For section titles
	Normal   *color.Color // For normal text
	Param    *color.Color // For parameter names
	Path     *color.Color // For derivation paths
	Address  *color.Color // For account addresses
	Chain    *color.Color // For chain indicators
	Type     *color.Color // For signature schemes
	Result   *color.Color // For result messages
	Key      *color.Color // For public keys and signatures
	Example  *color.Color // For example commands
	Success  *color.Color // For verified chains
	Warning  *color.Color // For unchecked addresses
	Error    *color.Color // For failures
}

// DefaultColorScheme returns the default color scheme for the application
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:   color.New(color.FgBlue, color.Bold),
		Title:    color.New(color.FgHiWhite, color.Bold),
		Subtitle: color.New(color.FgBlue),
		Normal:   color.New(color.FgWhite),
		Param:    color.New(color.FgCyan),
		Path:     color.New(color.FgCyan),
		Address:  color.New(color.FgGreen),
		Chain:    color.New(color.FgYellow),
		Type:     color.New(color.FgHiWhite, color.Bold),
		Result:   color.New(color.FgBlue),
		Key:      color.New(color.FgHiCyan),
		Example:  color.New(color.FgGreen),
		Success:  color.New(color.FgGreen, color.Bold),
		Warning:  color.New(color.FgYellow, color.Bold),
		Error:    color.New(color.FgRed),
	}
}

// newline writes to the same output as the color printers
func newline() {
	fmt.Fprintln(color.Output)
}

// printBox prints text inside a rounded box
func printBox(cs *ColorScheme, text *color.Color, message string) {
	// Allow 6 chars for "│  " and " │"
	if len(message) > BoxWidth-6 {
		message = message[:BoxWidth-9] + "..."
	}
	padding := BoxWidth - 4 - len(message)
	if padding < 0 {
		padding = 0
	}
	border := strings.Repeat("─", BoxWidth-2)

	newline()
	cs.Header.Println("╭" + border + "╮")
	cs.Header.Print("│  ")
	text.Print(message)
	cs.Header.Printf("%s│\n", strings.Repeat(" ", padding))
	cs.Header.Println("╰" + border + "╯")
	newline()
}

// PrintHeader prints a formatted header box with the given title
func PrintHeader(cs *ColorScheme, title string) {
	printBox(cs, cs.Title, title)
}

// PrintFooter prints a formatted footer box with the given message
func PrintFooter(cs *ColorScheme, message string) {
	printBox(cs, cs.Result, message)
}

// PrintOption prints a command line option with description
func PrintOption(cs *ColorScheme, flag, description string) {
	cs.Normal.Print("  ")
	cs.Param.Print(flag)
	cs.Normal.Println(description)
}

// PrintExample prints a usage example
func PrintExample(cs *ColorScheme, example, description string) {
	cs.Example.Printf("  %s", example)
	if description != "" {
		cs.Example.Printf("  # %s", description)
	}
	newline()
}

// PrintSectionHeader prints a section header
func PrintSectionHeader(cs *ColorScheme, title string) {
	cs.Subtitle.Println(title)
}

// ChainStatus is the outcome shown in a chain's result header
type ChainStatus int

const (
	StatusFailed ChainStatus = iota
	StatusVerified
	// StatusUnchecked means the signature verified but no expected address was configured
	StatusUnchecked
)

// PrintChainHeader prints the header of one chain's result block
func PrintChainHeader(cs *ColorScheme, number int, chain string, status ChainStatus) {
	cs.Chain.Printf("Chain #%d: ", number)
	cs.Type.Print(chain)
	switch status {
	case StatusVerified:
		cs.Success.Println("  VERIFIED")
	case StatusUnchecked:
		cs.Warning.Println("  UNCHECKED")
	default:
		cs.Error.Println("  FAILED")
	}
}

// PrintField prints an aligned "label: value" line, the value in the given color
func PrintField(cs *ColorScheme, label string, value *color.Color, text string) {
	cs.Result.Printf("  %-*s", labelWidth, label+":")
	value.Println(text)
}
