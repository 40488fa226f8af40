// Package banner prints the console messages shown when the server starts and stops.
package banner

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"analyticshub/config"
)

// Separator is the rule printed around the banner
var Separator = strings.Repeat("=", 60)

var (
	titleColor = color.New(color.FgGreen, color.Bold)
	urlColor   = color.New(color.FgCyan, color.Underline)
)

// PrintStartup writes the startup banner for cfg to w.
func PrintStartup(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, Separator)
	titleColor.Fprintln(w, "🚀 Analytics Hub Server Running")
	fmt.Fprintln(w, Separator)
	fmt.Fprintln(w, "\n📊 Access your Analytics Hub at:")
	fmt.Fprint(w, "   ")
	urlColor.Fprintln(w, cfg.LandingURL())
	fmt.Fprintln(w, "\n📁 Serving files from:")
	fmt.Fprintf(w, "   %s\n", cfg.RootDir)
	fmt.Fprintln(w, "\n⚡ Press Ctrl+C to stop the server")
	fmt.Fprintln(w)
	fmt.Fprintln(w, Separator)
}

// PrintShutdown writes the message shown after an interrupt.
func PrintShutdown(w io.Writer) {
	fmt.Fprintln(w, "\n\n✋ Server stopped by user")
	fmt.Fprintln(w, Separator)
}
