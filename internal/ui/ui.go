package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// Brand colors
var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

const Star = "✦"

// Banner prints the constellation banner.
func Banner(subtitle string) {
	fmt.Printf("%s %s · %s\n\n", Star, Brand.Sprint("constellation"), subtitle)
}

// KeyValue prints an aligned key/value line.
func KeyValue(key string, value any) {
	fmt.Printf("  %s %v\n", Subtle.Sprintf("%-12s", key), value)
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}
