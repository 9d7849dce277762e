package processor

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatThousands 1234567.4 -> "1,234,567"
func FormatThousands(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// FormatCompact 柱状图标签用的简写: 1.23M, 123k, 12.3k, 1,234
func FormatCompact(v float64) string {
	switch {
	case v >= 1_000_000:
		return printer.Sprintf("%.2fM", v/1_000_000)
	case v >= 100_000:
		return printer.Sprintf("%.0fk", v/1_000)
	case v >= 10_000:
		return printer.Sprintf("%.1fk", v/1_000)
	default:
		return printer.Sprintf("%.0f", v)
	}
}
