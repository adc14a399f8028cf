package extract

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// parseMoney parses a thousands-separated statement amount like "1,234.56".
func parseMoney(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}

// parseStatementDate parses the dd/mm/yyyy dates the banks print.
func parseStatementDate(s string) (time.Time, error) {
	return time.Parse("02/01/2006", s)
}

// toGTQ converts a USD amount at the fixed statement rate, rounded to
// two decimal places.
func (b base) toGTQ(usd decimal.Decimal) decimal.Decimal {
	return usd.Mul(b.cfg.USDToGTQ).Round(2)
}

// containsAnyFold reports whether the line contains any keyword,
// case-insensitively.
func containsAnyFold(line string, keywords []string) bool {
	lower := strings.ToLower(line)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
