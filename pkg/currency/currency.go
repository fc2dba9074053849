package currency

import (
	"fmt"
	"regexp"
)

// NoCurrencyCode is the ISO 20022 sentinel used where an amount is
// denominated in a digital token rather than a listed currency.
const NoCurrencyCode = "XXX"

// fxPattern matches an explicit conversion marker in unstructured
// remittance information, e.g. "FX:EUR/USDC".
var fxPattern = regexp.MustCompile(`FX:(\w+)/(\w+)`)

var digitalCurrencies = map[string]struct{}{
	"USDC": {},
	"USDT": {},
	"XBS":  {},
	"ECNY": {},
	"DEUR": {},
}

// IsDigital reports whether the code names a digital token rather than an
// ISO currency.
func IsDigital(code string) bool {
	_, ok := digitalCurrencies[code]
	return ok
}

// ParseFxRemittance extracts the source and target currency of an FX marker
// from free-text remittance lines. All markers across all lines must agree;
// conflicting markers are ambiguous and rejected.
func ParseFxRemittance(lines []string) (source, target string, err error) {
	for _, line := range lines {
		for _, m := range fxPattern.FindAllStringSubmatch(line, -1) {
			if source != "" && (source != m[1] || target != m[2]) {
				return "", "", fmt.Errorf("ambiguous FX remittance information: %s/%s conflicts with %s/%s", m[1], m[2], source, target)
			}
			source, target = m[1], m[2]
		}
	}
	if source == "" {
		return "", "", fmt.Errorf("no FX marker found in remittance information")
	}
	return source, target, nil
}
