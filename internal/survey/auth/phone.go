package auth

import "strings"

// Indian numbering plan: national-trunk calls are dialed with a leading 0,
// which is dropped when the country code is applied.
const (
	defaultCountryCode = "+91"
	trunkPrefix        = "0"
)

// NormalizePhone canonicalizes a phone number to "+<country><number>" form.
// All characters except digits are stripped; a single leading '+' survives.
// Inputs without a country code get the default one, with a leading trunk
// zero dropped first. The function is idempotent.
func NormalizePhone(input string) string {
	var b strings.Builder
	for i, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if cleaned == "" || cleaned == "+" {
		return ""
	}
	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}
	if strings.HasPrefix(cleaned, trunkPrefix) {
		return defaultCountryCode + strings.TrimPrefix(cleaned, trunkPrefix)
	}
	return defaultCountryCode + cleaned
}

// lookupTiers returns the phone strings to try against the user store, in
// order. Historically the store has held numbers in three shapes: canonical
// ("+91..."), bare national digits, and whatever the form submitted. All
// three must be tried so legacy accounts keep working; first match wins.
func lookupTiers(rawInput string) []string {
	normalized := NormalizePhone(rawInput)

	tiers := make([]string, 0, 3)
	appendTier := func(phone string) {
		if phone == "" {
			return
		}
		for _, seen := range tiers {
			if seen == phone {
				return
			}
		}
		tiers = append(tiers, phone)
	}

	appendTier(normalized)
	appendTier(strings.TrimPrefix(normalized, defaultCountryCode))
	appendTier(strings.TrimSpace(rawInput))
	return tiers
}
