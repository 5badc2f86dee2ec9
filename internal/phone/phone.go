// Package phone normalizes phone-number identities and expands them into the
// candidate keys a contact may be stored under. Brazilian mobile numbers are
// stored inconsistently with and without the ninth digit, so both forms are
// generated and probed in order.
package phone

import "strings"

const brazilCountryCode = "55"

// Normalize strips surrounding whitespace and a leading +.
// Normalize is idempotent.
func Normalize(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "+")
}

// Variations expands a normalized number into the ordered candidate keys to
// probe. The normalized key comes first, then its +-prefixed form, then any
// Brazilian ninth-digit variants. Duplicates are removed keeping first-seen
// order; the first existing record wins, so order is significant.
func Variations(normalized string) []string {
	candidates := []string{normalized, "+" + normalized}

	if strings.HasPrefix(normalized, brazilCountryCode) {
		switch len(normalized) {
		case 12:
			// 55 + 2-digit area code + 8-digit local number: insert the
			// mobile ninth digit after the area code.
			area, local := normalized[2:4], normalized[4:]
			if len(local) == 8 {
				withNinth := brazilCountryCode + area + "9" + local
				candidates = append(candidates, withNinth, "+"+withNinth)
			}
		case 13:
			// 55 + 2-digit area code + 9 + 8-digit local number: drop the
			// ninth digit.
			if normalized[4] == '9' {
				withoutNinth := brazilCountryCode + normalized[2:4] + normalized[5:]
				candidates = append(candidates, withoutNinth, "+"+withoutNinth)
			}
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}
