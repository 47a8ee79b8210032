package claim

import "golang.org/x/text/unicode/norm"

// NormalizeText returns s in Unicode NFC form.
// Stored text and search terms both pass through it so that composed and
// decomposed spellings compare equal.
func NormalizeText(s string) string {
	return norm.NFC.String(s)
}
