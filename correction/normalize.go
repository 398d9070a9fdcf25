package correction

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalizer turns source text into the form used as a lookup key.
// Surrounding whitespace is always trimmed and the text is put in NFC.
// The zero value is case-sensitive.
type Normalizer struct {
	// CaseFold makes matching case-insensitive using Unicode case folding.
	CaseFold bool
	// CollapseSpace replaces runs of internal whitespace with a single space.
	CollapseSpace bool
}

// Normalize returns the lookup form of s.
func (n Normalizer) Normalize(s string) string {
	s = strings.TrimSpace(s)
	if n.CollapseSpace {
		s = strings.Join(strings.Fields(s), " ")
	}
	s = norm.NFC.String(s)
	if n.CaseFold {
		// Casers carry state and must not be shared between goroutines.
		s = cases.Fold().String(s)
	}
	return s
}

// NormalizeLang reduces a language code to its lower-case base form, so
// "zh-CN", "zh_cn" and "ZH" all become "zh".
func NormalizeLang(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "_-"); i > 0 {
		code = code[:i]
	}
	return code
}
