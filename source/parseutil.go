package source

import (
	"strconv"
	"strings"
)

// SafeInt coerces v to an int, returning (0, false) instead of erroring --
// JSON API and HTML sources routinely emit "", null, or "--" for missing
// numeric fields (spec.md section 4.8, "total functions never fail on
// missing input").
func SafeInt(v any) (int, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" || s == "--" || s == "-" {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// SafeFloat coerces v to a float64, returning (0, false) on missing/invalid
// input.
func SafeFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" || s == "--" || s == "-" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ParseTimeMMSS parses an "MM:SS" string (HTML report time-on-ice cells,
// shift chart durations) into total seconds. Returns (0, false) for
// malformed input rather than erroring.
func ParseTimeMMSS(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	mins, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	secs, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || secs < 0 || secs > 59 {
		return 0, false
	}
	return mins*60 + secs, true
}

// FormatMMSS is the inverse of ParseTimeMMSS, used when re-serializing
// derived TOI values for persistence or display.
func FormatMMSS(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return pad2(totalSeconds/60) + ":" + pad2(totalSeconds%60)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// nicknames maps a common short form to the set of full names it can stand
// in for, used by NamesMatch to bridge "Mike Smith" vs "Michael Smith"
// style source disagreements (spec.md section 4.9's name-reconciliation
// cross-source rule, and SPEC_FULL.md's supplemented name-matching rule).
var nicknames = map[string]string{
	"mike": "michael", "matt": "matthew", "chris": "christopher",
	"alex": "alexander", "nick": "nicholas", "zach": "zachary",
	"jake": "jacob", "josh": "joshua", "dan": "daniel", "sam": "samuel",
	"will": "william", "bill": "william", "rob": "robert", "bob": "robert",
	"tom": "thomas", "ben": "benjamin", "joe": "joseph", "steve": "steven",
	"tony": "anthony", "andy": "andrew", "drew": "andrew", "pat": "patrick",
	"jim": "james", "jimmy": "james", "charlie": "charles", "greg": "gregory",
}

// NormalizeName lowercases, strips punctuation, and collapses whitespace,
// the canonical form used before comparing names across sources.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r == ' ':
			b.WriteRune(r)
		case r == '-' || r == '\'' || r == '.':
			// dropped: "O'Brien" vs "OBrien", "St. Louis" vs "St Louis"
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NamesMatch reports whether a and b plausibly refer to the same person:
// exact match after normalization, nickname substitution on the first
// token, or initial-vs-full-name on the first token with an exact surname
// match (e.g. "J. Smith" vs "John Smith").
func NamesMatch(a, b string) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == nb {
		return true
	}
	pa, pb := strings.Fields(na), strings.Fields(nb)
	if len(pa) == 0 || len(pb) == 0 {
		return false
	}
	first := func(tokens []string) string { return tokens[0] }
	last := func(tokens []string) string { return tokens[len(tokens)-1] }
	if last(pa) != last(pb) {
		return false
	}
	fa, fb := first(pa), first(pb)
	if fa == fb {
		return true
	}
	if canonicalFirst(fa) == canonicalFirst(fb) {
		return true
	}
	if isInitialOf(fa, fb) || isInitialOf(fb, fa) {
		return true
	}
	return SimilarityRatio(na, nb) >= 0.9
}

func canonicalFirst(name string) string {
	if full, ok := nicknames[name]; ok {
		return full
	}
	return name
}

func isInitialOf(initial, full string) bool {
	trimmed := strings.TrimSuffix(initial, ".")
	return len(trimmed) == 1 && strings.HasPrefix(full, trimmed)
}

// SimilarityRatio is a Ratcliff/Obershelp-style string similarity score in
// [0,1]: twice the total length of matching blocks over the combined
// length of a and b. Used as NamesMatch's fallback when nickname/initial
// rules don't resolve a near-miss (e.g. OCR-mangled HTML report names).
func SimilarityRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	matches := matchingBlockLength(a, b)
	return 2 * float64(matches) / float64(len(a)+len(b))
}

func matchingBlockLength(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	bestLen, bestAI, bestBI := 0, 0, 0
	for ai := 0; ai < len(a); ai++ {
		for bi := 0; bi < len(b); bi++ {
			l := 0
			for ai+l < len(a) && bi+l < len(b) && a[ai+l] == b[bi+l] {
				l++
			}
			if l > bestLen {
				bestLen, bestAI, bestBI = l, ai, bi
			}
		}
	}
	if bestLen == 0 {
		return 0
	}
	total := bestLen
	total += matchingBlockLength(a[:bestAI], b[:bestBI])
	total += matchingBlockLength(a[bestAI+bestLen:], b[bestBI+bestLen:])
	return total
}
