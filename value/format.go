package value

import "strconv"

// FormatNum renders a Num the way str()/print do: shortest round-trip
// decimal, with a trailing ".0" reduced to a bare integer literal per
// spec §4.5 ("integral-valued Nums may omit
// the decimal point"). Exact scientific-notation thresholds are left to
// Go's shortest-round-trip algorithm — spec §9 marks exact formatting rules
// as unspecified.
func FormatNum(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if len(s) >= 2 && s[len(s)-2] == '.' && s[len(s)-1] == '0' {
		return s[:len(s)-2]
	}
	return s
}

func (n Num) String() string { return FormatNum(n.Val) }
