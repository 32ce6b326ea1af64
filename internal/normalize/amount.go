package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var amountDigits = regexp.MustCompile(`^\d+(?:\.\d{3})*(?:,\d+)?$|^\d+(?:,\d+)?$`)

// Amount parses a Brazilian-locale monetary or energy quantity string
// ("1.234,56", "R$ 150,00", "-120,00") into a float. The thousands
// separator is "." and the decimal separator is ",". A minus sign anywhere
// in the token makes the result negative. Returns nil on unparseable input,
// never an error.
func Amount(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)

	negative := strings.Contains(s, "-")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || !amountDigits.MatchString(s) {
		return nil
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if negative {
		v = -v
	}
	return &v
}

// FormatAmount renders a float back into the invoice locale ("1234.56" ->
// "1.234,56") with two decimal places.
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	parts := strings.SplitN(s, ".", 2)
	intPart, decPart := parts[0], parts[1]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := fmt.Sprintf("%s,%s", strings.Join(groups, "."), decPart)
	if neg {
		out = "-" + out
	}
	return out
}

// Int parses a plain integer token, returning nil on unparseable input.
func Int(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// Percent parses a rate token like "17,50" or "17,50%" into a float.
func Percent(raw string) *float64 {
	s := strings.TrimSuffix(strings.TrimSpace(raw), "%")
	return Amount(s)
}

// monthAbbrev maps Portuguese month abbreviations to zero-padded numbers.
var monthAbbrev = map[string]string{
	"JAN": "01", "FEV": "02", "MAR": "03", "ABR": "04",
	"MAI": "05", "JUN": "06", "JUL": "07", "AGO": "08",
	"SET": "09", "OUT": "10", "NOV": "11", "DEZ": "12",
}

// MonthYear converts a compact history period token ("SET25") into the
// "09/2025" form used by reference months. Unrecognized tokens are
// returned unchanged.
func MonthYear(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if len(s) != 5 {
		return raw
	}
	m, ok := monthAbbrev[s[:3]]
	if !ok {
		return raw
	}
	return m + "/20" + s[3:]
}

// Phases normalizes a supply-phase description to mono/bi/tri.
func Phases(raw string) *string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return nil
	}
	for _, p := range []string{"mono", "bi", "tri"} {
		if strings.HasPrefix(s, p) {
			v := p
			return &v
		}
	}
	return &s
}

// Digits strips every non-digit rune, for identifier comparison.
func Digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
