// Package normalize provides text cleanup and Brazilian-locale numeric
// parsing for invoice extraction.
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// mojibakePattern matches UTF-8 byte pairs that were decoded as Latin-1:
	// "Ã" followed by a symbol/low accent codepoint. Correctly encoded
	// Portuguese only puts "Ã" before letters (SÃO, JOÃO), so a match means
	// the text was double-decoded.
	mojibakePattern = regexp.MustCompile("Ã[§£¡©µ³­ºª¢¼«®¨¯]|Â[°ºª® ]")

	// boilerplate substrings stripped from invoice text. Duplicate-copy
	// watermarks and print artifacts carry no field data and can split
	// labels from their values.
	boilerplate = []string{
		"SEGUNDA VIA",
		"2ª VIA",
		"VIA DO CLIENTE",
		"REIMPRESSÃO",
		"DOCUMENTO SEM VALOR FISCAL",
	}
)

// Text collapses whitespace runs to single spaces, trims, removes known
// boilerplate substrings and repairs double-decoded accented characters.
// Whitespace is collapsed before the boilerplate pass so OCR output like
// "SEGUNDA  VIA" still matches. It is idempotent: Text(Text(s)) == Text(s).
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = repairEncoding(s)
	s = norm.NFC.String(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = stripBoilerplate(s)
	return strings.TrimSpace(s)
}

// stripBoilerplate removes watermark substrings until none remain.
// Removing one watermark can fuse the halves of another around it, so a
// single pass is not enough.
func stripBoilerplate(s string) string {
	for {
		t := s
		for _, b := range boilerplate {
			t = strings.ReplaceAll(t, b, " ")
		}
		t = whitespaceRun.ReplaceAllString(t, " ")
		if t == s {
			return s
		}
		s = t
	}
}

// Document normalizes a multi-line text while preserving line boundaries,
// so row-oriented parsers still see one tabular row per line. Lines that
// normalize to nothing are dropped. Idempotent like Text.
func Document(s string) string {
	if s == "" {
		return ""
	}
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = Text(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// Lines splits raw text into normalized non-trivial lines, preserving line
// boundaries so tabular rows stay intact.
func Lines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = Text(l)
		if len(l) > 3 {
			out = append(out, l)
		}
	}
	return out
}

// repairEncoding reverses one round of UTF-8-as-Latin-1 decoding. It only
// rewrites the text when mojibake sequences are present and the rewritten
// form is valid UTF-8 without them, so already-clean text passes through.
func repairEncoding(s string) string {
	if !mojibakePattern.MatchString(s) {
		return s
	}
	raw, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return s
	}
	if !utf8.ValidString(raw) || mojibakePattern.MatchString(raw) {
		return s
	}
	return raw
}

// StripSubstring removes every occurrence of sub from s and re-collapses
// the surrounding whitespace. Used by assemblers to drop a field value that
// was accidentally captured inside another field.
func StripSubstring(s, sub string) string {
	if sub == "" {
		return s
	}
	return Text(strings.ReplaceAll(s, sub, " "))
}
