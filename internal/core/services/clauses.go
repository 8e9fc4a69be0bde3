package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/taxclause/internal/core/domain"
)

const (
	// snippetBefore and snippetAfter are the context widths, in characters,
	// taken around a match when building its snippet.
	snippetBefore = 80
	snippetAfter  = 120

	// wsClass is the body of a character class matching the whitespace set
	// contract text may use between words, including Unicode separators.
	wsClass = `\s\v\x{1c}-\x{1f}\x{85}\p{Z}`
)

// ClausePattern pairs a clause category with its compiled matcher.
type ClausePattern struct {
	Category domain.ClauseCategory
	re       *regexp.Regexp
}

// NewClausePattern compiles expr case-insensitively for category.
func NewClausePattern(category domain.ClauseCategory, expr string) (ClausePattern, error) {
	re, err := regexp.Compile(`(?i)` + expr)
	if err != nil {
		return ClausePattern{}, fmt.Errorf("compiling %s pattern: %w", category, err)
	}
	return ClausePattern{Category: category, re: re}, nil
}

func mustClausePattern(category domain.ClauseCategory, expr string) ClausePattern {
	p, err := NewClausePattern(category, expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern source.
func (p ClausePattern) String() string {
	if p.re == nil {
		return ""
	}
	return p.re.String()
}

// scan calls fn with the byte range of every non-overlapping match in text,
// left to right. Patterns carry no \b of their own; a candidate must start
// and end on a Unicode word boundary, otherwise it is rejected and scanning
// resumes one character after its start.
func (p ClausePattern) scan(text string, fn func(start, end int)) {
	pos := 0
	for pos <= len(text) {
		loc := p.re.FindStringIndex(text[pos:])
		if loc == nil {
			return
		}
		start, end := pos+loc[0], pos+loc[1]

		if end > start && atWordBoundary(text, start) && atWordBoundary(text, end) {
			fn(start, end)
			pos = end
			continue
		}

		if start >= len(text) {
			return
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}
}

// Catalogue is an immutable, ordered list of clause patterns.
// Extraction output is grouped by catalogue order.
type Catalogue struct {
	patterns []ClausePattern
}

// NewCatalogue builds a catalogue from patterns in the given order.
func NewCatalogue(patterns ...ClausePattern) *Catalogue {
	c := &Catalogue{patterns: make([]ClausePattern, len(patterns))}
	copy(c.patterns, patterns)
	return c
}

// defaultCatalogue is built once at startup and never mutated.
var defaultCatalogue = NewCatalogue(
	mustClausePattern(domain.ClauseWithholdingTax,
		`withholding[`+wsClass+`]+tax|tax[`+wsClass+`]+withheld|WHT`),
	mustClausePattern(domain.ClauseGrossUp,
		`gross-?up`),
	mustClausePattern(domain.ClauseVAT,
		`VAT|value[-`+wsClass+`]?added[`+wsClass+`]+tax|sales[`+wsClass+`]+tax`),
	mustClausePattern(domain.ClauseGoverningLaw,
		`governing[`+wsClass+`]+law`),
)

// DefaultCatalogue returns the built-in tax clause catalogue:
// WithholdingTax, GrossUp, VAT and GoverningLaw, in that order.
func DefaultCatalogue() *Catalogue {
	return defaultCatalogue
}

// Patterns returns a copy of the catalogue's patterns in order.
func (c *Catalogue) Patterns() []ClausePattern {
	out := make([]ClausePattern, len(c.patterns))
	copy(out, c.patterns)
	return out
}

// Categories returns the catalogue's categories in order.
func (c *Catalogue) Categories() []domain.ClauseCategory {
	out := make([]domain.ClauseCategory, len(c.patterns))
	for i, p := range c.patterns {
		out[i] = p.Category
	}
	return out
}

// Extract returns every clause match in text. Matches are grouped by
// catalogue order, then sorted by position. A substring matched by two
// categories is reported under both. The result is never nil.
func (c *Catalogue) Extract(text string) []domain.ClauseMatch {
	matches := make([]domain.ClauseMatch, 0)

	for _, p := range c.patterns {
		var cursor runeCursor
		p.scan(text, func(start, end int) {
			runeStart := cursor.advance(text, start)
			runeEnd := runeStart + utf8.RuneCountInString(text[start:end])

			matches = append(matches, domain.ClauseMatch{
				Name:    p.Category,
				Match:   text[start:end],
				Span:    domain.Span{runeStart, runeEnd},
				Snippet: snippet(text, start, end),
			})
		})
	}

	return matches
}

// ExtractClauses runs the default catalogue over text.
func ExtractClauses(text string) []domain.ClauseMatch {
	return defaultCatalogue.Extract(text)
}

// runeCursor converts increasing byte offsets to character offsets
// without rescanning the text from the start each time.
type runeCursor struct {
	byteOff int
	runeOff int
}

func (c *runeCursor) advance(text string, byteOff int) int {
	c.runeOff += utf8.RuneCountInString(text[c.byteOff:byteOff])
	c.byteOff = byteOff
	return c.runeOff
}

// snippet returns the text from snippetBefore characters before start to
// snippetAfter characters after end, clipped to the text and trimmed.
func snippet(text string, start, end int) string {
	from := start
	for i := 0; i < snippetBefore && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}

	to := end
	for i := 0; i < snippetAfter && to < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}

	return strings.TrimFunc(text[from:to], isSpace)
}

// isSpace reports whether r is whitespace for snippet trimming.
// It extends unicode.IsSpace with the ASCII information separators.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// isWordRune reports whether r is a word character: a letter, a number
// or an underscore in any script.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// atWordBoundary reports whether byte offset i of text sits between a word
// and a non-word character, treating both text edges as non-word.
func atWordBoundary(text string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:i])
		before = isWordRune(r)
	}
	if i < len(text) {
		r, _ := utf8.DecodeRuneInString(text[i:])
		after = isWordRune(r)
	}
	return before != after
}
