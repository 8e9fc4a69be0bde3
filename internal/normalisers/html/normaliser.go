package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driven"
	"github.com/custodia-labs/taxclause/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser turns HTML contracts, such as exports from document
// editors and e-signature tools, into plain text.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise strips markup and returns the readable contract text. The
// title is taken from <title>, then the first <h1>, then the file name.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	doc := string(raw.Content)

	return &driven.NormaliseResult{
		Title:   contractTitle(doc, raw.URI),
		Content: stripHTML(doc),
	}, nil
}

var (
	titleTag   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	headingTag = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	anyTag     = regexp.MustCompile(`<[^>]+>`)
	comment    = regexp.MustCompile(`(?s)<!--.*?-->`)

	// dropped elements never hold contract wording.
	dropped = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`),
		regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`),
		regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`),
	}

	// Block boundaries become line breaks so clauses stay on their own lines.
	blockOpen  = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	blockClose = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	lineBreak  = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)

	// Cell boundaries become spaces so words in adjacent cells stay apart.
	cellClose = regexp.MustCompile(`(?i)</t[dh]>`)

	spaceRun = regexp.MustCompile(`[ \t]+`)
)

// invisible drops characters editors insert that would split a clause
// phrase: soft hyphens and zero-width spaces and joiners.
var invisible = strings.NewReplacer(
	"\u00ad", "",
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
)

func contractTitle(doc, uri string) string {
	for _, re := range []*regexp.Regexp{titleTag, headingTag} {
		if m := re.FindStringSubmatch(doc); len(m) > 1 {
			title := strings.TrimSpace(html.UnescapeString(anyTag.ReplaceAllString(m[1], "")))
			if title != "" {
				return title
			}
		}
	}
	return normalisers.TitleFromURI(uri)
}

// stripHTML removes markup and returns one trimmed, non-empty line per block.
func stripHTML(doc string) string {
	for _, re := range dropped {
		doc = re.ReplaceAllString(doc, "")
	}
	doc = comment.ReplaceAllString(doc, "")

	doc = blockOpen.ReplaceAllString(doc, "\n")
	doc = blockClose.ReplaceAllString(doc, "\n")
	doc = lineBreak.ReplaceAllString(doc, "\n")
	doc = cellClose.ReplaceAllString(doc, " ")
	doc = anyTag.ReplaceAllString(doc, "")

	doc = invisible.Replace(html.UnescapeString(doc))
	doc = spaceRun.ReplaceAllString(doc, " ")

	lines := strings.Split(doc, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
