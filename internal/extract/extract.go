// Package extract pulls the main readable content out of an HTML page and
// renders it as Markdown.
//
// Selection prefers an <article>, then <main> or role="main", then the
// element whose direct paragraphs carry the most text, then <body>.
// Boilerplate such as navigation, headers, footers, forms and scripts is
// dropped before selection.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"memomcp/internal/logging"
)

// ErrArticleNotFound is returned when a page has no extractable content.
var ErrArticleNotFound = errors.New("Article not found")

// boilerplate is removed before any candidate is scored.
const boilerplate = "script, style, noscript, template, iframe, svg, canvas, nav, aside, form, button, input, select, textarea, [hidden], [aria-hidden=true]"

// minParagraphLen is the shortest paragraph that counts toward a score.
const minParagraphLen = 25

// Extractor turns raw HTML into Markdown of the page's main content.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of rawHTML as Markdown, or
// ErrArticleNotFound if nothing readable remains.
func (e *Extractor) Extract(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(boilerplate).Remove()
	// Page-level headers and footers are chrome; inside an article they carry its title.
	doc.Find("header, footer").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("article").Length() == 0 {
			s.Remove()
		}
	})

	candidate, how := pickCandidate(doc)
	if candidate == nil || candidate.Length() == 0 || strings.TrimSpace(candidate.Text()) == "" {
		logging.ExtractDebug("no readable content (%d bytes of HTML)", len(rawHTML))
		return "", ErrArticleNotFound
	}

	md := Markdown(candidate.Nodes[0])
	if md == "" {
		return "", ErrArticleNotFound
	}

	logging.ExtractDebug("extracted %d chars via %s", len(md), how)
	return md, nil
}

func pickCandidate(doc *goquery.Document) (*goquery.Selection, string) {
	if best := longest(doc.Find("article")); best != nil {
		return best, "article"
	}
	if best := longest(doc.Find("main, [role=main]")); best != nil {
		return best, "main"
	}
	if best := bestScored(doc); best != nil {
		return best, "paragraph score"
	}
	return doc.Find("body").First(), "body"
}

// longest returns the selection member with the most text, or nil if all are empty.
func longest(sel *goquery.Selection) *goquery.Selection {
	var best *goquery.Selection
	bestLen := 0
	sel.Each(func(_ int, s *goquery.Selection) {
		if n := len(strings.TrimSpace(s.Text())); n > bestLen {
			best, bestLen = s, n
		}
	})
	return best
}

// bestScored scores each paragraph's parent (fully) and grandparent (half)
// by paragraph length and comma count, and returns the top scorer.
func bestScored(doc *goquery.Document) *goquery.Selection {
	scores := make(map[*html.Node]float64)
	var order []*html.Node

	add := func(n *html.Node, v float64) {
		if n == nil || n.Type != html.ElementNode {
			return
		}
		if _, seen := scores[n]; !seen {
			order = append(order, n)
		}
		scores[n] += v
	}

	doc.Find("p, pre, td").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len(text) < minParagraphLen {
			return
		}
		score := 1 + float64(strings.Count(text, ",")) + min(float64(len(text))/100, 3)
		parent := p.Nodes[0].Parent
		add(parent, score)
		if parent != nil {
			add(parent.Parent, score/2)
		}
	})

	var best *html.Node
	bestScore := 0.0
	for _, n := range order {
		if scores[n] > bestScore {
			best, bestScore = n, scores[n]
		}
	}
	if best == nil {
		return nil
	}
	return doc.FindNodes(best)
}
