package extract

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Pre-compile regex patterns to avoid recompilation overhead
var (
	whitespacePattern   = regexp.MustCompile(`[ \t\r\n\f]+`)
	multiSpacePattern   = regexp.MustCompile(`[ \t]{2,}`)
	multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
)

const maxDepth = 200

const fence = "```"

// Markdown renders the children of n as Markdown.
func Markdown(n *html.Node) string {
	r := &renderer{}
	r.children(n, 0)
	return cleanMarkdown(r.sb.String())
}

type renderer struct {
	sb strings.Builder
}

func (r *renderer) children(n *html.Node, depth int) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.node(c, depth+1)
	}
}

// inline renders n's children on their own and returns the collapsed text.
func (r *renderer) inline(n *html.Node, depth int) string {
	sub := &renderer{}
	sub.children(n, depth)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(sub.sb.String(), " "))
}

func (r *renderer) block(s string) {
	r.sb.WriteString("\n\n")
	r.sb.WriteString(s)
	r.sb.WriteString("\n\n")
}

func (r *renderer) node(n *html.Node, depth int) {
	if depth > maxDepth {
		return // Prevent excessive recursion
	}

	switch n.Type {
	case html.TextNode:
		r.sb.WriteString(whitespacePattern.ReplaceAllString(n.Data, " "))
		return
	case html.ElementNode:
	default:
		r.children(n, depth)
		return
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if text := r.inline(n, depth); text != "" {
			level := int(n.Data[1] - '0')
			r.block(strings.Repeat("#", level) + " " + text)
		}

	case "p", "div", "section", "article", "main", "header", "footer", "figure", "figcaption", "details", "summary", "dl", "dd", "dt":
		r.sb.WriteString("\n\n")
		r.children(n, depth)
		r.sb.WriteString("\n\n")

	case "br":
		r.sb.WriteString("\n")

	case "hr":
		r.block("---")

	case "blockquote":
		sub := &renderer{}
		sub.children(n, depth)
		body := cleanMarkdown(sub.sb.String())
		if body != "" {
			lines := strings.Split(body, "\n")
			for i, line := range lines {
				lines[i] = strings.TrimRight("> "+line, " ")
			}
			r.block(strings.Join(lines, "\n"))
		}

	case "ul", "ol":
		r.list(n, depth)

	case "li":
		// Orphan list item outside ul/ol.
		if text := r.inline(n, depth); text != "" {
			r.sb.WriteString("\n- " + text + "\n")
		}

	case "pre":
		code := strings.Trim(textContent(n), "\n")
		if code != "" {
			r.block(fence + "\n" + code + "\n" + fence)
		}

	case "code", "kbd", "samp":
		if text := strings.TrimSpace(textContent(n)); text != "" {
			r.sb.WriteString("`" + text + "`")
		}

	case "strong", "b":
		r.wrap(n, depth, "**")

	case "em", "i":
		r.wrap(n, depth, "*")

	case "del", "s", "strike":
		r.wrap(n, depth, "~~")

	case "a":
		text := r.inline(n, depth)
		href := strings.TrimSpace(attr(n, "href"))
		switch {
		case text == "":
		case href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:"):
			r.sb.WriteString(text)
		default:
			fmt.Fprintf(&r.sb, "[%s](%s)", text, href)
		}

	case "img":
		src := strings.TrimSpace(attr(n, "src"))
		if src != "" {
			fmt.Fprintf(&r.sb, "![%s](%s)", strings.TrimSpace(attr(n, "alt")), src)
		}

	case "table":
		r.table(n, depth)

	case "script", "style", "noscript", "template", "head", "title", "meta", "link":
		// Never content.

	default:
		r.children(n, depth)
	}
}

func (r *renderer) wrap(n *html.Node, depth int, marker string) {
	if text := r.inline(n, depth); text != "" {
		r.sb.WriteString(marker + text + marker)
	}
}

func (r *renderer) list(n *html.Node, depth int) {
	ordered := n.Data == "ol"
	var items []string
	num := 1
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}

		sub := &renderer{}
		sub.children(c, depth+1)
		text := cleanMarkdown(sub.sb.String())
		if text == "" {
			continue
		}

		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		// Continuation lines of multi-line items keep their own content flush left.
		items = append(items, marker+strings.ReplaceAll(text, "\n\n", "\n"))
	}
	if len(items) > 0 {
		r.block(strings.Join(items, "\n"))
	}
}

func (r *renderer) table(n *html.Node, depth int) {
	var rows [][]string
	headerRow := false

	var walk func(*html.Node)
	walk = func(m *html.Node) {
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "tr":
				var cells []string
				for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type == html.ElementNode && (cell.Data == "td" || cell.Data == "th") {
						if len(rows) == 0 && cell.Data == "th" {
							headerRow = true
						}
						cells = append(cells, strings.ReplaceAll(r.inline(cell, depth), "|", `\|`))
					}
				}
				if len(cells) > 0 {
					rows = append(rows, cells)
				}
			case "thead", "tbody", "tfoot":
				walk(c)
			}
		}
	}
	walk(n)

	if len(rows) == 0 {
		return
	}

	var lines []string
	for i, row := range rows {
		lines = append(lines, "| "+strings.Join(row, " | ")+" |")
		if i == 0 && headerRow {
			seps := make([]string, len(row))
			for j := range seps {
				seps[j] = "---"
			}
			lines = append(lines, "| "+strings.Join(seps, " | ")+" |")
		}
	}
	r.block(strings.Join(lines, "\n"))
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(m *html.Node) {
		if m.Type == html.TextNode {
			sb.WriteString(m.Data)
		}
		if m.Type == html.ElementNode && m.Data == "br" {
			sb.WriteString("\n")
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// cleanMarkdown removes excessive whitespace outside fenced code blocks.
func cleanMarkdown(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	for _, line := range lines {
		if strings.TrimSpace(line) == fence {
			inFence = !inFence
			out = append(out, fence)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}
		line = multiSpacePattern.ReplaceAllString(line, " ")
		out = append(out, strings.TrimSpace(line))
	}

	s = strings.Join(out, "\n")
	s = collapseBlankLines(s)
	return strings.TrimSpace(s)
}

// collapseBlankLines squeezes runs of blank lines to one, leaving fenced
// code untouched.
func collapseBlankLines(s string) string {
	parts := strings.Split(s, fence)
	for i := 0; i < len(parts); i += 2 {
		parts[i] = multiNewlinePattern.ReplaceAllString(parts[i], "\n\n")
	}
	return strings.Join(parts, fence)
}
