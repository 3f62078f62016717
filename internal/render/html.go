package render

import (
	"strings"
	"unicode/utf8"

	xhtml "golang.org/x/net/html"
)

// HTMLToText flattens an HTML document (typically a proxy or framework
// error page) to plain text. Block elements become line breaks, script and
// style contents are dropped, and runs of whitespace collapse to one space.
func HTMLToText(raw string) string {
	if raw == "" {
		return ""
	}

	tokenizer := xhtml.NewTokenizer(strings.NewReader(raw))
	var sb strings.Builder
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			return tidy(sb.String())

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "script", "style":
				if tt == xhtml.StartTagToken {
					skipDepth++
				}
			case "br", "p", "div", "li", "tr", "title",
				"h1", "h2", "h3", "h4", "h5", "h6":
				sb.WriteString("\n")
			}

		case xhtml.EndTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "script", "style":
				if skipDepth > 0 {
					skipDepth--
				}
			case "p", "div", "li", "tr", "title",
				"h1", "h2", "h3", "h4", "h5", "h6":
				sb.WriteString("\n")
			}

		case xhtml.TextToken:
			if skipDepth > 0 {
				continue
			}
			sb.Write(tokenizer.Text())
		}
	}
}

// tidy collapses whitespace inside each line and drops empty lines.
func tidy(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Wrap word-wraps text to width columns, keeping existing line breaks. A
// word longer than width gets a line of its own. Width <= 0 returns text
// unchanged.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var result strings.Builder
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}
		lineLen := 0
		for i, word := range words {
			wlen := utf8.RuneCountInString(word)
			if i > 0 && lineLen+1+wlen > width {
				result.WriteString("\n")
				lineLen = 0
			} else if i > 0 {
				result.WriteString(" ")
				lineLen++
			}
			result.WriteString(word)
			lineLen += wlen
		}
		result.WriteString("\n")
	}
	return strings.TrimRight(result.String(), "\n")
}
