// Package render turns server and console markup into terminal text.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xhtml "golang.org/x/net/html"
)

// ToText converts the limited HTML used by course descriptions and console
// replies to wrapped plain text. Supported: <p>, <br>, <strong>/<b>, <em>/<i>,
// <code>, <pre>, <span class="hl"> and HTML entities. hl styles highlighted
// and bold runs; nil leaves them unstyled.
func ToText(raw string, width int, hl func(string) string) string {
	if raw == "" {
		return ""
	}
	if hl == nil {
		hl = func(s string) string { return s }
	}

	// The tokenizer unescapes entities in text tokens, so &lt;iostream&gt;
	// stays text instead of becoming a tag.
	tokenizer := xhtml.NewTokenizer(strings.NewReader(raw))
	var sb strings.Builder
	var inPre, inCode bool
	var spans []bool // per open span: is it a highlight
	strong := 0

	highlighted := func() bool {
		if strong > 0 {
			return true
		}
		for _, h := range spans {
			if h {
				return true
			}
		}
		return false
	}

	for {
		tt := tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			return Wrap(strings.TrimSpace(sb.String()), width)

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "p":
				if sb.Len() > 0 {
					sb.WriteString("\n\n")
				}
			case "br":
				sb.WriteString("\n")
			case "strong", "b":
				strong++
			case "i", "em":
				sb.WriteString("*")
			case "code":
				if !inPre {
					sb.WriteString("`")
				}
				inCode = true
			case "pre":
				inPre = true
				sb.WriteString("\n")
			case "span":
				spans = append(spans, hasClass(t, "hl"))
			}

		case xhtml.EndTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "strong", "b":
				if strong > 0 {
					strong--
				}
			case "i", "em":
				sb.WriteString("*")
			case "code":
				if !inPre {
					sb.WriteString("`")
				}
				inCode = false
			case "pre":
				inPre = false
				sb.WriteString("\n")
			case "span":
				if len(spans) > 0 {
					spans = spans[:len(spans)-1]
				}
			}

		case xhtml.TextToken:
			text := tokenizer.Token().Data
			switch {
			case inPre:
				// Preserve whitespace in pre blocks, indent with 4 spaces.
				for i, line := range strings.Split(text, "\n") {
					if i > 0 {
						sb.WriteString("\n")
					}
					if line != "" {
						sb.WriteString("    ")
						sb.WriteString(line)
					}
				}
			case inCode:
				sb.WriteString(text)
			case highlighted():
				sb.WriteString(styleWords(text, hl))
			default:
				sb.WriteString(text)
			}
		}
	}
}

func hasClass(t xhtml.Token, class string) bool {
	for _, attr := range t.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

// styleWords styles each word on its own so wrapping never splits an
// escape sequence.
func styleWords(text string, style func(string) string) string {
	var sb strings.Builder
	word := strings.Builder{}
	flush := func() {
		if word.Len() > 0 {
			sb.WriteString(style(word.String()))
			word.Reset()
		}
	}
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			flush()
			sb.WriteRune(r)
			continue
		}
		word.WriteRune(r)
	}
	flush()
	return sb.String()
}

// Wrap performs word wrapping to the given width. Indented lines are code
// and are left alone. Widths are measured in cells, ignoring ANSI styling.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var result strings.Builder
	for _, paragraph := range strings.Split(text, "\n") {
		if strings.HasPrefix(paragraph, "    ") {
			result.WriteString(paragraph)
			result.WriteString("\n")
			continue
		}
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}
		lineLen := 0
		for i, word := range words {
			wlen := lipgloss.Width(word)
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
