package services

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t\f\r\v\x{00A0}]+`)
	blankLines = regexp.MustCompile(`\n{2,}`)
)

// StripHTML turns rich-text section content into plain text. Tags are
// dropped, entities decoded, script and style bodies skipped, and block
// level elements become paragraph breaks. Runs of spaces collapse to one.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return normalizeSpace(s)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed input: keep whatever text was read.
			return normalizeSpace(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if tag == "br" {
				b.WriteString("\n")
			} else if isBlockTag(tag) {
				b.WriteString("\n\n")
			} else {
				b.WriteString(" ")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if skip > 0 {
					skip--
				}
				continue
			}
			if isBlockTag(tag) {
				b.WriteString("\n\n")
			} else {
				b.WriteString(" ")
			}
		}
	}
}

// Paragraphs splits plain text on blank lines and drops empty pieces.
func Paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeSpace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func isBlockTag(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "header", "footer", "blockquote",
		"h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li", "table", "tr", "pre", "hr":
		return true
	}
	return false
}
