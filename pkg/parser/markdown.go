package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockTags are rendered as markdown blocks of their own.
var blockTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "li": true, "table": true, "pre": true, "blockquote": true,
	"dt": true, "dd": true, "figcaption": true,
}

// inlineTags flow into the surrounding paragraph.
var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true, "br": true,
	"cite": true, "code": true, "data": true, "del": true, "dfn": true, "em": true,
	"i": true, "img": true, "ins": true, "kbd": true, "label": true, "mark": true,
	"q": true, "s": true, "samp": true, "small": true, "span": true, "strong": true,
	"sub": true, "sup": true, "time": true, "u": true, "var": true, "wbr": true,
}

var skippedTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

// ToMarkdown converts extracted content HTML into markdown flow text:
// atx headings, blank-line separated paragraphs, "-" or "1." list items,
// fenced code and pipe tables. Text outside those elements is kept as
// paragraphs in document order.
func (p *Parser) ToMarkdown(contentHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse content HTML: %w", err)
	}

	root := doc.Find("body").First()
	if root.Length() == 0 {
		root = doc.Selection
	}

	w := &markdownWriter{}
	w.walk(root)
	w.flush()
	return strings.Join(w.blocks, "\n\n"), nil
}

// markdownWriter collects blocks while buffering loose inline text until the
// next block boundary.
type markdownWriter struct {
	blocks []string
	inline strings.Builder
}

func (w *markdownWriter) walk(parent *goquery.Selection) {
	parent.Contents().Each(func(i int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		switch {
		case tag == "#text":
			w.inline.WriteString(s.Text())
		case tag == "br":
			w.inline.WriteString(" ")
		case strings.HasPrefix(tag, "#") || skippedTags[tag]:
			// comments, doctype and non-content elements
		case blockTags[tag]:
			w.flush()
			w.add(renderBlock(s))
		case inlineTags[tag] && !hasBlockContent(s):
			w.inline.WriteString(s.Text())
		case hasBlockContent(s):
			w.flush()
			w.walk(s)
			w.flush()
		default:
			w.flush()
			w.add(normalizeText(s.Text()))
		}
	})
}

// flush emits buffered inline text as a paragraph.
func (w *markdownWriter) flush() {
	text := normalizeText(w.inline.String())
	w.inline.Reset()
	w.add(text)
}

func (w *markdownWriter) add(block string) {
	if block != "" {
		w.blocks = append(w.blocks, block)
	}
}

// hasBlockContent reports whether s contains any element that is not inline.
func hasBlockContent(s *goquery.Selection) bool {
	found := false
	s.Find("*").EachWithBreak(func(i int, d *goquery.Selection) bool {
		tag := goquery.NodeName(d)
		if !inlineTags[tag] && !skippedTags[tag] {
			found = true
		}
		return !found
	})
	return found
}

func renderBlock(s *goquery.Selection) string {
	tag := goquery.NodeName(s)

	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		text := normalizeText(s.Text())
		if text == "" {
			return ""
		}
		level, _ := strconv.Atoi(tag[1:])
		return strings.Repeat("#", level) + " " + text

	case "li":
		text := normalizeText(s.Text())
		if text == "" {
			return ""
		}
		if parent := s.Parent(); goquery.NodeName(parent) == "ol" {
			return strconv.Itoa(listNumber(parent, s)) + ". " + text
		}
		return "- " + text

	case "table":
		return renderTable(s)

	case "pre":
		return renderCode(s)

	case "blockquote":
		text := normalizeText(s.Text())
		if text == "" {
			return ""
		}
		return "> " + text

	default:
		return normalizeText(s.Text())
	}
}

// listNumber is the ordinal of li within ol, honouring the start attribute.
func listNumber(ol, li *goquery.Selection) int {
	start := 1
	if v, ok := ol.Attr("start"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			start = n
		}
	}
	return start + li.PrevAllFiltered("li").Length()
}

// renderTable writes a pipe table; the header row comes from <thead> or
// else the first row.
func renderTable(s *goquery.Selection) string {
	var rows [][]string
	s.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var row []string
		tr.Find("th,td").Each(func(j int, cell *goquery.Selection) {
			row = append(row, strings.ReplaceAll(normalizeText(cell.Text()), "|", `\|`))
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	if len(rows) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("| " + strings.Join(row, " | ") + " |")
		if i == 0 {
			sep := make([]string, len(row))
			for j := range sep {
				sep[j] = "---"
			}
			sb.WriteString("\n| " + strings.Join(sep, " | ") + " |")
		}
	}
	return sb.String()
}

// renderCode keeps the code's own line breaks inside a fence.
func renderCode(s *goquery.Selection) string {
	codeSel := s.Find("code").First()
	if codeSel.Length() == 0 {
		codeSel = s
	}

	code := strings.Trim(codeSel.Text(), "\n")
	if strings.TrimSpace(code) == "" {
		return ""
	}
	// No blank lines: the chunker treats them as paragraph breaks.
	lines := strings.Split(code, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, strings.TrimRight(line, " \t"))
		}
	}

	lang := ""
	if class, ok := codeSel.Attr("class"); ok {
		if fields := strings.Fields(class); len(fields) > 0 {
			lang = strings.TrimPrefix(fields[0], "language-")
		}
	}
	return "```" + lang + "\n" + strings.Join(kept, "\n") + "\n```"
}
