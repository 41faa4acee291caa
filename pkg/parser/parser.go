package parser

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/ragc/models"
	"github.com/go-shiori/go-readability"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

type Parser struct{}

// Extract finds the main content of a page. It prefers the readability
// article and falls back to the text of <body>. It returns nil when the page
// has no text at all.
func (p *Parser) Extract(rawURL, rawHTML string) *models.Extracted {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	title := normalizeText(doc.Find("title").First().Text())
	if title == "" {
		title = normalizeText(doc.Find("h1").First().Text())
	}

	if article, ok := readArticle(rawURL, rawHTML); ok {
		if title == "" {
			title = normalizeText(article.Title)
		}
		return &models.Extracted{
			Title:       title,
			Excerpt:     normalizeText(article.Excerpt),
			ContentHTML: article.Content,
		}
	}

	bodyText := normalizeText(doc.Find("body").Text())
	if bodyText == "" {
		return nil
	}
	return &models.Extracted{
		Title:       title,
		ContentHTML: "<div><p>" + html.EscapeString(bodyText) + "</p></div>",
	}
}

// readArticle runs readability over the page. ok is false when readability
// fails or finds no text.
func readArticle(rawURL, rawHTML string) (readability.Article, bool) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return readability.Article{}, false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		return readability.Article{}, false
	}
	return article, true
}

// normalizeText collapses every whitespace run to one space and trims.
func normalizeText(input string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(input, " "))
}
