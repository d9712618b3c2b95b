package source

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// HTMLText returns the title and readable text of an HTML page.
// Readability is tried first; pages it cannot handle fall back to all visible text.
func HTMLText(document, pageURL string) (title, text string) {
	title, text = ArticleText(document, pageURL)
	if strings.TrimSpace(text) != "" {
		return title, text
	}

	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return title, ""
	}
	if title == "" {
		title = findTitle(doc)
	}
	return title, VisibleText(doc)
}

// ArticleText extracts the main article with readability
func ArticleText(document, pageURL string) (title, text string) {
	document = strings.TrimSpace(document)
	if document == "" {
		return "", ""
	}

	var parsedURL *url.URL
	if pageURL != "" {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			return "", ""
		}
		parsedURL = parsed
	}

	article, err := readability.FromReader(strings.NewReader(document), parsedURL)
	if err != nil {
		return "", ""
	}

	title = strings.TrimSpace(article.Title)

	// Re-walk the article HTML so link targets stay in the text
	if content, err := html.Parse(strings.NewReader(article.Content)); err == nil {
		if text = VisibleText(content); text != "" {
			return title, text
		}
	}
	return title, strings.TrimSpace(article.TextContent)
}

// VisibleText collects text nodes, skipping scripts and styles. Link targets
// are kept inline so URL citations survive the conversion.
func VisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template", "head":
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && n.Data == "a" {
			if href := attr(n, "href"); strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
				buf.WriteString("(")
				buf.WriteString(href)
				buf.WriteString(") ")
			}
		}

		if n.Type == html.ElementNode && isBlock(n.Data) {
			buf.WriteString("\n")
		}
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}

// StripTags returns the visible text of an HTML fragment
func StripTags(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type: html.ElementNode,
		Data: "body",
	})
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var parts []string
	for _, n := range nodes {
		if text := VisibleText(n); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "br", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "blockquote", "section", "article":
		return true
	}
	return false
}
