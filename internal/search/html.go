package search

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// parseHTMLResults extracts hits from a SearXNG "simple" theme result
// page: <div id="urls"> containing <article class="result"> entries with
// an h3>a title link, a p.content description and a div.engines block.
func parseHTMLResults(body []byte) ([]Result, error) {
	// Instance renders a dedicated error block when nothing matched.
	if bytes.Contains(body, []byte(`<div class="dialog-error-block"`)) {
		return nil, nil
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	urlsDiv := findByID(doc, "urls")
	if urlsDiv == nil {
		return nil, nil
	}

	var results []Result
	for _, article := range findAll(urlsDiv, "article", "result") {
		r, ok := parseArticle(article)
		if ok {
			results = append(results, r)
		}
	}
	return results, nil
}

func parseArticle(article *html.Node) (Result, bool) {
	var r Result

	h3 := findFirst(article, "h3", "")
	if h3 == nil {
		return r, false
	}
	link := findFirst(h3, "a", "")
	if link == nil {
		return r, false
	}
	r.URL = attr(link, "href")
	r.Title = strings.TrimSpace(text(link))
	if r.URL == "" || r.Title == "" {
		return r, false
	}

	if content := findFirst(article, "p", "content"); content != nil {
		r.Description = strings.TrimSpace(text(content))
	}

	if engines := findFirst(article, "div", "engines"); engines != nil {
		for _, span := range findAll(engines, "span", "") {
			if name := strings.TrimSpace(text(span)); name != "" {
				r.Engines = append(r.Engines, name)
			}
		}
	}

	return r, true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findFirst(n *html.Node, tag, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag && (class == "" || hasClass(c, class)) {
			return c
		}
		if found := findFirst(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag, class string) []*html.Node {
	var nodes []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag && (class == "" || hasClass(c, class)) {
			nodes = append(nodes, c)
			continue
		}
		nodes = append(nodes, findAll(c, tag, class)...)
	}
	return nodes
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
