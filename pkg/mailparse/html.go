package mailparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// htmlLabelValue extracts the text immediately following a bold label in the
// message HTML, e.g. `<b>Codice di conferma:</b> HM8Q2Z5XKR`. A trailing
// colon on the label is ignored. Returns "" when the label is absent or the
// document cannot be parsed.
func htmlLabelValue(doc, label string) string {
	root, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return ""
	}

	var value string
	root.Find("b, strong").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSuffix(strings.TrimSpace(sel.Text()), ":")
		if !strings.EqualFold(text, label) {
			return true
		}
		for n := sel.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
			if n.Type != html.TextNode {
				continue
			}
			if t := strings.TrimSpace(n.Data); t != "" {
				value = t
				return false
			}
		}
		return true
	})
	return value
}
