package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	// <br> renders as a line break, without this "Babe<br>Ruth" becomes "BabeRuth"
	if node.Type == html.ElementNode && node.Data == "br" {
		buffer.WriteByte(' ')
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// NormalizeText turns text content into what a browser would roughly
// display: any unicode space (including &nbsp;) becomes a plain space,
// non-printable characters are dropped and runs of whitespace collapse.
func NormalizeText(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsSpace(c) {
			newStr.WriteRune(' ')
			continue
		}
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	text := strings.Trim(newStr.String(), " ")
	return innerWhitespace.ReplaceAllString(text, " ")
}

// Text returns the normalized display text of all nodes in a selection.
func Text(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer)
	}
	return NormalizeText(buffer.String())
}

// HasClassPrefix reports whether the class attribute of the first node in
// the selection starts with prefix. Only the attribute as written counts,
// a later class in the list does not.
func HasClassPrefix(sel *goquery.Selection, prefix string) bool {
	class, ok := sel.Attr("class")
	if !ok {
		return false
	}
	return strings.HasPrefix(class, prefix)
}
