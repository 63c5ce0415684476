package almanac

import (
	"errors"
	"strconv"
	"strings"

	"mlbstats/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var ErrBlockNotFound = errors.New("review block not found")

// section headers span the full width of a review table
const headerCellSelector = "td.header[colspan='5']"

// Matcher decides whether a block's section heading is the one being looked
// for.
type Matcher interface {
	Match(heading string) bool
}

// HeadingMatcher matches headings that mention both the year and the review
// phrase anywhere in their text, e.g. "1927 American League Player Review".
//
// The pages carry no machine readable section ids, so this is all there is
// to go on.
type HeadingMatcher struct {
	Year   int
	Phrase string
}

func (m HeadingMatcher) Match(heading string) bool {
	return strings.Contains(heading, strconv.Itoa(m.Year)) &&
		strings.Contains(heading, m.Phrase)
}

// BlockHeading returns the heading text of a tbody block and whether it has
// one at all.
func BlockHeading(block *goquery.Selection) (string, bool) {
	header := block.Find(headerCellSelector).First()
	if header.Length() == 0 {
		return "", false
	}
	h2 := header.Find("h2").First()
	if h2.Length() == 0 {
		return "", false
	}
	return htmlutil.Text(h2), true
}

// LocateBlock returns the first tbody in document order whose heading
// satisfies the matcher.
func LocateBlock(doc *goquery.Selection, matcher Matcher) (*goquery.Selection, error) {
	var found *goquery.Selection
	doc.Find("tbody").EachWithBreak(func(_ int, block *goquery.Selection) bool {
		heading, ok := BlockHeading(block)
		if !ok || !matcher.Match(heading) {
			return true
		}
		found = block
		return false
	})
	if found == nil {
		return nil, ErrBlockNotFound
	}
	return found, nil
}
