package navigator

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"
)

// Directory serves pages that were saved to disk earlier, a url maps to the
// file named after the last segment of its path
// (https://host/yearly/yr1927a.shtml -> <dir>/yr1927a.shtml).
type Directory struct {
	Root string
}

func NewDirectory(root string) (Directory, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Directory{}, err
	}
	if !info.IsDir() {
		return Directory{}, fmt.Errorf("%s is not a directory", root)
	}
	return Directory{Root: root}, nil
}

func (d Directory) PathFor(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(parsed.Path)
	if name == "/" || name == "." || name == "" {
		return "", fmt.Errorf("url %s has no file name", rawURL)
	}
	return filepath.Join(d.Root, name), nil
}

func (d Directory) Navigate(ctx context.Context, rawURL string, waitFor string) (*goquery.Document, error) {
	filename, err := d.PathFor(rawURL)
	if err != nil {
		return nil, &NavigationError{URL: rawURL, Err: err}
	}
	contents, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil, &NavigationError{URL: rawURL, Err: ErrPageNotFound}
	}
	if err != nil {
		return nil, &NavigationError{URL: rawURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(contents))
	if err != nil {
		return nil, &NavigationError{URL: rawURL, Err: err}
	}
	// a saved page never changes, waiting longer is pointless
	if waitFor != "" && doc.Find(waitFor).Length() == 0 {
		return nil, &NavigationError{
			URL: rawURL,
			Err: fmt.Errorf("%w: %q", ErrElementNotFound, waitFor),
		}
	}
	return doc, nil
}

func (d Directory) Close() error {
	return nil
}
