package navigator

import (
	"context"
	"log/slog"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// Archive saves every page loaded through the wrapped navigator into a
// directory laid out the way Directory reads it back.
type Archive struct {
	Inner Navigator
	Dir   Directory
}

func NewArchive(inner Navigator, dir string) (Archive, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return Archive{}, err
	}
	return Archive{Inner: inner, Dir: Directory{Root: dir}}, nil
}

func (a Archive) Navigate(ctx context.Context, url string, waitFor string) (*goquery.Document, error) {
	doc, err := a.Inner.Navigate(ctx, url, waitFor)
	if err != nil {
		return nil, err
	}

	// archiving is best effort, the document is still good without it
	filename, err := a.Dir.PathFor(url)
	if err != nil {
		slog.WarnContext(ctx, "cannot archive page", "url", url, "err", err)
		return doc, nil
	}
	contents, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		slog.WarnContext(ctx, "failed to render page for archive", "url", url, "err", err)
		return doc, nil
	}
	err = os.WriteFile(filename, []byte(contents), 0644)
	if err != nil {
		slog.WarnContext(ctx, "failed to archive page", "url", url, "path", filename, "err", err)
	}
	return doc, nil
}

func (a Archive) Close() error {
	return a.Inner.Close()
}
