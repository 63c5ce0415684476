package navigator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"mlbstats/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const page = `<html><body><table><tbody><tr><td class="header" colspan="5"><h2>1927 American League Player Review</h2></td></tr></tbody></table></body></html>`

func newTestServer(t testing.TB) *httptest.Server {
	var slowHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/yearly/yr1927a.shtml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/yearly/empty.shtml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>loading...</p></body></html>")
	})
	mux.HandleFunc("/yearly/slow.shtml", func(w http.ResponseWriter, r *http.Request) {
		if slowHits.Add(1) < 3 {
			fmt.Fprint(w, "<html><body><p>loading...</p></body></html>")
			return
		}
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/yearly/broken.shtml", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestNavigator(t testing.TB) *HTTP {
	nav, err := NewHTTP(HTTPOptions{
		Timeout:      time.Second * 5,
		WaitTimeout:  time.Millisecond * 500,
		PollInterval: time.Millisecond * 20,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { nav.Close() })
	return nav
}

func TestHTTPNavigate(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:navigator")
	defer cleanup()

	server := newTestServer(t)
	nav := newTestNavigator(t)
	ctx := context.Background()

	doc, err := nav.Navigate(ctx, server.URL+"/yearly/yr1927a.shtml", "tbody")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("h2").Length())

	doc, err = nav.Navigate(ctx, server.URL+"/yearly/slow.shtml", "tbody")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("tbody").Length())

	_, err = nav.Navigate(ctx, server.URL+"/yearly/empty.shtml", "tbody")
	var navErr *NavigationError
	require.True(t, errors.As(err, &navErr))
	require.True(t, errors.Is(err, ErrElementNotFound))
	require.Equal(t, server.URL+"/yearly/empty.shtml", navErr.URL)

	_, err = nav.Navigate(ctx, server.URL+"/yearly/missing.shtml", "tbody")
	require.True(t, errors.Is(err, ErrPageNotFound))

	_, err = nav.Navigate(ctx, server.URL+"/yearly/broken.shtml", "tbody")
	require.True(t, errors.Is(err, ErrBadStatus))
}

func TestDirectoryAndArchive(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:navigator")
	defer cleanup()

	server := newTestServer(t)
	dir := t.TempDir()

	archive, err := NewArchive(newTestNavigator(t), dir)
	require.NoError(t, err)
	defer archive.Close()

	_, err = archive.Navigate(context.Background(), server.URL+"/yearly/yr1927a.shtml", "tbody")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "yr1927a.shtml"))
	require.NoError(t, err)

	saved, err := NewDirectory(dir)
	require.NoError(t, err)

	doc, err := saved.Navigate(context.Background(), "https://www.baseball-almanac.com/yearly/yr1927a.shtml", "tbody")
	require.NoError(t, err)
	require.Contains(t, doc.Find("h2").Text(), "1927 American League Player Review")

	_, err = saved.Navigate(context.Background(), "https://www.baseball-almanac.com/yearly/yr1928a.shtml", "tbody")
	require.True(t, errors.Is(err, ErrPageNotFound))

	_, err = saved.Navigate(context.Background(), "https://www.baseball-almanac.com/yearly/yr1927a.shtml", "table.missing")
	require.True(t, errors.Is(err, ErrElementNotFound))

	_, err = NewDirectory(filepath.Join(dir, "yr1927a.shtml"))
	require.Error(t, err)
}
