package navigator

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"time"

	"mlbstats/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("mlbstats/lib/navigator")

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"

type HTTPOptions struct {
	UserAgent string
	// Timeout bounds a single request.
	Timeout time.Duration
	// WaitTimeout bounds the time spent reloading a page until the element
	// waited for appears.
	WaitTimeout time.Duration
	// PollInterval is the pause between reloads while waiting.
	PollInterval time.Duration
}

func (o HTTPOptions) withDefaults() HTTPOptions {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = time.Second * 30
	}
	if o.WaitTimeout <= 0 {
		o.WaitTimeout = time.Second * 10
	}
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	return o
}

// HTTP fetches pages over http, it keeps one cookie jar and connection pool
// for its whole lifetime.
type HTTP struct {
	client *resty.Client
	opts   HTTPOptions
}

func NewHTTP(opts HTTPOptions) (*HTTP, error) {
	opts = opts.withDefaults()

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "mlbstats/lib/navigator/http")

	return &HTTP{client: client, opts: opts}, nil
}

func (h *HTTP) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	res, err := h.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, ErrPageNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, res.Status())
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

func (h *HTTP) Navigate(ctx context.Context, url string, waitFor string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "HTTP:Navigate")
	defer span.End()
	span.SetAttributes(attribute.String("url", url), attribute.String("wait_for", waitFor))

	deadline := time.Now().Add(h.opts.WaitTimeout)
	attempt := 0
	for {
		attempt++
		doc, err := h.fetch(ctx, url)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to load page")
			return nil, &NavigationError{URL: url, Err: err}
		}
		if waitFor == "" || doc.Find(waitFor).Length() > 0 {
			span.SetAttributes(attribute.Int("attempts", attempt))
			return doc, nil
		}

		if time.Now().Add(h.opts.PollInterval).After(deadline) {
			span.SetStatus(codes.Error, "element never appeared")
			return nil, &NavigationError{
				URL: url,
				Err: fmt.Errorf("%w: %q after %s", ErrElementNotFound, waitFor, h.opts.WaitTimeout),
			}
		}

		slog.DebugContext(ctx, "waiting for element", "url", url, "selector", waitFor, "attempt", attempt)
		select {
		case <-time.After(h.opts.PollInterval):
		case <-ctx.Done():
			return nil, &NavigationError{URL: url, Err: ctx.Err()}
		}
	}
}

func (h *HTTP) Close() error {
	h.client.GetClient().CloseIdleConnections()
	return nil
}
