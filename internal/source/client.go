package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"oer-catalog/internal/catalog"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("oer-catalog/source")

// TotalHeader carries the total number of matching records on page responses.
const TotalHeader = "X-WP-Total"

// invalidPageCode is the WordPress error code for a page past the end.
const invalidPageCode = "rest_post_invalid_page_number"

var ErrEmptyURL = errors.New("source: empty url")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL    string
	Status int
	Code   string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("source: GET %s: %d (%s)", e.URL, e.Status, e.Code)
	}
	return fmt.Sprintf("source: GET %s: %d", e.URL, e.Status)
}

// Page is one source's answer to a page request.
type Page struct {
	Items []catalog.ResourceSummary
	Total int
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *zap.Logger
	// HTTPClient overrides the transport (tests use httptest clients).
	HTTPClient *http.Client
}

// Client fetches page and term resources from WordPress-style REST endpoints.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

func NewClient(opts Options) *Client {
	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = "oer-catalog"
	}
	rc.SetHeader("User-Agent", ua)
	rc.SetHeader("Accept", "application/json")

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	instrument(rc, tracer, log)

	return &Client{http: rc, log: log}
}

type wpRecord struct {
	ID    recordID `json:"id"`
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	Link  string `json:"link"`
	Links struct {
		Terms []wpTermLink `json:"wp:term"`
	} `json:"_links"`
}

// recordID is an opaque record identifier sent as a JSON string or number.
type recordID string

func (id *recordID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = recordID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("source: record id %s: %w", b, err)
	}
	*id = recordID(n.String())
	return nil
}

type wpTermLink struct {
	Taxonomy string `json:"taxonomy"`
	Href     string `json:"href"`
}

type wpTerm struct {
	Name string `json:"name"`
}

type wpError struct {
	Code string `json:"code"`
}

// FetchPage requests one page of records from endpoint.
func (c *Client) FetchPage(ctx context.Context, endpoint string, page, perPage int) (Page, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return Page{}, ErrEmptyURL
	}
	ctx, span := tracer.Start(ctx, "source:FetchPage")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("per_page", strconv.Itoa(perPage)).
		Get(endpoint)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return Page{}, err
	}
	if res.IsError() {
		code := errorCode(res.Body())
		if res.StatusCode() == http.StatusBadRequest && code == invalidPageCode {
			// Past the last page.
			return Page{Total: parseTotal(res.Header().Get(TotalHeader))}, nil
		}
		span.SetStatus(codes.Error, "bad status")
		return Page{}, &StatusError{URL: endpoint, Status: res.StatusCode(), Code: code}
	}

	var records []wpRecord
	if err := json.Unmarshal(res.Body(), &records); err != nil {
		span.SetStatus(codes.Error, "decode failed")
		return Page{}, fmt.Errorf("source: decode page from %s: %w", endpoint, err)
	}
	items := make([]catalog.ResourceSummary, 0, len(records))
	for _, r := range records {
		items = append(items, summaryFromRecord(r))
	}
	return Page{Items: items, Total: parseTotal(res.Header().Get(TotalHeader))}, nil
}

// FetchTermNames requests a term collection and returns its names in order.
func (c *Client) FetchTermNames(ctx context.Context, url string) ([]string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrEmptyURL
	}
	ctx, span := tracer.Start(ctx, "source:FetchTermNames")
	defer span.End()

	res, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return nil, err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "bad status")
		return nil, &StatusError{URL: url, Status: res.StatusCode(), Code: errorCode(res.Body())}
	}
	var terms []wpTerm
	if err := json.Unmarshal(res.Body(), &terms); err != nil {
		span.SetStatus(codes.Error, "decode failed")
		return nil, fmt.Errorf("source: decode terms from %s: %w", url, err)
	}
	names := make([]string, 0, len(terms))
	for _, t := range terms {
		names = append(names, PlainText(t.Name))
	}
	return names, nil
}

func summaryFromRecord(r wpRecord) catalog.ResourceSummary {
	return catalog.NewSummary(
		string(r.ID),
		PlainText(r.Title.Rendered),
		strings.TrimSpace(r.Link),
		termLink(r.Links.Terms, catalog.TaxonomyInstitutions),
		termLink(r.Links.Terms, catalog.TaxonomyAuthors),
	)
}

// termLink returns the first href with a matching taxonomy, or "".
func termLink(links []wpTermLink, taxonomy string) string {
	for _, l := range links {
		if l.Taxonomy == taxonomy {
			return strings.TrimSpace(l.Href)
		}
	}
	return ""
}

// parseTotal reads a count header; anything unparsable or negative is 0.
func parseTotal(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func errorCode(body []byte) string {
	var e wpError
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Code
}

// IsCanceled reports whether err was caused by context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
