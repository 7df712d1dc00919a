package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"oer-catalog/internal/catalog"

	"github.com/stretchr/testify/require"
)

const samplePage = `[
  {
    "id": 101,
    "title": {"rendered": "Intro to B&amp;C <em>Education</em>"},
    "link": "https://collection.example/oer/101/",
    "_links": {
      "wp:term": [
        {"taxonomy": "subjects", "href": "https://collection.example/wp-json/wp/v2/subjects?post=101"},
        {"taxonomy": "institutions", "href": "https://collection.example/wp-json/wp/v2/institutions?post=101"},
        {"taxonomy": "authors", "href": "https://collection.example/wp-json/wp/v2/authors?post=101"}
      ]
    }
  },
  {
    "id": 102,
    "title": {"rendered": "Open Statistics"},
    "link": "https://collection.example/oer/102/",
    "_links": {
      "wp:term": [
        {"taxonomy": "authors", "href": "https://collection.example/wp-json/wp/v2/authors?post=102"}
      ]
    }
  }
]`

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{HTTPClient: srv.Client(), Timeout: 5 * time.Second}), srv
}

func TestFetchPage_MapsRecords(t *testing.T) {
	t.Parallel()

	var gotQuery string
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set(TotalHeader, "57")
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, samplePage)
	})

	page, err := c.FetchPage(context.Background(), srv.URL+"/wp-json/wp/v2/oer", 3, 6)
	require.NoError(t, err)
	require.Equal(t, "page=3&per_page=6", gotQuery)
	require.Equal(t, 57, page.Total)
	require.Len(t, page.Items, 2)

	first := page.Items[0]
	require.Equal(t, "101", first.ID)
	require.Equal(t, "Intro to B&C Education", first.Title)
	require.Equal(t, "https://collection.example/oer/101/", first.Link)

	inst, ok := first.Slot(catalog.KeyInstitutions)
	require.True(t, ok)
	require.Equal(t, "https://collection.example/wp-json/wp/v2/institutions?post=101", inst.URL)
	require.False(t, inst.Resolved)

	second := page.Items[1]
	inst, ok = second.Slot(catalog.KeyInstitutions)
	require.True(t, ok)
	require.Empty(t, inst.URL, "record without an institutions relation has no url")
	require.Equal(t, []string{catalog.KeyAuthors}, second.PendingSlots())
}

func TestFetchPage_AcceptsStringAndNumericIDs(t *testing.T) {
	t.Parallel()

	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(TotalHeader, "2")
		_, _ = fmt.Fprint(w, `[
  {"id": "abc-1", "title": {"rendered": "Sliced"}, "link": "https://collection.example/oer/abc-1/"},
  {"id": 7, "title": {"rendered": "Counted"}, "link": "https://collection.example/oer/7/"}
]`)
	})

	page, err := c.FetchPage(context.Background(), srv.URL, 1, 12)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, "abc-1", page.Items[0].ID)
	require.Equal(t, "7", page.Items[1].ID)
}

func TestFetchPage_RejectsObjectID(t *testing.T) {
	t.Parallel()

	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `[{"id": {"nested": true}, "title": {"rendered": "Odd"}}]`)
	})

	_, err := c.FetchPage(context.Background(), srv.URL, 1, 12)
	require.Error(t, err)
	require.Contains(t, err.Error(), "record id")
}

func TestFetchPage_BadTotalHeaderIsZero(t *testing.T) {
	t.Parallel()

	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(TotalHeader, "lots")
		_, _ = fmt.Fprint(w, `[]`)
	})
	page, err := c.FetchPage(context.Background(), srv.URL, 1, 12)
	require.NoError(t, err)
	require.Zero(t, page.Total)
	require.Empty(t, page.Items)
}

func TestFetchPage_PastLastPageIsEmpty(t *testing.T) {
	t.Parallel()

	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, `{"code":"rest_post_invalid_page_number","message":"The page number requested is larger than the number of pages available.","data":{"status":400}}`)
	})
	page, err := c.FetchPage(context.Background(), srv.URL, 99, 12)
	require.NoError(t, err)
	require.Empty(t, page.Items)
}

func TestFetchPage_ServerErrorIsStatusError(t *testing.T) {
	t.Parallel()

	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, `{"code":"internal"}`)
	})
	_, err := c.FetchPage(context.Background(), srv.URL, 1, 12)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusInternalServerError, se.Status)
	require.Equal(t, "internal", se.Code)
	require.False(t, IsCanceled(err))
}

func TestFetchPage_DecodeError(t *testing.T) {
	t.Parallel()

	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"not":"a list"}`)
	})
	_, err := c.FetchPage(context.Background(), srv.URL, 1, 12)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode page")
}

func TestFetchPage_CanceledContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := c.FetchPage(ctx, srv.URL, 1, 12)
		errc <- err
	}()
	cancel()

	select {
	case err := <-errc:
		require.Error(t, err)
		require.True(t, IsCanceled(err), "expected cancellation; got %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("expected canceled request to return")
	}
}

func TestFetchPage_EmptyEndpoint(t *testing.T) {
	t.Parallel()

	c := NewClient(Options{})
	_, err := c.FetchPage(context.Background(), "  ", 1, 12)
	require.True(t, errors.Is(err, ErrEmptyURL))
}

func TestFetchTermNames(t *testing.T) {
	t.Parallel()

	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `[{"id":1,"name":"Douglas College"},{"id":2,"name":"Simon Fraser University &amp; Partners"}]`)
	})
	names, err := c.FetchTermNames(context.Background(), srv.URL+"/institutions?post=1")
	require.NoError(t, err)
	require.Equal(t, []string{"Douglas College", "Simon Fraser University & Partners"}, names)
	require.Equal(t, "Douglas College, Simon Fraser University & Partners", catalog.JoinNames(names))
}

func TestFetchTermNames_NotFound(t *testing.T) {
	t.Parallel()

	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := c.FetchTermNames(context.Background(), srv.URL)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusNotFound, se.Status)
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Plain":                       "Plain",
		"Caf&eacute; &#8211; Guide":   "Café – Guide",
		"<strong>Bold</strong>  text": "Bold text",
		"":                            "",
	}
	for in, want := range tests {
		if got := PlainText(in); got != want {
			t.Fatalf("PlainText(%q) = %q; want %q", in, got, want)
		}
	}
}
