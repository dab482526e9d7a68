// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleArxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title>ArXiv Query</title>
  <id>http://arxiv.org/api/query</id>
  <updated>2024-01-03T00:00:00-05:00</updated>
  <entry>
    <id>http://arxiv.org/abs/2401.00002v1</id>
    <updated>2024-01-02T18:00:00Z</updated>
    <published>2024-01-02T18:00:00Z</published>
    <title>Retrieval-Augmented
      Generation at Scale</title>
    <summary>  We study retrieval-augmented generation.
</summary>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <arxiv:journal_ref>NeurIPS 2024</arxiv:journal_ref>
    <link href="http://arxiv.org/abs/2401.00002v1" rel="alternate" type="text/html"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2401.00001v2</id>
    <updated>2024-01-01T09:30:00Z</updated>
    <published>2024-01-01T09:30:00Z</published>
    <title>Agents All the Way Down</title>
    <summary>Agents.</summary>
    <author><name>Grace Hopper</name></author>
  </entry>
</feed>`

func withArxivServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	old := arxivAPIBase
	arxivAPIBase = ts.URL
	t.Cleanup(func() {
		arxivAPIBase = old
		ts.Close()
	})
	return ts
}

func TestArxivClientQuery(t *testing.T) {
	var gotQuery map[string]string
	ts := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"search_query": q.Get("search_query"),
			"start":        q.Get("start"),
			"max_results":  q.Get("max_results"),
			"sortBy":       q.Get("sortBy"),
			"sortOrder":    q.Get("sortOrder"),
			"ua":           r.Header.Get("User-Agent"),
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, sampleArxivFeed)
	})

	shanghai := time.FixedZone("CST", 8*3600)
	c := &ArxivClient{Client: ts.Client()}
	papers, err := c.Query(context.Background(), "cat:cs.CL AND all:rag", 10, shanghai)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	want := map[string]string{
		"search_query": "cat:cs.CL AND all:rag",
		"start":        "0",
		"max_results":  "10",
		"sortBy":       "submittedDate",
		"sortOrder":    "descending",
		"ua":           defaultUserAgent,
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("request %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	if len(papers) != 2 {
		t.Fatalf("len(papers) = %d, want 2", len(papers))
	}

	p := papers[0]
	if p.ID != "2401.00002v1" {
		t.Errorf("ID = %q, want %q", p.ID, "2401.00002v1")
	}
	if p.Title != "Retrieval-Augmented Generation at Scale" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Abstract != "We study retrieval-augmented generation." {
		t.Errorf("Abstract = %q", p.Abstract)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "Ada Lovelace" || p.Authors[1] != "Alan Turing" {
		t.Errorf("Authors = %v", p.Authors)
	}
	if p.Link != "http://arxiv.org/abs/2401.00002v1" {
		t.Errorf("Link = %q", p.Link)
	}
	if p.JournalRef != "NeurIPS 2024" {
		t.Errorf("JournalRef = %q, want %q", p.JournalRef, "NeurIPS 2024")
	}
	if got := p.Published.Format("2006-01-02 15:04"); got != "2024-01-03 02:00" {
		t.Errorf("Published = %s, want 2024-01-03 02:00 in +08:00", got)
	}
	if _, offset := p.Published.Zone(); offset != 8*3600 {
		t.Errorf("Published offset = %d, want %d", offset, 8*3600)
	}

	if papers[1].ID != "2401.00001v2" {
		t.Errorf("second ID = %q", papers[1].ID)
	}
	if papers[1].JournalRef != "" {
		t.Errorf("second JournalRef = %q, want empty", papers[1].JournalRef)
	}
}

func TestArxivClientQueryHTTPError(t *testing.T) {
	ts := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	c := &ArxivClient{Client: ts.Client()}
	if _, err := c.Query(context.Background(), "cat:cs.LG", 5, time.UTC); err == nil {
		t.Fatal("expected error for HTTP 503")
	}
}

func TestArxivClientQueryBadFeed(t *testing.T) {
	ts := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not a feed")
	})

	c := &ArxivClient{Client: ts.Client()}
	if _, err := c.Query(context.Background(), "cat:cs.LG", 5, time.UTC); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestArxivClientQueryEmptyFeed(t *testing.T) {
	ts := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><title>ArXiv Query</title></feed>`)
	})

	c := &ArxivClient{Client: ts.Client()}
	papers, err := c.Query(context.Background(), "cat:cs.LG", 5, time.UTC)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(papers) != 0 {
		t.Errorf("len(papers) = %d, want 0", len(papers))
	}
}

func TestArxivClientQueryEmpty(t *testing.T) {
	c := &ArxivClient{}
	if _, err := c.Query(context.Background(), "   ", 5, time.UTC); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestLastPathSegment(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041v1"},
		{"https://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://arxiv.org/abs/hep-th/9901001v1", "9901001v1"},
		{"http://arxiv.org/abs/2301.07041v1/", "2301.07041v1"},
		{"2301.07041v1", "2301.07041v1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := lastPathSegment(tt.input); got != tt.want {
			t.Errorf("lastPathSegment(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
