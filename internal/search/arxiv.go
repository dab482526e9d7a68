// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const defaultUserAgent = "arxiv-daily/0.1"

// ArxivClient queries the arXiv export API. It issues a single request per
// query and does not retry.
type ArxivClient struct {
	Client    *http.Client
	UserAgent string
}

// Query returns up to maxResults papers matching query, newest submission
// first, with timestamps converted to loc.
func (c *ArxivClient) Query(ctx context.Context, query string, maxResults int, loc *time.Location) ([]types.Paper, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}
	if maxResults <= 0 {
		maxResults = 50
	}
	if loc == nil {
		loc = time.UTC
	}

	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	papers := make([]types.Paper, 0, len(feed.Items))
	for _, item := range feed.Items {
		p, ok := paperFromItem(item, loc)
		if !ok {
			continue
		}
		papers = append(papers, p)
	}
	if len(papers) > maxResults {
		papers = papers[:maxResults]
	}
	return papers, nil
}

// paperFromItem maps one Atom entry. Entries without an id are skipped.
func paperFromItem(item *gofeed.Item, loc *time.Location) (types.Paper, bool) {
	entryID := strings.TrimSpace(item.GUID)
	if entryID == "" {
		entryID = strings.TrimSpace(item.Link)
	}
	id := lastPathSegment(entryID)
	if id == "" {
		return types.Paper{}, false
	}

	p := types.Paper{
		ID:         id,
		Title:      collapseSpace(item.Title),
		Link:       entryID,
		Abstract:   strings.TrimSpace(item.Description),
		JournalRef: journalRef(item),
	}

	for _, a := range item.Authors {
		if a == nil || strings.TrimSpace(a.Name) == "" {
			continue
		}
		p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
	}

	switch {
	case item.PublishedParsed != nil:
		p.Published = item.PublishedParsed.In(loc)
	case item.UpdatedParsed != nil:
		p.Published = item.UpdatedParsed.In(loc)
	}

	return p, true
}

// lastPathSegment returns the final segment of an entry URL
// (e.g. "http://arxiv.org/abs/2401.01234v2" → "2401.01234v2").
func lastPathSegment(entryID string) string {
	trimmed := strings.TrimRight(entryID, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// journalRef reads the <arxiv:journal_ref> extension element.
func journalRef(item *gofeed.Item) string {
	refs := item.Extensions["arxiv"]["journal_ref"]
	if len(refs) == 0 {
		return ""
	}
	return collapseSpace(refs[0].Value)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
