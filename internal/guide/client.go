// SPDX-License-Identifier: MIT

// Package guide queries an electronic program guide for the programme
// airing on a channel at a given time. The guide is best-effort: callers
// fall back to defaults when it is unreachable.
package guide

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Programme describes one guide entry. Stop is zero when the guide did
// not report an end time.
type Programme struct {
	Title       string
	Description string
	Stop        time.Time
}

// Lookup is the façade's view of the guide.
type Lookup interface {
	ProgrammeAt(ctx context.Context, channelID string, at time.Time) (Programme, error)
}

// Client talks to the guide's HTTP API.
type Client struct {
	base  string
	http  *http.Client
	group singleflight.Group
}

// New creates a guide client. The timeout bounds every lookup; guide
// calls are fast synchronous lookups, never long polls.
func New(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// ProgrammeAt returns the programme airing on channelID at the given
// time. Concurrent lookups for the same channel and minute collapse into
// one upstream request.
func (c *Client) ProgrammeAt(ctx context.Context, channelID string, at time.Time) (Programme, error) {
	key := channelID + "|" + strconv.FormatInt(at.Truncate(time.Minute).Unix(), 10)
	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.fetch(ctx, channelID, at)
	})
	if err != nil {
		return Programme{}, err
	}
	return v.(Programme), nil
}

func (c *Client) fetch(ctx context.Context, channelID string, at time.Time) (Programme, error) {
	u := fmt.Sprintf("%s/api/epg/now?channel=%s&at=%d", c.base, url.QueryEscape(channelID), at.Unix())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Programme{}, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return Programme{}, fmt.Errorf("guide request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return Programme{}, fmt.Errorf("guide returned status %d", res.StatusCode)
	}

	var p struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Stop        int64  `json:"stop"`
	}
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return Programme{}, fmt.Errorf("decode guide response: %w", err)
	}

	prog := Programme{
		Title:       p.Title,
		Description: p.Description,
	}
	if p.Stop > 0 {
		prog.Stop = time.Unix(p.Stop, 0)
	}
	return prog, nil
}
