// Package rc talks to a running rclone rc daemon over its JSON/HTTP API.
package rc

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// StatusTimeout bounds engine status calls so a dead daemon cannot pin a
// loading indicator.
const StatusTimeout = 5 * time.Second

// Client is a thin wrapper over the daemon's remote-control endpoints.
// Every call is a POST with a JSON body, per the rc protocol.
type Client struct {
	http *resty.Client
}

// ClientConfig holds connection settings for the daemon.
type ClientConfig struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration
}

// NewClient creates a client for the daemon at cfg.URL.
func NewClient(cfg ClientConfig) *Client {
	c := resty.New().
		SetBaseURL(cfg.URL).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	if cfg.Username != "" {
		c.SetBasicAuth(cfg.Username, cfg.Password)
	}
	return &Client{http: c}
}

// call posts params to one rc endpoint and decodes the reply into out.
func (c *Client) call(ctx context.Context, path string, params, out any) error {
	if params == nil {
		params = map[string]any{}
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(params).
		SetResult(out).
		SetError(&rcError{}).
		Post(path)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	if resp.IsError() {
		if rcErr, ok := resp.Error().(*rcError); ok && rcErr.Error != "" {
			return fmt.Errorf("%s: %s", path, rcErr.Error)
		}
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode())
	}
	return nil
}

// rcError is the daemon's error reply shape.
type rcError struct {
	Error  string `json:"error"`
	Path   string `json:"path"`
	Status int    `json:"status"`
}

// Version reports the daemon's version info.
type Version struct {
	Version string `json:"version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
	GoVer   string `json:"goVersion"`
}

// CoreVersion fetches the daemon version, bounded by StatusTimeout.
func (c *Client) CoreVersion(ctx context.Context) (Version, error) {
	ctx, cancel := context.WithTimeout(ctx, StatusTimeout)
	defer cancel()

	var v Version
	if err := c.call(ctx, "core/version", nil, &v); err != nil {
		return Version{}, err
	}
	return v, nil
}

// Stats holds the transfer counters the status line shows.
type Stats struct {
	Bytes       int64   `json:"bytes"`
	Speed       float64 `json:"speed"`
	Transfers   int64   `json:"transfers"`
	Checks      int64   `json:"checks"`
	Errors      int64   `json:"errors"`
	ElapsedTime float64 `json:"elapsedTime"`
}

// CoreStats fetches the daemon transfer stats, bounded by StatusTimeout.
func (c *Client) CoreStats(ctx context.Context) (Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, StatusTimeout)
	defer cancel()

	var s Stats
	if err := c.call(ctx, "core/stats", nil, &s); err != nil {
		return Stats{}, err
	}
	return s, nil
}
