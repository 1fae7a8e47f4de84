package paper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/starford/folio/internal/apperr"
)

const (
	errUnreachable = "unable to reach papermc.io"
	errBadJSON     = "invalid JSON from papermc.io"
)

// Client queries the PaperMC downloads API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the project API rooted at baseURL
// (e.g. https://papermc.io/api/v2/projects/paper).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type projectResponse struct {
	Versions []string `json:"versions"`
}

type versionResponse struct {
	Error  *string `json:"error"`
	Builds []int   `json:"builds"`
}

// LatestVersion returns the newest version the project lists.
func (c *Client) LatestVersion(ctx context.Context) (Version, error) {
	var resp projectResponse
	if err := c.getJSON(ctx, c.baseURL, &resp); err != nil {
		return Version{}, err
	}
	if len(resp.Versions) == 0 {
		return Version{}, fmt.Errorf("%w: no versions listed", apperr.ErrUpstream)
	}
	latest := resp.Versions[len(resp.Versions)-1]
	v, err := ParseVersion(latest)
	if err != nil {
		return Version{}, fmt.Errorf("%w: unexpected version %q", apperr.ErrUpstream, latest)
	}
	return v, nil
}

// DownloadURL returns the jar URL of the newest build for v.
func (c *Client) DownloadURL(ctx context.Context, v Version) (string, error) {
	var resp versionResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/versions/%s", c.baseURL, v), &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("%w: %s", apperr.ErrUpstream, *resp.Error)
	}
	if len(resp.Builds) == 0 {
		return "", fmt.Errorf("%w: invalid json response", apperr.ErrUpstream)
	}
	build := resp.Builds[len(resp.Builds)-1]
	file := fmt.Sprintf("paper-%s-%d.jar", v, build)
	return fmt.Sprintf("%s/versions/%s/builds/%d/downloads/%s", c.baseURL, v, build, file), nil
}

// LatestDownloadURL combines LatestVersion and DownloadURL.
func (c *Client) LatestDownloadURL(ctx context.Context) (string, error) {
	v, err := c.LatestVersion(ctx)
	if err != nil {
		return "", err
	}
	return c.DownloadURL(ctx, v)
}

// getJSON decodes the body regardless of status: the API reports unknown
// versions as a 404 carrying {"error": "..."}.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrUpstream, errUnreachable)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrUpstream, errUnreachable)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrUpstream, errBadJSON)
	}
	return nil
}
