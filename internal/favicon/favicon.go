// Package favicon looks up best-effort page metadata (title + icon URL) used
// to pre-fill the add/edit form. It is purely advisory: lookups are
// timeout-bounded and a failure must never block or fail an add/edit.
package favicon

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	maxBodyBytes   = 512 << 10
	defaultTimeout = 3 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Metadata is the advisory prefill for the add/edit form. Fields are always
// populated (falling back to values derived from the URL itself).
type Metadata struct {
	Title   string `json:"title"`
	IconURL string `json:"iconUrl"`
}

type Fetcher struct {
	Client *http.Client
}

func New() *Fetcher {
	return &Fetcher{Client: &http.Client{Timeout: defaultTimeout}}
}

// Fetch returns metadata for rawURL. The only error is an unusable URL;
// network and parse failures degrade to URL-derived fallbacks instead.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Metadata, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Metadata{}, errors.New("favicon: not an http(s) URL")
	}

	meta := Metadata{
		Title:   fallbackTitle(u),
		IconURL: u.Scheme + "://" + u.Host + "/favicon.ico",
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return meta, nil
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return meta, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return meta, nil
	}

	title, icon := parsePage(io.LimitReader(resp.Body, maxBodyBytes))
	if title != "" {
		meta.Title = title
	}
	if icon != "" {
		if ref, err := u.Parse(icon); err == nil {
			meta.IconURL = ref.String()
		}
	}
	return meta, nil
}

// parsePage extracts the <title> text and the first <link rel=icon> href.
func parsePage(r io.Reader) (title, icon string) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", ""
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "link":
				if icon == "" && isIconLink(n) {
					icon = attrVal(n, "href")
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title, icon
}

func isIconLink(n *html.Node) bool {
	rel := strings.ToLower(attrVal(n, "rel"))
	for _, part := range strings.Fields(rel) {
		if part == "icon" || part == "shortcut" || part == "apple-touch-icon" {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// fallbackTitle derives a display name from the hostname: "www.spotify.com"
// becomes "Spotify".
func fallbackTitle(u *url.URL) string {
	host := strings.TrimPrefix(u.Hostname(), "www.")
	main := host
	if i := strings.IndexByte(host, '.'); i > 0 {
		main = host[:i]
	}
	if main == "" {
		return ""
	}
	return strings.ToUpper(main[:1]) + main[1:]
}
