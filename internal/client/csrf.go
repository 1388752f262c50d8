package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html"
)

// CSRFFieldName is the name of the hidden form field the host page stores the token in.
const CSRFFieldName = "csrfmiddlewaretoken"

// ErrNoCSRFField is returned when the host page has no CSRF token field.
var ErrNoCSRFField = errors.New("csrf token field not found")

// CSRFToken loads the host page and returns the value of its hidden CSRF token field. The cookie that
// accompanies the page is kept by the client's cookie jar, if it has one.
func (c *Client) CSRFToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pagePath, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	token, err := findCSRFToken(resp.Body)
	if err != nil {
		return "", err
	}

	c.logger.Debug("Loaded CSRF token from host page")
	return token, nil
}

func findCSRFToken(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("error parsing page: %w", err)
	}

	var walk func(n *html.Node) (string, bool)
	walk = func(n *html.Node) (string, bool) {
		if n.Type == html.ElementNode && n.Data == "input" && attr(n, "name") == CSRFFieldName {
			return attr(n, "value"), true
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if v, ok := walk(child); ok {
				return v, true
			}
		}
		return "", false
	}

	token, ok := walk(doc)
	if !ok {
		return "", ErrNoCSRFField
	}
	return token, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
