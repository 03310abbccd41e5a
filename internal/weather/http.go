package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// DefaultUserAgent identifies the client to the public APIs. Nominatim
// rejects requests without one.
const DefaultUserAgent = "stw/dev (+https://github.com/tgienger/stw)"

// get performs a GET and returns the status code and body.
func get(ctx context.Context, client *http.Client, base string, q url.Values, header http.Header) (int, []byte, error) {
	u := base
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func ok(status int) bool { return status >= 200 && status < 300 }
