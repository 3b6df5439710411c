package distance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"van-route-service/internal/ports"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// permanent reports whether retrying the same request cannot help.
func (e *httpStatusError) permanent() bool {
	return e.Code >= 400 && e.Code < 500 && e.Code != http.StatusTooManyRequests
}

func (o *ORSDistanceProvider) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do waits for a rate limiter token and executes req. Status codes >= 400 are
// returned as *httpStatusError, wrapped with ports.ErrPermanent when a retry
// cannot succeed.
func (o *ORSDistanceProvider) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		he := &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
		if he.permanent() {
			return nil, fmt.Errorf("%w: %w", he, ports.ErrPermanent)
		}
		return nil, he
	}
	return resp, nil
}
