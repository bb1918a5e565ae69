package audnex

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

type flakyHTTPDoer struct {
	calls int
}

func (d *flakyHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	if d.calls == 1 {
		return nil, &url.Error{Err: timeoutError{}}
	}

	body := io.NopCloser(strings.NewReader(`{"asin":"B000000000","title":"ok"}`))
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       body,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func TestGetJSONRetriesOnTimeout(t *testing.T) {
	doer := &flakyHTTPDoer{}
	client := NewClient(WithHTTPClient(doer), WithRetryAttempts(2), WithRateLimiter(testLimiter()))

	var book Book
	err := client.getJSON(context.Background(), "http://example.test/books/B000000000", &book)
	require.NoError(t, err)
	assert.Equal(t, "ok", book.Title)
	assert.Equal(t, 2, doer.calls)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&url.Error{Err: timeoutError{}}))
	assert.True(t, isRetryable(&url.Error{Err: errors.New("connection reset by peer")}))
	assert.False(t, isRetryable(&url.Error{Err: errors.New("bad request")}))
	assert.False(t, isRetryable(ErrNotFound))
}

func TestBackoffDelayCaps(t *testing.T) {
	assert.Equal(t, 1*time.Second, backoffDelay(1))
	assert.Equal(t, 2*time.Second, backoffDelay(2))
	assert.Equal(t, 10*time.Second, backoffDelay(5))
}
