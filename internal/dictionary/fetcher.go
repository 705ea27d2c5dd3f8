package dictionary

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
)

const DefaultMaxRetryAttempts = 3

// Fetcher downloads word lists over HTTP.
type Fetcher struct {
	client           *resty.Client
	maxRetryAttempts uint
	delay            time.Duration
	cache            *FileCache
}

func NewFetcher(maxRetryAttempts uint) *Fetcher {
	return &Fetcher{
		client:           resty.New(),
		maxRetryAttempts: maxRetryAttempts,
		delay:            500 * time.Millisecond,
	}
}

// WithCache stores downloaded lists under cacheDirectory and reuses them.
func (f *Fetcher) WithCache(cacheDirectory string) *Fetcher {
	f.cache = NewFileCache(cacheDirectory)
	return f
}

type statusError struct {
	statusCode int
	body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status code: %d, body: %s", e.statusCode, e.body)
}

func isRetryableStatus(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]string, error) {
	download := func() ([]byte, error) {
		return f.download(ctx, url)
	}
	var body []byte
	var err error
	if f.cache != nil {
		body, err = f.cache.load(url, download)
	} else {
		body, err = download()
	}
	if err != nil {
		return nil, err
	}

	words, err := ReadWords(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ReadWords(%s) > %w", url, err)
	}
	return words, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	attempt := 0
	if err := retry.Do(
		func() error {
			attempt++
			res, err := f.client.R().
				SetContext(ctx).
				Get(url)
			if err != nil {
				return fmt.Errorf("client.R.Get(%s) > %w", url, err)
			}
			if res.StatusCode() != http.StatusOK {
				err := &statusError{statusCode: res.StatusCode(), body: string(res.Body())}
				if !isRetryableStatus(res.StatusCode()) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			body = res.Body()
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(f.maxRetryAttempts+1),
		retry.Delay(f.delay),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying word list download",
				"attempt", n+1,
				"url", url,
				"lastError", err)
		}),
	); err != nil {
		return nil, fmt.Errorf("failed to download %s after %d attempts: %w", url, attempt, err)
	}
	return body, nil
}
