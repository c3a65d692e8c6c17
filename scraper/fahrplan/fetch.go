package fahrplan

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"

	"c3speakers/config"
	"c3speakers/models"
	"c3speakers/utils"
)

// customHeaders make requests look less bot-like.
var customHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:128.0) Gecko/20100101 Firefox/128.0",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.8",
}

// Outcome tags the result of a fetch.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not found"
	default:
		return "failed"
	}
}

// Result is what a fetch produced. Body is set for OutcomeOK, Err for
// OutcomeFailed (always a *models.TransportError).
type Result struct {
	Outcome Outcome
	Address string
	Body    []byte
	Err     error
}

// Fetcher retrieves Fahrplan documents from the network, falling back to
// the local filesystem.
type Fetcher struct {
	client *resty.Client
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// NewFetcher creates a Fetcher with the configured timeout and retry policy.
func NewFetcher(cfg *config.Config, logger *utils.Logger) *Fetcher {
	client := resty.New()
	client.SetTimeout(cfg.RequestTimeout)
	client.SetHeaders(customHeaders)

	return &Fetcher{
		client: client,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   cfg.RetryBaseDelay,
			Logger:      logger,
			Retryable:   isTransient,
		},
	}
}

// Fetch retrieves one document. It never returns a Go error: expected
// failures are reported through the Result's Outcome.
func (f *Fetcher) Fetch(ctx context.Context, address string) Result {
	res, err := f.client.R().SetContext(ctx).Get(address)
	if err != nil {
		if isTimeout(err) {
			return f.failed(address, &models.TransportError{Address: address, Reason: models.ReasonTimeout, Err: err})
		}
		return f.fetchLocal(address, err)
	}

	switch code := res.StatusCode(); {
	case code/100 == 2:
		body, err := decode(res.Body(), res.Header().Get("Content-Type"))
		if err != nil {
			return f.failed(address, &models.TransportError{Address: address, Reason: models.ReasonStatus, StatusCode: code, Err: err})
		}
		f.logger.Info("✓ Opening %s", address)
		return Result{Outcome: OutcomeOK, Address: address, Body: body}
	case code == http.StatusNotFound:
		f.logger.Info("✗ 404 - page not found: %s", address)
		return Result{Outcome: OutcomeNotFound, Address: address}
	default:
		return f.failed(address, &models.TransportError{Address: address, Reason: models.ReasonStatus, StatusCode: code})
	}
}

// FetchWithRetry is Fetch, repeated on timeouts and connection failures
// according to the configured retry policy.
func (f *Fetcher) FetchWithRetry(ctx context.Context, address string) Result {
	var last Result
	_ = f.retry.Do(ctx, "fetch "+address, func() error {
		last = f.Fetch(ctx, address)
		if last.Outcome == OutcomeFailed {
			return last.Err
		}
		return nil
	})
	return last
}

func (f *Fetcher) fetchLocal(address string, transportErr error) Result {
	path := address
	if u, err := url.Parse(address); err == nil && u.Scheme == "file" {
		path = u.Path
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		reason := models.ReasonInvalidAddress
		if isRemote(address) {
			reason = models.ReasonConnection
			err = transportErr
		}
		return f.failed(address, &models.TransportError{Address: address, Reason: reason, Err: err})
	}

	body, err := decode(raw, "text/html")
	if err != nil {
		return f.failed(address, &models.TransportError{Address: address, Reason: models.ReasonInvalidAddress, Err: err})
	}
	f.logger.Info("✓ Opening %s", path)
	return Result{Outcome: OutcomeOK, Address: address, Body: body}
}

func (f *Fetcher) failed(address string, err *models.TransportError) Result {
	f.logger.Warn("✗ %v", err)
	return Result{Outcome: OutcomeFailed, Address: address, Err: err}
}

// decode converts body to UTF-8 based on the declared or sniffed charset.
func decode(body []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func isRemote(address string) bool {
	u, err := url.Parse(address)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTransient(err error) bool {
	var te *models.TransportError
	return errors.As(err, &te) && te.Transient()
}
