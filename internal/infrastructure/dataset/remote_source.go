package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
	"github.com/amoghlakshman/cafe-insights/internal/infrastructure/resilience"
)

// RemoteSource fetches the survey CSV from a published URL. Every attempt is
// bounded by the configured timeout; transient failures are retried behind
// the breaker, and everything else falls through to the next source.
type RemoteSource struct {
	url      string
	timeout  time.Duration
	client   *http.Client
	executor *resilience.Executor
}

func NewRemoteSource(url string, timeout time.Duration, executor *resilience.Executor) *RemoteSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteSource{
		url:      url,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
		executor: executor,
	}
}

func (s *RemoteSource) Name() string { return "remote" }

func (s *RemoteSource) Load(ctx context.Context) (*domain.SurveyDataset, error) {
	if s.url == "" {
		return nil, domain.WrapError(domain.ErrSourceUnavailable, "load remote", fmt.Errorf("no url configured"))
	}

	var dataset *domain.SurveyDataset
	fetch := func(ctx context.Context) error {
		fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, s.url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch survey csv: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return &httpStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
		}

		header, rows, err := parseCSV(resp.Body)
		if err != nil {
			return err
		}
		records, err := recordsFromRows(s.Name(), header, rows)
		if err != nil {
			return err
		}
		dataset = &domain.SurveyDataset{Records: records, Source: s.Name()}
		return nil
	}

	var err error
	if s.executor != nil {
		err = s.executor.Execute(ctx, "dataset.fetch_remote", fetch, classifyFetchError)
	} else {
		err = fetch(ctx)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrSourceUnavailable, "load remote", err)
	}
	return dataset, nil
}

type httpStatusError struct {
	StatusCode int
	Status     string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("remote dataset status: %s", e.Status)
}

func classifyFetchError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		retryable := statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
		return resilience.ErrorClassification{Retryable: retryable, RecordFailure: retryable}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || strings.Contains(err.Error(), "connection refused") {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	// Parse failures and other permanent conditions: fail fast to the next source.
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
