package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
)

const remoteBody = csvHeader + "\n" +
	"25-34,Female,\"20,001 - 35,000\",Employed,Bachelor's degree,Once a week,Occasional reader,Coffee quality,45.5,120,80,Definitely will visit\n"

func TestRemoteSourceFetchesCSV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(remoteBody))
	}))
	defer server.Close()

	source := NewRemoteSource(server.URL, 5*time.Second, nil)
	dataset, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if dataset.Len() != 1 {
		t.Fatalf("rows = %d, want 1", dataset.Len())
	}
	if dataset.Source != "remote" {
		t.Fatalf("Source = %q, want remote", dataset.Source)
	}
}

func TestRemoteSourceServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewRemoteSource(server.URL, 5*time.Second, nil).Load(context.Background())
	if !domain.IsKind(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable for 500, got %v", err)
	}
}

func TestRemoteSourceNoURL(t *testing.T) {
	_, err := NewRemoteSource("", time.Second, nil).Load(context.Background())
	if !domain.IsKind(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable for empty url, got %v", err)
	}
}

func TestClassifyFetchError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"429", &httpStatusError{StatusCode: http.StatusTooManyRequests, Status: "429 Too Many Requests"}, true},
		{"503", &httpStatusError{StatusCode: http.StatusServiceUnavailable, Status: "503 Service Unavailable"}, true},
		{"404", &httpStatusError{StatusCode: http.StatusNotFound, Status: "404 Not Found"}, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyFetchError(tt.err)
			if got.Retryable != tt.retryable {
				t.Fatalf("Retryable = %v, want %v", got.Retryable, tt.retryable)
			}
		})
	}
}
