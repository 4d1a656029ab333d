package postgreschecker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/waledger/waledger/internal/healthcheck"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckerReachable(t *testing.T) {
	t.Parallel()

	items := NewChecker(newTestLogger(), &fakePinger{}, "waledger").ListChecks(context.Background())
	if len(items) != 1 {
		t.Fatalf("expected 1 check, got %d", len(items))
	}
	if items[0].Status != healthcheck.StatusOK {
		t.Fatalf("expected ok, got %s", items[0].Status)
	}
	if items[0].Metadata["engine"] != Engine || items[0].Metadata["name"] != "waledger" {
		t.Fatalf("unexpected metadata: %v", items[0].Metadata)
	}
}

func TestCheckerUnreachable(t *testing.T) {
	t.Parallel()

	items := NewChecker(newTestLogger(), &fakePinger{err: errors.New("dial tcp: connection refused")}, "waledger").
		ListChecks(context.Background())
	if len(items) != 1 {
		t.Fatalf("expected 1 check, got %d", len(items))
	}
	if items[0].Status != healthcheck.StatusError {
		t.Fatalf("expected error, got %s", items[0].Status)
	}
	if items[0].Detail != "dial tcp: connection refused" {
		t.Fatalf("unexpected detail: %s", items[0].Detail)
	}
}

func TestCheckerNilPinger(t *testing.T) {
	t.Parallel()

	items := NewChecker(newTestLogger(), nil, "waledger").ListChecks(context.Background())
	if len(items) != 1 || items[0].Status != healthcheck.StatusError {
		t.Fatalf("expected one error check, got %+v", items)
	}
}
