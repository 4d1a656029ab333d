package healthcheck

import (
	"context"
	"testing"
)

type testChecker struct {
	items []CheckResult
}

func (c *testChecker) ListChecks(ctx context.Context) []CheckResult {
	return c.items
}

func TestRunCollectsResults(t *testing.T) {
	t.Parallel()

	items := Run(context.Background(),
		&testChecker{items: []CheckResult{{ID: "db.connection", Status: StatusOK}}},
		nil,
		&testChecker{items: []CheckResult{{ID: "cache", Status: StatusWarn}}},
	)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "db.connection" || items[1].ID != "cache" {
		t.Fatalf("unexpected order: %+v", items)
	}
	if !Healthy(items) {
		t.Fatalf("warn results should not be unhealthy")
	}
}

func TestHealthyDetectsError(t *testing.T) {
	t.Parallel()

	if Healthy([]CheckResult{{Status: StatusOK}, {Status: StatusError}}) {
		t.Fatalf("expected unhealthy")
	}
	if !Healthy(nil) {
		t.Fatalf("no results should be healthy")
	}
}

func TestStatusFailed(t *testing.T) {
	t.Parallel()

	for status, want := range map[Status]bool{StatusOK: false, StatusWarn: false, StatusError: true, "": false} {
		if got := status.Failed(); got != want {
			t.Fatalf("%q.Failed() = %t, want %t", status, got, want)
		}
	}
}
