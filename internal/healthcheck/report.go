package healthcheck

import "context"

// Run evaluates every checker in order and concatenates their results. Nil
// checkers are skipped.
func Run(ctx context.Context, checkers ...Checker) []CheckResult {
	results := make([]CheckResult, 0, len(checkers))
	for _, c := range checkers {
		if c == nil {
			continue
		}
		results = append(results, c.ListChecks(ctx)...)
	}
	return results
}

// Healthy reports whether no result failed.
func Healthy(results []CheckResult) bool {
	for _, r := range results {
		if r.Status.Failed() {
			return false
		}
	}
	return true
}
