package logging

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sync"
)

const traceparentHeader = "traceparent"

// W3C trace context: {version}-{trace-id}-{parent-id}-{trace-flags}
var traceparentRe = regexp.MustCompile(
	`^([0-9a-fA-F]{2})-([0-9a-fA-F]{32})-([0-9a-fA-F]{16})-([0-9a-fA-F]{2})$`,
)

var (
	projectIDOnce   sync.Once
	cachedProjectID string
)

type traceContext struct {
	TraceID string
	SpanID  string
	Sampled bool
}

func parseTraceparent(header string) (traceContext, bool) {
	m := traceparentRe.FindStringSubmatch(header)
	if len(m) != 5 {
		return traceContext{}, false
	}
	return traceContext{TraceID: m[2], SpanID: m[3], Sampled: m[4] == "01"}, true
}

// resource is the Cloud Trace resource name for tc within projectID.
func (tc traceContext) resource(projectID string) string {
	return fmt.Sprintf("projects/%s/traces/%s", projectID, tc.TraceID)
}

func (tc traceContext) attrs(projectID string) []any {
	return []any{
		slog.String("logging.googleapis.com/trace", tc.resource(projectID)),
		slog.String("logging.googleapis.com/spanId", tc.SpanID),
		slog.Bool("logging.googleapis.com/trace_sampled", tc.Sampled),
	}
}

// requestLogger derives a logger tagged with trace and request metadata and
// returns the correlation id to put on the context.
func requestLogger(base *slog.Logger, header, projectID, requestID string) (*slog.Logger, string) {
	var args []any
	correlation := requestID

	if tc, ok := parseTraceparent(header); ok && projectID != "" {
		args = append(args, tc.attrs(projectID)...)
		correlation = tc.resource(projectID)
	}
	if requestID != "" {
		args = append(args, slog.String("requestId", requestID))
	}
	if len(args) == 0 {
		return base, correlation
	}
	return base.With(args...), correlation
}

func resolveProjectID() string {
	projectIDOnce.Do(func() {
		for _, key := range []string{"FIREBASE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT"} {
			if v := os.Getenv(key); v != "" {
				cachedProjectID = v
				return
			}
		}
	})
	return cachedProjectID
}
