package hcm

import (
	"net/http"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// SpanName is the name of the span created for each remote request
const SpanName = "hcm-api-request"

const redacted = "[REDACTED]"

var sensitiveHeaders = map[string]bool{
	"Authorization":       true,
	"Cookie":              true,
	"Proxy-Authorization": true,
}

// sanitizeHeaders returns the request headers as a single line,
// with credentials redacted.
func sanitizeHeaders(h http.Header) string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		if sensitiveHeaders[http.CanonicalHeaderKey(k)] {
			b.WriteString(redacted)
		} else {
			b.WriteString(strings.Join(h[k], ","))
		}
	}
	return b.String()
}

func requestAttributes(r *http.Request, body []byte) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", r.Method),
		attribute.String("http.url", r.URL.String()),
		attribute.String("http.request.headers", sanitizeHeaders(r.Header)),
	}
	if len(body) > 0 {
		attrs = append(attrs, attribute.String("http.request.body", string(body)))
	}
	return attrs
}
