package hcm

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/effective-security/hcmbridge/pkg/metricskey"
	"github.com/effective-security/xlog"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/hcmbridge", "hcm")

const (
	// ResourceRoot is the path of HCM REST resources
	ResourceRoot = "/hcmRestApi/resources/"
	// HeaderFrameworkVersion specifies the REST framework version
	HeaderFrameworkVersion = "REST-Framework-Version"
	// ContentTypeADFAction is the content type of action requests
	ContentTypeADFAction = "application/vnd.oracle.adf.action+json"

	tracerName = "github.com/effective-security/hcmbridge/hcm"
)

// Client is HCM REST API client.
// The client is safe for concurrent use.
type Client struct {
	cfg    *Config
	http   *http.Client
	tracer trace.Tracer
}

var _ Caller = (*Client)(nil)

type options struct {
	httpClient *http.Client
	tp         trace.TracerProvider
}

// Option configures the Client
type Option func(*options)

// WithHTTPClient specifies the HTTP client to use
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTracerProvider specifies the tracer provider,
// by default the global provider is used
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tp = tp
	}
}

// NewClient returns a new Client.
// The defaults are applied to the values that are not set in cfg.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, Internal("configuration is required")
	}
	cfg, err := cfg.resolve(noEnv)
	if err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.tp == nil {
		o.tp = otel.GetTracerProvider()
	}

	hc := o.httpClient
	if hc == nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.MaxIdleConnsPerHost = 16
		hc = &http.Client{
			Transport: otelhttp.NewTransport(tr, otelhttp.WithTracerProvider(o.tp)),
		}
	}

	return &Client{
		cfg:    cfg,
		http:   hc,
		tracer: o.tp.Tracer(tracerName),
	}, nil
}

// URL returns the absolute URL of the resource path
func (c *Client) URL(path string) string {
	return c.cfg.BaseURL + ResourceRoot + c.cfg.APIVersion + "/" + strings.TrimLeft(path, "/")
}

// Call executes the request and returns the parsed JSON body.
func (c *Client) Call(ctx context.Context, spec *CallSpec) (gjson.Result, error) {
	if spec == nil {
		return gjson.Result{}, InvalidParams("request is required")
	}
	method := strings.ToUpper(spec.Method)
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && method != http.MethodPost {
		return gjson.Result{}, InvalidParams("unsupported method: %s", spec.Method)
	}

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = c.cfg.Timeout()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resource := resourceName(spec.Path)
	started := time.Now()
	defer metricskey.PerfHCMRequest.MeasureSince(started, method, resource)

	ctx, span := c.tracer.Start(ctx, SpanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	res, err := c.do(ctx, span, method, spec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metricskey.StatsHCMRequestsFailed.IncrCounter(1, method, resource)
		logger.ContextKV(ctx, xlog.ERROR,
			"method", method,
			"resource", resource,
			"elapsed", time.Since(started).String(),
			"err", err.Error())
		return gjson.Result{}, err
	}

	metricskey.StatsHCMRequestsSucceeded.IncrCounter(1, method, resource)
	return res, nil
}

func (c *Client) do(ctx context.Context, span trace.Span, method string, spec *CallSpec) (gjson.Result, error) {
	var body io.Reader
	if len(spec.Body) > 0 {
		body = bytes.NewReader(spec.Body)
	}

	url := c.URL(spec.Path)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return gjson.Result{}, WrapInternal(err, "failed to create request")
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	if spec.FrameworkVersion {
		req.Header.Set(HeaderFrameworkVersion, c.cfg.FrameworkVersion)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", ContentTypeADFAction)
	}

	span.SetAttributes(requestAttributes(req, spec.Body)...)
	logger.ContextKV(ctx, xlog.DEBUG, "method", method, "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, HTTPError(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	logger.ContextKV(ctx, xlog.INFO, "method", method, "url", url, "status", resp.StatusCode)

	raw, rerr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if rerr != nil {
			return gjson.Result{}, Internal("HTTP %s: unable to read error response body: %s", resp.Status, rerr.Error())
		}
		return gjson.Result{}, Internal("HTTP %s: %s", resp.Status, string(raw))
	}
	if rerr != nil {
		return gjson.Result{}, WrapInternal(rerr, "JSON parsing failed")
	}

	logger.ContextKV(ctx, xlog.TRACE, "body", string(raw))

	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, Internal("JSON parsing failed: invalid response body from %s", resourceName(spec.Path))
	}
	return gjson.ParseBytes(raw), nil
}

// resourceName returns the path without the query string
func resourceName(path string) string {
	path = strings.TrimLeft(path, "/")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}
