package hcm

import (
	"context"
	"time"

	"github.com/tidwall/gjson"
)

//go:generate mockgen -source=caller.go -destination=../mocks/mockhcm/hcm_mock.gen.go -package mockhcm

// Caller executes a request against the HCM REST API.
type Caller interface {
	// Call executes the request and returns the parsed JSON body of a 2xx response.
	Call(ctx context.Context, spec *CallSpec) (gjson.Result, error)
}

// CallSpec describes a single remote request.
type CallSpec struct {
	// Path relative to the versioned resource root, with the query string if any
	Path string
	// Method is GET or POST
	Method string
	// Body of POST request
	Body []byte
	// FrameworkVersion specifies to send REST-Framework-Version header
	FrameworkVersion bool
	// Timeout overrides the configured request timeout, if not zero
	Timeout time.Duration
}
