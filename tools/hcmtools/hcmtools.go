package hcmtools

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/hcmbridge/hcm"
	"github.com/effective-security/hcmbridge/schema"
	"github.com/effective-security/hcmbridge/tools"
	"github.com/effective-security/xlog"
	"github.com/tidwall/gjson"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/hcmbridge", "hcmtools")

// Date layouts
const (
	// DisplayDateLayout is DD-MM-YYYY format used by the tools
	DisplayDateLayout = "02-01-2006"
	// APIDateLayout is YYYY-MM-DD format used by HCM
	APIDateLayout = "2006-01-02"

	displayDateParseLayout = "2-1-2006"
	apiDateParseLayout     = "2006-1-2"
)

// Option configures the tools
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock specifies the clock used for the default projection date
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) *options {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// New returns all HCM tools using the caller
func New(caller hcm.Caller, opts ...Option) ([]tools.ITool, error) {
	personID, err := NewPersonID(caller)
	if err != nil {
		return nil, err
	}
	absenceTypes, err := NewAbsenceTypes(caller)
	if err != nil {
		return nil, err
	}
	balances, err := NewAbsenceBalances(caller)
	if err != nil {
		return nil, err
	}
	projected, err := NewProjectedBalance(caller, opts...)
	if err != nil {
		return nil, err
	}
	return []tools.ITool{personID, absenceTypes, balances, projected}, nil
}

// info holds the common tool properties
type info struct {
	name        string
	description string
	params      *schema.Schema
	caller      hcm.Caller
}

func newInfo[I any](caller hcm.Caller, name, description string) (info, error) {
	if caller == nil {
		return info{}, errors.Errorf("%s: HCM caller is required", name)
	}
	sc, err := schema.For[I]()
	if err != nil {
		return info{}, errors.Wrap(err, "failed to create schema")
	}
	return info{
		name:        name,
		description: description,
		params:      sc,
		caller:      caller,
	}, nil
}

func (t *info) Name() string {
	return t.name
}

func (t *info) Description() string {
	return t.description
}

func (t *info) Parameters() any {
	return t.params
}

// collect returns the records decoded from `items` array,
// dropping the items that decode returns false for
func collect[T any](res gjson.Result, decode func(gjson.Result) (T, bool)) []T {
	list := make([]T, 0)
	items := res.Get("items")
	if !items.IsArray() {
		return list
	}
	items.ForEach(func(_, item gjson.Result) bool {
		if v, ok := decode(item); ok {
			list = append(list, v)
		}
		return true
	})
	return list
}

// str returns the string field, or false if the field is absent or not a string
func str(item gjson.Result, path string) (string, bool) {
	v := item.Get(path)
	if v.Type != gjson.String {
		return "", false
	}
	return v.String(), true
}

// boolean returns the bool field, or false if the field is absent or not a bool
func boolean(item gjson.Result, path string) (val bool, ok bool) {
	v := item.Get(path)
	if !v.IsBool() {
		return false, false
	}
	return v.Bool(), true
}

// APIToDisplayDate converts YYYY-MM-DD date to DD-MM-YYYY format
func APIToDisplayDate(s string) (string, bool) {
	d, err := time.Parse(apiDateParseLayout, s)
	if err != nil {
		return "", false
	}
	return d.Format(DisplayDateLayout), true
}

// DisplayToAPIDate converts DD-MM-YYYY date to YYYY-MM-DD format
func DisplayToAPIDate(s string) (string, bool) {
	d, err := time.Parse(displayDateParseLayout, s)
	if err != nil {
		return "", false
	}
	return d.Format(APIDateLayout), true
}
