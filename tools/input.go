package tools

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/hcmbridge/hcm"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate returns InvalidParams error if the request
// does not pass the `validate` tags of its fields.
func Validate(req any) error {
	if req == nil || (reflect.ValueOf(req).Kind() == reflect.Ptr && reflect.ValueOf(req).IsNil()) {
		return hcm.InvalidParams("request is required")
	}
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return hcm.InvalidParams("%s is required and cannot be empty", fe.Field())
		default:
			return hcm.InvalidParams("%s is invalid", fe.Field())
		}
	}
	return hcm.InvalidParams("%s", err.Error())
}

// Decode returns the request parsed from JSON input.
// Empty input is treated as an empty object.
func Decode[I any](input string) (*I, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		input = "{}"
	}
	req := new(I)
	if err := json.Unmarshal([]byte(input), req); err != nil {
		return nil, hcm.InvalidParams("failed to parse input: %s", err.Error())
	}
	return req, nil
}

// CallTool parses and validates the JSON input,
// runs the tool and returns the JSON encoded result.
func CallTool[I any, O any](ctx context.Context, t Tool[I, O], input string) (string, error) {
	req, err := Decode[I](input)
	if err != nil {
		return "", err
	}
	if err = Validate(req); err != nil {
		return "", err
	}

	out, err := t.Run(ctx, req)
	if err != nil {
		return "", err
	}
	js, err := json.Marshal(out)
	if err != nil {
		return "", hcm.WrapInternal(err, "failed to encode result")
	}
	return string(js), nil
}
