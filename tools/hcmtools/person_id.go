package hcmtools

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/effective-security/hcmbridge/hcm"
	"github.com/effective-security/hcmbridge/tools"
	"github.com/effective-security/xlog"
	"github.com/tidwall/gjson"
)

// PersonIDToolName is the name of the person lookup tool
const PersonIDToolName = "get_oracle_hcm_person_id_from_westpac_id"

// EmployeeRequest represents the person lookup input.
type EmployeeRequest struct {
	EmployeeID string `json:"wbc_employee_id" yaml:"wbc_employee_id" validate:"required" jsonschema:"title=Employee ID,description=Unique Westpac Employee ID,example=M061230"`
}

// PersonIDResult represents the person lookup result.
type PersonIDResult struct {
	PersonID string `json:"PersonId" yaml:"PersonId"`
}

// PersonIDTool resolves HCM PersonId from Westpac employee ID
type PersonIDTool struct {
	info
}

var _ tools.Tool[EmployeeRequest, PersonIDResult] = (*PersonIDTool)(nil)

func NewPersonID(caller hcm.Caller) (*PersonIDTool, error) {
	i, err := newInfo[EmployeeRequest](caller, PersonIDToolName,
		"Get Oracle HCM PersonId for a provided Westpac M/F/L id. Example: M061230 is a Westpac Employee ID, but it's corresponding PersonId in Oracle HCM is needed for API/or other Tool calls to HCM.")
	if err != nil {
		return nil, err
	}
	return &PersonIDTool{info: i}, nil
}

func (t *PersonIDTool) Run(ctx context.Context, req *EmployeeRequest) (*PersonIDResult, error) {
	if err := tools.Validate(req); err != nil {
		return nil, err
	}

	// worker numbers are stored in upper case
	q := url.Values{}
	q.Set("q", "assignments.WorkerNumber='"+strings.ToUpper(req.EmployeeID)+"'")
	q.Set("onlyData", "true")
	q.Set("limit", "1")

	res, err := t.caller.Call(ctx, &hcm.CallSpec{
		Path:             "publicWorkers?" + q.Encode(),
		Method:           http.MethodGet,
		FrameworkVersion: true,
	})
	if err != nil {
		return nil, err
	}

	personID, ok := personIDFrom(res.Get("items.0.PersonId"))
	if !ok {
		logger.ContextKV(ctx, xlog.DEBUG, "reason", "not_found", "employee_id", req.EmployeeID)
		return nil, hcm.InvalidParams("PersonID not found for Westpac Employee ID: %s", req.EmployeeID)
	}

	return &PersonIDResult{PersonID: personID}, nil
}

// personIDFrom returns the identifier as sent by HCM,
// which may be encoded as a string or a number
func personIDFrom(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.String:
		return v.String(), v.String() != ""
	case gjson.Number:
		return v.Raw, true
	default:
		return "", false
	}
}

func (t *PersonIDTool) Call(ctx context.Context, input string) (string, error) {
	return tools.CallTool[EmployeeRequest, PersonIDResult](ctx, t, input)
}
