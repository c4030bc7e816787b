package hcmtools

import (
	"context"
	"net/http"
	"net/url"

	"github.com/effective-security/hcmbridge/hcm"
	"github.com/effective-security/hcmbridge/tools"
	"github.com/tidwall/gjson"
)

// AbsenceTypesToolName is the name of the absence types tool
const AbsenceTypesToolName = "get_absence_types_for_employee_hcm_person_id"

// PersonRequest represents the input identifying HCM person.
type PersonRequest struct {
	PersonID string `json:"hcm_person_id" yaml:"hcm_person_id" validate:"required" jsonschema:"title=Person ID,description=Unique PersonID in Oracle HCM,example=300000578701661"`
}

// AbsenceType is an absence type available to the person
type AbsenceType struct {
	AbsenceTypeID   string `json:"AbsenceTypeId" yaml:"AbsenceTypeId"`
	EmployerID      string `json:"EmployerId" yaml:"EmployerId"`
	AbsenceTypeName string `json:"AbsenceTypeName" yaml:"AbsenceTypeName"`
}

// AbsenceTypesResult represents the absence types result.
type AbsenceTypesResult struct {
	AbsenceTypes []AbsenceType `json:"absence_types" yaml:"absence_types"`
}

// AbsenceTypesTool lists absence types available to the person
type AbsenceTypesTool struct {
	info
}

var _ tools.Tool[PersonRequest, AbsenceTypesResult] = (*AbsenceTypesTool)(nil)

func NewAbsenceTypes(caller hcm.Caller) (*AbsenceTypesTool, error) {
	i, err := newInfo[PersonRequest](caller, AbsenceTypesToolName,
		"Get the absence type IDs, and Employer IDs which are available in Oracle HCM for a particular employee, based on their PersonId. This data is used during projection of employee absence balances.")
	if err != nil {
		return nil, err
	}
	return &AbsenceTypesTool{info: i}, nil
}

func (t *AbsenceTypesTool) Run(ctx context.Context, req *PersonRequest) (*AbsenceTypesResult, error) {
	if err := tools.Validate(req); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("onlyData", "true")
	q.Set("finder", "findByWord;PersonId="+req.PersonID)

	res, err := t.caller.Call(ctx, &hcm.CallSpec{
		Path:             "absenceTypesLOV?" + q.Encode(),
		Method:           http.MethodGet,
		FrameworkVersion: true,
	})
	if err != nil {
		return nil, err
	}

	return &AbsenceTypesResult{
		AbsenceTypes: collect(res, decodeAbsenceType),
	}, nil
}

func decodeAbsenceType(item gjson.Result) (AbsenceType, bool) {
	var (
		at  AbsenceType
		ok1 bool
		ok2 bool
		ok3 bool
	)
	at.AbsenceTypeID, ok1 = str(item, "AbsenceTypeId")
	at.EmployerID, ok2 = str(item, "EmployerId")
	at.AbsenceTypeName, ok3 = str(item, "AbsenceTypeName")
	return at, ok1 && ok2 && ok3
}

func (t *AbsenceTypesTool) Call(ctx context.Context, input string) (string, error) {
	return tools.CallTool[PersonRequest, AbsenceTypesResult](ctx, t, input)
}
