package hcmtools

import (
	"context"
	"net/http"
	"net/url"

	"github.com/effective-security/hcmbridge/hcm"
	"github.com/effective-security/hcmbridge/tools"
	"github.com/tidwall/gjson"
)

// AbsenceBalancesToolName is the name of the absence balances tool
const AbsenceBalancesToolName = "get_all_absence_balances_for_employee_hcm_person_id"

// AbsenceBalanceRequest represents the absence balances input.
// Only PersonID is used to filter the balances.
type AbsenceBalanceRequest struct {
	PersonID        string `json:"hcm_person_id" yaml:"hcm_person_id" validate:"required" jsonschema:"title=Person ID,description=Unique PersonID in Oracle HCM,example=300000578701661"`
	BalanceAsOfDate string `json:"balance_as_of_date,omitempty" yaml:"balance_as_of_date,omitempty" jsonschema:"title=Balance As Of Date,description=Effective date for the balance in DD-MM-YYYY format. Defaults to the HCM system calculated date if not provided.,example=31-12-2025"`
	AbsenceTypeID   string `json:"absence_type_id,omitempty" yaml:"absence_type_id,omitempty" jsonschema:"title=Absence Type ID,description=The Absence Type ID for the absence balance request,example=300001058681790"`
	LegalEntityID   string `json:"legal_entity_id,omitempty" yaml:"legal_entity_id,omitempty" jsonschema:"title=Legal Entity ID,description=The Legal Entity ID for the absence balance request,example=300000001487001"`
}

// AbsenceBalance is the current balance of an absence plan
type AbsenceBalance struct {
	PlanName               string `json:"planName" yaml:"planName"`
	CarryOver              bool   `json:"carryOver" yaml:"carryOver"`
	PlanStatus             string `json:"planStatus" yaml:"planStatus"`
	FormattedBalance       string `json:"formattedBalance" yaml:"formattedBalance"`
	BalanceCalculationDate string `json:"balanceCalculationDate" yaml:"balanceCalculationDate"`
}

// AbsenceBalancesResult represents the absence balances result.
type AbsenceBalancesResult struct {
	AbsenceBalances []AbsenceBalance `json:"absence_balances" yaml:"absence_balances"`
}

// AbsenceBalancesTool lists the current absence balances of the person
type AbsenceBalancesTool struct {
	info
}

var _ tools.Tool[AbsenceBalanceRequest, AbsenceBalancesResult] = (*AbsenceBalancesTool)(nil)

func NewAbsenceBalances(caller hcm.Caller) (*AbsenceBalancesTool, error) {
	i, err := newInfo[AbsenceBalanceRequest](caller, AbsenceBalancesToolName,
		"Get all available absence balances for a particular employee, based on their PersonId (the balances are based off a system calculation date, and not projected balances).")
	if err != nil {
		return nil, err
	}
	return &AbsenceBalancesTool{info: i}, nil
}

func (t *AbsenceBalancesTool) Run(ctx context.Context, req *AbsenceBalanceRequest) (*AbsenceBalancesResult, error) {
	if err := tools.Validate(req); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("onlyData", "true")
	q.Set("q", "personId="+req.PersonID+";planDisplayStatusFlag=true")

	// planBalances rejects REST-Framework-Version header
	// without Effective-Of header
	res, err := t.caller.Call(ctx, &hcm.CallSpec{
		Path:             "planBalances?" + q.Encode(),
		Method:           http.MethodGet,
		FrameworkVersion: false,
	})
	if err != nil {
		return nil, err
	}

	return &AbsenceBalancesResult{
		AbsenceBalances: collect(res, decodeAbsenceBalance),
	}, nil
}

func decodeAbsenceBalance(item gjson.Result) (AbsenceBalance, bool) {
	var b AbsenceBalance
	var ok bool
	if b.PlanName, ok = str(item, "planName"); !ok {
		return b, false
	}
	if b.CarryOver, ok = boolean(item, "multiYearCarryOverFlag"); !ok {
		return b, false
	}
	if b.PlanStatus, ok = str(item, "planStatusMeaning"); !ok {
		return b, false
	}
	if b.FormattedBalance, ok = str(item, "formattedBalance"); !ok {
		return b, false
	}
	date, ok := str(item, "balanceCalculationDate")
	if !ok {
		return b, false
	}
	if b.BalanceCalculationDate, ok = APIToDisplayDate(date); !ok {
		return b, false
	}
	return b, true
}

func (t *AbsenceBalancesTool) Call(ctx context.Context, input string) (string, error) {
	return tools.CallTool[AbsenceBalanceRequest, AbsenceBalancesResult](ctx, t, input)
}
