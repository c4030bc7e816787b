package hcmtools

import (
	"context"
	"net/http"
	"time"

	"github.com/effective-security/hcmbridge/hcm"
	"github.com/effective-security/hcmbridge/tools"
	"github.com/effective-security/xlog"
	"github.com/tidwall/sjson"
)

// ProjectedBalanceToolName is the name of the projected balance tool
const ProjectedBalanceToolName = "get_projected_balance"

// ProjectionTimeout is the timeout of the projection request,
// HCM takes long to calculate it
const ProjectionTimeout = 60 * time.Second

// Projection entry values for a single full day absence
const (
	projectionUOM      = "H"
	projectionDuration = 7.6
)

// ProjectedBalanceRequest represents the projected balance input.
type ProjectedBalanceRequest struct {
	PersonID        string `json:"hcm_person_id" yaml:"hcm_person_id" validate:"required" jsonschema:"title=Person ID,description=Unique PersonID in Oracle HCM,example=300000578701661"`
	LegalEntityID   string `json:"legal_entity_id" yaml:"legal_entity_id" validate:"required" jsonschema:"title=Legal Entity ID,description=The Legal Entity ID of the employee,example=300000001487001"`
	AbsenceTypeID   string `json:"absence_type_id" yaml:"absence_type_id" validate:"required" jsonschema:"title=Absence Type ID,description=The Absence Type ID to project the balance for,example=300001058681790"`
	BalanceAsOfDate string `json:"balance_as_of_date,omitempty" yaml:"balance_as_of_date,omitempty" jsonschema:"title=Balance As Of Date,description=Projection date in DD-MM-YYYY format. Defaults to the current date if not provided.,example=31-12-2025"`
}

// ProjectedBalanceResult represents the projected balance result.
type ProjectedBalanceResult struct {
	AbsenceTypeID    string `json:"absence_type_id" yaml:"absence_type_id"`
	ProjectedBalance string `json:"projected_balance" yaml:"projected_balance"`
}

// ProjectedBalanceTool calculates the projected absence balance as of date
type ProjectedBalanceTool struct {
	info
	now func() time.Time
}

var _ tools.Tool[ProjectedBalanceRequest, ProjectedBalanceResult] = (*ProjectedBalanceTool)(nil)

func NewProjectedBalance(caller hcm.Caller, opts ...Option) (*ProjectedBalanceTool, error) {
	i, err := newInfo[ProjectedBalanceRequest](caller, ProjectedBalanceToolName,
		"Get projected balance for a particular PersonId as well as a projection date/effective date in DD-MM-YYYY format (Balance As Of Date), for a particular AbsenceTypeId")
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return &ProjectedBalanceTool{info: i, now: o.now}, nil
}

func (t *ProjectedBalanceTool) Run(ctx context.Context, req *ProjectedBalanceRequest) (*ProjectedBalanceResult, error) {
	if err := tools.Validate(req); err != nil {
		return nil, err
	}

	date := t.projectionDate(ctx, req.BalanceAsOfDate)
	body, err := projectionBody(req, date)
	if err != nil {
		return nil, err
	}

	res, err := t.caller.Call(ctx, &hcm.CallSpec{
		Path:             "absences/action/loadProjectedBalance",
		Method:           http.MethodPost,
		Body:             body,
		FrameworkVersion: true,
		Timeout:          ProjectionTimeout,
	})
	if err != nil {
		return nil, err
	}

	balance, ok := str(res, "result.formattedProjectedBalance")
	if !ok {
		return nil, hcm.Internal("failed to parse projected balance from response")
	}

	return &ProjectedBalanceResult{
		AbsenceTypeID:    req.AbsenceTypeID,
		ProjectedBalance: balance,
	}, nil
}

// projectionDate returns the date in YYYY-MM-DD format,
// the current local date is used if the value is empty or invalid
func (t *ProjectedBalanceTool) projectionDate(ctx context.Context, value string) string {
	if value != "" {
		if d, ok := DisplayToAPIDate(value); ok {
			return d
		}
		logger.ContextKV(ctx, xlog.DEBUG, "reason", "invalid_date", "balance_as_of_date", value)
	}
	return t.now().Local().Format(APIDateLayout)
}

func projectionBody(req *ProjectedBalanceRequest, date string) ([]byte, error) {
	fields := []struct {
		path  string
		value any
	}{
		{"entry.personId", req.PersonID},
		{"entry.legalEntityId", req.LegalEntityID},
		{"entry.absenceTypeId", req.AbsenceTypeID},
		{"entry.openEndedFlag", "N"},
		{"entry.startDate", date},
		{"entry.endDate", date},
		{"entry.uom", projectionUOM},
		{"entry.duration", projectionDuration},
		{"entry.startDateDuration", projectionDuration},
		{"entry.endDateDuration", projectionDuration},
	}

	body := []byte(`{}`)
	var err error
	for _, f := range fields {
		body, err = sjson.SetBytes(body, f.path, f.value)
		if err != nil {
			return nil, hcm.WrapInternal(err, "failed to build projection request")
		}
	}
	return body, nil
}

func (t *ProjectedBalanceTool) Call(ctx context.Context, input string) (string, error) {
	return tools.CallTool[ProjectedBalanceRequest, ProjectedBalanceResult](ctx, t, input)
}
