package hcmtools_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/effective-security/hcmbridge/hcm"
	"github.com/effective-security/hcmbridge/mocks/mockhcm"
	"github.com/effective-security/hcmbridge/tools/hcmtools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAbsenceTypes(t *testing.T) {
	c, fake := newTestClient(t, map[string]string{
		"absenceTypesLOV": `{"items":[
			{"AbsenceTypeId":"300001058681790","EmployerId":"300000001487001","AbsenceTypeName":"Annual Leave"},
			{"AbsenceTypeId":"300001058681791","EmployerId":"300000001487001"},
			{"AbsenceTypeId":300001058681792,"EmployerId":"300000001487001","AbsenceTypeName":"Numeric"},
			{"AbsenceTypeId":"300001058681793","EmployerId":"300000001487001","AbsenceTypeName":"Personal Leave"}
		]}`,
	})
	tool, err := hcmtools.NewAbsenceTypes(c)
	require.NoError(t, err)

	res, err := tool.Run(context.Background(), &hcmtools.PersonRequest{PersonID: "300000578701661"})
	require.NoError(t, err)
	diff(t, &hcmtools.AbsenceTypesResult{
		AbsenceTypes: []hcmtools.AbsenceType{
			{AbsenceTypeID: "300001058681790", EmployerID: "300000001487001", AbsenceTypeName: "Annual Leave"},
			{AbsenceTypeID: "300001058681793", EmployerID: "300000001487001", AbsenceTypeName: "Personal Leave"},
		},
	}, res)

	req := fake.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, resourcePrefix+"absenceTypesLOV", req.Path)
	assert.Equal(t, []string{"findByWord;PersonId=300000578701661"}, req.Query["finder"])
	assert.Equal(t, []string{"true"}, req.Query["onlyData"])
	assert.Equal(t, "9", req.Header.Get(hcm.HeaderFrameworkVersion))
}

func TestAbsenceTypes_Empty(t *testing.T) {
	for _, resp := range []string{`{"items":[]}`, `{"count":0}`, `{"items":{}}`} {
		c, _ := newTestClient(t, map[string]string{"absenceTypesLOV": resp})
		tool, err := hcmtools.NewAbsenceTypes(c)
		require.NoError(t, err)

		out, err := tool.Call(context.Background(), `{"hcm_person_id":"300000578701661"}`)
		require.NoError(t, err, resp)
		assert.Equal(t, `{"absence_types":[]}`, out)
	}
}

func TestAbsenceTypes_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	caller := mockhcm.NewMockCaller(ctrl)
	caller.EXPECT().Call(gomock.Any(), gomock.Any()).Times(0)

	tool, err := hcmtools.NewAbsenceTypes(caller)
	require.NoError(t, err)

	_, err = tool.Call(context.Background(), `{"hcm_person_id":""}`)
	require.Error(t, err)
	assert.Equal(t, "invalid parameters: hcm_person_id is required and cannot be empty", err.Error())
}

func TestAbsenceTypes_StatusError(t *testing.T) {
	c, fake := newTestClient(t, map[string]string{"absenceTypesLOV": `{"title":"Bad Request"}`})
	fake.setStatus(http.StatusBadRequest)

	tool, err := hcmtools.NewAbsenceTypes(c)
	require.NoError(t, err)

	_, err = tool.Call(context.Background(), `{"hcm_person_id":"300000578701661"}`)
	require.Error(t, err)
	assert.True(t, hcm.IsKind(err, hcm.KindInternal))
	assert.Equal(t, `internal error: HTTP 400 Bad Request: {"title":"Bad Request"}`, err.Error())
}
