package hcmtools_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/effective-security/hcmbridge/hcm"
	"github.com/effective-security/hcmbridge/tools"
	"github.com/effective-security/hcmbridge/tools/hcmtools"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const resourcePrefix = "/hcmRestApi/resources/11.13.18.05/"

// recorded is the request received by the fake HCM server
type recorded struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   []byte
}

type fakeHCM struct {
	lock      sync.Mutex
	requests  []recorded
	responses map[string]string
	status    int
}

func (f *fakeHCM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.lock.Lock()
	f.requests = append(f.requests, recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	status := f.status
	f.lock.Unlock()

	resource := r.URL.Path[len(resourcePrefix):]
	if status != 0 {
		w.WriteHeader(status)
	}
	_, _ = io.WriteString(w, f.responses[resource])
}

func (f *fakeHCM) setStatus(status int) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.status = status
}

func (f *fakeHCM) last(t *testing.T) recorded {
	f.lock.Lock()
	defer f.lock.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, responses map[string]string) (*hcm.Client, *fakeHCM) {
	fake := &fakeHCM{responses: responses}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	t.Setenv(hcm.EnvBaseURL, srv.URL)
	t.Setenv(hcm.EnvPassword, "secret")
	t.Setenv(hcm.EnvUsername, "")
	t.Setenv(hcm.EnvAPIVersion, "")
	t.Setenv(hcm.EnvFrameworkVersion, "")
	t.Setenv(hcm.EnvRequestTimeout, "")

	cfg, err := hcm.FromEnv()
	require.NoError(t, err)
	c, err := hcm.NewClient(cfg)
	require.NoError(t, err)
	return c, fake
}

func TestNew(t *testing.T) {
	c, _ := newTestClient(t, nil)
	list, err := hcmtools.New(c)
	require.NoError(t, err)

	var names []string
	for _, tool := range list {
		names = append(names, tool.Name())
		assert.NotEmpty(t, tool.Description())

		js, err := json.Marshal(tool.Parameters())
		require.NoError(t, err)
		assert.Equal(t, "object", gjson.GetBytes(js, "type").String())
		assert.True(t, gjson.GetBytes(js, "properties.hcm_person_id").Exists() ||
			gjson.GetBytes(js, "properties.wbc_employee_id").Exists())
	}
	assert.Equal(t, []string{
		hcmtools.PersonIDToolName,
		hcmtools.AbsenceTypesToolName,
		hcmtools.AbsenceBalancesToolName,
		hcmtools.ProjectedBalanceToolName,
	}, names)

	_, err = hcmtools.New(nil)
	assert.Error(t, err)
	_, err = hcmtools.NewPersonID(nil)
	assert.EqualError(t, err, "get_oracle_hcm_person_id_from_westpac_id: HCM caller is required")
}

func TestToolSchemas(t *testing.T) {
	c, _ := newTestClient(t, nil)

	pt, err := hcmtools.NewProjectedBalance(c)
	require.NoError(t, err)
	js, err := json.Marshal(pt.Parameters())
	require.NoError(t, err)
	assert.Equal(t, `["hcm_person_id","legal_entity_id","absence_type_id"]`, gjson.GetBytes(js, "required").Raw)

	bt, err := hcmtools.NewAbsenceBalances(c)
	require.NoError(t, err)
	js, err = json.Marshal(bt.Parameters())
	require.NoError(t, err)
	assert.Equal(t, `["hcm_person_id"]`, gjson.GetBytes(js, "required").Raw)
	assert.Equal(t, "string", gjson.GetBytes(js, "properties.balance_as_of_date.type").String())
}

func TestDates(t *testing.T) {
	d, ok := hcmtools.APIToDisplayDate("2025-12-31")
	assert.True(t, ok)
	assert.Equal(t, "31-12-2025", d)

	d, ok = hcmtools.APIToDisplayDate("2025-1-5")
	assert.True(t, ok)
	assert.Equal(t, "05-01-2025", d)

	for _, bad := range []string{"", "31-12-2025", "2025-13-01", "2025-12-31T00:00:00Z", "soon"} {
		_, ok = hcmtools.APIToDisplayDate(bad)
		assert.False(t, ok, bad)
	}

	d, ok = hcmtools.DisplayToAPIDate("31-12-2025")
	assert.True(t, ok)
	assert.Equal(t, "2025-12-31", d)

	d, ok = hcmtools.DisplayToAPIDate("1-2-2026")
	assert.True(t, ok)
	assert.Equal(t, "2026-02-01", d)

	for _, bad := range []string{"", "2025-12-31", "31/12/2025", "32-01-2025"} {
		_, ok = hcmtools.DisplayToAPIDate(bad)
		assert.False(t, ok, bad)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var _ tools.ITool = (*hcmtools.PersonIDTool)(nil)

func diff(t *testing.T, exp, act any) {
	t.Helper()
	if d := cmp.Diff(exp, act); d != "" {
		t.Errorf("result mismatch (-want +got):\n%s", d)
	}
}
