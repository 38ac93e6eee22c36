package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/finance-dashboard/internal/model/analyze"
	"max.ks1230/finance-dashboard/internal/model/session"
)

const sampleCSV = "Amount,Date,Category\n" +
	"-50,2024-01-05,Groceries\n" +
	"-2200,2024-01-20,Dining\n" +
	"1000,2024-01-25,Salary\n"

type testConfig struct{}

func (testConfig) Port() int { return 8080 }

type thresholds struct{}

func (thresholds) HighThreshold() float64     { return 2000 }
func (thresholds) ModerateThreshold() float64 { return 1500 }

func newTestServer() *Server {
	return New(testConfig{}, analyze.New(thresholds{}), session.NewInMemStorage(), nil)
}

func do(t *testing.T, s *Server, method, path, session, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if session != "" {
		req.Header.Set(sessionHeader, session)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func Test_OnTransactionsUpload_ShouldNormalizeAndReport(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPost, "/api/v1/transactions", "alice", sampleCSV)
	require.Equal(t, http.StatusOK, w.Code)

	var upload transactionsResponse
	decode(t, w, &upload)
	assert.Equal(t, 2, upload.Records)
	require.Len(t, upload.Preview, 2)
	assert.Equal(t, 50.0, upload.Preview[0].Amount)

	w = do(t, s, http.MethodGet, "/api/v1/insights", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)

	var report analyze.Report
	decode(t, w, &report)
	assert.Equal(t, 2250.0, report.TotalSpending)
	require.Len(t, report.Advisories, 1)
	assert.Equal(t, analyze.AdviceHigh, report.Advisories[0].Level)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, "Dining", report.Alerts[0].Category)
}

func Test_OnMalformedUpload_ShouldKeepPriorLedger(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPost, "/api/v1/transactions", "alice", sampleCSV)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodPost, "/api/v1/transactions", "alice", "Amount,Date\n\"broken")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp errorResponse
	decode(t, w, &resp)
	assert.Contains(t, resp.Error, "Error reading CSV")

	w = do(t, s, http.MethodGet, "/api/v1/insights", "alice", "")
	var report analyze.Report
	decode(t, w, &report)
	assert.Equal(t, 2250.0, report.TotalSpending)
}

func Test_OnMissingSessionHeader_ShouldFail(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPost, "/api/v1/transactions", "", sampleCSV)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_OnInsightsForEmptySession_ShouldReturnZeroes(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodGet, "/api/v1/insights", "nobody", "")
	require.Equal(t, http.StatusOK, w.Code)

	var report analyze.Report
	decode(t, w, &report)
	assert.Zero(t, report.TotalSpending)
	assert.Empty(t, report.Monthly)
	assert.Empty(t, report.Alerts)
}

func Test_OnLimitsUpdate_ShouldAffectAlerts(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPost, "/api/v1/transactions", "alice", sampleCSV)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodPut, "/api/v1/limits", "alice", `{"Dining": 2500}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/api/v1/insights", "alice", "")
	var report analyze.Report
	decode(t, w, &report)
	assert.Empty(t, report.Alerts)
}

func Test_OnLimitsUpdate_ShouldRejectUnknownCategory(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPut, "/api/v1/limits", "alice", `{"Vacation": 100}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_OnLimitsUpdate_ShouldRejectNegativeLimit(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPut, "/api/v1/limits", "alice", `{"Dining": -1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_OnGoals_ShouldUseSessionRole(t *testing.T) {
	s := newTestServer()

	// fresh sessions start as student
	w := do(t, s, http.MethodPost, "/api/v1/goals", "alice", `{"custom-amount": 50}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp goalsResponse
	decode(t, w, &resp)
	assert.Equal(t, 650.0, resp.Total)
	assert.Contains(t, resp.Summary, "debt-free")

	w = do(t, s, http.MethodPut, "/api/v1/role", "alice", `{"role": "parent"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodPost, "/api/v1/goals", "alice", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, 600.0, resp.Total)
	assert.Contains(t, resp.Summary, "family")
}

func Test_OnGoals_ShouldRejectNegativeAmounts(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPost, "/api/v1/goals", "alice", `{"tuition-savings": -5}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_OnUnknownRole_ShouldFail(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPut, "/api/v1/role", "alice", `{"role": "landlord"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_OnPaystubUpload_ShouldRejectCorruptDocument(t *testing.T) {
	s := newTestServer()

	w := do(t, s, http.MethodPost, "/api/v1/paystub", "alice", "not a pdf at all")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp errorResponse
	decode(t, w, &resp)
	assert.Contains(t, resp.Error, "Error reading PDF")
}
