package internal_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/2beens/fitassess/internal"
	"github.com/2beens/fitassess/internal/assessment"
	"github.com/2beens/fitassess/internal/charts"
	"github.com/2beens/fitassess/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"
)

const testRecordJSON = `{
	"client": {"firstName": "Ana", "lastName": "Petrovic", "restingHr": 62},
	"age": 25,
	"gender": "Male",
	"heightCm": 175,
	"weightKg": 70,
	"circumferences": {"chestCm": 98, "waistCm": 80, "hipCm": 95, "armLeftCm": 32, "armRightCm": 33, "thighLeftCm": 55, "thighRightCm": 56},
	"skinfolds": {"chest": 10, "abdomen": 15, "thigh": 12},
	"pushUps": 30,
	"squats": 40,
	"plankSeconds": 70,
	"toeTouchCm": 2,
	"verticalJumpCm": 40,
	"oneLegStance": {"openRightSec": 50, "openLeftSec": 48, "closedRightSec": 20, "closedLeftSec": 18},
	"rampTest": {"loads": "50, 100, 150, 200, 250", "rpe": [2, 4, 6, 8, 10]}
}`

// allowAll lets every request through the rate limiter.
type allowAll struct{}

func (allowAll) Allow(context.Context, string, redis_rate.Limit) (*redis_rate.Result, error) {
	return &redis_rate.Result{Allowed: 1}, nil
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string, redis_rate.Limit) (*redis_rate.Result, error) {
	return &redis_rate.Result{Allowed: 0, RetryAfter: time.Second}, nil
}

func newTestRouter(engine *MockassessmentEngine, metricsManager *metrics.Manager) *mux.Router {
	r := mux.NewRouter()
	internal.NewAssessmentHandler(engine, metricsManager).SetupRoutes(r, allowAll{}, 100)
	return r
}

func newJSONRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func label(l assessment.Label) *assessment.Label {
	return &l
}

func testResult() *assessment.Result {
	return &assessment.Result{
		Gender: assessment.GenderMale,
		Age:    25,
		Calculations: assessment.Calculations{
			BMI: 22.86, WHR: 0.84, BodyFat: 10.66, ExplosivePower: 3544,
		},
		Classifications: assessment.Classifications{
			BMI:            label(assessment.LabelNormal),
			WHR:            label(assessment.LabelGood),
			BodyFat:        label(assessment.LabelGood),
			ExplosivePower: label(assessment.LabelBelowAverage),
			PushUps:        label(assessment.LabelGood),
			Squats:         label(assessment.LabelAverage),
			Plank:          nil,
			ToeTouch:       label(assessment.LabelGood),
			OverallBalance: label(assessment.LabelExcellent),
		},
	}
}

func TestAssessmentHandler_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := newTestRouter(NewMockassessmentEngine(ctrl), metrics.NewTestManager())

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"compute":      {name: "assessment", path: "/assessment", method: "POST"},
		"report":       {name: "assessment-report-xlsx", path: "/assessment/report/xlsx", method: "POST"},
		"tables":       {name: "assessment-tables", path: "/assessment/tables", method: "GET"},
		"tables-xlsx":  {name: "assessment-tables-xlsx", path: "/assessment/tables/xlsx", method: "GET"},
		"compute-pref": {name: "assessment", path: "/assessment", method: "OPTIONS"},
	} {
		t.Run(caseName, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			routeMatch := &mux.RouteMatch{}
			muxRoute := r.Get(route.name)
			require.NotNil(t, muxRoute)
			assert.True(t, muxRoute.Match(req, routeMatch), caseName)
		})
	}
}

func TestAssessmentHandler_HandleCompute(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := NewMockassessmentEngine(ctrl)
	metricsManager := metrics.NewTestManager()
	r := newTestRouter(engine, metricsManager)

	engine.EXPECT().
		ComputeAssessment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, record assessment.ClientRecord) (*assessment.Result, error) {
			assert.Equal(t, assessment.GenderMale, record.Gender)
			assert.Equal(t, 25, record.Age)
			assert.Equal(t, assessment.Series{50, 100, 150, 200, 250}, record.RampTest.Loads)
			assert.Equal(t, "Ana", record.Client.FirstName)
			return testResult(), nil
		}).
		Times(1)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, newJSONRequest("POST", "/assessment", testRecordJSON))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	classifications, ok := resp["classifications"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Normal", classifications["BMI"])
	assert.Nil(t, classifications["Plank"])
	assert.Contains(t, classifications, "Plank", "missing labels are explicit nulls")

	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterAssessments.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterLookupMisses.WithLabelValues("Plank")))
}

func TestAssessmentHandler_HandleCompute_DecodeValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := NewMockassessmentEngine(ctrl)
	metricsManager := metrics.NewTestManager()
	r := newTestRouter(engine, metricsManager)

	// engine is never reached
	engine.EXPECT().ComputeAssessment(gomock.Any(), gomock.Any()).Times(0)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, newJSONRequest("POST", "/assessment", `{"age": 25, "gender": "male"}`))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp struct {
		Error  string `json:"error"`
		Fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, assessment.ErrValidation.Error(), resp.Error)

	fields := make([]string, 0, len(resp.Fields))
	for _, f := range resp.Fields {
		fields = append(fields, f.Field)
	}
	assert.Contains(t, fields, "heightCm")
	assert.Contains(t, fields, "rampTest")
	assert.NotContains(t, fields, "age")
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterAssessments.WithLabelValues("validation_error")))
}

func TestAssessmentHandler_HandleCompute_BadRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := NewMockassessmentEngine(ctrl)
	r := newTestRouter(engine, metrics.NewTestManager())
	engine.EXPECT().ComputeAssessment(gomock.Any(), gomock.Any()).Times(0)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assessment", strings.NewReader(testRecordJSON))
	req.Header.Set("Content-Type", "text/plain")
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, newJSONRequest("POST", "/assessment", `{"age": `))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	female := strings.Replace(testRecordJSON, `"Male"`, `"female"`, 1)
	r.ServeHTTP(rr, newJSONRequest("POST", "/assessment", female))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "skinfolds.")
}

func TestAssessmentHandler_HandleCompute_EngineErrors(t *testing.T) {
	for _, tc := range []struct {
		name           string
		err            error
		expectedStatus int
		outcome        string
	}{
		{
			name:           "validation",
			err:            &assessment.ValidationError{Field: "rampTest", Message: "loads and rpe must have the same length"},
			expectedStatus: http.StatusBadRequest,
			outcome:        "validation_error",
		},
		{
			name:           "computation",
			err:            fmt.Errorf("%w: ramp chart: boom", assessment.ErrComputation),
			expectedStatus: http.StatusInternalServerError,
			outcome:        "computation_error",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			engine := NewMockassessmentEngine(ctrl)
			metricsManager := metrics.NewTestManager()
			r := newTestRouter(engine, metricsManager)

			engine.EXPECT().
				ComputeAssessment(gomock.Any(), gomock.Any()).
				Return(nil, tc.err).
				Times(1)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, newJSONRequest("POST", "/assessment", testRecordJSON))

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterAssessments.WithLabelValues(tc.outcome)))
			if tc.expectedStatus == http.StatusBadRequest {
				assert.Contains(t, rr.Body.String(), `"field":"rampTest"`)
			}
		})
	}
}

func TestAssessmentHandler_HandleTables(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := NewMockassessmentEngine(ctrl)
	r := newTestRouter(engine, metrics.NewTestManager())
	engine.EXPECT().Tables().Return(assessment.DefaultReferenceTables()).Times(1)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/assessment/tables", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var data assessment.ReferenceTableData
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &data))
	assert.Equal(t, assessment.DefaultReferenceTables().Data(), data)
}

func TestAssessmentHandler_HandleTablesXLSX(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := NewMockassessmentEngine(ctrl)
	r := newTestRouter(engine, metrics.NewTestManager())
	engine.EXPECT().Tables().Return(assessment.DefaultReferenceTables()).Times(1)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/assessment/tables/xlsx", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "reference_tables.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "PushUp")
}

func TestAssessmentHandler_HandleReportXLSX(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := NewMockassessmentEngine(ctrl)
	r := newTestRouter(engine, metrics.NewTestManager())
	engine.EXPECT().ComputeAssessment(gomock.Any(), gomock.Any()).Return(testResult(), nil).Times(1)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, newJSONRequest("POST", "/assessment/report/xlsx", testRecordJSON))
	require.Equal(t, http.StatusOK, rr.Code)

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Assessment")
	require.NoError(t, err)
	assert.Contains(t, rows, []string{"Plank", "", "", "n/a"})
}

func TestAssessmentHandler_RateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := NewMockassessmentEngine(ctrl)
	metricsManager := metrics.NewTestManager()
	engine.EXPECT().ComputeAssessment(gomock.Any(), gomock.Any()).Times(0)
	engine.EXPECT().Tables().Return(assessment.DefaultReferenceTables()).Times(1)

	r := mux.NewRouter()
	internal.NewAssessmentHandler(engine, metricsManager).SetupRoutes(r, denyAll{}, 1)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, newJSONRequest("POST", "/assessment", testRecordJSON))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))

	// reference tables are not limited
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/assessment/tables", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAssessmentHandler_RealEngine(t *testing.T) {
	engine := assessment.NewEngine(assessment.DefaultReferenceTables(), charts.NewRenderer())
	r := mux.NewRouter()
	internal.NewAssessmentHandler(engine, metrics.NewTestManager()).SetupRoutes(r, allowAll{}, 100)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, newJSONRequest("POST", "/assessment", testRecordJSON))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result assessment.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))

	assert.Equal(t, 22.86, result.Calculations.BMI)
	assert.Equal(t, 0.84, result.Calculations.WHR)
	assert.Equal(t, 10.66, result.Calculations.BodyFat)
	assert.Equal(t, 3544.0, result.Calculations.ExplosivePower)

	cls := result.Classifications
	for name, tc := range map[string]struct {
		got      *assessment.Label
		expected assessment.Label
	}{
		"BMI":            {cls.BMI, assessment.LabelNormal},
		"WHR":            {cls.WHR, assessment.LabelGood},
		"BodyFat":        {cls.BodyFat, assessment.LabelGood},
		"ExplosivePower": {cls.ExplosivePower, assessment.LabelBelowAverage},
		"PushUps":        {cls.PushUps, assessment.LabelGood},
		"Squats":         {cls.Squats, assessment.LabelAverage},
		"Plank":          {cls.Plank, assessment.LabelBelowAverage},
		"ToeTouch":       {cls.ToeTouch, assessment.LabelGood},
		"OverallBalance": {cls.OverallBalance, assessment.LabelExcellent},
	} {
		require.NotNil(t, tc.got, name)
		assert.Equal(t, tc.expected, *tc.got, name)
	}

	assert.Equal(t, 80.0, result.Circumferences.WaistCm)
	assert.NotEmpty(t, result.Charts.BMIChart)
	assert.NotEmpty(t, result.Charts.RampChart)

	_, err := charts.DecodePNG(result.Charts.RampChart)
	assert.NoError(t, err)
	assert.False(t, errors.Is(err, assessment.ErrComputation))
}

func TestAssessmentHandler_RealEngine_NonFiniteRamp(t *testing.T) {
	engine := assessment.NewEngine(assessment.DefaultReferenceTables(), charts.NewRenderer())
	metricsManager := metrics.NewTestManager()
	r := mux.NewRouter()
	internal.NewAssessmentHandler(engine, metricsManager).SetupRoutes(r, allowAll{}, 100)

	body := strings.Replace(testRecordJSON,
		`"rampTest": {"loads": "50, 100, 150, 200, 250", "rpe": [2, 4, 6, 8, 10]}`,
		`"rampTest": {"loads": "50, 100", "rpe": "3, NaN"}`, 1)
	require.NotEqual(t, testRecordJSON, body)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, newJSONRequest("POST", "/assessment", body))

	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"rampTest"`)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterAssessments.WithLabelValues("validation_error")))
	assert.Zero(t, testutil.ToFloat64(metricsManager.CounterAssessments.WithLabelValues("computation_error")))
}
