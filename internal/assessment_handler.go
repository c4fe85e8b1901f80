package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/fitassess/internal/assessment"
	"github.com/2beens/fitassess/internal/middleware"
	"github.com/2beens/fitassess/internal/reports"
	"github.com/2beens/fitassess/internal/telemetry/metrics"
	"github.com/2beens/fitassess/internal/telemetry/tracing"
	"github.com/2beens/fitassess/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=internal_test

type assessmentEngine interface {
	ComputeAssessment(ctx context.Context, record assessment.ClientRecord) (*assessment.Result, error)
	Tables() *assessment.ReferenceTables
}

const (
	outcomeOK              = "ok"
	outcomeValidationError = "validation_error"
	outcomeComputeError    = "computation_error"
)

type AssessmentHandler struct {
	engine         assessmentEngine
	metricsManager *metrics.Manager
}

func NewAssessmentHandler(engine assessmentEngine, metricsManager *metrics.Manager) *AssessmentHandler {
	return &AssessmentHandler{
		engine:         engine,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the assessment routes. The compute routes are rate
// limited per client, the reference table routes are not.
func (handler *AssessmentHandler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	mainRouter.HandleFunc("/assessment/tables", handler.HandleTables).Methods("GET", "OPTIONS").Name("assessment-tables")
	mainRouter.HandleFunc("/assessment/tables/xlsx", handler.HandleTablesXLSX).Methods("GET", "OPTIONS").Name("assessment-tables-xlsx")

	computeRouter := mainRouter.Methods("POST", "OPTIONS").PathPrefix("/assessment").Subrouter()
	computeRouter.HandleFunc("", handler.HandleCompute).Name("assessment")
	computeRouter.HandleFunc("/report/xlsx", handler.HandleReportXLSX).Name("assessment-report-xlsx")
	computeRouter.Use(middleware.RateLimit(rateLimiter, "assessment", allowedPerMin, handler.metricsManager))
}

type fieldErrorResponse struct {
	Error  string                        `json:"error"`
	Fields []*assessment.ValidationError `json:"fields,omitempty"`
}

func (handler *AssessmentHandler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "assessmentHandler.compute")
	defer span.End()

	record, ok := decodeRecord(w, r)
	if !ok {
		handler.countOutcome(outcomeValidationError)
		return
	}

	result, ok := handler.compute(ctx, w, record)
	if !ok {
		return
	}

	pkg.WriteJSON(w, result, http.StatusOK)
}

func (handler *AssessmentHandler) HandleReportXLSX(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "assessmentHandler.reportXlsx")
	defer span.End()

	record, ok := decodeRecord(w, r)
	if !ok {
		handler.countOutcome(outcomeValidationError)
		return
	}

	result, ok := handler.compute(ctx, w, record)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteAssessment(&buf, result); err != nil {
		log.Errorf("write assessment report: %s", err)
		http.Error(w, "failed to create report", http.StatusInternalServerError)
		return
	}
	span.SetAttributes(attribute.Int("report.bytes", buf.Len()))

	w.Header().Set("Content-Disposition", `attachment; filename="assessment.xlsx"`)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.XLSX, buf.Bytes())
}

func (handler *AssessmentHandler) HandleTables(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "assessmentHandler.tables")
	defer span.End()

	pkg.WriteJSON(w, handler.engine.Tables().Data(), http.StatusOK)
}

func (handler *AssessmentHandler) HandleTablesXLSX(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "assessmentHandler.tablesXlsx")
	defer span.End()

	var buf bytes.Buffer
	if err := reports.WriteReferenceTables(&buf, handler.engine.Tables().Data()); err != nil {
		log.Errorf("write reference tables: %s", err)
		http.Error(w, "failed to create workbook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="reference_tables.xlsx"`)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.XLSX, buf.Bytes())
}

// compute runs the engine and writes the error response itself if it fails.
func (handler *AssessmentHandler) compute(
	ctx context.Context,
	w http.ResponseWriter,
	record assessment.ClientRecord,
) (*assessment.Result, bool) {
	begin := time.Now()
	result, err := handler.engine.ComputeAssessment(ctx, record)
	if handler.metricsManager != nil {
		handler.metricsManager.HistAssessmentDuration.Observe(time.Since(begin).Seconds())
	}

	switch {
	case err == nil:
	case errors.Is(err, assessment.ErrValidation):
		handler.countOutcome(outcomeValidationError)
		writeValidationError(w, err)
		return nil, false
	default:
		handler.countOutcome(outcomeComputeError)
		log.Errorf("compute assessment: %s", err)
		http.Error(w, "failed to compute assessment", http.StatusInternalServerError)
		return nil, false
	}

	handler.countOutcome(outcomeOK)
	if handler.metricsManager != nil {
		for _, name := range result.Classifications.Missing() {
			handler.metricsManager.CounterLookupMisses.WithLabelValues(name).Inc()
		}
	}
	return result, true
}

func (handler *AssessmentHandler) countOutcome(outcome string) {
	if handler.metricsManager == nil {
		return
	}
	handler.metricsManager.CounterAssessments.WithLabelValues(outcome).Inc()
}

// decodeRecord reads a ClientRecord from the request body and writes the
// error response itself if the body is not a valid record.
func decodeRecord(w http.ResponseWriter, r *http.Request) (assessment.ClientRecord, bool) {
	var record assessment.ClientRecord

	if contentType := r.Header.Get("Content-Type"); !strings.HasPrefix(contentType, pkg.ContentType.JSON) {
		http.Error(w, fmt.Sprintf("unsupported content type [%s]", contentType), http.StatusUnsupportedMediaType)
		return record, false
	}

	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, assessment.ErrValidation):
			writeValidationError(w, err)
		default:
			log.Debugf("decode client record: %s", err)
			pkg.WriteJSON(w, fieldErrorResponse{Error: fmt.Sprintf("invalid client record: %s", err)}, http.StatusBadRequest)
		}
		return record, false
	}

	return record, true
}

func writeValidationError(w http.ResponseWriter, err error) {
	pkg.WriteJSON(w, fieldErrorResponse{
		Error:  assessment.ErrValidation.Error(),
		Fields: assessment.ValidationErrors(err),
	}, http.StatusBadRequest)
}
