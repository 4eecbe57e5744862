package api

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zabytech/AI-Pharmacogenomic-Risk-Prediction/internal/domain"
)

// analyzeResponse is the body returned by the analyze endpoint.
type analyzeResponse struct {
	PatientID string                  `json:"patient_id"`
	Reports   []domain.AnalysisReport `json:"reports"`
	Summary   domain.AnalysisSummary  `json:"summary"`
}

// handleAnalyze accepts a multipart VCF upload plus a drug list and
// returns one report per requested drug.
func (s *Server) handleAnalyze(c *gin.Context) {
	requestID := correlationID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput, "missing file upload", "multipart field 'file' is required", requestID))
		return
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".vcf") {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput, "unsupported file type", "only .vcf files are accepted", requestID))
		return
	}

	maxBytes := s.cfg.Analysis.MaxUploadBytes
	if fileHeader.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, domain.NewAPIError(
			domain.ErrCodePayloadTooBig, "file too large",
			"upload exceeds "+strconv.FormatInt(maxBytes, 10)+" bytes", requestID))
		return
	}

	drugs := parseDrugs(c)
	if len(drugs) == 0 {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeInvalidInput, "no drugs requested", "form field 'drugs' must name at least one drug", requestID))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, domain.NewAPIError(
			domain.ErrCodeInternalServer, "failed to read upload", err.Error(), requestID))
		return
	}
	defer file.Close()

	// The size cap plus one guards against a lying Content-Length.
	content, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, domain.NewAPIError(
			domain.ErrCodeInternalServer, "failed to read upload", err.Error(), requestID))
		return
	}
	if int64(len(content)) > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, domain.NewAPIError(
			domain.ErrCodePayloadTooBig, "file too large",
			"upload exceeds "+strconv.FormatInt(maxBytes, 10)+" bytes", requestID))
		return
	}
	if !utf8.Valid(content) {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrCodeFormat, "file is not valid UTF-8 text", "", requestID))
		return
	}

	patientID := strings.TrimSpace(c.PostForm("patient_id"))
	if patientID == "" {
		patientID = newPatientID()
	}

	result, err := s.engine.Analyze(string(content), drugs, patientID)
	if err != nil {
		if domain.IsFormatError(err) {
			c.JSON(http.StatusBadRequest, domain.NewAPIError(
				domain.ErrCodeFormat, "invalid VCF content", err.Error(), requestID))
			return
		}
		c.JSON(http.StatusInternalServerError, domain.NewAPIError(
			domain.ErrCodeInternalServer, "analysis failed", err.Error(), requestID))
		return
	}

	now := time.Now().UTC()
	for i := range result.Reports {
		result.Reports[i].Timestamp = now
		s.attachExplanation(c.Request.Context(), &result.Reports[i])
	}
	s.persistReports(c.Request.Context(), result.Reports)

	c.JSON(http.StatusOK, analyzeResponse{
		PatientID: result.PatientID,
		Reports:   result.Reports,
		Summary:   result.Summary,
	})
}

// handleListReports returns previously stored reports for a patient.
func (s *Server) handleListReports(c *gin.Context) {
	requestID := correlationID(c)

	if s.store == nil {
		c.JSON(http.StatusNotFound, domain.NewAPIError(
			domain.ErrCodeStorage, "report persistence is disabled", "", requestID))
		return
	}

	patientID := c.Param("patient_id")
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			c.JSON(http.StatusBadRequest, domain.NewAPIError(
				domain.ErrCodeInvalidInput, "invalid limit", "limit must be an integer between 1 and 100", requestID))
			return
		}
		limit = n
	}

	reports, err := s.store.ListByPatient(c.Request.Context(), patientID, limit)
	if err != nil {
		s.log.WithError(err).Error("Failed to list stored reports")
		c.JSON(http.StatusInternalServerError, domain.NewAPIError(
			domain.ErrCodeStorage, "failed to load reports", "", requestID))
		return
	}
	if reports == nil {
		reports = []domain.AnalysisReport{}
	}

	c.JSON(http.StatusOK, gin.H{
		"patient_id": patientID,
		"reports":    reports,
		"count":      len(reports),
	})
}

// attachExplanation fills the report's explanation block. Explanation
// failures never fail the analysis.
func (s *Server) attachExplanation(ctx context.Context, report *domain.AnalysisReport) {
	if s.explainer == nil {
		return
	}
	exp, err := s.explainer.Explain(ctx, report)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"patient_id": report.PatientID,
			"drug":       report.Drug,
		}).Warn("Explanation generation failed")
		return
	}
	report.Explanation = exp
}

// persistReports saves the reports best-effort. Storage failures are
// logged and swallowed so a completed analysis still reaches the client.
func (s *Server) persistReports(ctx context.Context, reports []domain.AnalysisReport) {
	if s.store == nil {
		return
	}
	for i := range reports {
		if err := s.store.Save(ctx, &reports[i]); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"patient_id": reports[i].PatientID,
				"drug":       reports[i].Drug,
			}).Warn("Failed to persist report")
		}
	}
}

// parseDrugs accepts both repeated 'drugs' fields and comma-separated
// values within one field.
func parseDrugs(c *gin.Context) []string {
	var drugs []string
	for _, raw := range c.PostFormArray("drugs") {
		for _, part := range strings.Split(raw, ",") {
			if d := strings.TrimSpace(part); d != "" {
				drugs = append(drugs, d)
			}
		}
	}
	return drugs
}

// newPatientID generates an anonymous identifier of the form
// PATIENT_XXXXXXXX.
func newPatientID() string {
	return "PATIENT_" + strings.ToUpper(uuid.New().String()[:8])
}

func correlationID(c *gin.Context) string {
	if v, ok := c.Get("correlation_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
