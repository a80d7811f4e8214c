package ingestion

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	v1 "github.com/aevon-lab/slsrpt-ingest/internal/api/v1"
	httperr "github.com/aevon-lab/slsrpt-ingest/internal/core/errors"
	"github.com/aevon-lab/slsrpt-ingest/internal/core/storage"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed    = "Failed to read request body"
	msgEmptyBody         = "Request body is empty"
	msgBodyTooLarge      = "Request body exceeds maximum allowed size"
	msgDuplicatePeriod   = "Sales for this period are already stored"
	msgIngestFailed      = "Failed to ingest document"
	msgBatchWriteFailed  = "One or more batches failed to write"
	msgInvalidPeriod     = "Query parameter period must be YYYY-MM-DD"
	msgInvalidBranch     = "Query parameter branch must be a positive integer"
	msgListFailed        = "Failed to list sales"
	defaultDocumentLabel = "slsrpt"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// IngestHandler accepts a raw SLSRPT document and writes its sales facts.
func (s *Service) IngestHandler(c *gin.Context) {
	raw, ierr := s.readDocument(c)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	slog.Info("[Ingestion] Received document",
		"document", c.DefaultQuery("name", defaultDocumentLabel),
		"payload_size", len(raw))

	report, err := s.Ingest(c.Request.Context(), raw)
	if err != nil {
		if errors.Is(err, storage.ErrPeriodExists) {
			slog.Info("[Ingestion] Duplicate period rejected", "periods", report.Periods, "error", err)
			writeError(c, &ingestionError{
				statusCode: http.StatusConflict,
				errorType:  httperr.HttpDuplicatePeriodError,
				message:    msgDuplicatePeriod,
				details:    map[string]interface{}{"periods": report.Periods},
			})
			return
		}

		slog.Error("[Ingestion] Ingest failed", "error", err)
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgIngestFailed,
		})
		return
	}

	if report.FailedBatches > 0 {
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpBatchWriteError,
			message:    msgBatchWriteFailed,
			details:    report,
		})
		return
	}

	c.JSON(http.StatusAccepted, report)
}

// readDocument reads the request body up to the configured limit.
func (s *Service) readDocument(c *gin.Context) (string, *ingestionError) {
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Ingestion] Failed to read request body", "error", err)
		return "", &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[Ingestion] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return "", &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpPayloadTooLargeError,
			message:    msgBodyTooLarge,
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	if strings.TrimSpace(string(bodyBytes)) == "" {
		return "", &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpEmptyBodyError,
			message:    msgEmptyBody,
		}
	}

	return strings.ToValidUTF8(string(bodyBytes), "�"), nil
}

// ListSalesHandler returns the stored facts of one period, optionally for one branch.
func (s *Service) ListSalesHandler(c *gin.Context) {
	period, err := v1.ParsePeriod(c.Query("period"))
	if err != nil {
		writeError(c, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidQueryError,
			message:    msgInvalidPeriod,
		})
		return
	}

	var branch *int64
	if raw := c.Query("branch"); raw != "" {
		b, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || b <= 0 {
			writeError(c, &ingestionError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpInvalidQueryError,
				message:    msgInvalidBranch,
			})
			return
		}
		branch = &b
	}

	records, err := s.store.ListByPeriod(c.Request.Context(), period, branch)
	if err != nil {
		slog.Error("[Ingestion] Failed to list sales", "period", period.Format(v1.PeriodLayout), "error", err)
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgListFailed,
		})
		return
	}
	if records == nil {
		records = []v1.SalesRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"period":  period.Format(v1.PeriodLayout),
		"count":   len(records),
		"records": records,
	})
}

// MetricsHandler returns the decoder and writer counters.
func (s *Service) MetricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.Snapshot())
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
