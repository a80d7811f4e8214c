package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	v1 "github.com/aevon-lab/slsrpt-ingest/internal/api/v1"
	"github.com/aevon-lab/slsrpt-ingest/internal/core/edifact"
	httperr "github.com/aevon-lab/slsrpt-ingest/internal/core/errors"
	storagemocks "github.com/aevon-lab/slsrpt-ingest/internal/mocks/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

func doRequest(r *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "text/plain")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestIngestHandler_Success(t *testing.T) {
	mockStore := storagemocks.NewSalesStore(t)
	mockStore.EXPECT().PeriodExists(mock.Anything, jan15).Return(false, nil).Once()
	mockStore.EXPECT().
		SaveBatch(mock.Anything, "run-test", mock.MatchedBy(func(records []v1.SalesRecord) bool {
			return len(records) == 2 && records[0].ProductCode == 11
		})).
		Return(int64(2), nil).
		Once()

	svc := newTestService(t, mockStore, Options{DuplicateGuard: true})
	resp := doRequest(newTestRouter(svc), http.MethodPost, "/v1/slsrpt", []byte(document(11, 12)))

	require.Equal(t, http.StatusAccepted, resp.Code)

	var report IngestReport
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &report))
	require.Equal(t, "run-test", report.RunID)
	require.Equal(t, int64(2), report.Written)
	require.Equal(t, 2, report.Stats.RecordsEmitted)
}

func TestIngestHandler_DuplicatePeriod(t *testing.T) {
	mockStore := storagemocks.NewSalesStore(t)
	mockStore.EXPECT().PeriodExists(mock.Anything, jan15).Return(true, nil).Once()

	svc := newTestService(t, mockStore, Options{DuplicateGuard: true})
	resp := doRequest(newTestRouter(svc), http.MethodPost, "/v1/slsrpt", []byte(document(11)))

	require.Equal(t, http.StatusConflict, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpDuplicatePeriodError, errResp.ErrorType)
}

func TestIngestHandler_StorageError(t *testing.T) {
	mockStore := storagemocks.NewSalesStore(t)
	mockStore.EXPECT().
		PeriodExists(mock.Anything, mock.Anything).
		Return(false, errors.New("database connection failed")).
		Once()

	svc := newTestService(t, mockStore, Options{DuplicateGuard: true})
	resp := doRequest(newTestRouter(svc), http.MethodPost, "/v1/slsrpt", []byte(document(11)))

	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpInternalError, errResp.ErrorType)
}

func TestIngestHandler_BatchFailureReported(t *testing.T) {
	mockStore := storagemocks.NewSalesStore(t)
	mockStore.EXPECT().
		SaveBatch(mock.Anything, mock.Anything, mock.Anything).
		Return(int64(0), errors.New("disk full")).
		Once()

	svc := newTestService(t, mockStore, Options{DuplicateGuard: false})
	resp := doRequest(newTestRouter(svc), http.MethodPost, "/v1/slsrpt", []byte(document(11)))

	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpBatchWriteError, errResp.ErrorType)
	require.Contains(t, resp.Body.String(), "disk full")
}

func TestIngestHandler_EmptyBody(t *testing.T) {
	svc := newTestService(t, storagemocks.NewSalesStore(t), Options{})
	resp := doRequest(newTestRouter(svc), http.MethodPost, "/v1/slsrpt", []byte("  \n"))

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpEmptyBodyError, errResp.ErrorType)
}

func TestIngestHandler_BodySizeLimit(t *testing.T) {
	svc := newTestService(t, storagemocks.NewSalesStore(t), Options{})
	svc.maxBodySizeBytes = 10

	resp := doRequest(newTestRouter(svc), http.MethodPost, "/v1/slsrpt", []byte(document(1, 2, 3)))

	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpPayloadTooLargeError, errResp.ErrorType)
	require.Contains(t, errResp.Message, "maximum allowed size")
}

func TestListSalesHandler_Success(t *testing.T) {
	mockStore := storagemocks.NewSalesStore(t)
	mockStore.EXPECT().
		ListByPeriod(mock.Anything, jan15, (*int64)(nil)).
		Return([]v1.SalesRecord{
			{Branch: 45, Period: jan15, ProductCode: 11, UnitsSold: 3, Net: 3},
		}, nil).
		Once()

	svc := newTestService(t, mockStore, Options{})
	resp := doRequest(newTestRouter(svc), http.MethodGet, "/v1/sales?period=2024-01-15", nil)

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Period  string           `json:"period"`
		Count   int              `json:"count"`
		Records []v1.SalesRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "2024-01-15", body.Period)
	require.Equal(t, 1, body.Count)
	require.Equal(t, jan15, body.Records[0].Period)
}

func TestListSalesHandler_BranchFilter(t *testing.T) {
	mockStore := storagemocks.NewSalesStore(t)
	mockStore.EXPECT().
		ListByPeriod(mock.Anything, jan15, mock.MatchedBy(func(b *int64) bool { return b != nil && *b == 45 })).
		Return(nil, nil).
		Once()

	svc := newTestService(t, mockStore, Options{})
	resp := doRequest(newTestRouter(svc), http.MethodGet, "/v1/sales?period=2024-01-15&branch=45", nil)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"records":[]`)
}

func TestListSalesHandler_InvalidQuery(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "missing period", target: "/v1/sales"},
		{name: "bad period", target: "/v1/sales?period=15-01-2024"},
		{name: "non numeric branch", target: "/v1/sales?period=2024-01-15&branch=abc"},
		{name: "zero branch", target: "/v1/sales?period=2024-01-15&branch=0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t, storagemocks.NewSalesStore(t), Options{})
			resp := doRequest(newTestRouter(svc), http.MethodGet, tc.target, nil)

			require.Equal(t, http.StatusBadRequest, resp.Code)

			var errResp httperr.ErrorResponse
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
			require.Equal(t, httperr.HttpInvalidQueryError, errResp.ErrorType)
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	svc := newTestService(t, storagemocks.NewSalesStore(t), Options{})
	svc.Metrics().RecordDecode(edifact.Stats{RecordsEmitted: 3, DroppedNoProduct: 1})

	resp := doRequest(newTestRouter(svc), http.MethodGet, "/v1/metrics", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var snap MetricsSnapshot
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &snap))
	require.Equal(t, int64(1), snap.DocumentsDecoded)
	require.Equal(t, int64(3), snap.RecordsEmitted)
	require.Equal(t, int64(1), snap.DroppedNoProduct)
}
