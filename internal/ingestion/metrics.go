package ingestion

import (
	"sync/atomic"
	"time"

	"github.com/aevon-lab/slsrpt-ingest/internal/core/edifact"
)

// Metrics counts decoder and writer activity for the lifetime of the process.
type Metrics struct {
	documentsDecoded    atomic.Int64
	documentsRejected   atomic.Int64
	recordsEmitted      atomic.Int64
	recordsWritten      atomic.Int64
	recordsRejected     atomic.Int64
	droppedNoProduct    atomic.Int64
	droppedNoContext    atomic.Int64
	malformedQuantities atomic.Int64
	repeatedQualifiers  atomic.Int64
	batchesWritten      atomic.Int64
	batchesFailed       atomic.Int64

	startTime time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordDecode folds the stats of one decoded document into the totals.
func (m *Metrics) RecordDecode(st edifact.Stats) {
	m.documentsDecoded.Add(1)
	m.recordsEmitted.Add(int64(st.RecordsEmitted))
	m.droppedNoProduct.Add(int64(st.DroppedNoProduct))
	m.droppedNoContext.Add(int64(st.DroppedNoContext))
	m.malformedQuantities.Add(int64(st.MalformedQuantities))
	m.repeatedQualifiers.Add(int64(st.RepeatedQualifiers))
}

func (m *Metrics) DocumentRejected() { m.documentsRejected.Add(1) }
func (m *Metrics) BatchFailed()      { m.batchesFailed.Add(1) }

func (m *Metrics) RecordsRejected(n int) {
	m.recordsRejected.Add(int64(n))
}

func (m *Metrics) BatchWritten(records int64) {
	m.batchesWritten.Add(1)
	m.recordsWritten.Add(records)
}

// MetricsSnapshot is a point-in-time view of the counters.
type MetricsSnapshot struct {
	DocumentsDecoded    int64  `json:"documents_decoded"`
	DocumentsRejected   int64  `json:"documents_rejected"`
	RecordsEmitted      int64  `json:"records_emitted"`
	RecordsWritten      int64  `json:"records_written"`
	RejectedInvalid     int64  `json:"rejected_invalid"`
	DroppedNoProduct    int64  `json:"dropped_no_product"`
	DroppedNoContext    int64  `json:"dropped_no_context"`
	MalformedQuantities int64  `json:"malformed_quantities"`
	RepeatedQualifiers  int64  `json:"repeated_qualifiers"`
	BatchesWritten      int64  `json:"batches_written"`
	BatchesFailed       int64  `json:"batches_failed"`
	Uptime              string `json:"uptime"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		DocumentsDecoded:    m.documentsDecoded.Load(),
		DocumentsRejected:   m.documentsRejected.Load(),
		RecordsEmitted:      m.recordsEmitted.Load(),
		RecordsWritten:      m.recordsWritten.Load(),
		RejectedInvalid:     m.recordsRejected.Load(),
		DroppedNoProduct:    m.droppedNoProduct.Load(),
		DroppedNoContext:    m.droppedNoContext.Load(),
		MalformedQuantities: m.malformedQuantities.Load(),
		RepeatedQualifiers:  m.repeatedQualifiers.Load(),
		BatchesWritten:      m.batchesWritten.Load(),
		BatchesFailed:       m.batchesFailed.Load(),
		Uptime:              time.Since(m.startTime).Round(time.Second).String(),
	}
}
