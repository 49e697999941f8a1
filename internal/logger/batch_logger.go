// Package logger provides batch-rebuild logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// BatchLogger provides dedicated logging for preference rebuild runs.
type BatchLogger struct {
	*logrus.Entry
}

// NewBatchLogger creates a new batch logger.
func NewBatchLogger(baseLogger *logrus.Logger) *BatchLogger {
	return &BatchLogger{
		Entry: baseLogger.WithField("component", "batch"),
	}
}

// LogHorseRebuilt logs one completed per-horse rebuild.
func (bl *BatchLogger) LogHorseRebuilt(batchID, horseID string, recordsRead, recordsSkipped, rowsWritten int, durationMs float64) {
	bl.WithFields(logrus.Fields{
		"batch_id":        batchID,
		"horse_id":        horseID,
		"records_read":    recordsRead,
		"records_skipped": recordsSkipped,
		"rows_written":    rowsWritten,
		"duration_ms":     durationMs,
	}).Info("Horse preferences rebuilt")
}

// LogHorseFailed logs one per-horse rebuild failure. The batch carries on
// with the remaining horses.
func (bl *BatchLogger) LogHorseFailed(batchID, horseID string, err error) {
	bl.WithFields(logrus.Fields{
		"batch_id": batchID,
		"horse_id": horseID,
		"error":    err.Error(),
	}).Error("Horse preference rebuild failed")
}

// LogRecordSkipped logs a race row dropped during normalization.
func (bl *BatchLogger) LogRecordSkipped(horseID, reason string) {
	bl.WithFields(logrus.Fields{
		"horse_id": horseID,
		"reason":   reason,
	}).Debug("Race record skipped")
}

// LogBatchSummary logs the end-of-run totals.
func (bl *BatchLogger) LogBatchSummary(batchID string, horsesProcessed, horsesFailed int, durationMs float64) {
	bl.WithFields(logrus.Fields{
		"batch_id":         batchID,
		"horses_processed": horsesProcessed,
		"horses_failed":    horsesFailed,
		"duration_ms":      durationMs,
	}).Info("Preference rebuild batch finished")
}

// SourceLogger provides dedicated logging for race history sources.
type SourceLogger struct {
	*logrus.Entry
}

// NewSourceLogger creates a new data source logger.
func NewSourceLogger(baseLogger *logrus.Logger, source string) *SourceLogger {
	return &SourceLogger{
		Entry: baseLogger.WithFields(logrus.Fields{
			"component": "datasource",
			"source":    source,
		}),
	}
}

// LogFetch logs one completed history fetch.
func (sl *SourceLogger) LogFetch(horseID string, rows int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"horse_id":    horseID,
		"rows":        rows,
		"duration_ms": durationMs,
	}).Debug("Race history fetched")
}

// LogFetchFailed logs a failed history fetch.
func (sl *SourceLogger) LogFetchFailed(horseID string, err error) {
	sl.WithFields(logrus.Fields{
		"horse_id": horseID,
		"error":    err.Error(),
	}).Warn("Race history fetch failed")
}
