package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("nonsense")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestBatchLoggerHorseRebuilt(t *testing.T) {
	log, buf := setupTestLogger()
	batchLogger := NewBatchLogger(log)

	batchLogger.LogHorseRebuilt("batch_001", "K123", 42, 3, 57, 120.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "K123", logEntry["horse_id"])
	assert.Equal(t, "batch", logEntry["component"])
	assert.Equal(t, float64(57), logEntry["rows_written"])
}

func TestBatchLoggerHorseFailed(t *testing.T) {
	log, buf := setupTestLogger()
	batchLogger := NewBatchLogger(log)

	batchLogger.LogHorseFailed("batch_001", "K123", errors.New("source unavailable"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "source unavailable", logEntry["error"])
	assert.Equal(t, "error", logEntry["level"])
}

func TestBatchLoggerRecordSkipped(t *testing.T) {
	log, buf := setupTestLogger()
	batchLogger := NewBatchLogger(log)

	batchLogger.LogRecordSkipped("K123", "row too short")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "row too short", logEntry["reason"])
}

func TestBatchLoggerSummary(t *testing.T) {
	log, buf := setupTestLogger()
	batchLogger := NewBatchLogger(log)

	batchLogger.LogBatchSummary("batch_001", 120, 2, 90000)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(120), logEntry["horses_processed"])
	assert.Equal(t, float64(2), logEntry["horses_failed"])
}

func TestSourceLoggerFetch(t *testing.T) {
	log, buf := setupTestLogger()
	sourceLogger := NewSourceLogger(log, "csv")

	sourceLogger.LogFetch("K123", 42, 15.2)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "csv", logEntry["source"])
	assert.Equal(t, "datasource", logEntry["component"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	batchLogger := NewBatchLogger(log)

	batchLogger.LogHorseRebuilt("batch_001", "K123", 42, 3, 57, 120.5)

	// Verify output is valid JSON
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func BenchmarkBatchLoggerHorseRebuilt(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	batchLogger := NewBatchLogger(log)

	for i := 0; i < b.N; i++ {
		batchLogger.LogHorseRebuilt("batch_001", "K123", 42, 3, 57, 120.5)
	}
}
