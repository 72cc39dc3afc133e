package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alphavirusboy/invoice-qc-service/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, logging.New("debug", "text").GetLevel())
	assert.Equal(t, logrus.InfoLevel, logging.New("bogus", "text").GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logging.New("warn", "JSON").Formatter)
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithOutput(&buf, "info", "json")

	logging.LogError(logger, "server", "handleValidate", "decode body", map[string]int{"size": 3}, errors.New("bad input"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "bad input", entry["msg"])
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "server", entry["module"])
	assert.Equal(t, "handleValidate", entry["funcName"])
	assert.Equal(t, "decode body", entry["context"])
	assert.NotNil(t, entry["data"])
}

func TestLogError_NoData(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithOutput(&buf, "info", "json")

	logging.LogError(logger, "cli", "runValidate", "read file", nil, errors.New("missing"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, hasData := entry["data"]
	assert.False(t, hasData)
}
