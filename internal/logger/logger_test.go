package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesServiceAndAction(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("order-service", &buf)

	log.Info("order_submitted", "Order submitted", "req-1", map[string]interface{}{"table_id": "3"})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "Order submitted", record["msg"])
	assert.Equal(t, "order-service", record["service"])
	assert.Equal(t, "order_submitted", record["action"])
	assert.Equal(t, "req-1", record["request_id"])

	details, ok := record["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "3", details["table_id"])
}

func TestLogger_ErrorIncludesErrorGroup(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("staff-service", &buf)

	log.Error("db_query_failed", "Query failed", "", errors.New("boom"), nil)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	errGroup, ok := record["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "boom", errGroup["msg"])
	assert.NotEmpty(t, errGroup["stack"])
}

func TestLogger_ErrorWithoutCause(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("staff-service", &buf)

	log.Error("validation_failed", "Bad table", "", nil, nil)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	_, hasErr := record["error"]
	assert.False(t, hasErr)
}

func TestGenerateRequestID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateRequestID(), GenerateRequestID())
}
