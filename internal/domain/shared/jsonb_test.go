package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanJSON_NullColumnYieldsEmptyList(t *testing.T) {
	log := ActivityLog{NewActivityEntry("bill.created", "seed", nil)}

	require.NoError(t, ScanJSON(nil, &log, "ActivityLog"))

	assert.NotNil(t, log)
	assert.Empty(t, log)
}

func TestScanJSON_AcceptsBytesAndStrings(t *testing.T) {
	payload := `[{"action":"bill.created","detail":"first"}]`

	var fromBytes ActivityLog
	require.NoError(t, ScanJSON([]byte(payload), &fromBytes, "ActivityLog"))
	require.Len(t, fromBytes, 1)
	assert.Equal(t, "bill.created", fromBytes[0].Action)

	var fromString ActivityLog
	require.NoError(t, ScanJSON(payload, &fromString, "ActivityLog"))
	require.Len(t, fromString, 1)
	assert.Equal(t, "first", fromString[0].Detail)
}

func TestScanJSON_RejectsUnsupportedDriverValue(t *testing.T) {
	var log ActivityLog

	err := ScanJSON(42, &log, "ActivityLog")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ActivityLog")
}
