package toolexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampTailLines_Defaults(t *testing.T) {
	assert.Equal(t, 200, ClampTailLines(Params{}))
}

func TestClampTailLines_ClampsAboveMax(t *testing.T) {
	assert.Equal(t, 5000, ClampTailLines(Params{"tail_lines": 99999}))
}

func TestClampTailLines_ClampsBelowMin(t *testing.T) {
	assert.Equal(t, 1, ClampTailLines(Params{"tail_lines": -5}))
}

func TestClampRangeMinutes_ClampsTo1440(t *testing.T) {
	assert.Equal(t, 1440, ClampRangeMinutes(Params{"range_minutes": 999999}, 60))
}

func TestRequireParams_ReportsAllMissing(t *testing.T) {
	missing := RequireParams(Params{"namespace": "prod"}, "namespace", "pod", "container")
	assert.Equal(t, []string{"pod", "container"}, missing)
}

func TestRequireParams_EmptyStringCountsAsMissing(t *testing.T) {
	missing := RequireParams(Params{"pod": ""}, "pod")
	assert.Equal(t, []string{"pod"}, missing)
}

func TestParseFreeFormTime_UnixTimestamp(t *testing.T) {
	unix, err := ParseFreeFormTime("1700000000", "since")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), unix)
}

func TestParseFreeFormTime_Empty_IsError(t *testing.T) {
	_, err := ParseFreeFormTime("", "since")
	assert.Error(t, err)
}

func TestParseFreeFormTime_NegativeUnix_IsError(t *testing.T) {
	_, err := ParseFreeFormTime("-5", "since")
	assert.Error(t, err)
}
