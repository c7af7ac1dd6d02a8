package toolexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildSeries(n int) []TimeSeriesPoint {
	points := make([]TimeSeriesPoint, n)
	for i := range points {
		points[i] = TimeSeriesPoint{Timestamp: float64(i), Value: float64(i % 11)}
	}
	return points
}

func TestLTTBDownsample_ShortSeriesUnchanged(t *testing.T) {
	series := buildSeries(100)
	out := LTTBDownsample(series, MaxSeriesPoints)
	assert.Equal(t, series, out)
}

func TestLTTBDownsample_LongSeriesCappedAndEndpointsPreserved(t *testing.T) {
	series := buildSeries(5000)
	out := LTTBDownsample(series, MaxSeriesPoints)
	assert.LessOrEqual(t, len(out), MaxSeriesPoints)
	assert.Equal(t, series[0], out[0])
	assert.Equal(t, series[len(series)-1], out[len(out)-1])
}

func TestLTTBDownsample_EmptySeries(t *testing.T) {
	out := LTTBDownsample(nil, MaxSeriesPoints)
	assert.Empty(t, out)
}
