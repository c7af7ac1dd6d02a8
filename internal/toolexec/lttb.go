package toolexec

// MaxSeriesPoints is the hard cap on data points per time-series line sent
// downstream. Grounded on original_source/backend/src/utils/lttb.py.
const MaxSeriesPoints = 150

// LTTBDownsample downsamples a (timestamp, value) series to at most
// threshold points using the Largest-Triangle-Three-Buckets algorithm,
// always preserving the first and last points. A series no longer than
// threshold, or a threshold below 3, is returned unchanged.
func LTTBDownsample(data []TimeSeriesPoint, threshold int) []TimeSeriesPoint {
	length := len(data)
	if threshold >= length || threshold < 3 {
		out := make([]TimeSeriesPoint, length)
		copy(out, data)
		return out
	}

	sampled := make([]TimeSeriesPoint, 0, threshold)
	sampled = append(sampled, data[0])

	bucketSize := float64(length-2) / float64(threshold-2)
	a := 0

	for i := 1; i < threshold-1; i++ {
		bucketStart := int(float64(i-1)*bucketSize) + 1
		bucketEnd := int(float64(i)*bucketSize) + 1
		if bucketEnd > length-1 {
			bucketEnd = length - 1
		}

		nextBucketStart := int(float64(i)*bucketSize) + 1
		nextBucketEnd := int(float64(i+1)*bucketSize) + 1
		if nextBucketEnd > length {
			nextBucketEnd = length
		}

		count := nextBucketEnd - nextBucketStart
		if count < 1 {
			count = 1
		}
		var avgX, avgY float64
		for j := nextBucketStart; j < nextBucketEnd; j++ {
			avgX += data[j].Timestamp
			avgY += data[j].Value
		}
		avgX /= float64(count)
		avgY /= float64(count)

		maxArea := -1.0
		maxIdx := bucketStart
		pointA := data[a]

		for j := bucketStart; j < bucketEnd; j++ {
			area := (pointA.Timestamp-avgX)*(data[j].Value-pointA.Value) -
				(pointA.Timestamp-data[j].Timestamp)*(avgY-pointA.Value)
			if area < 0 {
				area = -area
			}
			area *= 0.5
			if area > maxArea {
				maxArea = area
				maxIdx = j
			}
		}

		sampled = append(sampled, data[maxIdx])
		a = maxIdx
	}

	sampled = append(sampled, data[length-1])
	return sampled
}
