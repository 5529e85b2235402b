package history

import (
	"sort"
	"time"

	"github.com/rdfernandes/connwatch/internal/models"
)

const (
	// DefaultTimelinePoints controls how many buckets a timeline holds.
	DefaultTimelinePoints = 80
	maxDetailsPerPoint    = 4
)

// BuildTimeline reduces connectivity samples into compact timeline points.
// Buckets without samples inherit the previous state while the gap stays
// below a threshold derived from the observed sampling cadence; beyond that
// they are reported as missing data.
func BuildTimeline(samples []models.Sample, start, end time.Time, points int) []models.TimelinePoint {
	if points <= 0 {
		points = DefaultTimelinePoints
	}
	if !end.After(start) {
		end = start.Add(time.Minute)
	}

	ordered := make([]models.Sample, 0, len(samples))
	for _, sample := range samples {
		if sample.CheckedAt.IsZero() {
			continue
		}
		ordered = append(ordered, sample)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].CheckedAt.Before(ordered[j].CheckedAt)
	})

	bucketDuration := end.Sub(start) / time.Duration(points)
	if bucketDuration <= 0 {
		bucketDuration = time.Minute
	}

	gapThreshold := deriveGapThreshold(ordered)

	result := make([]models.TimelinePoint, 0, points)
	idx := 0
	var last models.Sample
	var haveLast bool
	for idx < len(ordered) && ordered[idx].CheckedAt.Before(start) {
		last = ordered[idx]
		haveLast = true
		idx++
	}

	for i := 0; i < points; i++ {
		bucketStart := start.Add(time.Duration(i) * bucketDuration)
		bucketEnd := bucketStart.Add(bucketDuration)
		if i == points-1 {
			bucketEnd = end
		}

		point := models.TimelinePoint{
			ClassName: "state-missing",
			Label:     "No data",
			Start:     bucketStart,
			End:       bucketEnd,
		}

		var bucketSamples []models.Sample
		for idx < len(ordered) && !ordered[idx].CheckedAt.After(bucketEnd) {
			last = ordered[idx]
			haveLast = true
			bucketSamples = append(bucketSamples, ordered[idx])
			idx++
		}

		switch {
		case len(bucketSamples) > 0:
			selected := bucketSamples[len(bucketSamples)-1]
			point.ClassName, point.Label = classify(selected)
			point.Details = collectDetails(bucketSamples)
		case haveLast && bucketStart.Sub(last.CheckedAt) <= gapThreshold:
			point.ClassName, point.Label = classify(last)
			detail := sampleDetail(last)
			detail.Timestamp = bucketStart
			point.Details = []models.TimelineDetail{detail}
		}

		result = append(result, point)
	}
	return result
}

// deriveGapThreshold estimates how long a state may be carried forward when
// samples are missing, from the median spacing of the series.
func deriveGapThreshold(samples []models.Sample) time.Duration {
	const defaultGap = 5 * time.Minute
	if len(samples) < 2 {
		return defaultGap
	}
	diffs := make([]time.Duration, 0, len(samples)-1)
	prev := samples[0].CheckedAt
	for i := 1; i < len(samples); i++ {
		curr := samples[i].CheckedAt
		if curr.After(prev) {
			diffs = append(diffs, curr.Sub(prev))
		}
		prev = curr
	}
	if len(diffs) == 0 {
		return defaultGap
	}
	sort.Slice(diffs, func(i, j int) bool {
		return diffs[i] < diffs[j]
	})
	median := diffs[len(diffs)/2]
	if median <= 0 {
		return defaultGap
	}
	gap := median * 2
	if gap < time.Minute {
		return time.Minute
	}
	if gap > 2*time.Hour {
		return 2 * time.Hour
	}
	return gap
}

func collectDetails(samples []models.Sample) []models.TimelineDetail {
	details := make([]models.TimelineDetail, 0, maxDetailsPerPoint)
	for _, sample := range samples {
		if len(details) >= maxDetailsPerPoint {
			break
		}
		details = append(details, sampleDetail(sample))
	}
	return details
}

func sampleDetail(sample models.Sample) models.TimelineDetail {
	return models.TimelineDetail{
		Timestamp: sample.CheckedAt,
		State:     string(sample.State()),
		Error:     sample.Error,
	}
}

func classify(sample models.Sample) (className, label string) {
	switch sample.State() {
	case models.StateOnline:
		return "state-success", "Connected"
	case models.StateOffline:
		return "state-error", "Disconnected"
	default:
		return "state-warning", "Unknown"
	}
}
