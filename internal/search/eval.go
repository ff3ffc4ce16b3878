package search

import (
	"sort"
	"time"
)

// Metrics holds the evaluation measures for one query against its
// ground-truth relevant set, computed over the returned top-k.
type Metrics struct {
	Precision        float64
	Recall           float64
	FMeasure         float64
	AveragePrecision float64
}

// Evaluate compares a ranked result list with the set of relevant document
// ids. Average precision is the mean of the precision values at each rank
// where a relevant document was retrieved.
func Evaluate(results []Result, relevant map[string]bool) Metrics {
	var m Metrics
	if len(results) == 0 {
		return m
	}

	retrieved := make(map[string]bool, len(results))
	tp, fp := 0, 0
	var precisionAtHits []float64
	for _, r := range results {
		retrieved[r.DocID] = true
		if relevant[r.DocID] {
			tp++
			precisionAtHits = append(precisionAtHits, float64(tp)/float64(tp+fp))
		} else {
			fp++
		}
	}

	fn := 0
	for docID := range relevant {
		if !retrieved[docID] {
			fn++
		}
	}

	m.Precision = float64(tp) / float64(tp+fp)
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.FMeasure = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	if len(precisionAtHits) > 0 {
		var sum float64
		for _, p := range precisionAtHits {
			sum += p
		}
		m.AveragePrecision = sum / float64(len(precisionAtHits))
	}
	return m
}

// QueryTimes accumulates per-query latencies for a search session.
type QueryTimes struct {
	samples []time.Duration
}

// Observe records one query duration.
func (q *QueryTimes) Observe(d time.Duration) {
	q.samples = append(q.samples, d)
}

// Last returns the most recent duration.
func (q *QueryTimes) Last() time.Duration {
	if len(q.samples) == 0 {
		return 0
	}
	return q.samples[len(q.samples)-1]
}

// Mean returns the average duration over all observed queries.
func (q *QueryTimes) Mean() time.Duration {
	if len(q.samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range q.samples {
		total += d
	}
	return total / time.Duration(len(q.samples))
}

// Median returns the median duration over all observed queries.
func (q *QueryTimes) Median() time.Duration {
	n := len(q.samples)
	if n == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), q.samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Count returns how many queries were observed.
func (q *QueryTimes) Count() int {
	return len(q.samples)
}
