package bench

import (
	"math"
	"time"
)

// Trial is one timed measurement of a single path running a single category.
type Trial struct {
	Method   string
	Duration time.Duration
	Err      error
}

// ComparisonRow is a Trial placed next to its counterpart: the faster trial
// of a category pair is the baseline and shows slowness 0, the slower one
// shows round(slower/faster - 1, 2).
type ComparisonRow struct {
	Category Category
	Method   string
	Duration time.Duration
	Slowness float64
	Failed   bool
	Err      error
}

// Run holds all comparison rows of one benchmark execution, driver row before
// ORM row within each category, categories in their fixed order.
type Run struct {
	Opts Options
	Rows []ComparisonRow
}

// Failed reports whether any category could not complete.
func (r *Run) Failed() bool {
	for _, row := range r.Rows {
		if row.Failed {
			return true
		}
	}
	return false
}

// Slowness computes the relative overhead of other versus baseline, rounded
// to two decimals. A non-positive baseline means there is nothing meaningful
// to compare against (the zero-ops boundary), so the answer is 0.
func Slowness(baseline, other time.Duration) float64 {
	if baseline <= 0 || other <= baseline {
		return 0
	}
	return math.Round((other.Seconds()/baseline.Seconds()-1)*100) / 100
}

// compareTrials builds the category's two rows from its driver and ORM
// trials. A failed trial is flagged and excluded from the ratio; its
// counterpart then reports as baseline.
func compareTrials(c Category, driver, orm Trial) []ComparisonRow {
	rows := []ComparisonRow{
		{Category: c, Method: driver.Method, Duration: driver.Duration, Failed: driver.Err != nil, Err: driver.Err},
		{Category: c, Method: orm.Method, Duration: orm.Duration, Failed: orm.Err != nil, Err: orm.Err},
	}

	if driver.Err != nil || orm.Err != nil {
		return rows
	}

	baseline := driver.Duration
	if orm.Duration < baseline {
		baseline = orm.Duration
	}
	rows[0].Slowness = Slowness(baseline, driver.Duration)
	rows[1].Slowness = Slowness(baseline, orm.Duration)

	return rows
}
