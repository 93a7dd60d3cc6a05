package bench

import (
	"math/rand"

	"github.com/go-faker/faker/v4"
)

var samples []*BenchRow

func init() {
	samples = make([]*BenchRow, 0, 1000)
	for i := 0; i < 1000; i++ {
		r := &BenchRow{}
		if err := faker.FakeData(r); err != nil {
			panic(err)
		}
		samples = append(samples, r)
	}
}

func sampleRow() *BenchRow {
	return samples[rand.Intn(len(samples))]
}

// sampleRows returns n insertable rows drawn from the pre-generated pool, so
// faker cost never lands inside a timed window.
func sampleRows(n int) []*BenchRow {
	rows := make([]*BenchRow, n)
	for i := range rows {
		s := sampleRow()
		rows[i] = &BenchRow{ShortVal: s.ShortVal, LongVal: s.LongVal}
	}
	return rows
}

// randomID picks a target id for point reads/updates against a table seeded
// with ids 1..seeded.
func randomID(seeded int) int64 {
	if seeded < 1 {
		return 1
	}
	return 1 + rand.Int63n(int64(seeded))
}
