package score

import (
	"runtime"
	"sync"

	"github.com/albertopd/secureprompt/internal/classify"
	"github.com/albertopd/secureprompt/internal/merge"
)

// Case is one evaluation input: a prediction and its ground truth.
type Case struct {
	Name      string     `json:"name,omitempty"`
	Predicted merge.Plan `json:"predicted"`
	Truth     merge.Plan `json:"truth"`
}

// LevelStats aggregates case scores for one security level.
type LevelStats struct {
	Cases int     `json:"cases"`
	Mean  float64 `json:"mean"`
}

// Report is the deterministic aggregate over a batch of scored cases.
type Report struct {
	Cases          int                           `json:"cases"`
	Mean           float64                       `json:"mean"`
	Verdicts       map[Verdict]int               `json:"verdicts"`
	FalsePositives int                           `json:"false_positives"`
	ByLevel        map[classify.Level]LevelStats `json:"by_level"`
	Results        []ScoredCase                  `json:"results,omitempty"`
}

// Batch scores independent cases concurrently and reduces the results
// deterministically. Each result lands in a pre-sized slice by case index,
// and the reduction is a plain sum-then-divide, so goroutine completion
// order cannot affect the aggregate. A case's reporting level is the
// worst-case level among its truth spans (C1 when there are none).
func Batch(cases []Case, w Weights, levels *classify.Table, workers int) Report {
	report := Report{
		Verdicts: make(map[Verdict]int),
		ByLevel:  make(map[classify.Level]LevelStats),
	}
	if len(cases) == 0 {
		return report
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(cases) {
		workers = len(cases)
	}

	results := make([]ScoredCase, len(cases))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = Score(cases[idx].Predicted, cases[idx].Truth, w)
			}
		}()
	}
	for i := range cases {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sum := 0.0
	levelSums := make(map[classify.Level]float64)
	for i, r := range results {
		sum += r.Score
		report.Verdicts[r.Verdict]++
		report.FalsePositives += r.FalsePositives

		level := classify.C1
		if len(cases[i].Truth) > 0 {
			level = levels.Classify(cases[i].Truth)
		}
		st := report.ByLevel[level]
		st.Cases++
		report.ByLevel[level] = st
		levelSums[level] += r.Score
	}
	for level, st := range report.ByLevel {
		st.Mean = levelSums[level] / float64(st.Cases)
		report.ByLevel[level] = st
	}
	report.Cases = len(cases)
	report.Mean = sum / float64(len(cases))
	report.Results = results
	return report
}
