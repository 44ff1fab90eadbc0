package assessment

import (
	"sort"

	assessmentModels "learntrack/models/assessment"
)

// SelectQuestions picks the questions served for one attempt. With randomize
// set, the pool is shuffled with the engine's random source, a fresh
// permutation on every call; otherwise questions come back in ascending
// orderIndex. A positive questionCount smaller than the pool truncates after
// ordering; zero means the whole pool.
func (e *Engine) SelectQuestions(a *assessmentModels.Assessment, pool []assessmentModels.Question) []assessmentModels.Question {
	out := make([]assessmentModels.Question, len(pool))
	copy(out, pool)

	if a.Randomize {
		e.rand.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].OrderIndex < out[j].OrderIndex
		})
	}

	if a.QuestionCount > 0 && a.QuestionCount < len(out) {
		out = out[:a.QuestionCount]
	}
	return out
}
