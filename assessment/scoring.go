package assessment

import (
	"math"

	assessmentModels "learntrack/models/assessment"
	"learntrack/pkg/apperrors"
)

// ScoreAnswer awards points for one submitted answer. There is no partial
// credit: single and true_false award full points only for the one correct
// option, multiple only for the exact correct set, open questions always score
// zero (they are graded manually). An unknown question type is a caller
// contract violation.
func ScoreAnswer(q assessmentModels.Question, options []assessmentModels.QuestionOption, ans assessmentModels.Answer) (int, error) {
	switch q.Type {
	case assessmentModels.TypeSingle, assessmentModels.TypeTrueFalse:
		if len(ans.SelectedOptionIDs) != 1 {
			return 0, nil
		}
		for _, opt := range options {
			if opt.IsCorrect {
				if ans.SelectedOptionIDs[0] == opt.ID {
					return q.Points, nil
				}
				return 0, nil
			}
		}
		return 0, nil
	case assessmentModels.TypeMultiple:
		correct := make(map[uint]bool)
		for _, opt := range options {
			if opt.IsCorrect {
				correct[opt.ID] = true
			}
		}
		if len(ans.SelectedOptionIDs) != len(correct) {
			return 0, nil
		}
		seen := make(map[uint]bool)
		for _, id := range ans.SelectedOptionIDs {
			if !correct[id] || seen[id] {
				return 0, nil
			}
			seen[id] = true
		}
		return q.Points, nil
	case assessmentModels.TypeOpen:
		return 0, nil
	default:
		return 0, apperrors.NewValidation("type", "unknown question type: "+q.Type)
	}
}

// ComputeScorePercent scores a full answer sheet: round(100 × awarded /
// total points), 0 when the questions carry no points. Questions without a
// submitted answer score zero.
func ComputeScorePercent(questions []assessmentModels.Question, options map[uint][]assessmentModels.QuestionOption, answers []assessmentModels.Answer) (int, error) {
	byQuestion := make(map[uint]assessmentModels.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	var total, awarded int
	for _, q := range questions {
		total += q.Points
		ans, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		pts, err := ScoreAnswer(q, options[q.ID], ans)
		if err != nil {
			return 0, err
		}
		awarded += pts
	}
	if total == 0 {
		return 0, nil
	}
	return int(math.Round(100 * float64(awarded) / float64(total))), nil
}

// BestAttempt returns the completed attempt with the highest score; equal
// scores resolve to the earliest completion. The same rule backs the
// repository query, so aggregations agree wherever they run.
func BestAttempt(records []assessmentModels.AttemptRecord) *assessmentModels.AttemptRecord {
	var best *assessmentModels.AttemptRecord
	for i := range records {
		r := &records[i]
		if r.CompletedAt == nil {
			continue
		}
		if best == nil ||
			r.ScorePercent > best.ScorePercent ||
			(r.ScorePercent == best.ScorePercent && r.CompletedAt.Before(*best.CompletedAt)) {
			best = r
		}
	}
	return best
}
