// Package grading scores quiz submissions. It is pure: no I/O, no clock.
package grading

import "github.com/tdsa-academy/academy-service/internal/models"

// Response is one student answer as submitted by the client.
type Response struct {
	QuestionID      string   `json:"questionId"`
	SelectedOptions []string `json:"selectedOptions"`
}

// QuestionOutcome is the graded view of one question. CorrectOptionIDs and
// Explanation are echoed back to the student after submission only.
type QuestionOutcome struct {
	QuestionID        string   `json:"questionId"`
	SelectedOptionIDs []string `json:"selectedOptionIds"`
	IsCorrect         bool     `json:"isCorrect"`
	CorrectOptionIDs  []string `json:"correctOptions"`
	Explanation       string   `json:"explanation,omitempty"`
}

type Outcome struct {
	Score          int               `json:"score"`
	TotalQuestions int               `json:"totalQuestions"`
	CorrectAnswers int               `json:"correctAnswers"`
	WrongAnswers   int               `json:"wrongAnswers"`
	Details        []QuestionOutcome `json:"detailedResults"`
}

// AnswerDetails converts the outcome to the persisted per-question shape.
func (o Outcome) AnswerDetails() []models.AnswerDetail {
	details := make([]models.AnswerDetail, 0, len(o.Details))
	for _, d := range o.Details {
		details = append(details, models.AnswerDetail{
			QuestionID:        d.QuestionID,
			SelectedOptionIDs: d.SelectedOptionIDs,
			IsCorrect:         d.IsCorrect,
		})
	}
	return details
}

// Grade scores responses against questions. It walks the quiz's questions, not
// the responses, so an unanswered question is wrong and still counted.
// Responses for unknown questions are ignored; for a repeated question id the
// first response wins.
func Grade(questions []models.Question, responses []Response) Outcome {
	byQuestion := make(map[string][]string, len(responses))
	for _, r := range responses {
		if _, seen := byQuestion[r.QuestionID]; !seen {
			byQuestion[r.QuestionID] = r.SelectedOptions
		}
	}

	out := Outcome{
		TotalQuestions: len(questions),
		Details:        make([]QuestionOutcome, 0, len(questions)),
	}

	for _, q := range questions {
		selected := byQuestion[q.ID]
		if selected == nil {
			selected = []string{}
		}
		correctIDs := q.CorrectOptionIDs()

		isCorrect := IsCorrect(q.Type, selected, correctIDs)
		if isCorrect {
			out.Score++
			out.CorrectAnswers++
		} else {
			out.WrongAnswers++
		}

		out.Details = append(out.Details, QuestionOutcome{
			QuestionID:        q.ID,
			SelectedOptionIDs: selected,
			IsCorrect:         isCorrect,
			CorrectOptionIDs:  correctIDs,
			Explanation:       q.Description,
		})
	}

	return out
}

// IsCorrect applies the per-type rule: single-choice needs exactly the one
// correct option, multi-choice needs the selected set to equal the correct set.
func IsCorrect(questionType models.QuestionType, selected, correct []string) bool {
	chosen := toSet(selected)

	switch questionType {
	case models.QuestionSingleChoice:
		if len(correct) != 1 || len(chosen) != 1 {
			return false
		}
		_, ok := chosen[correct[0]]
		return ok
	case models.QuestionMultiChoice:
		want := toSet(correct)
		if len(want) == 0 || len(chosen) != len(want) {
			return false
		}
		for id := range chosen {
			if _, ok := want[id]; !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}
