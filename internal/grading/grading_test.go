package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdsa-academy/academy-service/internal/models"
)

func singleChoice(id string, correct string, options ...string) models.Question {
	q := models.Question{ID: id, Text: id, Type: models.QuestionSingleChoice, Description: "because " + correct}
	for _, opt := range options {
		q.Options = append(q.Options, models.Option{ID: opt, Text: opt, IsCorrect: opt == correct})
	}
	return q
}

func multiChoice(id string, correct []string, options ...string) models.Question {
	want := make(map[string]bool, len(correct))
	for _, c := range correct {
		want[c] = true
	}
	q := models.Question{ID: id, Text: id, Type: models.QuestionMultiChoice}
	for _, opt := range options {
		q.Options = append(q.Options, models.Option{ID: opt, Text: opt, IsCorrect: want[opt]})
	}
	return q
}

func TestGrade_SingleChoice(t *testing.T) {
	q := singleChoice("q1", "c", "a", "b", "c")

	tests := []struct {
		name     string
		selected []string
		want     bool
	}{
		{"exact correct option", []string{"c"}, true},
		{"nothing selected", []string{}, false},
		{"wrong option", []string{"a"}, false},
		{"correct plus another", []string{"c", "a"}, false},
		{"other then correct", []string{"a", "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Grade([]models.Question{q}, []Response{{QuestionID: "q1", SelectedOptions: tt.selected}})
			require.Len(t, out.Details, 1)
			assert.Equal(t, tt.want, out.Details[0].IsCorrect)
		})
	}
}

func TestGrade_MultiChoice(t *testing.T) {
	q := multiChoice("q1", []string{"a", "b"}, "a", "b", "c", "d")

	tests := []struct {
		name     string
		selected []string
		want     bool
	}{
		{"exact set", []string{"a", "b"}, true},
		{"exact set reversed", []string{"b", "a"}, true},
		{"strict subset", []string{"a"}, false},
		{"superset", []string{"a", "b", "c"}, false},
		{"disjoint", []string{"c", "d"}, false},
		{"empty", []string{}, false},
		{"repeated id does not fill the set", []string{"a", "a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Grade([]models.Question{q}, []Response{{QuestionID: "q1", SelectedOptions: tt.selected}})
			assert.Equal(t, tt.want, out.Details[0].IsCorrect)
		})
	}
}

func TestGrade_TotalsInvariant(t *testing.T) {
	questions := []models.Question{
		singleChoice("q1", "a", "a", "b"),
		multiChoice("q2", []string{"a", "b"}, "a", "b", "c"),
		singleChoice("q3", "b", "a", "b"),
		multiChoice("q4", []string{"c"}, "a", "b", "c"),
	}

	submissions := [][]Response{
		nil,
		{{QuestionID: "q1", SelectedOptions: []string{"a"}}},
		{{QuestionID: "q2", SelectedOptions: []string{"a", "b"}}, {QuestionID: "q4", SelectedOptions: []string{"a"}}},
		{{QuestionID: "unknown", SelectedOptions: []string{"a"}}},
	}

	for _, responses := range submissions {
		out := Grade(questions, responses)
		assert.Equal(t, len(questions), out.TotalQuestions)
		assert.Equal(t, out.TotalQuestions, out.CorrectAnswers+out.WrongAnswers)
		assert.Equal(t, out.CorrectAnswers, out.Score)
		assert.Len(t, out.Details, len(questions))
	}
}

func TestGrade_ScenarioA(t *testing.T) {
	q := models.Question{ID: "q1", Type: models.QuestionSingleChoice, Options: []models.Option{
		{ID: "A", Text: "A"},
		{ID: "B", Text: "B", IsCorrect: true},
	}}

	out := Grade([]models.Question{q}, []Response{{QuestionID: "q1", SelectedOptions: []string{"B"}}})

	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 1, out.TotalQuestions)
	assert.True(t, out.Details[0].IsCorrect)
}

func TestGrade_ScenarioB(t *testing.T) {
	q := multiChoice("q1", []string{"A", "B"}, "A", "B", "C")

	assert.True(t, Grade([]models.Question{q}, []Response{{QuestionID: "q1", SelectedOptions: []string{"A", "B"}}}).Details[0].IsCorrect)
	assert.False(t, Grade([]models.Question{q}, []Response{{QuestionID: "q1", SelectedOptions: []string{"A"}}}).Details[0].IsCorrect)
	assert.False(t, Grade([]models.Question{q}, []Response{{QuestionID: "q1", SelectedOptions: []string{"A", "B", "C"}}}).Details[0].IsCorrect)
}

func TestGrade_ScenarioC(t *testing.T) {
	questions := []models.Question{
		singleChoice("q1", "a", "a", "b"),
		singleChoice("q2", "a", "a", "b"),
		singleChoice("q3", "a", "a", "b"),
	}

	out := Grade(questions, []Response{{QuestionID: "q1", SelectedOptions: []string{"a"}}})

	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 3, out.TotalQuestions)
	assert.Equal(t, 1, out.CorrectAnswers)
	assert.Equal(t, 2, out.WrongAnswers)
	assert.Equal(t, []string{}, out.Details[1].SelectedOptionIDs)
}

func TestGrade_EchoesCorrectOptionsAndExplanation(t *testing.T) {
	q := singleChoice("q1", "b", "a", "b")

	out := Grade([]models.Question{q}, []Response{{QuestionID: "q1", SelectedOptions: []string{"a"}}})

	assert.Equal(t, []string{"b"}, out.Details[0].CorrectOptionIDs)
	assert.Equal(t, "because b", out.Details[0].Explanation)
	assert.Equal(t, []models.AnswerDetail{{QuestionID: "q1", SelectedOptionIDs: []string{"a"}, IsCorrect: false}}, out.AnswerDetails())
}

func TestGrade_FirstResponseWins(t *testing.T) {
	q := singleChoice("q1", "a", "a", "b")

	out := Grade([]models.Question{q}, []Response{
		{QuestionID: "q1", SelectedOptions: []string{"b"}},
		{QuestionID: "q1", SelectedOptions: []string{"a"}},
	})

	assert.False(t, out.Details[0].IsCorrect)
}
