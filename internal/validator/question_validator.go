package validator

import (
	"fmt"
	"strings"

	"github.com/tdsa-academy/academy-service/internal/errors"
	"github.com/tdsa-academy/academy-service/internal/models"
)

// QuestionValidator enforces the correct-option cardinality rules of each
// question type. Struct tags cannot express these because they depend on the
// combination of type and options.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestions checks every question and reports each offending question
// by its text.
func (v *QuestionValidator) ValidateQuestions(questions []models.Question) ValidationErrors {
	var errs ValidationErrors

	if len(questions) == 0 {
		return append(errs, *errors.NewValidationErrorWithRule("questions", "at least one question is required", "min", nil))
	}

	seenQuestions := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		field := fmt.Sprintf("questions[%d]", i)

		if err := v.ValidateQuestion(q); err != nil {
			err.Field = field + "." + err.Field
			errs = append(errs, *err)
			continue
		}

		if q.ID != "" {
			if _, dup := seenQuestions[q.ID]; dup {
				errs = append(errs, *errors.NewValidationErrorWithRule(field,
					fmt.Sprintf("Question %q reuses id %s.", q.Text, q.ID), "unique_id", q.Text))
				continue
			}
			seenQuestions[q.ID] = struct{}{}
		}
	}

	return errs
}

// ValidateQuestion validates a single question in isolation.
func (v *QuestionValidator) ValidateQuestion(q models.Question) *ValidationError {
	if strings.TrimSpace(q.Text) == "" {
		return errors.NewValidationErrorWithRule("questionText", "is required", "required", nil)
	}

	if len(q.Options) < 2 {
		return errors.NewValidationErrorWithRule("options",
			fmt.Sprintf("Question %q must have at least two options.", q.Text), "min_options", q.Text)
	}

	seenOptions := make(map[string]struct{}, len(q.Options))
	correct := 0
	for _, opt := range q.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return errors.NewValidationErrorWithRule("options",
				fmt.Sprintf("Question %q has an option without text.", q.Text), "required", q.Text)
		}
		if opt.ID != "" {
			if _, dup := seenOptions[opt.ID]; dup {
				return errors.NewValidationErrorWithRule("options",
					fmt.Sprintf("Question %q reuses option id %s.", q.Text, opt.ID), "unique_id", q.Text)
			}
			seenOptions[opt.ID] = struct{}{}
		}
		if opt.IsCorrect {
			correct++
		}
	}

	switch q.Type {
	case models.QuestionSingleChoice:
		if correct != 1 {
			return errors.NewValidationErrorWithRule("options",
				fmt.Sprintf("Single Choice Question %q must have exactly ONE correct option.", q.Text), "single_choice", q.Text)
		}
	case models.QuestionMultiChoice:
		if correct < 1 {
			return errors.NewValidationErrorWithRule("options",
				fmt.Sprintf("Multiple Choice Question %q must have AT LEAST ONE correct option.", q.Text), "multi_choice", q.Text)
		}
	default:
		return errors.NewValidationErrorWithRule("type",
			fmt.Sprintf("Question %q has unsupported type %q.", q.Text, q.Type), "question_type", q.Type)
	}

	return nil
}
