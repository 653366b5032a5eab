// Package scoring grades a submitted answer against a question definition.
// Grading is pure: no clock, no storage, same inputs always give the same
// outcome. Awarded score is the question's full point value or zero.
package scoring

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/model"
)

// Submission is the raw user input for one question.
type Submission struct {
	SelectedChoiceIDs []uuid.UUID
	SubmittedText     *string
}

// Outcome is the graded result plus the normalized payload to persist.
// Exactly one of ChoiceIDs / SubmittedText is populated, matching the
// question type.
type Outcome struct {
	AwardedScore  int
	IsCorrect     bool
	ChoiceIDs     []uuid.UUID
	SubmittedText *string
}

// Grader scores one question type. Implementations validate the submission
// shape before judging correctness.
type Grader interface {
	Grade(question *model.Question, sub Submission) (Outcome, error)
}

// GraderFor dispatches on the question type. The set of types is closed;
// anything else fails with question.type_not_supported.
func GraderFor(t model.QuestionType) (Grader, error) {
	switch t {
	case model.QuestionSingle:
		return singleChoiceGrader{}, nil
	case model.QuestionTrueFalse:
		return trueFalseGrader{}, nil
	case model.QuestionMulti:
		return multiChoiceGrader{}, nil
	case model.QuestionFillIn:
		return fillInGrader{}, nil
	default:
		return nil, apperr.New(apperr.CodeQuestionNotSupported, "Unsupported question type.")
	}
}

// Grade resolves the grader for the question's type and applies it.
func Grade(question *model.Question, sub Submission) (Outcome, error) {
	grader, err := GraderFor(question.Type)
	if err != nil {
		return Outcome{}, err
	}
	return grader.Grade(question, sub)
}

type singleChoiceGrader struct{}

func (singleChoiceGrader) Grade(question *model.Question, sub Submission) (Outcome, error) {
	if len(sub.SelectedChoiceIDs) != 1 {
		return Outcome{}, apperr.New(apperr.CodeAnswerInvalid, "Single choice required.")
	}

	chosenID := sub.SelectedChoiceIDs[0]
	chosen := question.ChoiceByID(chosenID)
	if chosen == nil {
		return Outcome{}, apperr.New(apperr.CodeAnswerInvalidChoice, "Choice invalid.")
	}

	correct := chosen.IsCorrect
	return Outcome{
		AwardedScore: scoreFor(question, correct),
		IsCorrect:    correct,
		ChoiceIDs:    []uuid.UUID{chosenID},
	}, nil
}

// trueFalseGrader shares the single-choice rules: exactly one of the two
// statements must be selected.
type trueFalseGrader struct{}

func (trueFalseGrader) Grade(question *model.Question, sub Submission) (Outcome, error) {
	return singleChoiceGrader{}.Grade(question, sub)
}

type multiChoiceGrader struct{}

func (multiChoiceGrader) Grade(question *model.Question, sub Submission) (Outcome, error) {
	if len(sub.SelectedChoiceIDs) == 0 {
		return Outcome{}, apperr.New(apperr.CodeAnswerInvalid, "At least one choice required.")
	}

	selected := make(map[uuid.UUID]struct{}, len(sub.SelectedChoiceIDs))
	for _, id := range sub.SelectedChoiceIDs {
		if question.ChoiceByID(id) == nil {
			return Outcome{}, apperr.New(apperr.CodeAnswerInvalidChoice, "Choice invalid.")
		}
		selected[id] = struct{}{}
	}

	// Exact set equality against the correct choices, order-independent.
	// Subsets and supersets score zero; there is no partial credit.
	correct := setsEqual(keysOf(selected), question.CorrectChoiceIDs())
	return Outcome{
		AwardedScore: scoreFor(question, correct),
		IsCorrect:    correct,
		ChoiceIDs:    keysOf(selected),
	}, nil
}

type fillInGrader struct{}

func (fillInGrader) Grade(question *model.Question, sub Submission) (Outcome, error) {
	if sub.SubmittedText == nil || strings.TrimSpace(*sub.SubmittedText) == "" {
		return Outcome{}, apperr.New(apperr.CodeAnswerInvalid, "Text answer required.")
	}

	trimmed := strings.TrimSpace(*sub.SubmittedText)

	// A question with no configured expected answer records as incorrect
	// rather than erroring.
	correct := false
	if question.TextAnswer != nil {
		expected := strings.TrimSpace(question.TextAnswer.Text)
		if expected != "" {
			correct = strings.EqualFold(expected, trimmed)
		}
	}

	return Outcome{
		AwardedScore:  scoreFor(question, correct),
		IsCorrect:     correct,
		SubmittedText: &trimmed,
	}, nil
}

func scoreFor(question *model.Question, correct bool) int {
	if correct {
		return question.Points
	}
	return 0
}

func keysOf(set map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func setsEqual(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	sorted := make([]uuid.UUID, len(b))
	copy(sorted, b)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })
	for i := range a {
		if a[i] != sorted[i] {
			return false
		}
	}
	return true
}
