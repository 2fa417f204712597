package service

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/util"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeQuestions() []model.Question {
	return []model.Question{
		{Question: "2+2", Choices: []string{"3", "4"}, Answer: 1},
		{Question: "capital of France", Choices: []string{"Paris", "Rome", "Oslo"}, Answer: 0},
		{Question: "3*3", Choices: []string{"6", "9", "12"}, Answer: 1},
	}
}

func TestQuizService_EvaluateAttempt(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	tree := e.courseTree(t, teacher)

	quizID, err := e.quizzes.CreateQuiz(e.ctx, teacher.ID, tree.lesson, threeQuestions())
	require.NoError(t, err)

	tests := []struct {
		name    string
		answers []*int
		score   float64
		correct int
	}{
		{name: "two of three", answers: []*int{intp(1), intp(0), intp(2)}, score: 66.67, correct: 2},
		{name: "all correct", answers: []*int{intp(1), intp(0), intp(1)}, score: 100, correct: 3},
		{name: "short answers", answers: []*int{intp(1)}, score: 33.33, correct: 1},
		{name: "no answers", answers: nil, score: 0, correct: 0},
		{name: "nil and out of range", answers: []*int{nil, intp(7), intp(-1)}, score: 0, correct: 0},
		{name: "extra answers ignored", answers: []*int{intp(1), intp(0), intp(1), intp(3)}, score: 100, correct: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.quizzes.EvaluateAttempt(e.ctx, quizID, tree.student.ID, tt.answers)
			require.NoError(t, err)
			assert.Equal(t, tt.score, res.Score)
			assert.Equal(t, tt.correct, res.Correct)
			assert.Equal(t, 3, res.Total)
		})
	}

	attempts, err := e.quizzes.ListAttempts(e.ctx, quizID, tree.student.ID)
	require.NoError(t, err)
	assert.Len(t, attempts, len(tests), "every attempt is kept")
	assert.Equal(t, 100.0, attempts[0].Score, "newest first")
}

func TestQuizService_EmptyQuiz(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	tree := e.courseTree(t, teacher)

	quizID, err := e.quizzes.CreateQuiz(e.ctx, teacher.ID, tree.lesson, nil)
	require.NoError(t, err)

	quiz, err := e.quizzes.GetQuiz(e.ctx, quizID)
	require.NoError(t, err)
	assert.Empty(t, quiz.Questions)

	res, err := e.quizzes.EvaluateAttempt(e.ctx, quizID, tree.student.ID, []*int{intp(0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 0, res.Total)
}

func TestQuizService_EvaluateAttempt_NotFound(t *testing.T) {
	e := setup(t)
	student := e.user(t, model.Student)

	_, err := e.quizzes.EvaluateAttempt(e.ctx, 9999, student.ID, nil)
	assert.ErrorIs(t, err, util.ErrNotFound)
	assert.EqualValues(t, 0, e.count(t, "attempts", ""))
}

func TestQuizService_CreateQuiz_Validation(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	stranger := e.user(t, model.Teacher)
	tree := e.courseTree(t, teacher)

	tests := []struct {
		name      string
		questions []model.Question
	}{
		{name: "blank text", questions: []model.Question{{Question: " ", Choices: []string{"a"}, Answer: 0}}},
		{name: "no choices", questions: []model.Question{{Question: "q", Answer: 0}}},
		{name: "answer past choices", questions: []model.Question{{Question: "q", Choices: []string{"a", "b"}, Answer: 2}}},
		{name: "negative answer", questions: []model.Question{{Question: "q", Choices: []string{"a"}, Answer: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.quizzes.CreateQuiz(e.ctx, teacher.ID, tree.lesson, tt.questions)
			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}

	_, err := e.quizzes.CreateQuiz(e.ctx, stranger.ID, tree.lesson, threeQuestions())
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	_, err = e.quizzes.CreateQuiz(e.ctx, teacher.ID, 9999, threeQuestions())
	assert.ErrorIs(t, err, util.ErrNotFound)

	quizzes, err := e.quizzes.ListQuizzes(e.ctx, tree.lesson)
	require.NoError(t, err)
	assert.Len(t, quizzes, 1, "only the fixture quiz exists")
}

func TestParseAnswers(t *testing.T) {
	var raw []any
	require.NoError(t, json.Unmarshal([]byte(`[1, "2", null, 1.5, true, 0, -3, {"a":1}]`), &raw))

	got := ParseAnswers(raw)
	require.Len(t, got, 8)
	require.NotNil(t, got[0])
	assert.Equal(t, 1, *got[0])
	assert.Nil(t, got[1])
	assert.Nil(t, got[2])
	assert.Nil(t, got[3])
	assert.Nil(t, got[4])
	require.NotNil(t, got[5])
	assert.Equal(t, 0, *got[5])
	require.NotNil(t, got[6])
	assert.Equal(t, -3, *got[6])
	assert.Nil(t, got[7])
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 14.29, Percentage(1, 7))
}
