package service

import (
	"classroom_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressService_StudentProgress(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	tree := e.courseTree(t, teacher)

	for _, title := range []string{"Lesson 2", "Lesson 3"} {
		_, err := e.content.CreateLesson(e.ctx, teacher.ID, tree.course.ID, LessonInput{Title: title})
		require.NoError(t, err)
	}
	_, err := e.quizzes.EvaluateAttempt(e.ctx, tree.quiz, tree.student.ID, []*int{intp(0)})
	require.NoError(t, err)

	p, err := e.progress.StudentProgress(e.ctx, tree.student.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.Completed)
	assert.EqualValues(t, 3, p.Total)
	assert.Equal(t, 33, p.Percent)
	require.NotNil(t, p.AvgScore)
	assert.Equal(t, 50.0, *p.AvgScore)
}

func TestProgressService_NoActivity(t *testing.T) {
	e := setup(t)
	student := e.user(t, model.Student)

	p, err := e.progress.StudentProgress(e.ctx, student.ID)
	require.NoError(t, err)
	assert.Zero(t, p.Completed)
	assert.Zero(t, p.Total)
	assert.Zero(t, p.Percent)
	assert.Nil(t, p.AvgScore)
}
