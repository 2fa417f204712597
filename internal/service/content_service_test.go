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

func TestContentService_DestroyCourse(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	stranger := e.user(t, model.Teacher)
	tree := e.courseTree(t, teacher)

	ok, err := e.content.DestroyCourse(e.ctx, tree.course.ID, stranger.ID)
	require.NoError(t, err)
	assert.False(t, ok, "denial is not a fault")

	ok, err = e.content.DestroyCourse(e.ctx, tree.course.ID, tree.student.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.EqualValues(t, 1, e.count(t, "courses", ""))
	assert.EqualValues(t, 0, e.count(t, "deleted_courses", ""), "a denied destroy leaves no audit row")

	ok, err = e.content.DestroyCourse(e.ctx, tree.course.ID, teacher.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, table := range []string{"courses", "lessons", "assignments", "submissions", "quizzes", "attempts", "class_members"} {
		assert.EqualValues(t, 0, e.count(t, table, ""), table)
	}

	recs, err := e.content.ListDeletedCourses(e.ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, tree.course.ID, recs[0].CourseID)
	assert.Equal(t, "Algebra", recs[0].Title)
	require.NotNil(t, recs[0].TeacherName)
	assert.Equal(t, teacher.Name, *recs[0].TeacherName)

	var snap model.CourseSnapshot
	require.NoError(t, json.Unmarshal(recs[0].Snapshot, &snap))
	assert.Equal(t, tree.course.Code, snap.Code)
	assert.Equal(t, teacher.ID, snap.TeacherID)

	_, err = e.content.DestroyCourse(e.ctx, tree.course.ID, teacher.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	removed, err := e.content.DeleteDeletedCourseRecord(e.ctx, recs[0].ID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestContentService_DestroyCourse_ByAdmin(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	admin := e.user(t, model.Admin)
	tree := e.courseTree(t, teacher)

	ok, err := e.content.DestroyCourse(e.ctx, tree.course.ID, admin.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 1, e.count(t, "deleted_courses", "deleted_by = ?", admin.ID))
}

func TestContentService_DeleteLessonCascade(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	tree := e.courseTree(t, teacher)

	otherLesson, err := e.content.CreateLesson(e.ctx, teacher.ID, tree.course.ID, LessonInput{Title: "Lesson 2"})
	require.NoError(t, err)

	ok, err := e.content.DeleteLesson(e.ctx, tree.student.ID, tree.lesson)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.content.DeleteLesson(e.ctx, teacher.ID, tree.lesson)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.EqualValues(t, 0, e.count(t, "lessons", "id = ?", tree.lesson))
	assert.EqualValues(t, 0, e.count(t, "assignments", ""))
	assert.EqualValues(t, 0, e.count(t, "submissions", ""))
	assert.EqualValues(t, 0, e.count(t, "quizzes", ""))
	assert.EqualValues(t, 0, e.count(t, "attempts", ""))
	assert.EqualValues(t, 1, e.count(t, "lessons", "id = ?", otherLesson))
	assert.EqualValues(t, 1, e.count(t, "class_members", ""))

	_, err = e.content.DeleteLesson(e.ctx, teacher.ID, tree.lesson)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestContentService_DeleteAssignmentCascade(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	tree := e.courseTree(t, teacher)

	sibling, err := e.content.CreateAssignment(e.ctx, teacher.ID, tree.lesson, AssignmentInput{Title: "Extra"})
	require.NoError(t, err)
	_, err = e.content.SubmitAssignment(e.ctx, sibling, tree.student.ID, strp("extra.pdf"), nil)
	require.NoError(t, err)

	ok, err := e.content.DeleteAssignment(e.ctx, teacher.ID, tree.assignment)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.EqualValues(t, 0, e.count(t, "assignments", "id = ?", tree.assignment))
	assert.EqualValues(t, 0, e.count(t, "submissions", "assignment_id = ?", tree.assignment))
	assert.EqualValues(t, 1, e.count(t, "submissions", "assignment_id = ?", sibling))
	assert.EqualValues(t, 1, e.count(t, "lessons", ""))
}

func TestContentService_CreateAuthorization(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	stranger := e.user(t, model.Teacher)
	tree := e.courseTree(t, teacher)

	_, err := e.content.CreateLesson(e.ctx, stranger.ID, tree.course.ID, LessonInput{Title: "Nope"})
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	_, err = e.content.CreateAssignment(e.ctx, stranger.ID, tree.lesson, AssignmentInput{Title: "Nope"})
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	_, err = e.content.CreateLesson(e.ctx, teacher.ID, 9999, LessonInput{Title: "Orphan"})
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = e.content.CreateLesson(e.ctx, teacher.ID, tree.course.ID, LessonInput{Title: " "})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	// a deactivated owner loses their capabilities
	_, err = e.users.SoftDelete(e.ctx, teacher.ID, nil)
	require.NoError(t, err)
	_, err = e.content.CreateLesson(e.ctx, teacher.ID, tree.course.ID, LessonInput{Title: "Late"})
	assert.ErrorIs(t, err, util.ErrUnauthorized)
}

func TestContentService_UpdateLessonAndAssignment(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	stranger := e.user(t, model.Teacher)
	tree := e.courseTree(t, teacher)

	ok, err := e.content.UpdateLesson(e.ctx, stranger.ID, tree.lesson, LessonInput{Title: "Hijack"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.content.UpdateLesson(e.ctx, teacher.ID, tree.lesson, LessonInput{Title: "Renamed", Content: "new body"})
	require.NoError(t, err)
	assert.True(t, ok)

	lesson, err := e.content.GetLesson(e.ctx, tree.lesson)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", lesson.Title)
	assert.Equal(t, "new body", lesson.Content)

	ok, err = e.content.UpdateAssignment(e.ctx, stranger.ID, tree.assignment, AssignmentInput{Title: "Hijack"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.content.UpdateAssignment(e.ctx, teacher.ID, tree.assignment, AssignmentInput{Title: "Essay", Description: "500 words"})
	require.NoError(t, err)
	assert.True(t, ok)

	assignment, err := e.content.GetAssignment(e.ctx, tree.assignment)
	require.NoError(t, err)
	assert.Equal(t, "Essay", assignment.Title)
	assert.Nil(t, assignment.DueDate)

	assignments, err := e.content.ListAssignments(e.ctx, tree.lesson)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)

	lessons, err := e.content.ListLessons(e.ctx, tree.course.ID)
	require.NoError(t, err)
	assert.Len(t, lessons, 1)
}

func TestContentService_SubmitAndGrade(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	stranger := e.user(t, model.Teacher)
	tree := e.courseTree(t, teacher)

	second, err := e.content.SubmitAssignment(e.ctx, tree.assignment, tree.student.ID, nil, strp("second try"))
	require.NoError(t, err)
	assert.NotEqual(t, tree.submission, second)
	assert.EqualValues(t, 2, e.count(t, "submissions", "student_id = ?", tree.student.ID), "resubmitting appends")

	_, err = e.content.SubmitAssignment(e.ctx, 9999, tree.student.ID, nil, nil)
	assert.ErrorIs(t, err, util.ErrNotFound)

	err = e.content.GradeSubmission(e.ctx, stranger.ID, second, floatp(90), nil)
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	require.NoError(t, e.content.GradeSubmission(e.ctx, teacher.ID, second, floatp(150), strp("over the top")))

	rows, err := e.content.ListSubmissions(e.ctx, teacher.ID, tree.assignment)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].Grade)
	require.NotNil(t, rows[1].Grade)
	assert.Equal(t, 150.0, *rows[1].Grade, "grades are not range checked")
	assert.Equal(t, tree.student.Name, rows[1].StudentName)

	assert.ErrorIs(t, e.content.GradeSubmission(e.ctx, teacher.ID, 9999, nil, nil), util.ErrNotFound)
}

func TestContentService_DemotedTeacherLosesCourses(t *testing.T) {
	e := setup(t)
	admin := e.user(t, model.Admin)
	teacher := e.user(t, model.Teacher)
	tree := e.courseTree(t, teacher)

	require.NoError(t, e.users.SetRole(e.ctx, teacher.ID, model.Student))

	_, err := e.content.CreateLesson(e.ctx, teacher.ID, tree.course.ID, LessonInput{Title: "Lesson 2"})
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	_, err = e.content.CreateAssignment(e.ctx, teacher.ID, tree.lesson, AssignmentInput{Title: "More"})
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	_, err = e.quizzes.CreateQuiz(e.ctx, teacher.ID, tree.lesson, nil)
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	assert.ErrorIs(t, e.content.GradeSubmission(e.ctx, teacher.ID, tree.submission, floatp(90), nil), util.ErrUnauthorized)

	changed, err := e.courses.UpdateCourse(e.ctx, teacher.ID, tree.course.ID, "Renamed", "")
	require.NoError(t, err)
	assert.False(t, changed)

	ok, err := e.content.DestroyCourse(e.ctx, tree.course.ID, teacher.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.EqualValues(t, 1, e.count(t, "courses", ""))

	ok, err = e.content.DestroyCourse(e.ctx, tree.course.ID, admin.ID)
	require.NoError(t, err)
	assert.True(t, ok, "admins still manage orphaned courses")
}

func TestContentService_InactiveStudentCannotAct(t *testing.T) {
	e := setup(t)
	admin := e.user(t, model.Admin)
	teacher := e.user(t, model.Teacher)
	tree := e.courseTree(t, teacher)
	late := e.user(t, model.Student)

	for _, id := range []uint{tree.student.ID, late.ID} {
		ok, err := e.users.SoftDelete(e.ctx, id, &admin.ID)
		require.NoError(t, err)
		require.True(t, ok)
	}

	_, err := e.courses.JoinByCode(e.ctx, late.ID, tree.course.Code)
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	_, err = e.content.SubmitAssignment(e.ctx, tree.assignment, tree.student.ID, nil, strp("again"))
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	_, err = e.quizzes.EvaluateAttempt(e.ctx, tree.quiz, tree.student.ID, []*int{intp(1)})
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	assert.EqualValues(t, 0, e.count(t, "class_members", "student_id = ?", late.ID))
	assert.EqualValues(t, 1, e.count(t, "submissions", ""))
	assert.EqualValues(t, 1, e.count(t, "attempts", ""))

	_, err = e.users.Restore(e.ctx, deletedUserRecord(t, e, tree.student.ID))
	require.NoError(t, err)
	_, err = e.content.SubmitAssignment(e.ctx, tree.assignment, tree.student.ID, nil, strp("back"))
	assert.NoError(t, err, "a restored student can submit again")
}

func deletedUserRecord(t *testing.T, e *testEnv, userID uint) uint {
	t.Helper()
	var id uint
	require.NoError(t, e.db.Table("deleted_users").Select("id").Where("user_id = ?", userID).Order("id DESC").Limit(1).Scan(&id).Error)
	require.NotZero(t, id)
	return id
}
