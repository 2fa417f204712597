package service

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/util"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceService_CreateAndList(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	other := e.user(t, model.Teacher)
	admin := e.user(t, model.Admin)
	student := e.user(t, model.Student)

	course, err := e.courses.CreateCourse(e.ctx, "Art", "", teacher.ID)
	require.NoError(t, err)
	_, err = e.courses.JoinByCode(e.ctx, student.ID, course.Code)
	require.NoError(t, err)

	_, err = e.res.CreateResource(e.ctx, teacher.ID, ResourceInput{Type: model.Material, Title: "Palette"})
	require.NoError(t, err)
	_, err = e.res.CreateResource(e.ctx, teacher.ID, ResourceInput{Type: model.Book, Title: "Color theory"})
	require.NoError(t, err)
	_, err = e.res.CreateResource(e.ctx, other.ID, ResourceInput{Type: model.Module, Title: "Sculpture"})
	require.NoError(t, err)

	_, err = e.res.CreateResource(e.ctx, student.ID, ResourceInput{Type: model.Book, Title: "Mine"})
	assert.ErrorIs(t, err, util.ErrUnauthorized)

	_, err = e.res.CreateResource(e.ctx, teacher.ID, ResourceInput{Type: "poster", Title: "Bad"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	books, err := e.res.ListTeacherResources(e.ctx, teacher.ID, model.Book)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Color theory", books[0].Title)

	all, err := e.res.ListTeacherResources(e.ctx, teacher.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	seen, err := e.res.ListResources(e.ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, seen, 2, "students see resources of their teachers")
	assert.Equal(t, teacher.Name, seen[0].TeacherName)

	seen, err = e.res.ListResources(e.ctx, admin.ID)
	require.NoError(t, err)
	assert.Len(t, seen, 3)

	seen, err = e.res.ListResources(e.ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, seen, 1)
}

func TestResourceService_DeleteRemovesAttachment(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	stranger := e.user(t, model.Teacher)

	name, err := e.storage.Upload(e.ctx, "notes.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)
	local := e.storage.Provider.(*LocalStorageProvider)
	path := filepath.Join(local.Root, "notes.txt")
	require.FileExists(t, path)
	assert.Equal(t, "/uploads/notes.txt", name)

	id, err := e.res.CreateResource(e.ctx, teacher.ID, ResourceInput{Type: model.Material, Title: "Notes", Attachment: strp("notes.txt")})
	require.NoError(t, err)

	ok, err := e.res.DeleteResource(e.ctx, stranger.ID, id)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.FileExists(t, path)

	ok, err = e.res.DeleteResource(e.ctx, teacher.ID, id)
	require.NoError(t, err)
	assert.True(t, ok)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	_, err = e.res.DeleteResource(e.ctx, teacher.ID, id)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestResourceService_GetResource(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)
	other := e.user(t, model.Teacher)
	admin := e.user(t, model.Admin)
	student := e.user(t, model.Student)
	outsider := e.user(t, model.Student)

	course, err := e.courses.CreateCourse(e.ctx, "Music", "", teacher.ID)
	require.NoError(t, err)
	_, err = e.courses.JoinByCode(e.ctx, student.ID, course.Code)
	require.NoError(t, err)

	id, err := e.res.CreateResource(e.ctx, teacher.ID, ResourceInput{Type: model.Module, Title: "Scales"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		viewer  uint
		wantErr error
	}{
		{name: "owner", viewer: teacher.ID},
		{name: "admin", viewer: admin.ID},
		{name: "enrolled student", viewer: student.ID},
		{name: "other teacher", viewer: other.ID, wantErr: util.ErrUnauthorized},
		{name: "student of no course", viewer: outsider.ID, wantErr: util.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.res.GetResource(e.ctx, tt.viewer, id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Scales", res.Title)
			assert.Equal(t, teacher.Name, res.TeacherName)
		})
	}

	_, err = e.res.GetResource(e.ctx, teacher.ID, 9999)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestResourceService_DemotedTeacherCannotDelete(t *testing.T) {
	e := setup(t)
	teacher := e.user(t, model.Teacher)

	id, err := e.res.CreateResource(e.ctx, teacher.ID, ResourceInput{Type: model.Book, Title: "Notes"})
	require.NoError(t, err)
	require.NoError(t, e.users.SetRole(e.ctx, teacher.ID, model.Student))

	ok, err := e.res.DeleteResource(e.ctx, teacher.ID, id)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.EqualValues(t, 1, e.count(t, "resources", ""))
}
