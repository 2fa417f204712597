package service

import (
	"classroom_backend/internal/model"
	"classroom_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	e := setup(t)

	id, err := e.auth.Register(e.ctx, NewUserInput{Name: "Tess", Email: "Tess@School.org", Password: "hunter22", Role: model.Teacher})
	require.NoError(t, err)

	token, user, err := e.auth.Login(e.ctx, "tess@school.org", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, model.Teacher, claims.Role)

	_, _, err = e.auth.Login(e.ctx, "tess@school.org", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = e.auth.Login(e.ctx, "nobody@school.org", "hunter22")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = e.users.SoftDelete(e.ctx, id, nil)
	require.NoError(t, err)
	_, _, err = e.auth.Login(e.ctx, "tess@school.org", "hunter22")
	assert.ErrorIs(t, err, util.ErrUserInactive)
}

func TestAuthService_RegisterAdminRejected(t *testing.T) {
	e := setup(t)

	_, err := e.auth.Register(e.ctx, NewUserInput{Name: "Root", Email: "root@x.io", Password: "password1", Role: model.Admin})
	assert.ErrorIs(t, err, util.ErrInvalidRole)
	assert.EqualValues(t, 0, e.count(t, "users", ""))
}
