package controller

import (
	"classroom_backend/internal/service"
	"classroom_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// idParam reads a positive id from the path and answers 400 otherwise.
func idParam(ctx *gin.Context, name string) (uint, bool) {
	id, ok := util.ParseID(ctx.Param(name))
	if !ok {
		util.BadRequest(ctx, "invalid "+name)
	}
	return id, ok
}

// currentUser returns the token claims set by AuthMiddleware.
func currentUser(ctx *gin.Context) *util.Claims {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
	}
	return claims
}

// storeUpload stores the optional multipart file under field and returns its stored name.
// A request without the field yields nil.
func storeUpload(ctx *gin.Context, storage *service.StorageService, field string) (*string, bool) {
	file, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, true
	}
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return nil, false
	}

	name, err := storage.StoreAttachment(ctx, file)
	switch {
	case errors.Is(err, util.ErrInvalidFileType), errors.Is(err, service.ErrAttachmentLarge):
		util.BadRequest(ctx, err.Error())
		return nil, false
	case err != nil:
		util.LogInternalError(ctx, err)
		return nil, false
	}
	return &name, true
}

// respondChanged answers for operations that report denial as false.
func respondChanged(ctx *gin.Context, ok bool, err error) {
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if !ok {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, nil)
}
