package util

import (
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var ErrInvalidFileType = errors.New("invalid file type")

// ValidateMimeType 深度校验文件 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "image/", "application/pdf"
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	mtype, err := mimetype.DetectReader(reader)
	if err != nil {
		return "", err
	}

	mimeType := mtype.String()
	for _, allowed := range allowedTypes {
		if mtype.Is(allowed) || strings.HasPrefix(mimeType, allowed) {
			return mimeType, nil
		}
	}
	return mimeType, errors.Join(ErrInvalidFileType, errors.New(mimeType))
}
