package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 附件上传相关常量
const (
	MaxAttachmentSize = 20 << 20
	MimeImage         = "image/"
	MimeText          = "text/"
	MimePDF           = "application/pdf"
	MimeZip           = "application/zip"
	MimeOfficePrefix  = "application/vnd."
	MimeMSWord        = "application/msword"
)

// AllowedAttachmentTypes lists the MIME types accepted for lesson, submission and resource files.
var AllowedAttachmentTypes = []string{MimeImage, MimeText, MimePDF, MimeZip, MimeOfficePrefix, MimeMSWord}

const (
	CourseCodeLength   = 6
	CourseCodeAttempts = 10
	CourseCodeCharset  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)
