package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeVideo       = "video/"
	MimeImage       = "image/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 10000
)

var (
	AllowedVideoExtensions      = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
	AllowedCertificateMimeTypes = []string{MimePDF, MimeImage}
)
