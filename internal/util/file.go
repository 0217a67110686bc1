package util

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// ValidateMimeType 深度校验文件 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "image/", "video/", "application/pdf"
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, fmt.Errorf("%w: file type %s", ErrInvalidUpload, mimeType)
}

// IsVideo 检测是否为视频
func IsVideo(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimeVideo) || mimeType == "application/x-mpegURL"
}

// HasAllowedExtension 扩展名白名单校验，大小写不敏感
func HasAllowedExtension(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
