package util

import (
	"net/http"
	"strings"
)

// DetectImageType 探测图片内容的 MIME 类型，非图片内容退回 image/png
// （AI 生成图默认为 PNG）
func DetectImageType(data []byte) string {
	n := len(data)
	if n > 512 {
		n = 512
	}
	mimeType := http.DetectContentType(data[:n])
	if !strings.HasPrefix(mimeType, MimeImage) {
		return MimePNG
	}
	return mimeType
}

// IsImage 检测是否为图片
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimeImage)
}
