package storage

import (
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultContentType = "application/octet-stream"

var extContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"avif": "image/avif",
	"svg":  "image/svg+xml",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"ogg":  "video/ogg",
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// uploadableTypes 는 업로드를 허용하는 실제(내용 기준) 타입이다.
// heic, tiff, bmp, raw 같은 브라우저가 못 그리는 이미지는 받지 않는다.
var uploadableTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/avif",
	"image/svg+xml",
	"video/mp4",
	"video/webm",
	"audio/webm",
	"video/ogg",
	"audio/ogg",
	"application/ogg",
	"application/pdf",
}

// ContentTypeForName 은 파일 확장자로 Content-Type 을 추정한다.
func ContentTypeForName(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	if ct, ok := extContentTypes[ext]; ok {
		return ct
	}
	return defaultContentType
}

// DetectContentType 은 앞부분 바이트로 실제 타입을 판별한다. 허용 목록에 없으면 ok=false.
func DetectContentType(head []byte) (string, bool) {
	m := mimetype.Detect(head)
	for _, allowed := range uploadableTypes {
		if m.Is(allowed) {
			return allowed, true
		}
	}
	return m.String(), false
}

// SafeExtension 은 업로드 파일명의 확장자를 소문자 영숫자만 남겨 돌려준다. 없으면 "bin".
func SafeExtension(filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	var b strings.Builder
	for _, r := range strings.ToLower(ext) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "bin"
	}
	return b.String()
}
