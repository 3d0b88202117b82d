package util

import (
	"fmt"
	"mime"
	"net/http"
	"os"
)

const (
	// URL с ?v= однозначно пришпиливает содержимое, можно кэшировать намертво
	cacheControlVersioned = "public, max-age=31536000, immutable"
	// без версии тот же URL может позже указывать на перегенерированный файл
	cacheControlShort = "public, max-age=60"
)

// ComputeETag : слабый валидатор из размера и mtime файла.
// Пересчитывается на каждый запрос по свежему stat, без кэширования.
func ComputeETag(info os.FileInfo) string {
	return fmt.Sprintf(`W/"%x-%x"`, info.Size(), info.ModTime().UnixMilli())
}

// CacheControl : политика кэширования в зависимости от наличия ?v=
func CacheControl(r *http.Request) string {
	if r.URL.Query().Get("v") != "" {
		return cacheControlVersioned
	}
	return cacheControlShort
}

// NotModified : точное совпадение If-None-Match со свежим ETag
func NotModified(r *http.Request, etag string) bool {
	return etag != "" && r.Header.Get("If-None-Match") == etag
}

// AttachmentDisposition : Content-Disposition для скачивания. Имя файла
// приходит с диска и из БД, кавычки и не-ASCII в нём не должны ломать
// заголовок
func AttachmentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
