package api

import (
	"mime"
	"path/filepath"
)

// contentTypes covers the asset types the web frontend serves even when
// the host OS mime database misses them.
var contentTypes = map[string]string{
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".json": "application/json",
	".js":   "application/javascript",
	".css":  "text/css",
	".html": "text/html",
}

// ContentType resolves the MIME type an asset should be served with.
// Unknown extensions fall back to application/octet-stream.
func ContentType(name string) string {
	ext := filepath.Ext(name)
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	if t, ok := contentTypes[ext]; ok {
		return t
	}
	return "application/octet-stream"
}
