package media

import (
	"strings"

	"sniprange/internal/model"
	"sniprange/internal/util"
)

// ClipName derives a safe output file name (without extension) from
// metadata: the title when known, else uploader and id. It returns "" when
// the metadata has neither, leaving naming to the downloader.
func ClipName(info model.MediaInfo) string {
	if title := strings.TrimSpace(info.Title); title != "" {
		return util.SanitizeFilename(title)
	}
	id := strings.TrimSpace(info.ID)
	if id == "" {
		return ""
	}
	parts := []string{util.SanitizeFilename(id)}
	if up := strings.TrimSpace(info.Uploader); up != "" {
		parts = append([]string{util.SanitizeFilename(up)}, parts...)
	}
	return strings.Join(parts, "_")
}
