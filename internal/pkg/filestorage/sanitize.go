package filestorage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/girlscollective/collective/internal/pkg/helpers"
	"github.com/google/uuid"
)

// UploadKind is the folder an upload lands in under the owner's prefix
type UploadKind string

const (
	KindAvatar     UploadKind = "avatar"
	KindGallery    UploadKind = "gallery"
	KindEventCover UploadKind = "event-cover"
	KindGroupCover UploadKind = "group-cover"
)

const maxNameLength = 80

// SanitizeFilename folds diacritics and keeps only [a-z0-9._-] so keys are URL-safe.
func SanitizeFilename(name string) string {
	name = strings.ToLower(helpers.StripDiacritics(path.Base(strings.ReplaceAll(name, "\\", "/"))))

	var b strings.Builder
	dash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			dash = false
		case !dash:
			b.WriteByte('-')
			dash = true
		}
	}

	out := strings.TrimRight(strings.Trim(b.String(), "-"), ".")
	if len(out) > maxNameLength {
		ext := path.Ext(out)
		if len(ext) > 10 {
			ext = ""
		}
		out = strings.TrimRight(out[:maxNameLength-len(ext)], "-.") + ext
	}
	if out == "" || strings.HasPrefix(out, ".") {
		out = "file" + out
	}
	return out
}

// ObjectKey builds <userId>/<kind>/<unix-millis>-<sanitised name>.
func ObjectKey(owner uuid.UUID, kind UploadKind, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%d-%s", owner, kind, now.UnixMilli(), SanitizeFilename(filename))
}
