package model

import (
	"path"
	"time"
)

// FileTypeAvatar is the only upload kind; a user's newest avatar file wins.
const FileTypeAvatar = "avatar"

type File struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Type         string    `db:"type"`
	Filename     string    `db:"filename"`
	OriginalName string    `db:"original_name"`
	MimeType     string    `db:"mime_type"`
	Size         int64     `db:"size"`
	StoragePath  string    `db:"storage_path"`
	CreatedAt    time.Time `db:"created_at"`
}

// FileStoragePath is the object key for a stored file: avatars/<user id>/<filename>.
func FileStoragePath(fileType, userID, filename string) string {
	return path.Join(fileType+"s", userID, filename)
}
