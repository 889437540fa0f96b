package model

import "time"

// FileTag links one file to one tag. Ownership follows the file.
type FileTag struct {
	ID        int64     `db:"id" json:"id"`
	FileID    int64     `db:"id_file" json:"id_file"`
	TagID     int64     `db:"id_tag" json:"id_tag"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
