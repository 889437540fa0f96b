package model

import "time"

const DefaultTagColor = "#C80000"

type Tag struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     int64     `db:"id_owner" json:"id_owner"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Color       string    `db:"color" json:"color"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TagSpec is a requested tag as supplied with an upload.
// Description and Color are optional.
type TagSpec struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}
