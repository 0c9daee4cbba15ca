package models

import "time"

// Image records an uploaded file. Path points at the stored file on disk;
// deleting the record removes the file as well.
type Image struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Filename   string    `gorm:"not null" json:"filename"`
	Path       string    `gorm:"not null" json:"path"`
	UploaderID *uint     `gorm:"index" json:"uploader,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
