package domain

import "time"

// Image is an uploaded gallery entry. StorageKey is generated by the server
// and is the only name used on disk; OriginalName is display-only.
type Image struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StorageKey   string    `json:"storage_key"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}
