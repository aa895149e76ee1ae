package models

import "time"

// Metadata length limits enforced at registration time. Anything richer
// than length checks is a frontend concern.
const (
	MaxPropertyNameLen = 64
	MaxImageURLLen     = 200
)

// Property is a registry entry: a sequential numeric id plus display
// metadata. The escrow core treats the id as an opaque key and never
// reads the metadata.
type Property struct {
	ID        uint32    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidateMetadata checks the registry length limits.
func ValidateMetadata(name, imageURL string) error {
	if len(name) > MaxPropertyNameLen {
		return ErrNameTooLong
	}
	if len(imageURL) > MaxImageURLLen {
		return ErrImageURLTooLong
	}
	return nil
}
