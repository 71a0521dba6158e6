package models

import "time"

type GalleryCategory string

const (
	GalleryMeeting    GalleryCategory = "meeting"
	GalleryEvent      GalleryCategory = "event"
	GalleryConference GalleryCategory = "conference"
)

func (c GalleryCategory) Valid() bool {
	switch c {
	case GalleryMeeting, GalleryEvent, GalleryConference:
		return true
	}
	return false
}

type GalleryImage struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	ImageURL    string          `json:"imageUrl" gorm:"size:512;not null"`
	AltText     string          `json:"altText" gorm:"size:255;not null"`
	Category    GalleryCategory `json:"category" gorm:"size:32;default:'meeting'"`
	UploadedBy  string          `json:"uploadedBy" gorm:"size:255;not null"`
	Order       int             `json:"order" gorm:"column:sort_order;default:0"`
	IsActive    bool            `json:"isActive" gorm:"index"`
	UploadedAt  time.Time       `json:"uploadedAt" gorm:"index"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Filename returns the stored file name referenced by ImageURL.
func (g *GalleryImage) Filename() string {
	for i := len(g.ImageURL) - 1; i >= 0; i-- {
		if g.ImageURL[i] == '/' {
			return g.ImageURL[i+1:]
		}
	}
	return g.ImageURL
}
