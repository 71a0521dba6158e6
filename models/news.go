package models

import "time"

type NewsCategory string

const (
	NewsBusiness     NewsCategory = "business"
	NewsPolicy       NewsCategory = "policy"
	NewsEvent        NewsCategory = "event"
	NewsAnnouncement NewsCategory = "announcement"
)

func (c NewsCategory) Valid() bool {
	switch c {
	case NewsBusiness, NewsPolicy, NewsEvent, NewsAnnouncement:
		return true
	}
	return false
}

type News struct {
	ID          uint         `json:"id" gorm:"primarykey"`
	Title       string       `json:"title" gorm:"size:255;not null"`
	Content     string       `json:"content" gorm:"type:text;not null"`
	Category    NewsCategory `json:"category" gorm:"size:32;default:'business'"`
	Author      string       `json:"author" gorm:"size:255;not null"`
	ImageURL    string       `json:"imageUrl" gorm:"size:512"`
	IsActive    bool         `json:"isActive" gorm:"index"`
	IsFeatured  bool         `json:"isFeatured" gorm:"index;default:false"`
	PublishedAt time.Time    `json:"publishedAt" gorm:"index"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (News) TableName() string {
	return "news"
}
