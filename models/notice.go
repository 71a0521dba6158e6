package models

import (
	"time"

	"gorm.io/gorm"
)

type NoticePriority string

const (
	PriorityHigh   NoticePriority = "high"
	PriorityNormal NoticePriority = "normal"
	PriorityLow    NoticePriority = "low"
)

func (p NoticePriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// AttachedFile describes an uploaded file stored in the uploads directory.
type AttachedFile struct {
	Filename     string `json:"filename" gorm:"size:255;default:''"`
	OriginalName string `json:"originalName" gorm:"size:255;default:''"`
	Mimetype     string `json:"mimetype" gorm:"size:100;default:''"`
	Size         int64  `json:"size" gorm:"default:0"`
}

func (f *AttachedFile) Present() bool {
	return f != nil && f.Filename != ""
}

type Notice struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Title     string         `json:"title" gorm:"size:255;not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	Author    string         `json:"author" gorm:"size:255;not null"`
	Priority  NoticePriority `json:"priority" gorm:"size:16;default:'normal'"`
	PDFFile   *AttachedFile  `json:"pdfFile,omitempty" gorm:"embedded;embeddedPrefix:pdf_"`
	IsActive  bool           `json:"isActive" gorm:"index"`
	CreatedAt time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (n *Notice) AfterFind(*gorm.DB) error {
	if !n.PDFFile.Present() {
		n.PDFFile = nil
	}
	return nil
}
