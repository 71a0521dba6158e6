package models

import (
	"time"

	"gorm.io/gorm"
)

type FormSubmission struct {
	ID          uint          `json:"id" gorm:"primarykey"`
	Name        string        `json:"name" gorm:"size:255;not null"`
	Email       string        `json:"email" gorm:"size:255;index;not null"`
	Phone       string        `json:"phone" gorm:"size:64;not null"`
	Message     string        `json:"message" gorm:"type:text;not null"`
	Category    string        `json:"category" gorm:"size:64;default:'general'"`
	Address     string        `json:"address" gorm:"size:512"`
	PDFFile     *AttachedFile `json:"pdfFile,omitempty" gorm:"embedded;embeddedPrefix:pdf_"`
	SubmittedAt time.Time     `json:"submittedAt" gorm:"index"`
}

func (f *FormSubmission) AfterFind(*gorm.DB) error {
	if !f.PDFFile.Present() {
		f.PDFFile = nil
	}
	return nil
}
