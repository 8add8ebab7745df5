package models

import "time"

// Message is an inbound contact-form message.
type Message struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Email     string     `json:"email,omitempty"`
	Body      string     `json:"message,omitempty"`
	Checked   FlexBool   `json:"checked"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Export status values for message export jobs.
const (
	ExportStatusQueued   = "queued"
	ExportStatusRunning  = "running"
	ExportStatusFinished = "finished"
	ExportStatusFailed   = "failed"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)
