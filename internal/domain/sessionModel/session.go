package sessionModel

import (
	"time"

	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/viewer"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusFailure   Status = "failure"
)

type FileMeta struct {
	Name      string  `json:"name"`
	Size      int64   `json:"size"`
	Pages     int     `json:"pages"`
	PageWidth float64 `json:"page_width"`
}

// Session is the state of one browser. Records and Tokens belong to the last
// finished upload; UploadID names the upload whose result may still land.
type Session struct {
	ID           string                      `json:"id"`
	DocumentType documentModel.DocumentType  `json:"document_type"`
	File         *FileMeta                   `json:"file,omitempty"`
	Status       Status                      `json:"status"`
	Records      []documentModel.ModelRecord `json:"records,omitempty"`
	Tokens       *documentModel.TokenUsage   `json:"tokens,omitempty"`
	Error        string                      `json:"error,omitempty"`
	Viewer       viewer.State                `json:"viewer"`
	UploadID     string                      `json:"upload_id,omitempty"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func New(id string) Session {
	return Session{
		ID:           id,
		DocumentType: documentModel.Invoice,
		Status:       StatusIdle,
		Viewer:       viewer.New(),
		UpdatedAt:    time.Now(),
	}
}

func (s Session) HasResult() bool {
	return s.Status == StatusSuccess && len(s.Records) > 0
}
