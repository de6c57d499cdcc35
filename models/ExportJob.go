package models

import "gorm.io/gorm"

// ExportJob tracks an asynchronous CSV/JSON report over listings, property
// requests or users. The worker updates Status as it runs.
type ExportJob struct {
	gorm.Model
	Resource    string `json:"resource" gorm:"size:32;index"`
	Format      string `json:"format" gorm:"size:8;default:csv"`
	Status      string `json:"status" gorm:"size:16;default:pending;index"` // pending, processing, done, failed
	FilePath    string `json:"-"`
	Error       string `json:"error,omitempty" gorm:"type:text"`
	RequestedBy uint   `json:"requestedBy" gorm:"index"`
}

const (
	ExportStatusPending    = "pending"
	ExportStatusProcessing = "processing"
	ExportStatusDone       = "done"
	ExportStatusFailed     = "failed"
)
