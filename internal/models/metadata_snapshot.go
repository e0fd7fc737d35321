package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MetadataSnapshot records a metadata document that was loaded successfully.
type MetadataSnapshot struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectName  string         `json:"project_name"`
	Checksum     string         `gorm:"size:64;index" json:"checksum"`
	DrawingCount int            `json:"drawing_count"`
	Document     datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}
