package training

import "gorm.io/gorm"

// Training represents a training course made of ordered content units
type Training struct {
	gorm.Model
	Title           string `json:"title"`
	Description     string `json:"description"`
	RequiredSeconds int64  `json:"required_seconds" gorm:"default:0"` // minimum dwell time for a full completion
	Status          string `json:"status" gorm:"default:'DRAFT'"`     // DRAFT, ACTIVE, INACTIVE
	IsPublished     bool   `json:"is_published" gorm:"default:false"`
	IsDeleted       bool   `gorm:"default:false"`
}

// TrainingUnit represents one slide/page/content item within a training
type TrainingUnit struct {
	gorm.Model
	TrainingID uint   `json:"training_id" gorm:"index;not null"`
	Title      string `json:"title"`
	ContentKey string `json:"content_key"`                  // key resolved by the content store into a signed URL
	OrderIndex int    `json:"order_index" gorm:"default:0"` // 1-based position within the training
	IsDeleted  bool   `gorm:"default:false"`
}
