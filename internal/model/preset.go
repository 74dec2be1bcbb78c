package model

import (
	"encoding/json"
	"fmt"
	"stock-screener/internal/dto"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Preset is a saved, named list of filter criteria.
type Preset struct {
	ID          uint           `gorm:"primaryKey"`
	Name        string         `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string         `gorm:"type:text"`
	Criteria    datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Preset) TableName() string {
	return "presets"
}

func (p *Preset) ToDTO() (dto.Preset, error) {
	out := dto.Preset{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Criteria:    []dto.FilterCriterion{},
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if len(p.Criteria) > 0 {
		if err := json.Unmarshal(p.Criteria, &out.Criteria); err != nil {
			return dto.Preset{}, fmt.Errorf("decode criteria of preset %d: %w", p.ID, err)
		}
	}
	return out, nil
}

func (p *Preset) SetCriteria(criteria []dto.FilterCriterion) error {
	if criteria == nil {
		criteria = []dto.FilterCriterion{}
	}
	raw, err := json.Marshal(criteria)
	if err != nil {
		return fmt.Errorf("encode criteria: %w", err)
	}
	p.Criteria = datatypes.JSON(raw)
	return nil
}
