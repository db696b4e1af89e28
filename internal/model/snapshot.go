package model

import "gorm.io/datatypes"

// OnboardingSnapshot postgres 后端中一条引导会话持久化记录，Data 为 {"state":...,"version":0}
type OnboardingSnapshot struct {
	BaseModel
	StorageKey string         `gorm:"type:varchar(128);not null;uniqueIndex" json:"storage_key"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null" json:"data"`
}

func (OnboardingSnapshot) TableName() string {
	return "onboarding_snapshots"
}
