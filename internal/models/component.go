package models

import "gorm.io/datatypes"

// Component is a stored UI component, either curated or AI-generated.
type Component struct {
	BaseModel

	Name        string `gorm:"index;not null" json:"name"`
	Description string `json:"description"`
	Category    string `gorm:"index" json:"category"`
	Code        string `gorm:"type:text;not null" json:"code"`

	// Props holds the free-form prop schema the playground renders with.
	Props datatypes.JSON `json:"props,omitempty"`

	Preview string `json:"preview,omitempty"`

	OwnerID   *string `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	Generated bool    `gorm:"default:false" json:"generated"`
	Prompt    string  `gorm:"type:text" json:"prompt,omitempty"`
}
