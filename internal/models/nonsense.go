package models

// Nonsense is a named record with an optional description.
type Nonsense struct {
	Base
	Name        string  `json:"name"        gorm:"uniqueIndex;not null"`
	Description *string `json:"description"`
}

func (Nonsense) TableName() string { return "nonsense" }
