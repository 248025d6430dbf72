package models

// Stuff is a named record looked up by its unique name.
type Stuff struct {
	Base
	Name        string `json:"name"        gorm:"uniqueIndex;not null"`
	Description string `json:"description" gorm:"not null"`
}

func (Stuff) TableName() string { return "stuff" }

// RandomStuff stores an arbitrary JSON blob.
type RandomStuff struct {
	Base
	Chaos map[string]interface{} `json:"chaos" gorm:"type:json;serializer:json"`
}

func (RandomStuff) TableName() string { return "random_stuff" }
