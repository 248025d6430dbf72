package models

// User is an account identified by a unique email. Password holds the
// bcrypt digest, never the plaintext.
type User struct {
	Base
	Email     string `json:"email"      gorm:"uniqueIndex;not null"`
	FirstName string `json:"first_name" gorm:"not null"`
	LastName  string `json:"last_name"  gorm:"not null"`
	Password  string `json:"-"          gorm:"not null"`
}

func (User) TableName() string { return "users" }
