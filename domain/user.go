package domain

import (
	"time"
)

type User struct {
	ID        string    `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	Name      string    `gorm:"column:name;type:text;not null" json:"name"`
	Email     string    `gorm:"column:email;type:text" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// UserIdentity is best-effort metadata supplied alongside an interaction,
// used to create the user row transparently when it does not exist yet.
type UserIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
