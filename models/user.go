package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Right string

const (
	RightGetUsers    Right = "getUsers"
	RightManageUsers Right = "manageUsers"
)

var roleRights = map[Role][]Right{
	RoleUser:  {},
	RoleAdmin: {RightGetUsers, RightManageUsers},
}

// HasRights reports whether role carries every right in required.
func (r Role) HasRights(required ...Right) bool {
	granted := roleRights[r]
	for _, want := range required {
		found := false
		for _, have := range granted {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r Role) Valid() bool {
	_, ok := roleRights[r]
	return ok
}

type User struct {
	ID              string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name            string         `json:"name" gorm:"not null"`
	Email           string         `json:"email" gorm:"uniqueIndex;not null"`
	Password        string         `json:"-" gorm:"not null"`
	Role            Role           `json:"role" gorm:"type:varchar(16);not null;default:'user'"`
	IsEmailVerified bool           `json:"isEmailVerified" gorm:"not null;default:false"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
