package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name                string     `gorm:"default:''" json:"name"`
	Email               string     `gorm:"unique;not null" json:"email"`
	Role                string     `gorm:"default:'INSTRUCTOR'" json:"role"` // INSTRUCTOR, ADMIN
	Password            string     `gorm:"not null" json:"-"`
	LastLogin           time.Time  `gorm:"default:NULL" json:"last_login"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	IsDeleted           bool       `gorm:"default:false" json:"-"`
}
