package model

import (
	"strings"
	"time"
)

type UserRole string

const (
	WorkerRole UserRole = "worker"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username  string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName string     `gorm:"size:150" json:"firstName"`
	LastName  string     `gorm:"size:150" json:"lastName"`
	Email     string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"size:100;not null" json:"-"`
	Role      UserRole   `gorm:"size:20;default:'worker'" json:"role"`
	LastLogin *time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// FullName 没有姓名时回退到用户名
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
