package domain

import (
	"time"

	"gorm.io/gorm"
)

// 用户类型（双边市场：找服务 / 提供服务 / 两者）
const (
	UserTypeSeeker   = "SEEKER"
	UserTypeProvider = "PROVIDER"
	UserTypeBoth     = "BOTH"
)

// 冗余存储的国家码；非美国统一占位 XX
const (
	CountryUS    = "US"
	CountryOther = "XX"
)

type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Email        string `gorm:"uniqueIndex;size:191" json:"email"`
	FirstName    string `gorm:"size:64" json:"firstName"`
	LastName     string `gorm:"size:64" json:"lastName"`
	DisplayName  string `gorm:"size:128" json:"displayName"`
	Avatar       string `gorm:"size:255" json:"avatar"`
	PasswordHash string `gorm:"size:191" json:"-"`
	Role         string `gorm:"size:16;default:user" json:"role"` // "user"/"admin"

	// 位置冗余字段，Provider 档案建立/更新时回写
	City        string `gorm:"size:64" json:"city"`
	State       string `gorm:"size:64" json:"state"`
	PostalCode  string `gorm:"size:16" json:"postalCode"`
	CountryCode string `gorm:"size:2" json:"countryCode"`

	UserType      string `gorm:"size:16;default:SEEKER" json:"userType"`
	EmailVerified bool   `json:"emailVerified"`
	PhoneVerified bool   `json:"phoneVerified"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	List(offset, limit int) ([]User, int64, error)
	Update(u *User) error
	// UpdateFields 只更新给定列（档案 upsert 回写位置时用）
	UpdateFields(id string, fields map[string]any) error
	SoftDelete(id string) error
}
