package domain

import "time"

// 档案状态；任何一次编辑都会把档案拉回 ACTIVE
const (
	ProfileStatusActive   = "ACTIVE"
	ProfileStatusInactive = "INACTIVE"
)

// ServiceRadiusUnlimited 服务半径哨兵值：不限距离（远程）
const ServiceRadiusUnlimited = 999

type ProviderProfile struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"uniqueIndex;size:36" json:"userId"` // 每个用户至多一份档案

	BusinessName string `gorm:"size:128" json:"businessName"`
	Tagline      string `gorm:"size:128" json:"tagline"`
	Description  string `gorm:"type:text" json:"description"`

	YearsOfExperience *int     `json:"yearsOfExperience"`
	DefaultHourlyRate *float64 `json:"defaultHourlyRate"`

	ServiceRadius     int  `json:"serviceRadius"` // km；999 = 不限
	IsOnlineProvider  bool `json:"isOnlineProvider"`
	IsOfflineProvider bool `json:"isOfflineProvider"`

	Status string `gorm:"size:16;default:ACTIVE" json:"status"`
	Level  string `gorm:"size:16;default:BRONZE" json:"level"`

	// 聚合统计，onboarding 不写，由评价/订单流程维护
	AverageRating   float64 `json:"averageRating"`
	TotalReviews    int     `json:"totalReviews"`
	JobsCompleted   int     `json:"jobsCompleted"`
	ResponseTimeMin int     `json:"responseTimeMin"`

	User   User            `gorm:"foreignKey:UserID" json:"-"`
	Skills []ProviderSkill `gorm:"foreignKey:ProviderID" json:"skills,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ProviderProfile) TableName() string { return "provider_profiles" }

// ServiceOffering 档案下的具体服务项，公开页展示，归属用户自管 CRUD
type ServiceOffering struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	UserID      string  `gorm:"index;size:36" json:"userId"`
	ProviderID  string  `gorm:"index;size:36" json:"providerId"`
	Title       string  `gorm:"size:128" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `json:"price"`
	Status      string  `gorm:"size:16;default:ACTIVE" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ServiceOffering) TableName() string { return "service_offerings" }

type ProviderRepository interface {
	Create(p *ProviderProfile) error
	Update(p *ProviderProfile) error
	FindByID(id string) (*ProviderProfile, error)
	FindByUserID(userID string) (*ProviderProfile, error)
	// FindDetailByUserID 带技能（含技能目录项）和用户摘要
	FindDetailByUserID(userID string) (*ProviderProfile, error)
	// FindPublic 公开展示页：用户徽章 + 有效技能 + 最多 limit 条在售服务
	FindPublic(id string, offeringLimit int) (*ProviderProfile, []ServiceOffering, error)
}
