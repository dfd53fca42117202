package domain

import "time"

// 技能目录层级；onboarding 创建的自定义技能统一归到分类层
const SkillLevelCategory = 2

// 熟练度枚举，入库统一大写
const (
	ProficiencyBeginner     = "BEGINNER"
	ProficiencyIntermediate = "INTERMEDIATE"
	ProficiencyExpert       = "EXPERT"
	ProficiencyMaster       = "MASTER"
)

type Skill struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Name     string `gorm:"size:128;index" json:"name"`
	Slug     string `gorm:"uniqueIndex;size:128" json:"slug"`
	Level    int    `json:"level"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Skill) TableName() string { return "skills" }

// ProviderSkill 档案 ↔ 技能目录的关联行
type ProviderSkill struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	ProviderID string `gorm:"index;size:36" json:"providerId"`
	SkillID    string `gorm:"index;size:36" json:"skillId"`

	Proficiency string `gorm:"size:16" json:"proficiency"`
	IsPrimary   bool   `json:"isPrimary"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	Skill Skill `gorm:"foreignKey:SkillID" json:"skill"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ProviderSkill) TableName() string { return "provider_skills" }

type SkillRepository interface {
	FindByName(name string) (*Skill, error)
	FindBySlug(slug string) (*Skill, error)
	Create(s *Skill) error
	ListActive() ([]Skill, error)
	// ListProviderSkills 按档案取关联行（含目录项）
	ListProviderSkills(providerID string) ([]ProviderSkill, error)
	// ReconcileProviderSkills 单事务内差量替换：沿用的行保留元数据，多余的删除
	ReconcileProviderSkills(providerID string, desired []ProviderSkill) ([]ProviderSkill, error)
}
