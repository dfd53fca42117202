package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sandeepramdas/tether/internal/domain"
	"github.com/sandeepramdas/tether/pkg/utils"
)

type SkillRepo struct{ db *gorm.DB }

func NewSkillRepo(db *gorm.DB) *SkillRepo { return &SkillRepo{db: db} }

func (r *SkillRepo) FindByName(name string) (*domain.Skill, error) {
	var s domain.Skill
	err := r.db.First(&s, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *SkillRepo) FindBySlug(slug string) (*domain.Skill, error) {
	var s domain.Skill
	err := r.db.First(&s, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *SkillRepo) Create(s *domain.Skill) error { return r.db.Create(s).Error }

func (r *SkillRepo) ListActive() ([]domain.Skill, error) {
	var skills []domain.Skill
	err := r.db.Where("is_active = ?", true).Order("name asc").Find(&skills).Error
	return skills, err
}

func (r *SkillRepo) ListProviderSkills(providerID string) ([]domain.ProviderSkill, error) {
	var rows []domain.ProviderSkill
	err := r.db.Preload("Skill").Where("provider_id = ?", providerID).Find(&rows).Error
	return rows, err
}

// ReconcileProviderSkills 单事务差量替换档案技能集。
// 已有行按 skill_id 复用（刷新熟练度、保留 is_primary），缺的插入，剩下的删除。
// 入参出现重复技能时，第二次命中不再复用、直接插新行，结果行数始终等于入参行数。
func (r *SkillRepo) ReconcileProviderSkills(providerID string, desired []domain.ProviderSkill) ([]domain.ProviderSkill, error) {
	var out []domain.ProviderSkill
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing []domain.ProviderSkill
		if err := tx.Where("provider_id = ?", providerID).Find(&existing).Error; err != nil {
			return err
		}

		// skill_id → 尚未被本次选择认领的旧行
		avail := make(map[string][]*domain.ProviderSkill, len(existing))
		for i := range existing {
			avail[existing[i].SkillID] = append(avail[existing[i].SkillID], &existing[i])
		}

		claimed := make(map[string]struct{}, len(existing))
		out = make([]domain.ProviderSkill, 0, len(desired))
		for _, d := range desired {
			if rows := avail[d.SkillID]; len(rows) > 0 {
				row := rows[0]
				avail[d.SkillID] = rows[1:]
				claimed[row.ID] = struct{}{}
				row.Proficiency = d.Proficiency
				row.IsActive = true
				if err := tx.Save(row).Error; err != nil {
					return err
				}
				out = append(out, *row)
				continue
			}
			d.ID = utils.NewID()
			d.ProviderID = providerID
			d.IsPrimary = false
			d.IsActive = true
			if err := tx.Create(&d).Error; err != nil {
				return err
			}
			out = append(out, d)
		}

		stale := make([]string, 0, len(existing))
		for i := range existing {
			if _, ok := claimed[existing[i].ID]; !ok {
				stale = append(stale, existing[i].ID)
			}
		}
		if len(stale) > 0 {
			if err := tx.Where("id IN ?", stale).Delete(&domain.ProviderSkill{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
