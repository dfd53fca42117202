package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sandeepramdas/tether/internal/domain"
)

type ProviderRepo struct{ db *gorm.DB }

func NewProviderRepo(db *gorm.DB) *ProviderRepo { return &ProviderRepo{db: db} }

func (r *ProviderRepo) Create(p *domain.ProviderProfile) error { return r.db.Create(p).Error }

func (r *ProviderRepo) Update(p *domain.ProviderProfile) error { return r.db.Save(p).Error }

func (r *ProviderRepo) FindByID(id string) (*domain.ProviderProfile, error) {
	var p domain.ProviderProfile
	err := r.db.First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *ProviderRepo) FindByUserID(userID string) (*domain.ProviderProfile, error) {
	var p domain.ProviderProfile
	err := r.db.First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *ProviderRepo) FindDetailByUserID(userID string) (*domain.ProviderProfile, error) {
	var p domain.ProviderProfile
	err := r.db.
		Preload("Skills.Skill").
		Preload("User").
		First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *ProviderRepo) FindPublic(id string, offeringLimit int) (*domain.ProviderProfile, []domain.ServiceOffering, error) {
	var p domain.ProviderProfile
	err := r.db.
		Preload("Skills", "is_active = ?", true).
		Preload("Skills.Skill").
		Preload("User").
		First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var offerings []domain.ServiceOffering
	err = r.db.
		Where("provider_id = ? AND status = ?", id, domain.ProfileStatusActive).
		Order("created_at desc").
		Limit(offeringLimit).
		Find(&offerings).Error
	if err != nil {
		return nil, nil, err
	}
	return &p, offerings, nil
}
