package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sandeepramdas/tether/internal/domain"
	"github.com/sandeepramdas/tether/pkg/utils"
)

var (
	ErrProfileNotFound = errors.New("provider profile not found")
	ErrEmptySkillName  = errors.New("skill name is empty")
)

// SkillSelection onboarding 提交的单条技能选择
type SkillSelection struct {
	Name        string `json:"name" binding:"required"`
	Proficiency string `json:"proficiency" binding:"required"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify 目录 slug：小写，连续空白折叠成单个连字符
func Slugify(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// NormalizeProficiency 统一大写并校验枚举成员
func NormalizeProficiency(p string) (string, error) {
	up := strings.ToUpper(strings.TrimSpace(p))
	switch up {
	case domain.ProficiencyBeginner, domain.ProficiencyIntermediate,
		domain.ProficiencyExpert, domain.ProficiencyMaster:
		return up, nil
	}
	return "", fmt.Errorf("invalid proficiency %q", p)
}

type SkillService struct {
	skills    domain.SkillRepository
	providers domain.ProviderRepository
}

func NewSkillService(skills domain.SkillRepository, providers domain.ProviderRepository) *SkillService {
	return &SkillService{skills: skills, providers: providers}
}

// ResolveOrCreate 按名字精确查目录，缺省时落一条分类级条目。
// 并发首建撞唯一索引时按 slug 兜底重查（与登录自动注册同一套路）。
func (s *SkillService) ResolveOrCreate(name string) (*domain.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptySkillName
	}
	found, err := s.skills.FindByName(name)
	if err != nil {
		return nil, err
	}
	if found != nil {
		return found, nil
	}

	sk := &domain.Skill{
		ID:       utils.NewID(),
		Name:     name,
		Slug:     Slugify(name),
		Level:    domain.SkillLevelCategory,
		IsActive: true,
	}
	if err := s.skills.Create(sk); err != nil {
		if isDupKey(err) {
			return s.skills.FindBySlug(sk.Slug)
		}
		return nil, err
	}
	return sk, nil
}

func (s *SkillService) ListActive() ([]domain.Skill, error) {
	return s.skills.ListActive()
}

// ReplaceSkills 用提交的选择集整体替换档案技能。
// 档案不存在时不做任何写入。重复名字按提交原样落重复行。
func (s *SkillService) ReplaceSkills(providerID string, selections []SkillSelection) ([]domain.ProviderSkill, error) {
	profile, err := s.providers.FindByID(providerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	desired := make([]domain.ProviderSkill, 0, len(selections))
	for _, sel := range selections {
		prof, err := NormalizeProficiency(sel.Proficiency)
		if err != nil {
			return nil, err
		}
		sk, err := s.ResolveOrCreate(sel.Name)
		if err != nil {
			return nil, err
		}
		desired = append(desired, domain.ProviderSkill{
			SkillID:     sk.ID,
			Proficiency: prof,
		})
	}
	return s.skills.ReconcileProviderSkills(providerID, desired)
}

func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
