package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sandeepramdas/tether/internal/domain"
	"github.com/sandeepramdas/tether/pkg/utils"
)

var ErrUnauthorized = errors.New("unauthorized")

// ProfileInput 档案 upsert 的已校验入参；数值字段缺省即 null，不在这里兜底
type ProfileInput struct {
	BusinessName string
	Tagline      string
	Description  string

	YearsOfExperience *int
	HourlyRate        *float64
	ServiceRadius     int
	ServiceType       string // online / offline / both

	City       string
	State      string
	PostalCode string
	Country    string
}

// ParseServiceRadius 半径预设值或 "unlimited"（哨兵 999）
func ParseServiceRadius(s string) (int, error) {
	if s == "unlimited" {
		return domain.ServiceRadiusUnlimited, nil
	}
	return strconv.Atoi(s)
}

// MapCountryCode 国家字面量 → 两位码；目前只区分美国
func MapCountryCode(country string) string {
	if country == "United States" {
		return domain.CountryUS
	}
	return domain.CountryOther
}

// PromoteUserType 首次建档时决定用户类型的策略。
// 默认按邮箱含 "provider" 判断，属于占位规则，正式版应换成用户自选。
type PromoteUserType func(email string) string

func DefaultPromoteUserType(email string) string {
	if strings.Contains(email, "provider") {
		return domain.UserTypeProvider
	}
	return domain.UserTypeBoth
}

type ProviderService struct {
	providers domain.ProviderRepository
	users     domain.UserRepository
	promote   PromoteUserType
}

func NewProviderService(providers domain.ProviderRepository, users domain.UserRepository, promote PromoteUserType) *ProviderService {
	if promote == nil {
		promote = DefaultPromoteUserType
	}
	return &ProviderService{providers: providers, users: users, promote: promote}
}

// Upsert 建档或原地更新，返回 created 标记。
// 重复提交幂等：同一用户永远只有一份档案。任何一次编辑都把状态拉回 ACTIVE。
func (s *ProviderService) Upsert(userID string, in ProfileInput) (*domain.ProviderProfile, bool, error) {
	if userID == "" {
		return nil, false, ErrUnauthorized
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, ErrUnauthorized
	}

	online := in.ServiceType == "online" || in.ServiceType == "both"
	offline := in.ServiceType == "offline" || in.ServiceType == "both"

	existing, err := s.providers.FindByUserID(userID)
	if err != nil {
		return nil, false, err
	}

	if existing != nil {
		existing.BusinessName = in.BusinessName
		existing.Tagline = in.Tagline
		existing.Description = in.Description
		existing.YearsOfExperience = in.YearsOfExperience
		existing.DefaultHourlyRate = in.HourlyRate
		existing.ServiceRadius = in.ServiceRadius
		existing.IsOnlineProvider = online
		existing.IsOfflineProvider = offline
		existing.Status = domain.ProfileStatusActive
		if err := s.providers.Update(existing); err != nil {
			return nil, false, err
		}

		// 城市和州都给了才回写用户位置；用户类型不动
		if in.City != "" && in.State != "" {
			fields := map[string]any{
				"city":         in.City,
				"state":        in.State,
				"country_code": MapCountryCode(in.Country),
			}
			if in.PostalCode != "" {
				fields["postal_code"] = in.PostalCode
			}
			if err := s.users.UpdateFields(userID, fields); err != nil {
				return nil, false, err
			}
		}
		return existing, false, nil
	}

	p := &domain.ProviderProfile{
		ID:                utils.NewID(),
		UserID:            userID,
		BusinessName:      in.BusinessName,
		Tagline:           in.Tagline,
		Description:       in.Description,
		YearsOfExperience: in.YearsOfExperience,
		DefaultHourlyRate: in.HourlyRate,
		ServiceRadius:     in.ServiceRadius,
		IsOnlineProvider:  online,
		IsOfflineProvider: offline,
		Status:            domain.ProfileStatusActive,
	}
	if err := s.providers.Create(p); err != nil {
		return nil, false, err
	}

	// 首次建档：提升用户类型，位置字段有值才覆盖
	fields := map[string]any{
		"user_type":    s.promote(user.Email),
		"country_code": MapCountryCode(in.Country),
	}
	if in.City != "" {
		fields["city"] = in.City
	}
	if in.State != "" {
		fields["state"] = in.State
	}
	if in.PostalCode != "" {
		fields["postal_code"] = in.PostalCode
	}
	if err := s.users.UpdateFields(userID, fields); err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// Get 当前用户档案，带技能和用户摘要
func (s *ProviderService) Get(userID string) (*domain.ProviderProfile, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	p, err := s.providers.FindDetailByUserID(userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// GetPublic 公开展示页数据：档案 + 有效技能 + 最多 6 条在售服务
func (s *ProviderService) GetPublic(id string) (*domain.ProviderProfile, []domain.ServiceOffering, error) {
	p, offerings, err := s.providers.FindPublic(id, 6)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, ErrProfileNotFound
	}
	return p, offerings, nil
}
