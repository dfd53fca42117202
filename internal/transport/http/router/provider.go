package router

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sandeepramdas/tether/internal/core/cache"
	"github.com/sandeepramdas/tether/internal/domain"
	"github.com/sandeepramdas/tether/internal/repo"
	"github.com/sandeepramdas/tether/internal/service"
	httpez "github.com/sandeepramdas/tether/internal/transport/http/ez"
)

const (
	skillCatalogCacheKey = "skills:catalog:active"
	catalogCacheTTL      = 5 * time.Minute
	publicProfileTTL     = time.Minute
)

func providerCacheKey(id string) string { return "provider:pub:" + id }

func providerSvc(tx *gorm.DB) *service.ProviderService {
	return service.NewProviderService(repo.NewProviderRepo(tx), repo.NewUserRepo(tx), nil)
}

func skillSvc(tx *gorm.DB) *service.SkillService {
	return service.NewSkillService(repo.NewSkillRepo(tx), repo.NewProviderRepo(tx))
}

// ---------- 出参形状 ----------

type profileUserOut struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar"`
	City      string `json:"city"`
	State     string `json:"state"`
}

type profileDetailOut struct {
	domain.ProviderProfile
	User profileUserOut `json:"user"`
}

type publicUserOut struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	DisplayName   string `json:"displayName"`
	Avatar        string `json:"avatar"`
	City          string `json:"city"`
	State         string `json:"state"`
	EmailVerified bool   `json:"emailVerified"`
	PhoneVerified bool   `json:"phoneVerified"`
}

type publicProfileOut struct {
	domain.ProviderProfile
	User      publicUserOut            `json:"user"`
	Offerings []domain.ServiceOffering `json:"services"`
}

// ---------- 档案入参：显式 schema，坏数值在边界就拒掉 ----------

type profileIn struct {
	BusinessName      string `json:"businessName" binding:"required,max=128"`
	Tagline           string `json:"tagline" binding:"omitempty,max=100"`
	Description       string `json:"description" binding:"omitempty,max=500"`
	YearsOfExperience string `json:"yearsOfExperience" binding:"omitempty,numeric"`
	HourlyRate        string `json:"hourlyRate" binding:"omitempty,numeric"`
	ServiceRadius     string `json:"serviceRadius" binding:"required"`
	ServiceType       string `json:"serviceType" binding:"required,oneof=online offline both"`

	Address    string `json:"address"` // 收集但不入库
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (in *profileIn) toInput() (service.ProfileInput, error) {
	out := service.ProfileInput{
		BusinessName: strings.TrimSpace(in.BusinessName),
		Tagline:      in.Tagline,
		Description:  in.Description,
		ServiceType:  in.ServiceType,
		City:         in.City,
		State:        in.State,
		PostalCode:   in.PostalCode,
		Country:      in.Country,
	}
	if in.YearsOfExperience != "" {
		y, err := strconv.Atoi(in.YearsOfExperience)
		if err != nil || y < 0 {
			return out, errors.New("yearsOfExperience must be a non-negative integer")
		}
		out.YearsOfExperience = &y
	}
	if in.HourlyRate != "" {
		r, err := strconv.ParseFloat(in.HourlyRate, 64)
		if err != nil || r < 0 {
			return out, errors.New("hourlyRate must be a non-negative number")
		}
		out.HourlyRate = &r
	}
	radius, err := service.ParseServiceRadius(in.ServiceRadius)
	if err != nil {
		return out, errors.New(`serviceRadius must be an integer or "unlimited"`)
	}
	out.ServiceRadius = radius
	return out, nil
}

// ---------- 注册 ----------

func mountProviderActions(api, authUser *gin.RouterGroup, db *gorm.DB, rc *cache.Cache) {
	ezPublic := httpez.New(api)
	ezAuth := httpez.New(authUser)

	// GET /provider/skills：公开技能目录（走缓存）
	type catalogOut struct {
		Skills []domain.Skill `json:"skills"`
	}
	httpez.RegisterAction[struct{}, catalogOut](ezPublic, db, httpez.Action[struct{}, catalogOut]{
		Method: http.MethodGet,
		Path:   "/provider/skills",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (catalogOut, error) {
			load := func() ([]domain.Skill, error) { return skillSvc(tx).ListActive() }
			if rc == nil {
				skills, err := load()
				if err != nil {
					return catalogOut{}, httpez.Internal("list skills failed", err)
				}
				return catalogOut{Skills: skills}, nil
			}
			skills, err := cache.GetOrLoadJSON(rc, c, skillCatalogCacheKey, catalogCacheTTL,
				func(ctx context.Context) (*[]domain.Skill, error) {
					s, e := load()
					if e != nil {
						return nil, e
					}
					return &s, nil
				})
			if err != nil {
				return catalogOut{}, httpez.Internal("list skills failed", err)
			}
			if skills == nil {
				return catalogOut{Skills: []domain.Skill{}}, nil
			}
			return catalogOut{Skills: *skills}, nil
		},
	})

	// GET /providers/:id：公开展示页（档案 + 徽章 + 技能 + 在售服务）
	httpez.RegisterAction[struct{}, publicProfileOut](ezPublic, db, httpez.Action[struct{}, publicProfileOut]{
		Method: http.MethodGet,
		Path:   "/providers/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (publicProfileOut, error) {
			id := c.Param("id")
			load := func() (*publicProfileOut, error) {
				p, offerings, err := providerSvc(tx).GetPublic(id)
				if err != nil {
					return nil, err
				}
				out := publicProfileOut{
					ProviderProfile: *p,
					User: publicUserOut{
						FirstName: p.User.FirstName, LastName: p.User.LastName,
						DisplayName: p.User.DisplayName, Avatar: p.User.Avatar,
						City: p.User.City, State: p.User.State,
						EmailVerified: p.User.EmailVerified, PhoneVerified: p.User.PhoneVerified,
					},
					Offerings: offerings,
				}
				if out.Offerings == nil {
					out.Offerings = []domain.ServiceOffering{}
				}
				return &out, nil
			}

			var out *publicProfileOut
			var err error
			if rc == nil {
				out, err = load()
			} else {
				out, err = cache.GetOrLoadJSON(rc, c, providerCacheKey(id), publicProfileTTL,
					func(ctx context.Context) (*publicProfileOut, error) { return load() })
			}
			if err != nil {
				if errors.Is(err, service.ErrProfileNotFound) {
					return publicProfileOut{}, httpez.NotFound("provider not found")
				}
				return publicProfileOut{}, httpez.Internal("get provider failed", err)
			}
			return *out, nil
		},
	})

	// GET /provider/profile：当前用户档案（带技能与用户摘要）
	httpez.RegisterAction[struct{}, gin.H](ezAuth, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/provider/profile",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			p, err := providerSvc(tx).Get(c.GetString("userId"))
			if err != nil {
				switch {
				case errors.Is(err, service.ErrProfileNotFound):
					return nil, httpez.NotFound("profile not found")
				case errors.Is(err, service.ErrUnauthorized):
					return nil, httpez.Unauthorized("unauthorized")
				}
				return nil, httpez.Internal("get profile failed", err)
			}
			out := profileDetailOut{
				ProviderProfile: *p,
				User: profileUserOut{
					Email: p.User.Email, FirstName: p.User.FirstName, LastName: p.User.LastName,
					Avatar: p.User.Avatar, City: p.User.City, State: p.User.State,
				},
			}
			return gin.H{"profile": out}, nil
		},
	})

	// POST /provider/profile：建档 201 / 更新 200
	httpez.RegisterAction[profileIn, gin.H](ezAuth, db, httpez.Action[profileIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/provider/profile",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *profileIn) (gin.H, error) {
			input, err := in.toInput()
			if err != nil {
				return nil, httpez.BadRequest(err.Error())
			}
			p, created, err := providerSvc(tx).Upsert(c.GetString("userId"), input)
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					return nil, httpez.Unauthorized("unauthorized")
				}
				return nil, httpez.Internal("save profile failed", err)
			}
			bustProviderCache(c, rc, p.ID)

			msg := "Profile updated successfully"
			if created {
				msg = "Profile created successfully"
				httpez.SuccessStatus(c, http.StatusCreated)
			}
			return gin.H{"message": msg, "profile": p}, nil
		},
	})

	// POST /provider/skills：整体替换当前用户的技能集
	type skillsIn struct {
		Skills []service.SkillSelection `json:"skills" binding:"required,min=1,dive"`
	}
	type skillsOut struct {
		Message string                 `json:"message"`
		Skills  []domain.ProviderSkill `json:"skills"`
	}
	httpez.RegisterAction[skillsIn, skillsOut](ezAuth, db, httpez.Action[skillsIn, skillsOut]{
		Method: http.MethodPost,
		Path:   "/provider/skills",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *skillsIn) (skillsOut, error) {
			profile, err := repo.NewProviderRepo(tx).FindByUserID(c.GetString("userId"))
			if err != nil {
				return skillsOut{}, httpez.Internal("get profile failed", err)
			}
			if profile == nil {
				return skillsOut{}, httpez.NotFound("provider profile not found")
			}
			rows, err := skillSvc(tx).ReplaceSkills(profile.ID, in.Skills)
			if err != nil {
				if errors.Is(err, service.ErrProfileNotFound) {
					return skillsOut{}, httpez.NotFound("provider profile not found")
				}
				if strings.Contains(err.Error(), "invalid proficiency") {
					return skillsOut{}, httpez.BadRequest(err.Error())
				}
				return skillsOut{}, httpez.Internal("save skills failed", err)
			}
			bustProviderCache(c, rc, profile.ID)
			return skillsOut{Message: "Skills added successfully", Skills: rows}, nil
		},
	})

	// 服务项 CRUD（归属用户自管）
	httpez.Crud(httpez.CrudConfig[domain.ServiceOffering]{
		DB:         db,
		Group:      authUser,
		Path:       "/provider/services",
		New:        func() *domain.ServiceOffering { return &domain.ServiceOffering{} },
		OwnerField: "UserID",
		OrderBy:    "created_at DESC",
		Hooks: httpez.CrudHooks[domain.ServiceOffering]{
			BeforeCreate: func(c *gin.Context, m *domain.ServiceOffering) error {
				profile, err := repo.NewProviderRepo(db.WithContext(c)).FindByUserID(c.GetString("userId"))
				if err != nil {
					return err
				}
				if profile == nil {
					return errors.New("provider profile not found")
				}
				m.ProviderID = profile.ID
				if m.Status == "" {
					m.Status = domain.ProfileStatusActive
				}
				return nil
			},
		},
	})
}

func bustProviderCache(c *gin.Context, rc *cache.Cache, providerID string) {
	if rc == nil {
		return
	}
	_ = rc.RDB.Del(c, providerCacheKey(providerID)).Err()
}
