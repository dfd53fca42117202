package router

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sandeepramdas/tether/internal/core/auth"
	"github.com/sandeepramdas/tether/internal/core/cache"
	"github.com/sandeepramdas/tether/internal/domain"
	httpez "github.com/sandeepramdas/tether/internal/transport/http/ez"
	mdw "github.com/sandeepramdas/tether/internal/transport/http/middleware"
	"github.com/sandeepramdas/tether/pkg/utils"
)

func NewAPIEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer, rc *cache.Cache) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 前缀
	api := r.Group("/api/v1")

	// 统一注册器
	MountAllAPI(api)

	// 鉴权分组（需要 userId 的接口都挂这里）
	authUser := api.Group("")
	authUser.Use(mdw.AuthJWT(jwter, ""))

	mountAuthActions(api, authUser, db, jwter)
	mountProviderActions(api, authUser, db, rc)

	return r
}

// ---------- 动作注册：/auth/login + /me ----------

func mountAuthActions(api, authUser *gin.RouterGroup, db *gorm.DB, jwter *auth.JWTer) {
	// 公共分组（无需登录）
	ezPublic := httpez.New(api)

	// /auth/login：查不到就自动注册 + 发 JWT
	type loginIn struct {
		Email     string `json:"email"     binding:"required,email"`
		Password  string `json:"password"  binding:"required"`
		FirstName string `json:"firstName" binding:"omitempty,max=64"` // 首次注册可用
		LastName  string `json:"lastName"  binding:"omitempty,max=64"`
	}
	type loginOut struct {
		Token string      `json:"token"`
		IsNew bool        `json:"isNew"`
		User  interface{} `json:"user"`
	}
	httpez.RegisterAction[loginIn, loginOut](ezPublic, db, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Auth:   false,
		Handler: func(c *gin.Context, tx *gorm.DB, in *loginIn) (loginOut, error) {
			email := strings.TrimSpace(in.Email)

			var u domain.User
			err := tx.Where("email = ?", email).First(&u).Error

			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// 自动注册
				display := strings.TrimSpace(in.FirstName + " " + in.LastName)
				if display == "" {
					if at := strings.IndexByte(email, '@'); at > 0 {
						display = email[:at]
					} else {
						display = "user"
					}
				}
				u = domain.User{
					ID:           utils.NewID(),
					Email:        email,
					FirstName:    strings.TrimSpace(in.FirstName),
					LastName:     strings.TrimSpace(in.LastName),
					DisplayName:  display,
					PasswordHash: utils.HashPassword(in.Password),
					Role:         "user",
					UserType:     domain.UserTypeSeeker,
					CountryCode:  domain.CountryOther,
				}
				if e := tx.Create(&u).Error; e != nil {
					// 并发兜底：唯一冲突 → 再查一次
					if isDupKey(e) {
						if e2 := tx.Where("email = ?", email).First(&u).Error; e2 != nil {
							return loginOut{}, httpez.Internal("login failed", e2)
						}
					} else {
						return loginOut{}, httpez.BadRequest(e.Error())
					}
				}
				tok, e := jwter.Issue(u.ID, u.Role)
				if e != nil || tok == "" {
					return loginOut{}, httpez.Internal("issue token failed", e)
				}
				return loginOut{
					Token: tok, IsNew: true,
					User: gin.H{"id": u.ID, "email": u.Email, "displayName": u.DisplayName, "userType": u.UserType},
				}, nil

			case err != nil:
				return loginOut{}, httpez.Internal("db error", err)

			default:
				// 已存在 → 校验密码
				if !utils.CheckPassword(in.Password, u.PasswordHash) {
					return loginOut{}, httpez.Unauthorized("invalid credentials")
				}
				tok, e := jwter.Issue(u.ID, u.Role)
				if e != nil || tok == "" {
					return loginOut{}, httpez.Internal("issue token failed", e)
				}
				return loginOut{
					Token: tok, IsNew: false,
					User: gin.H{"id": u.ID, "email": u.Email, "displayName": u.DisplayName, "userType": u.UserType},
				}, nil
			}
		},
	})

	// 鉴权分组（需要登录）
	ezAuth := httpez.New(authUser)

	type meOut struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		DisplayName string `json:"displayName"`
		UserType    string `json:"userType"`
		City        string `json:"city"`
		State       string `json:"state"`
	}
	httpez.RegisterAction[struct{}, meOut](ezAuth, db, httpez.Action[struct{}, meOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (meOut, error) {
			uid := c.GetString("userId")
			var u domain.User
			if err := tx.Where("id = ?", uid).First(&u).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return meOut{}, httpez.NotFound("user not found")
				}
				return meOut{}, httpez.Internal("db error", err)
			}
			return meOut{
				ID: u.ID, Email: u.Email,
				FirstName: u.FirstName, LastName: u.LastName, DisplayName: u.DisplayName,
				UserType: u.UserType, City: u.City, State: u.State,
			}, nil
		},
	})
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免版本差异导致“undefined”
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
