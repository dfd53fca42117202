package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sandeepramdas/tether/internal/core/auth"
	"github.com/sandeepramdas/tether/internal/domain"
	httpez "github.com/sandeepramdas/tether/internal/transport/http/ez"
	mdw "github.com/sandeepramdas/tether/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, "admin"))

	MountAllAdmin(admin)
	mountAdminActions(admin, db)

	return r
}

// 管理端接口集中在这里注册
func mountAdminActions(admin *gin.RouterGroup, db *gorm.DB) {
	ez := httpez.New(admin)

	// --- GET /admin/v1/users  用户列表 ---
	type listQ struct {
		Offset      int    `form:"offset,default=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`         // 按 email/displayName 模糊搜
		UserType    string `form:"user_type"` // SEEKER / PROVIDER / BOTH
		WithDeleted bool   `form:"with_deleted"`
	}
	type row struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Role        string `json:"role"`
		UserType    string `json:"userType"`
		City        string `json:"city"`
		State       string `json:"state"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}

	httpez.RegisterAction[listQ, listOut](ez, db, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   false, // 分组已走 AuthJWT("admin")
		Handler: func(c *gin.Context, tx *gorm.DB, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			q := tx.Model(&domain.User{})
			if in.WithDeleted {
				q = q.Unscoped()
			}
			if s := strings.TrimSpace(in.Q); s != "" {
				like := "%" + s + "%"
				q = q.Where("email LIKE ? OR display_name LIKE ?", like, like)
			}
			if in.UserType != "" {
				q = q.Where("user_type = ?", in.UserType)
			}

			var total int64
			if err := q.Count(&total).Error; err != nil {
				return listOut{}, httpez.Internal("count users failed", err)
			}

			var us []domain.User
			if err := q.Order("created_at DESC").Limit(in.Limit).Offset(in.Offset).Find(&us).Error; err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}

			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, row{
					ID: u.ID, Email: u.Email, DisplayName: u.DisplayName,
					Role: u.Role, UserType: u.UserType, City: u.City, State: u.State,
				})
			}
			return out, nil
		},
	})

	// --- POST /admin/v1/users/:id/ban  封禁（软删） ---
	httpez.RegisterAction[struct{}, gin.H](ez, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, httpez.BadRequest("missing id")
			}
			res := tx.Where("id = ?", id).Delete(&domain.User{})
			if res.Error != nil {
				return nil, httpez.Internal("ban user failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, httpez.NotFound("user not found")
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- POST /admin/v1/providers/:id/status  档案上下架 ---
	type statusIn struct {
		Status string `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
	}
	httpez.RegisterAction[statusIn, gin.H](ez, db, httpez.Action[statusIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/providers/:id/status",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *statusIn) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, httpez.BadRequest("missing id")
			}
			res := tx.Model(&domain.ProviderProfile{}).Where("id = ?", id).Update("status", in.Status)
			if res.Error != nil {
				return nil, httpez.Internal("update status failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, httpez.NotFound("provider not found")
			}
			return gin.H{"id": id, "status": in.Status}, nil
		},
	})
}
