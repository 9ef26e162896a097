package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"faculty-appraisal/config"
	"faculty-appraisal/internal/api/handler"
	"faculty-appraisal/internal/api/middleware"
	"faculty-appraisal/pkg/jwt"
	"faculty-appraisal/pkg/redis"
)

// 角色常量（与 model.Role 取值一致，路由层仅做字符串比较）
const (
	roleAdmin      = "ADMIN"
	roleDean       = "DEAN"
	roleHOD        = "HOD"
	roleInstructor = "INSTRUCTOR"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(8 << 20)) // 8MB，Excel 导入为最大请求体

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 30, time.Minute), h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetMe)
			authorized.POST("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth(roleAdmin, roleDean, roleHOD), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth(roleAdmin, roleDean, roleHOD), h.User.GetUser)
				users.POST("", middleware.RoleAuth(roleAdmin), h.User.CreateUser)
				users.PUT("/:id", h.User.UpdateUser) // admin 或本人（Service 层鉴权）
				users.DELETE("/:id", middleware.RoleAuth(roleAdmin), h.User.DeleteUser)
				users.PUT("/:id/role", middleware.RoleAuth(roleAdmin), h.User.AssignRole)
				users.POST("/:id/reset-password", middleware.RoleAuth(roleAdmin), h.User.ResetPassword)
				users.POST("/import", middleware.RoleAuth(roleAdmin), h.User.ImportUsers)
			}

			// 学院模块
			colleges := authorized.Group("/colleges")
			{
				colleges.GET("", h.College.ListColleges)
				colleges.GET("/:id", h.College.GetCollege)
				colleges.POST("", middleware.RoleAuth(roleAdmin), h.College.CreateCollege)
				colleges.PUT("/:id", middleware.RoleAuth(roleAdmin), h.College.UpdateCollege)
				colleges.DELETE("/:id", middleware.RoleAuth(roleAdmin), h.College.DeleteCollege)
			}

			// 系模块
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.POST("", middleware.RoleAuth(roleAdmin), h.Department.CreateDepartment)
				departments.PUT("/:id", middleware.RoleAuth(roleAdmin), h.Department.UpdateDepartment)
				departments.DELETE("/:id", middleware.RoleAuth(roleAdmin), h.Department.DeleteDepartment)
			}

			// 考核周期模块
			cycles := authorized.Group("/cycles")
			{
				cycles.GET("", h.Cycle.ListCycles)
				cycles.GET("/current", h.Cycle.GetCurrentCycle)
				cycles.GET("/:id", h.Cycle.GetCycle)
				cycles.POST("", middleware.RoleAuth(roleAdmin), h.Cycle.CreateCycle)
				cycles.PUT("/:id", middleware.RoleAuth(roleAdmin), h.Cycle.UpdateCycle)
				cycles.POST("/:id/activate", middleware.RoleAuth(roleAdmin), h.Cycle.ActivateCycle)
				cycles.DELETE("/:id", middleware.RoleAuth(roleAdmin), h.Cycle.DeleteCycle)
			}

			// 计分配置模块
			configs := authorized.Group("/grading-configs")
			{
				configs.GET("", middleware.RoleAuth(roleAdmin, roleDean, roleHOD), h.GradingConfig.ListConfigs)
				configs.GET("/:id", middleware.RoleAuth(roleAdmin, roleDean, roleHOD), h.GradingConfig.GetConfig)
				configs.POST("", middleware.RoleAuth(roleAdmin), h.GradingConfig.CreateConfig)
				configs.PUT("/:id", middleware.RoleAuth(roleAdmin), h.GradingConfig.UpdateConfig)
				configs.DELETE("/:id", middleware.RoleAuth(roleAdmin), h.GradingConfig.DeleteConfig)
			}

			// 考核模块
			appraisals := authorized.Group("/appraisals")
			{
				appraisals.GET("", h.Appraisal.ListAppraisals)
				appraisals.GET("/:id", h.Appraisal.GetAppraisal)
				appraisals.POST("", middleware.RoleAuth(roleDean, roleHOD, roleInstructor), h.Appraisal.CreateAppraisal)
				appraisals.POST("/:id/submit", h.Appraisal.SubmitAppraisal)
				appraisals.POST("/:id/send-scores", middleware.RoleAuth(roleAdmin, roleDean, roleHOD), h.Appraisal.SendScores)
				appraisals.POST("/:id/approve", h.Appraisal.ApproveAppraisal)

				// 评分子资源
				appraisals.GET("/:id/access", h.Evaluation.ResolveAccess)
				appraisals.PUT("/:id/score", middleware.RoleAuth(roleAdmin, roleDean, roleHOD), h.Evaluation.ScoreCriterion)
				appraisals.GET("/:id/evaluations", h.Evaluation.ListEvaluations)
				appraisals.GET("/:id/suggest", middleware.RoleAuth(roleAdmin, roleDean, roleHOD), h.Evaluation.SuggestObservation)

				// 申诉子资源
				appraisals.POST("/:id/appeals", h.Appeal.RaiseAppeal)
				appraisals.GET("/:id/appeals", h.Appeal.ListAppeals)

				// 业绩成果子资源
				appraisals.GET("/:id/achievements", h.Achievement.ListAchievements)
			}

			// 申诉裁决
			authorized.POST("/appeals/:id/resolve", middleware.RoleAuth(roleAdmin, roleDean, roleHOD), h.Appeal.ResolveAppeal)

			// 业绩成果模块
			achievements := authorized.Group("/achievements")
			{
				achievements.POST("", h.Achievement.CreateAchievement)
				achievements.DELETE("/:id", h.Achievement.DeleteAchievement)
			}

			// 导出模块
			export := authorized.Group("/export")
			export.Use(middleware.RoleAuth(roleAdmin, roleDean))
			{
				export.GET("/appraisals", h.Export.ExportCycleResults)
			}
		}
	}

	return r
}
