package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"faculty-appraisal/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// GetDepartmentID 提取 department_id（可为空，院长/管理员不挂系）
func GetDepartmentID(c *gin.Context) string {
	return c.GetString("department_id")
}

// GetCollegeID 提取 college_id（可为空，教师/系主任经由系推导）
func GetCollegeID(c *gin.Context) string {
	return c.GetString("college_id")
}

// GetTokenJTI 提取当前 Access Token 的 JWT ID
func GetTokenJTI(c *gin.Context) string {
	return c.GetString("token_jti")
}

// GetTokenExpiry 提取当前 Access Token 的过期时间
func GetTokenExpiry(c *gin.Context) time.Time {
	if v, exists := c.Get("token_exp"); exists {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}
