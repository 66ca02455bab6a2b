// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 认证管理
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", h.Auth.Logout)
	}

	// 章节管理
	chapters := v1.Group("/chapters")
	{
		chapters.GET("", h.Chapter.ListChapters)
		chapters.POST("", h.Chapter.CreateChapter)
		chapters.GET("/:cid", h.Chapter.GetChapter)
		chapters.PUT("/:cid", h.Chapter.UpdateChapter)
		chapters.PUT("/:cid/name", h.Chapter.RenameChapter)
		chapters.DELETE("/:cid", h.Chapter.DeleteChapter)

		// 编辑器事件与建议循环
		chapters.POST("/:cid/editor/events", h.Editor.Events)
		chapters.GET("/:cid/cycle", h.Editor.CycleState)
		chapters.POST("/:cid/cycle/accept", h.Editor.Accept)
		chapters.POST("/:cid/cycle/skip", h.Editor.Skip)
	}

	// 玩家档案与统计
	profile := v1.Group("/profile")
	{
		profile.GET("", h.Profile.GetProfile)
		profile.PUT("", h.Profile.SaveProfile)
		profile.GET("/stats", h.Profile.GetStats)
	}

	// 通知
	v1.GET("/notifications", h.Notifications.ListNotifications)

	// 故事分享
	v1.POST("/tales", h.Tale.GenerateTale)
	v1.POST("/gamer-card", h.Tale.GenerateGamerCard)
}
