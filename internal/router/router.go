package router

import (
	"github.com/AnkithSVaidya/CineFlare/internal/config"
	"github.com/AnkithSVaidya/CineFlare/internal/handler"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "cineflare",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 项目相关路由
		projectHandler := handler.NewProjectHandler(db, cfg)
		claimHandler := handler.NewClaimHandler(db, cfg)
		milestoneHandler := handler.NewMilestoneHandler(db, cfg)
		revenueHandler := handler.NewRevenueHandler(db, cfg)
		paymentHandler := handler.NewPaymentHandler(db, cfg)

		projects := v1.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.GetProjects)
			projects.GET("/stats", projectHandler.GetAllProjectStats)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id/active", projectHandler.SetProjectActive)
			projects.GET("/:id/stats", projectHandler.GetProjectStats)

			projects.GET("/:id/claims", claimHandler.ListClaimsByProject)

			projects.POST("/:id/milestones", milestoneHandler.AddMilestone)
			projects.GET("/:id/milestones", milestoneHandler.GetProjectMilestones)
			projects.POST("/:id/milestones/:seq/unlock", milestoneHandler.UnlockMilestone)

			projects.POST("/:id/revenue", revenueHandler.AddRevenue)
			projects.GET("/:id/revenue", revenueHandler.GetPendingRevenue)
			projects.POST("/:id/distribute", revenueHandler.Distribute)
			projects.GET("/:id/distributions", revenueHandler.ListDistributions)

			projects.GET("/:id/payments", paymentHandler.GetPaymentRecords)
		}

		// 权益凭证相关路由
		claims := v1.Group("/claims")
		{
			claims.GET("/:id", claimHandler.GetClaim)
			claims.POST("/:id/transfer", claimHandler.TransferClaim)
			claims.POST("/:id/slash", claimHandler.SlashClaim)
		}

		// 质押与奖励代币相关路由
		rewardHandler := handler.NewRewardHandler(db, cfg)
		rewards := v1.Group("/rewards")
		{
			rewards.POST("/stake", rewardHandler.Stake)
			rewards.GET("/:id", rewardHandler.GetReward)
			rewards.POST("/:id/burn", rewardHandler.Burn)
			rewards.POST("/:id/transfer", rewardHandler.TransferReward)
		}

		// 账户视角查询
		owners := v1.Group("/owners")
		{
			owners.GET("/:address/claims", claimHandler.ListClaimsByOwner)
			owners.GET("/:address/rewards", rewardHandler.ListRewardsByOwner)
			owners.GET("/:address/balance", revenueHandler.GetBalance)
		}

		// 见证与支付验证相关路由
		attestationHandler := handler.NewAttestationHandler(db, cfg)
		attestations := v1.Group("/attestations")
		{
			attestations.POST("/verifiers", attestationHandler.AuthorizeVerifier)
			attestations.POST("", attestationHandler.CreateMilestoneAttestation)
			attestations.GET("/:key/verify", attestationHandler.VerifyMilestoneAttestation)
		}
		payments := v1.Group("/payments")
		{
			payments.POST("/verify", attestationHandler.VerifyPayment)
			payments.POST("/verify/batch", attestationHandler.BatchVerifyPayments)
			payments.GET("/:ref/verified", attestationHandler.IsPaymentVerified)
			payments.POST("/process", paymentHandler.ProcessPayment)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Caller-Address")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
