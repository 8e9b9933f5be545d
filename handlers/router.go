package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/resumify/backend/auth"
	"github.com/resumify/backend/mcp"
)

// Router bundles the handlers served under /api
type Router struct {
	Sessions    *auth.SessionManager
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Resumes     *ResumeHandler
	Drafts      *DraftHandler
	Contact     *ContactHandler
	AI          *AIHandler
	MCP         *mcp.Server
	CORSOrigins []string
	Swagger     bool
}

// Engine builds the gin engine with middleware and every route
func (rt *Router) Engine() *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger())
	router.Use(cors.New(corsConfig(rt.CORSOrigins)))

	if rt.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	router.GET("/health", HealthCheck)
	router.NoRoute(NotFound)

	api := router.Group("/api")
	{
		// Auth endpoints (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", rt.Auth.Register)
			authGroup.POST("/login", rt.Auth.Login)
			authGroup.POST("/google", rt.Auth.GoogleLogin)
		}

		// Everything below requires a signed-in user
		protected := api.Group("")
		protected.Use(auth.AuthMiddleware(rt.Sessions))
		{
			protected.POST("/auth/logout", rt.Auth.Logout)
			protected.GET("/auth/me", rt.Auth.Me)

			protected.GET("/profile", rt.Profile.GetProfile)
			protected.PUT("/profile", rt.Profile.UpdateProfile)
			protected.POST("/profile/photo", rt.Profile.UploadPhoto)

			resumes := protected.Group("/resumes")
			{
				resumes.GET("", rt.Resumes.ListResumes)
				resumes.GET("/:id", rt.Resumes.GetResume)
				resumes.PUT("/:id", rt.Resumes.UpdateResume)
				resumes.DELETE("/:id", rt.Resumes.DeleteResume)
				resumes.POST("/:id/entries/:field", rt.Resumes.AddEntry)
				resumes.GET("/:id/preview", rt.Resumes.PreviewResume)
				resumes.GET("/:id/export", rt.Resumes.ExportResume)
			}

			drafts := protected.Group("/drafts")
			{
				drafts.POST("", rt.Drafts.CreateDraft)
				drafts.GET("/:id", rt.Drafts.GetDraft)
				drafts.PATCH("/:id", rt.Drafts.PatchDraft)
				drafts.DELETE("/:id", rt.Drafts.DiscardDraft)
				drafts.POST("/:id/next", rt.Drafts.NextStep)
				drafts.POST("/:id/back", rt.Drafts.PreviousStep)
				drafts.POST("/:id/language", rt.Drafts.ChangeLanguage)
				drafts.POST("/:id/submit", rt.Drafts.SubmitDraft)
				drafts.POST("/:id/entries/:field", rt.Drafts.AddEntry)
				drafts.DELETE("/:id/entries/:field/:index", rt.Drafts.RemoveEntry)
				drafts.GET("/:id/preview", rt.Drafts.PreviewDraft)
			}
		}

		api.POST("/contact", rt.Contact.SubmitContact)

		// Label, translation and analysis service
		api.GET("/labels/:lang", rt.AI.GetLabels)
		api.POST("/translateResume", rt.AI.TranslateResume)
		api.POST("/analyzeResume", rt.AI.AnalyzeResume)
		api.POST("/analyzeResumeFile", rt.AI.AnalyzeResumeFile)

		// MCP endpoints for external AI agents
		if rt.MCP != nil {
			rt.MCP.RegisterRoutes(api)
		}
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
