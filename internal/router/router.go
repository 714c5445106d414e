package router

import (
	"net/http"

	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/config"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/handler"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/ledger"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/middleware"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/report"
	"github.com/luiz-gabriel34/sobou-algo-para-os-betas/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and wires the API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	st := store.New(db)
	engine := ledger.NewEngine(db)
	reporter := report.New(db)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authHandler := handler.NewAuthHandler(st, jwtSecret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	seedHandler := handler.NewSeedHandler(st, engine, cfg.Security.BcryptCost)
	api.POST("/seed", seedHandler.Seed)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret, db))

	userHandler := handler.NewUserHandler(st, cfg.Security.BcryptCost)
	protected.GET("/me", userHandler.GetMe)
	protected.PUT("/me", userHandler.UpdateMe)
	protected.DELETE("/me", userHandler.DeleteMe)

	accountHandler := handler.NewAccountHandler(st, reporter)
	protected.POST("/accounts", accountHandler.Create)
	protected.GET("/accounts", accountHandler.List)
	protected.GET("/accounts/:id", accountHandler.Get)
	protected.PUT("/accounts/:id", accountHandler.Update)
	protected.DELETE("/accounts/:id", accountHandler.Delete)
	protected.GET("/accounts/:id/summary", accountHandler.Summary)

	categoryHandler := handler.NewCategoryHandler(st, engine)
	protected.POST("/categories", categoryHandler.Create)
	protected.GET("/categories", categoryHandler.List)
	protected.GET("/categories/:id", categoryHandler.Get)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	txHandler := handler.NewTransactionHandler(st, engine, cfg.App.PageSize)
	protected.POST("/transactions", txHandler.Create)
	protected.GET("/transactions", txHandler.List)
	protected.GET("/transactions/:id", txHandler.Get)
	protected.PUT("/transactions/:id", txHandler.Update)
	protected.DELETE("/transactions/:id", txHandler.Delete)

	reportHandler := handler.NewReportHandler(reporter)
	protected.GET("/reports/monthly", reportHandler.Monthly)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
