package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"brickandmortr_server/internal/api/dto"
	"brickandmortr_server/internal/config"
	"brickandmortr_server/internal/controller"
	"brickandmortr_server/internal/middleware"
	"brickandmortr_server/internal/model"
	"brickandmortr_server/internal/repository"
	"brickandmortr_server/internal/router"
	"brickandmortr_server/internal/service"
	"brickandmortr_server/internal/task"
	"brickandmortr_server/internal/web"
	"brickandmortr_server/pkg/database"
	pkglogger "brickandmortr_server/pkg/logger"
)

// @title brick&mortr API
// @version 1.0
// @description brick&mortr 门店、设计师与商品检索接口
// @BasePath /data
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Api-Key
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 读取配置
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// 2. 日志
	l, err := pkglogger.Init(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = l.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. 初始化数据库
	db := initDatabase(cfg)

	// 4. 初始化依赖
	deps := initDependencies(cfg, db)

	// 5. 启动定时任务
	initTasks(cfg, deps)

	// 6. 初始化路由
	r := router.SetupRouter(deps.Controllers, deps.RouterOptions)

	// 7. 启动服务
	startServer(cfg.Port, router.Handler(r, cfg.CORSOrigins), deps)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB            *gorm.DB
	Repos         *Repositories
	Services      *Services
	Controllers   *router.Controllers
	RouterOptions router.Options
	Limiter       *middleware.CooldownLimiter
	Tasks         []task.Task
}

// Repositories 仓库集合
type Repositories struct {
	Store       repository.StoreRepository
	Designer    repository.DesignerRepository
	SubCategory repository.SubCategoryRepository
	Item        repository.ItemRepository
	User        repository.UserRepository
	APIKey      repository.APIKeyRepository
	Contact     repository.ContactRepository
}

// Services 服务集合
type Services struct {
	Catalog       *service.CatalogService
	Store         *service.StoreService
	Designer      *service.DesignerService
	User          *service.UserService
	APIKey        *service.APIKeyService
	PasswordReset *service.PasswordResetService
	Contact       *service.ContactService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	level := logger.Warn
	if !cfg.IsProduction() {
		level = logger.Info
	}

	db, err := database.InitDB(database.Options{
		Driver:   cfg.DBDriver,
		DSN:      cfg.DBDSN,
		LogLevel: level,
	}, model.All()...)
	if err != nil {
		zap.S().Fatalf("数据库初始化失败: %v", err)
	}
	return db
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:       cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		Issuer:          "brickandmortr",
	})
	if err := dto.RegisterValidations(); err != nil {
		zap.S().Fatalf("注册参数校验规则失败: %v", err)
	}

	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 基础服务 --------
	mailer, err := service.NewMailer(cfg.Mail)
	if err != nil {
		zap.S().Fatalf("邮件服务初始化失败: %v", err)
	}
	limiter := middleware.NewCooldownLimiter()

	// -------- 业务服务 --------
	services := &Services{
		Catalog:  service.NewCatalogService(repos.Item, repos.SubCategory),
		Store:    service.NewStoreService(repos.Store, repos.Item),
		Designer: service.NewDesignerService(repos.Designer, repos.Store, repos.Item),
		User:     service.NewUserService(repos.User),
		APIKey:   service.NewAPIKeyService(repos.APIKey, cfg.APIKeyCacheTTL),
		Contact:  service.NewContactService(repos.Contact),
	}
	services.PasswordReset = service.NewPasswordResetService(repos.User, mailer, limiter, service.PasswordResetConfig{
		LinkBase: cfg.ResetLinkBase,
		From:     cfg.Mail.From,
		CodeTTL:  cfg.ResetCodeTTL,
		Throttle: cfg.ResetThrottle,
	})

	// -------- Controller 层 --------
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CSRFSecure

	controllers := &router.Controllers{
		Item:     controller.NewItemController(services.Catalog),
		Store:    controller.NewStoreController(services.Store),
		Designer: controller.NewDesignerController(services.Designer),
		User:     controller.NewUserController(services.User),
		Splash:   controller.NewSplashController(services.Contact, services.PasswordReset, sessionStore),
	}

	templates, err := web.Templates()
	if err != nil {
		zap.S().Fatalf("页面模板解析失败: %v", err)
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
		Limiter:     limiter,
		RouterOptions: router.Options{
			APIKeys: services.APIKey,
			CSRF: middleware.CSRFConfig{
				AuthKey: cfg.CSRFKey,
				Secure:  cfg.CSRFSecure,
			},
			Templates:    templates,
			Limiter:      limiter,
			AuthThrottle: time.Second,
		},
	}
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Store:       repository.NewStoreRepository(db),
		Designer:    repository.NewDesignerRepository(db),
		SubCategory: repository.NewSubCategoryRepository(db),
		Item:        repository.NewItemRepository(db),
		User:        repository.NewUserRepository(db),
		APIKey:      repository.NewAPIKeyRepository(db),
		Contact:     repository.NewContactRepository(db),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(cfg *config.Config, deps *Dependencies) {
	// 过期校验码清理
	resetTask := task.NewResetCodeTask(deps.Services.PasswordReset)
	if err := resetTask.Start(); err != nil {
		zap.S().Fatalf("定时任务启动失败: %v", err)
	}
	deps.Tasks = append(deps.Tasks, resetTask)

	// 限流条目清理，保留时长取最长的冷却间隔
	maxAge := deps.RouterOptions.AuthThrottle
	if cfg.ResetThrottle > maxAge {
		maxAge = cfg.ResetThrottle
	}
	sweepTask := task.NewLimiterSweepTask(deps.Limiter, maxAge)
	if err := sweepTask.Start(); err != nil {
		zap.S().Fatalf("定时任务启动失败: %v", err)
	}
	deps.Tasks = append(deps.Tasks, sweepTask)

	zap.S().Info("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(port string, handler http.Handler, deps *Dependencies) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 异步启动服务
	go func() {
		zap.S().Infof("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.S().Info("正在关闭服务...")

	for _, t := range deps.Tasks {
		<-t.Stop().Done()
	}

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zap.S().Fatalf("服务强制关闭: %v", err)
	}

	zap.S().Info("服务已退出")
}
