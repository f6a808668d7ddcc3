package router

import (
	"html/template"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "brickandmortr_server/docs"
	"brickandmortr_server/internal/controller"
	"brickandmortr_server/internal/middleware"
	"brickandmortr_server/internal/model"
)

// Controllers 控制器集合
type Controllers struct {
	Item     *controller.ItemController
	Store    *controller.StoreController
	Designer *controller.DesignerController
	User     *controller.UserController
	Splash   *controller.SplashController
}

// Options 路由依赖的中间件参数
type Options struct {
	APIKeys      middleware.APIKeyValidator
	CSRF         middleware.CSRFConfig
	Templates    *template.Template
	Limiter      *middleware.CooldownLimiter
	AuthThrottle time.Duration // 登录/注册接口同一 IP 的最小间隔，0 表示不限
}

// SetupRouter 注册所有路由
func SetupRouter(ctls *Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	if opts.Templates != nil {
		r.SetHTMLTemplate(opts.Templates)
	}

	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. 数据接口
	data := r.Group("/data")
	{
		keyed := data.Group("", middleware.APIKeyAuth(opts.APIKeys))

		items := keyed.Group("/items")
		{
			// GET /data/items/?query_params={...}&page=N
			items.GET("/", ctls.Item.List)
			items.GET("/featured", ctls.Item.Featured)
			items.GET("/:id/", ctls.Item.Detail)
		}

		stores := keyed.Group("/stores")
		{
			stores.GET("/", ctls.Store.List)
			stores.GET("/:id/", ctls.Store.Detail)
			stores.GET("/:id/items/", ctls.Store.Items)
		}

		designers := keyed.Group("/designers")
		{
			designers.GET("/", ctls.Designer.List)
			designers.GET("/:id/", ctls.Designer.Detail)
			designers.GET("/:id/items/", ctls.Designer.Items)
		}

		keyed.GET("/subcategories/", ctls.Item.SubCategories)

		throttle := middleware.Throttle(opts.Limiter, opts.AuthThrottle)
		keyed.POST("/create_user", throttle, ctls.User.CreateUser)

		auth := keyed.Group("/auth", throttle)
		{
			auth.POST("/token", ctls.User.Login)
			auth.POST("/refresh", ctls.User.RefreshToken)
		}

		// 用户数据只认 JWT
		users := data.Group("/users", middleware.JWTAuth())
		{
			for _, kind := range []model.BlobKind{model.BlobFavorites, model.BlobBag, model.BlobPreferences} {
				users.GET("/"+string(kind), ctls.User.GetBlob(kind))
				users.POST("/"+string(kind), ctls.User.UpdateBlob(kind))
			}
		}
	}

	// 3. 落地页
	splash := r.Group("", middleware.CSRF(opts.CSRF))
	{
		splash.GET("/", ctls.Splash.Index)
		splash.POST("/submit-email", ctls.Splash.SubmitEmail)
		splash.GET("/forgot-password", ctls.Splash.ForgotPasswordPage)
		splash.POST("/forgot-password", ctls.Splash.ForgotPassword)
		splash.GET("/reset-password", ctls.Splash.ResetPasswordPage)
		splash.POST("/reset-password", ctls.Splash.ResetPassword)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/data") {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found."})
			return
		}
		ctls.Splash.NotFound(c)
	})

	return r
}

// Handler 在 gin 外包一层 CORS，只放行匹配 patterns 的 Origin
func Handler(engine http.Handler, patterns []string) http.Handler {
	var allowed []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			zap.S().Warnf("[Router] 忽略无效的 CORS 规则 %q: %v", p, err)
			continue
		}
		allowed = append(allowed, re)
	}

	return handlers.CORS(
		handlers.AllowedOriginValidator(func(origin string) bool {
			for _, re := range allowed {
				if re.MatchString(origin) {
					return true
				}
			}
			return false
		}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", middleware.APIKeyHeader}),
		handlers.AllowCredentials(),
	)(engine)
}
