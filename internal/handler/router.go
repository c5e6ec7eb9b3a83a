package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"coffee-orders/internal/handler/api"
	"coffee-orders/internal/handler/middleware"
	"coffee-orders/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	orderHandler *api.OrderHandler,
	slotHandler *api.SlotHandler,
	webhookHandler *api.WebhookHandler,
	cacheClient *redis.Client,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, cfg, orderHandler, slotHandler, webhookHandler, cacheClient)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	cfg config.Config,
	orderHandler *api.OrderHandler,
	slotHandler *api.SlotHandler,
	webhookHandler *api.WebhookHandler,
	cacheClient *redis.Client,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	slotListCache := middleware.NewResponseCache(cfg.Cache, cacheClient)

	apiGroup := engine.Group("/api")
	{
		orders := apiGroup.Group("/orders")
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "", Handler: orderHandler.CreateOrder},
				{Method: http.MethodGet, Path: "", Handler: orderHandler.ListOrders},
				{Method: http.MethodGet, Path: "/:id", Handler: orderHandler.GetOrder},
				{Method: http.MethodPatch, Path: "/:id/slot", Handler: orderHandler.AssignSlot},
			})
		}

		slots := apiGroup.Group("/slots")
		{
			addRoutes(slots, []route{
				{Method: http.MethodPost, Path: "", Handler: slotHandler.CreateSlot},
				{Method: http.MethodGet, Path: "", Handler: slotHandler.ListSlots, Mw: []gin.HandlerFunc{slotListCache}},
			})
		}
	}

	webhooks := engine.Group("/webhooks")
	{
		addRoutes(webhooks, []route{
			{Method: http.MethodPost, Path: "/payments", Handler: webhookHandler.ReceivePayment},
			{Method: http.MethodGet, Path: "/events", Handler: webhookHandler.ListEvents},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		// Route middleware joins gin's own handler chain so its c.Next()
		// runs the handler before any post-processing.
		handlers := append(append([]gin.HandlerFunc{}, r.Mw...), r.Handler)
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, handlers...)
		case http.MethodPost:
			g.POST(r.Path, handlers...)
		case http.MethodPut:
			g.PUT(r.Path, handlers...)
		case http.MethodPatch:
			g.PATCH(r.Path, handlers...)
		case http.MethodDelete:
			g.DELETE(r.Path, handlers...)
		default:
			g.Any(r.Path, handlers...)
		}
	}
}
