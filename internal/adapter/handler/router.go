package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/srgjo27/hotel_frontdesk/internal/config"
	"github.com/srgjo27/hotel_frontdesk/internal/platform/metrics"
)

type RouterConfig struct {
	Auth    config.AuthConfig
	CORS    config.CORSConfig
	Metrics config.MetricsConfig
}

// NewRouter wires the front-desk API. m may be nil.
func NewRouter(h *FrontDeskHandler, cfg RouterConfig, log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(cors.New(corsConfig(cfg.CORS)))
	r.Use(m.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil && cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, m.Handler())
	}

	api := r.Group("/api/v1")
	api.Use(OperatorAuth(cfg.Auth))
	{
		api.GET("/buildings", h.ListBuildings)
		api.GET("/rooms", h.ListRooms)

		rooms := api.Group("/rooms/:id")
		rooms.GET("", h.GetRoom)
		rooms.PATCH("", h.EditRoom)
		rooms.GET("/stay", h.ActiveStay)
		rooms.POST("/check-in", h.CheckIn)
		rooms.POST("/check-out", h.CheckOut)
		rooms.GET("/folio", h.GetFolio)
		rooms.POST("/folio/charges", h.AddCharge)
		rooms.POST("/folio/payments", h.TakePayment)
	}

	return r
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}
	c.AddAllowHeaders("Authorization", headerRequestID)
	c.ExposeHeaders = []string{headerRequestID}

	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	return c
}
