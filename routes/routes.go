package routes

import (
	"time"

	"haram/handlers"
	"haram/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRothemRoutes sets up the study-room lookup and reservation session endpoints.
func RegisterRothemRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	rh := hb.Reservation

	rothem := r.Group("/api/rothem")
	rothem.Use(middleware.AccessTokenMiddleware())
	{
		rothem.GET("/rooms", rh.ListRoomsHandler)
		rothem.GET("/rooms/:roomSeq", rh.GetRoomHandler)
		rothem.POST("/rooms/:roomSeq/sessions", rh.OpenSessionHandler)
	}

	sessions := rothem.Group("/sessions/:sessionID")
	{
		sessions.GET("", rh.GetSessionHandler)
		sessions.POST("/reload", rh.ReloadSessionHandler)
		sessions.PUT("/day", rh.SelectDayHandler)
		sessions.POST("/times/:timeSeq", rh.SelectTimeHandler)
		sessions.DELETE("/times/:timeSeq", rh.DeselectTimeHandler)
		sessions.PUT("/policies/:policySeq", rh.CheckPolicyHandler)
		sessions.PUT("/contact", rh.UpdateContactHandler)
		sessions.POST("/submit", rh.SubmitHandler)
		sessions.DELETE("", rh.CancelSessionHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterRothemRoutes(r, hb)
}
