package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solobids/solobids-be/internal/api/handler"
	"github.com/solobids/solobids-be/internal/auth"
)

// Config holds router-level settings.
type Config struct {
	// AllowOrigin is the origin allowed to send credentialed requests.
	AllowOrigin string
	// RequestTimeout bounds store work per request.
	RequestTimeout time.Duration
}

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, cfg *Config) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware(cfg.AllowOrigin))
	if cfg.RequestTimeout > 0 {
		r.Use(TimeoutMiddleware(cfg.RequestTimeout))
	}

	authHandler := handler.NewAuthHandler(deps)
	jobHandler := handler.NewJobHandler(deps)
	bidHandler := handler.NewBidHandler(deps)

	guard := auth.RequireAuth(deps.Issuer)

	// Liveness / welcome
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome from SoloBids Server...")
	})

	// Session
	r.POST("/jwt", authHandler.IssueToken)
	r.GET("/logout", authHandler.Logout)

	// Jobs
	r.POST("/add-job", jobHandler.CreateJob)
	r.GET("/jobs", jobHandler.ListJobs)
	r.GET("/jobs/:email", guard, jobHandler.ListJobsByOwner)
	r.GET("/job-update/:id", jobHandler.GetJob)
	r.PUT("/update-job/:id", guard, jobHandler.UpdateJob)
	r.DELETE("/job/:id", guard, jobHandler.DeleteJob)
	r.GET("/all-jobs", jobHandler.SearchJobs)

	// Bids
	r.POST("/add-bid", bidHandler.PlaceBid)
	r.GET("/bids/:email", guard, bidHandler.ListBids)
	r.PATCH("/update-bid-status/:id", bidHandler.UpdateBidStatus)

	return r
}
