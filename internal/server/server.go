package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"linkedin-scraper/internal/app"
	"linkedin-scraper/pkg/models"
)

// Scraper runs one profile scrape end to end.
type Scraper interface {
	Scrape(ctx context.Context, profileURL string) (*models.Profile, error)
}

// Server is the HTTP surface over the scrape orchestrator.
type Server struct {
	scraper    Scraper
	resultFile string
	engine     *gin.Engine
}

type scrapeRequest struct {
	ProfileURL string `json:"profileUrl"`
}

type scrapeResponse struct {
	models.Profile
	Message string `json:"message"`
	SavedTo string `json:"savedTo"`
}

func New(scraper Scraper, resultFile string) *Server {
	s := &Server{scraper: scraper, resultFile: resultFile}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)
	engine.POST("/scrape", s.handleScrape)

	s.engine = engine
	return s
}

// Handler exposes the routes for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "LinkedIn Scraper API",
		"status":  "running",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleScrape validates the request before any browser resource is
// touched, then maps the orchestrator's outcome onto the status taxonomy:
// 400 bad input, 408 budget exhausted, 500 everything else. Exactly one
// response is written per request.
func (s *Server) handleScrape(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProfileURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Profile URL is required"})
		return
	}

	profile, err := s.scraper.Scrape(c.Request.Context(), req.ProfileURL)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, scrapeResponse{
			Profile: *profile,
			Message: "Profile scraped and saved successfully",
			SavedTo: s.resultFile,
		})
	case errors.Is(err, app.ErrProfileURLRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Profile URL is required"})
	case errors.Is(err, app.ErrScrapeTimeout):
		c.JSON(http.StatusRequestTimeout, gin.H{
			"error":   "Request timeout",
			"details": "Scraping took too long and was terminated",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to scrape LinkedIn profile",
			"details": err.Error(),
		})
	}
}
