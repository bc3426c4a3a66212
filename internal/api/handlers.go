package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quickepk/quickepk/internal/models"
	"github.com/quickepk/quickepk/internal/services"

	apperrors "github.com/quickepk/quickepk/internal/errors"
)

// SetupRoutes configures all Gin API routes and injects the services they
// depend on. Tracking endpoints are public (called from the EPK page);
// everything under /presskits serves the owner's dashboard.
func SetupRoutes(router *gin.Engine, tracking *services.TrackingService, analytics *services.AnalyticsService, pressKits *services.PressKitService) {
	// Health Check Route - used for monitoring service availability
	router.GET("/health", HealthCheckHandler)

	api := router.Group("/api/v1")
	{
		// Public tracking endpoints, one call per page load / unload / interaction
		api.POST("/track/view", RecordViewHandler(tracking))
		api.PUT("/track/view", RecordDurationHandler(tracking))
		api.POST("/track/click", RecordClickHandler(tracking))
		api.POST("/track/section", RecordSectionHandler(tracking))

		// Owner-facing endpoints
		api.POST("/presskits", CreatePressKitHandler(pressKits))
		api.GET("/presskits/slug/:slug", GetPressKitBySlugHandler(pressKits))
		api.GET("/presskits/:id/analytics", GetAnalyticsHandler(analytics))
	}
}

// HealthCheckHandler handles the /health route to verify service status
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RecordViewRequest is the JSON body of POST /track/view, sent once per
// public page load.
type RecordViewRequest struct {
	PressKitID string `json:"press_kit_id" binding:"required"`
	Referrer   string `json:"referrer"` // document.referrer, empty for direct visits
}

// RecordViewHandler records one page view and returns the new view event ID.
// The client threads that ID through its duration, section and click calls,
// so the in-progress view session lives with the caller rather than in any
// server-side global.
func RecordViewHandler(tracking *services.TrackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecordViewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		view, err := tracking.RecordView(
			c.Request.Context(),
			req.PressKitID,
			req.Referrer,
			c.ClientIP(),
			c.GetHeader("User-Agent"),
		)
		if err != nil {
			if errors.Is(err, apperrors.ErrMissingField) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Missing press_kit_id"})
				return
			}
			// Store write failure is the only other way out of RecordView
			log.Printf("Error recording view for press kit %s: %v", req.PressKitID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track view"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"view_id":   view.ID,
			"viewed_at": view.ViewedAt.Format(time.RFC3339),
		})
	}
}

// RecordDurationRequest is the JSON body of PUT /track/view, sent by the
// page-unload beacon. Best effort: many views never receive it.
type RecordDurationRequest struct {
	ViewID     string `json:"view_id" binding:"required"`
	TimeOnPage int    `json:"time_on_page" binding:"min=0"`
}

// RecordDurationHandler patches the duration of one recorded view.
func RecordDurationHandler(tracking *services.TrackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecordDurationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		if err := tracking.RecordDuration(req.ViewID, req.TimeOnPage); err != nil {
			switch {
			case errors.Is(err, apperrors.ErrViewNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "View not found"})
			case errors.Is(err, apperrors.ErrNegativeDuration):
				c.JSON(http.StatusBadRequest, gin.H{"error": "time_on_page cannot be negative"})
			default:
				log.Printf("Error updating duration for view %s: %v", req.ViewID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update view"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// RecordClickRequest is the JSON body of POST /track/click.
type RecordClickRequest struct {
	PressKitID  string `json:"press_kit_id" binding:"required"`
	ViewID      string `json:"view_id"` // optional: click may be unattributed
	ElementType string `json:"element_type" binding:"required"`
	ElementURL  string `json:"element_url" binding:"required"`
}

// RecordClickHandler records one interaction with a trackable element.
// Unknown element types are rejected before anything is written.
func RecordClickHandler(tracking *services.TrackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecordClickRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		err := tracking.RecordClick(req.PressKitID, req.ViewID, models.ElementType(req.ElementType), req.ElementURL)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrInvalidElementType):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid element_type"})
			case errors.Is(err, apperrors.ErrMissingField):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			default:
				log.Printf("Error recording click for press kit %s: %v", req.PressKitID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track click"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// RecordSectionRequest is the JSON body of POST /track/section, sent when a
// visitor scrolls a kit section into view.
type RecordSectionRequest struct {
	ViewID  string `json:"view_id" binding:"required"`
	Section string `json:"section" binding:"required"`
}

// RecordSectionHandler appends a section name to the view's viewed-sections set.
func RecordSectionHandler(tracking *services.TrackingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecordSectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		if err := tracking.RecordSection(req.ViewID, req.Section); err != nil {
			if errors.Is(err, apperrors.ErrViewNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "View not found"})
				return
			}
			log.Printf("Error recording section for view %s: %v", req.ViewID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track section"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// GetAnalyticsHandler computes the analytics overview for one press kit.
// Read-only; the reference "now" is taken at request time.
func GetAnalyticsHandler(analytics *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		pressKitID := c.Param("id")

		overview, err := analytics.OverviewForPressKit(pressKitID, time.Now())
		if err != nil {
			if errors.Is(err, apperrors.ErrPressKitNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Press kit not found"})
				return
			}
			log.Printf("Error computing analytics for press kit %s: %v", pressKitID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, overview)
	}
}

// CreatePressKitRequest is the JSON body of POST /presskits.
type CreatePressKitRequest struct {
	AccountID    string `json:"account_id" binding:"required"`
	ArtistName   string `json:"artist_name" binding:"required"`
	Slug         string `json:"slug"` // optional, derived from artist name when empty
	NotifyOnView bool   `json:"notify_on_view"`
}

// CreatePressKitHandler creates a press kit so there is something to track.
// The full content editor is a separate surface.
func CreatePressKitHandler(pressKits *services.PressKitService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePressKitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		kit, err := pressKits.CreatePressKit(req.AccountID, req.ArtistName, req.Slug, req.NotifyOnView)
		if err != nil {
			if errors.Is(err, apperrors.ErrSlugTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": "Slug already in use"})
				return
			}
			log.Printf("Error creating press kit: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create press kit"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":     kit.ID,
			"slug":   kit.Slug,
			"artist": kit.ArtistName,
		})
	}
}

// GetPressKitBySlugHandler fetches the public press kit for a slug.
func GetPressKitBySlugHandler(pressKits *services.PressKitService) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		kit, err := pressKits.GetPressKitBySlug(slug)
		if err != nil {
			if errors.Is(err, apperrors.ErrPressKitNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Press kit not found"})
				return
			}
			log.Printf("Error retrieving press kit for slug %s: %v", slug, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, kit)
	}
}
