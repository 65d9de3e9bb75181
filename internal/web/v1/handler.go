package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/alanchelmickjr/lets-connect/internal/core/domain"
	"github.com/alanchelmickjr/lets-connect/internal/qr"
	"github.com/alanchelmickjr/lets-connect/middleware"
)

// Handler holds the injected store adapters and provider gateways for the
// API surface. One store or provider operation per request; no cross-handler
// orchestration.
type Handler struct {
	profiles    domain.ProfileRepository
	connections domain.ConnectionRepository
	transcriber domain.Transcriber
	drafter     domain.MessageDrafter
	oauth       domain.OAuthBridge
}

// NewHandler creates a handler with its dependencies.
func NewHandler(
	profiles domain.ProfileRepository,
	connections domain.ConnectionRepository,
	transcriber domain.Transcriber,
	drafter domain.MessageDrafter,
	oauth domain.OAuthBridge,
) *Handler {
	return &Handler{
		profiles:    profiles,
		connections: connections,
		transcriber: transcriber,
		drafter:     drafter,
		oauth:       oauth,
	}
}

// RegisterRoutes mounts the API surface under the given group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/", h.Root)
	api.POST("/profile", h.CreateProfile)
	api.GET("/profile/:id", h.GetProfile)
	api.GET("/profiles", h.ListProfiles)
	api.GET("/qr-code/:id", h.GenerateQRCode)
	api.POST("/transcribe", h.Transcribe)
	api.POST("/generate-message", h.GenerateMessage)
	api.POST("/connection", h.CreateConnection)
	api.GET("/connections/:user_id", h.ListConnections)
	api.PUT("/connection/:id", h.UpdateConnection)
	api.GET("/linkedin/auth-url", h.LinkedInAuthURL)
	api.POST("/linkedin/token", h.LinkedInToken)
	api.GET("/event-types", h.EventTypes)
	api.GET("/person-categories", h.PersonCategories)
}

// Root handles GET /api/
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Lets Connect API - Networking Made Easy"})
}

// CreateProfile handles POST /api/profile
func (h *Handler) CreateProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "profile.create", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	var req domain.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": sanitizeValidationError(err)})
		return
	}

	profile, err := h.profiles.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to create profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create profile"})
		return
	}

	logger.Info("Profile created", zap.String("profile_id", profile.ID))
	c.JSON(http.StatusOK, profile)
}

// GetProfile handles GET /api/profile/:id
func (h *Handler) GetProfile(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "profile.get", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	id := c.Param("id")
	span.SetAttributes(attribute.String("profile.id", id))

	profile, err := h.profiles.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Profile not found"})
		default:
			logger.Error("Failed to get profile", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get profile"})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListProfiles handles GET /api/profiles
func (h *Handler) ListProfiles(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "profile.list", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	profiles, err := h.profiles.List(ctx)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to list profiles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list profiles"})
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// GenerateQRCode handles GET /api/qr-code/:id
func (h *Handler) GenerateQRCode(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "profile.qrcode", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	id := c.Param("id")
	span.SetAttributes(attribute.String("profile.id", id))

	profile, err := h.profiles.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Profile not found"})
		default:
			logger.Error("Failed to get profile", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get profile"})
		}
		return
	}

	dataURI, err := qr.EncodeProfile(profile)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to render QR code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to render QR code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"qr_code": dataURI})
}

// Transcribe handles POST /api/transcribe
func (h *Handler) Transcribe(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "transcribe", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	fileHeader, err := c.FormFile("audio_file")
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "audio_file upload is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to read audio file"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to read audio file"})
		return
	}

	transcript, err := h.transcriber.Transcribe(ctx, audio, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		span.RecordError(err)
		logger.Error("Transcription failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Transcription failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcript": transcript})
}

// GenerateMessage handles POST /api/generate-message
func (h *Handler) GenerateMessage(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "message.generate", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	var dc domain.DraftContext
	if err := c.ShouldBindJSON(&dc); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": sanitizeValidationError(err)})
		return
	}

	message, err := h.drafter.Draft(ctx, dc)
	if err != nil {
		span.RecordError(err)
		logger.Error("Message generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "AI message generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ai_message": message})
}

// CreateConnection handles POST /api/connection
func (h *Handler) CreateConnection(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "connection.create", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	var req domain.CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": sanitizeValidationError(err)})
		return
	}

	conn, err := h.connections.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to create connection", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create connection"})
		return
	}

	logger.Info("Connection created",
		zap.String("connection_id", conn.ID),
		zap.String("user_id", conn.UserID),
	)
	c.JSON(http.StatusOK, conn)
}

// ListConnections handles GET /api/connections/:user_id
func (h *Handler) ListConnections(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "connection.list", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	userID := c.Param("user_id")
	span.SetAttributes(attribute.String("user.id", userID))

	conns, err := h.connections.ListForUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to list connections", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list connections"})
		return
	}

	c.JSON(http.StatusOK, conns)
}

// UpdateConnection handles PUT /api/connection/:id
func (h *Handler) UpdateConnection(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "connection.update", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	id := c.Param("id")
	span.SetAttributes(attribute.String("connection.id", id))

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": sanitizeValidationError(err)})
		return
	}

	if err := h.connections.Update(ctx, id, fields); err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, domain.ErrConnectionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Connection not found"})
		default:
			logger.Error("Failed to update connection", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update connection"})
		}
		return
	}

	logger.Info("Connection updated", zap.String("connection_id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Connection updated successfully"})
}

// LinkedInAuthURL handles GET /api/linkedin/auth-url
func (h *Handler) LinkedInAuthURL(c *gin.Context) {
	_, span := middleware.StartSpan(c.Request.Context(), "linkedin.authurl", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	authURL, state, err := h.oauth.AuthorizationURL()
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to build authorization URL", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to build authorization URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_url": authURL, "state": state})
}

type linkedInTokenRequest struct {
	Code  string `json:"code" binding:"required"`
	State string `json:"state"`
}

// LinkedInToken handles POST /api/linkedin/token
func (h *Handler) LinkedInToken(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "linkedin.token", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	var req linkedInTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": sanitizeValidationError(err)})
		return
	}

	payload, err := h.oauth.ExchangeCode(ctx, req.Code)
	if err != nil {
		span.RecordError(err)
		logger.Error("Token exchange failed", zap.Error(err))

		switch {
		case errors.Is(err, domain.ErrTokenExchange):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Failed to exchange token"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to exchange token"})
		}
		return
	}

	// Relay the provider token payload verbatim.
	c.Data(http.StatusOK, "application/json", payload)
}

// EventTypes handles GET /api/event-types
func (h *Handler) EventTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"event_types": domain.EventTypes})
}

// PersonCategories handles GET /api/person-categories
func (h *Handler) PersonCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"person_categories": domain.PersonCategories})
}
