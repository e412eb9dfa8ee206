package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/incident_risk_system/internal/config"
	"github.com/shenikar/incident_risk_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	incidentService service.IncidentService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Ingest a raw incident report
// @Description Run a raw source message through extraction, geocoding and duplicate correlation. Always returns a definite outcome. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param report body IngestReportRequest true "Raw report ingestion request"
// @Success 201 {object} IngestOutcomeResponse "Incident stored"
// @Success 200 {object} IngestOutcomeResponse "Duplicate of an existing incident"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} IngestOutcomeResponse "Report rejected"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/ingest [post]
func (h *Handler) ingestReport(c *gin.Context) {
	var input IngestReportRequest
	log := h.logger.WithField("method", "ingestReport")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := service.IngestRequest{
		RawText:         input.RawText,
		SourceChannel:   input.SourceChannel,
		SourceMessageID: input.SourceMessageID,
	}
	if input.MessageTimestamp != nil {
		req.MessageTimestamp = *input.MessageTimestamp
	}

	outcome, err := h.incidentService.Ingest(c.Request.Context(), req)
	if err != nil {
		log.WithError(err).Error("Failed to ingest report in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	resp := OutcomeToResponse(outcome)
	switch resp.Status {
	case "stored":
		c.JSON(http.StatusCreated, resp)
	case "duplicate":
		c.JSON(http.StatusOK, resp)
	default:
		c.JSON(http.StatusUnprocessableEntity, resp)
	}
}

// @Summary Assess risk around a location
// @Description Compute a composite 0-10 risk score around a point or a named location. Either coordinates or a location text must be provided. Requires API key.
// @Tags Risk
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param query body AssessRiskRequest true "Risk assessment request"
// @Success 200 {object} RiskAssessmentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /risk/assess [post]
func (h *Handler) assessRisk(c *gin.Context) {
	var input AssessRiskRequest
	log := h.logger.WithField("method", "assessRisk")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hasCoords := input.Latitude != nil && input.Longitude != nil
	if !hasCoords && input.Location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either location or both latitude and longitude are required"})
		return
	}

	assessment, err := h.incidentService.AssessRisk(c.Request.Context(), service.AssessRequest{
		LocationText: input.Location,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		RadiusKm:     input.RadiusKm,
		WindowDays:   input.WindowDays,
	})
	if err != nil {
		log.WithError(err).Error("Failed to assess risk in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, AssessmentToResponse(assessment))
}

// @Summary Get a list of incidents
// @Description Get a paginated list of all incidents, newest first. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from service")
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Get store statistics
// @Description Get summary statistics over all stored incidents. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.incidentService.GetStats(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get stats from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, StatsToResponse(stats))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
