package handlers

import (
	"SiKecil/models"
	"SiKecil/services"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
)

type MeasurementHandler struct {
	service *services.MeasurementService
}

func NewMeasurementHandler(service *services.MeasurementService) *MeasurementHandler {
	return &MeasurementHandler{service: service}
}

type measurementRequest struct {
	MeasuredAt        string   `json:"measured_at"`
	Weight            float64  `json:"weight"`
	Height            float64  `json:"height"`
	HeadCircumference *float64 `json:"head_circumference"`
	ArmCircumference  *float64 `json:"arm_circumference"`
	Immunization      string   `json:"immunization"`
}

// CreateMeasurement records a measurement, scores it, and schedules the
// follow-up reminder in one request.
func (h *MeasurementHandler) CreateMeasurement(c *gin.Context) {
	patientID := c.Param("patient_id")

	var request measurementRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	measuredAt, err := time.Parse("2006-01-02", request.MeasuredAt)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid measurement date, expected YYYY-MM-DD"})
		return
	}
	if measuredAt.After(time.Now()) {
		c.JSON(400, gin.H{"error": "Measurement date must not be in the future"})
		return
	}
	if request.Weight <= 0 || request.Height <= 0 {
		c.JSON(400, gin.H{"error": "Weight and height are required"})
		return
	}

	measurement := &models.Measurement{
		PatientID:         patientID,
		MeasuredAt:        measuredAt,
		Weight:            request.Weight,
		Height:            request.Height,
		HeadCircumference: request.HeadCircumference,
		ArmCircumference:  request.ArmCircumference,
		Immunization:      request.Immunization,
	}

	scored, err := h.service.Record(c.Request.Context(), measurement)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(404, gin.H{"error": "Patient not found"})
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(400, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(201, scored)
}

// GetAllMeasurements returns the full growth history, oldest first, for the
// trend chart.
func (h *MeasurementHandler) GetAllMeasurements(c *gin.Context) {
	patientID := c.Param("patient_id")

	measurements, err := h.service.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, measurements)
}

// GetRecentMeasurements returns the five latest entries for the intake screen.
func (h *MeasurementHandler) GetRecentMeasurements(c *gin.Context) {
	patientID := c.Param("patient_id")

	measurements, err := h.service.ListRecent(c.Request.Context(), patientID, 5)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, measurements)
}
