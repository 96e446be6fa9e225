package handlers

import (
	"SiKecil/services"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ConsultationHandler struct {
	inference     *services.InferenceService
	consultations *services.ConsultationQueryService
}

func NewConsultationHandler(inference *services.InferenceService, consultations *services.ConsultationQueryService) *ConsultationHandler {
	return &ConsultationHandler{inference: inference, consultations: consultations}
}

// Diagnose runs the inference engine over the reported symptom codes and
// returns the recorded consultation, matched or not.
func (h *ConsultationHandler) Diagnose(c *gin.Context) {
	patientID := c.Param("patient_id")

	var request struct {
		SymptomCodes []string `json:"symptom_codes"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	consultation, err := h.inference.Diagnose(c.Request.Context(), patientID, request.SymptomCodes)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Patient not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, consultation)
}

func (h *ConsultationHandler) GetConsultationByID(c *gin.Context) {
	patientID := c.Param("patient_id")
	idParam := c.Param("consultation_id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid ID"})
		return
	}

	consultation, err := h.consultations.GetByID(c.Request.Context(), patientID, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Consultation not found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, consultation)
}

func (h *ConsultationHandler) GetAllConsultations(c *gin.Context) {
	patientID := c.Param("patient_id")

	consultations, err := h.consultations.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, consultations)
}
