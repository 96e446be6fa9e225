package handlers

import (
	"SiKecil/models"
	"SiKecil/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// KnowledgeHandler exposes the expert portal's knowledge-base management:
// symptoms, conditions, rule groups, and the dashboard summary.
type KnowledgeHandler struct {
	service *services.KnowledgeService
}

func NewKnowledgeHandler(service *services.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{service: service}
}

func (h *KnowledgeHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Symptoms.

func (h *KnowledgeHandler) CreateSymptom(c *gin.Context) {
	var symptom models.Symptom
	if err := c.ShouldBindJSON(&symptom); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if symptom.Code == "" || symptom.Label == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code and label are required"})
		return
	}

	if err := h.service.CreateSymptom(c.Request.Context(), &symptom); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, symptom)
}

func (h *KnowledgeHandler) GetAllSymptoms(c *gin.Context) {
	symptoms, err := h.service.GetAllSymptoms(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, symptoms)
}

func (h *KnowledgeHandler) UpdateSymptom(c *gin.Context) {
	code := c.Param("code")

	symptom, err := h.service.GetSymptom(c.Request.Context(), code)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var request struct {
		Label string `json:"label"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.Label == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Label is required"})
		return
	}
	symptom.Label = request.Label

	if err := h.service.UpdateSymptom(c.Request.Context(), symptom); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, symptom)
}

func (h *KnowledgeHandler) DeleteSymptom(c *gin.Context) {
	code := c.Param("code")

	if err := h.service.DeleteSymptom(c.Request.Context(), code); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Symptom deleted successfully"})
}

// Conditions.

func (h *KnowledgeHandler) CreateCondition(c *gin.Context) {
	var condition models.Condition
	if err := c.ShouldBindJSON(&condition); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if condition.Code == "" || condition.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code and name are required"})
		return
	}

	if err := h.service.CreateCondition(c.Request.Context(), &condition); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, condition)
}

func (h *KnowledgeHandler) GetAllConditions(c *gin.Context) {
	conditions, err := h.service.GetAllConditions(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conditions)
}

func (h *KnowledgeHandler) UpdateCondition(c *gin.Context) {
	code := c.Param("code")

	condition, err := h.service.GetCondition(c.Request.Context(), code)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var request struct {
		Name           string `json:"name"`
		Description    string `json:"description"`
		Recommendation string `json:"recommendation"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if request.Name != "" {
		condition.Name = request.Name
	}
	if request.Description != "" {
		condition.Description = request.Description
	}
	if request.Recommendation != "" {
		condition.Recommendation = request.Recommendation
	}

	if err := h.service.UpdateCondition(c.Request.Context(), condition); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, condition)
}

func (h *KnowledgeHandler) DeleteCondition(c *gin.Context) {
	code := c.Param("code")

	if err := h.service.DeleteCondition(c.Request.Context(), code); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Condition deleted successfully"})
}

// Rules.

type ruleGroupRequest struct {
	ConditionCode string   `json:"condition_code"`
	GroupCode     string   `json:"group_code"`
	SymptomCodes  []string `json:"symptom_codes"`
	Note          string   `json:"note"`
}

func (h *KnowledgeHandler) CreateRuleGroup(c *gin.Context) {
	var request ruleGroupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if request.ConditionCode == "" || request.GroupCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Condition code and group code are required"})
		return
	}

	err := h.service.CreateRuleGroup(c.Request.Context(), request.ConditionCode, request.GroupCode, request.SymptomCodes, request.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Rule group created successfully"})
}

func (h *KnowledgeHandler) GetAllRuleGroups(c *gin.Context) {
	groups, err := h.service.ListRuleGroups(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// ReplaceRulesForCondition rewrites every group of one condition in a single
// submit, the way the editing screen posts its form.
func (h *KnowledgeHandler) ReplaceRulesForCondition(c *gin.Context) {
	conditionCode := c.Param("code")

	var request struct {
		Groups map[string][]string `json:"groups"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.service.ReplaceRulesForCondition(c.Request.Context(), conditionCode, request.Groups); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rules updated successfully"})
}

func (h *KnowledgeHandler) DeleteRulesForCondition(c *gin.Context) {
	conditionCode := c.Param("code")

	if err := h.service.DeleteRulesForCondition(c.Request.Context(), conditionCode); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rules deleted successfully"})
}

// Dashboard.

func (h *KnowledgeHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.service.GetDashboardStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
