package handlers

import (
	"SiKecil/middlewares"
	"SiKecil/models"
	"SiKecil/services"
	"SiKecil/utils"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

type patientRegistrationRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	Sex           string `json:"sex"`
	BirthDate     string `json:"birth_date"`
	GuardianName  string `json:"guardian_name"`
	GuardianEmail string `json:"guardian_email"`
	Phone         string `json:"phone"`
}

// RegisterPatient creates a guardian-facing patient account.
func (h *PatientHandler) RegisterPatient(c *gin.Context) {
	var request patientRegistrationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	birthDate, err := time.Parse("2006-01-02", request.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth date, expected YYYY-MM-DD"})
		return
	}

	patient := models.Patient{
		Username:      request.Username,
		Name:          request.Name,
		Sex:           request.Sex,
		BirthDate:     birthDate,
		GuardianName:  request.GuardianName,
		GuardianEmail: request.GuardianEmail,
		Phone:         request.Phone,
	}

	if err := h.service.Register(c.Request.Context(), &patient, request.Password); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Patient registered successfully", "id": patient.ID})
}

// LoginPatient verifies the credential pair and sets the auth cookies.
func (h *PatientHandler) LoginPatient(c *gin.Context) {
	var request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	patient, err := h.service.Authenticate(c.Request.Context(), request.Username, request.Password)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(patient.ID, middlewares.RolePasien)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}
	utils.SetAuthCookies(c, accessToken, refreshToken)

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "patient": patient})
}

// LogoutPatient clears the auth cookies.
func (h *PatientHandler) LogoutPatient(c *gin.Context) {
	utils.ClearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id := c.Param("patient_id")

	patient, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patient)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patients)
}

type patientUpdateRequest struct {
	Name          string `json:"name"`
	GuardianName  string `json:"guardian_name"`
	GuardianEmail string `json:"guardian_email"`
	Phone         string `json:"phone"`
	Password      string `json:"password"`
}

// UpdatePatient edits the demographic fields; username, sex, and birth date
// are fixed at registration.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id := c.Param("patient_id")

	var request patientUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	patient, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if request.Name != "" {
		patient.Name = request.Name
	}
	if request.GuardianName != "" {
		patient.GuardianName = request.GuardianName
	}
	if request.GuardianEmail != "" {
		patient.GuardianEmail = request.GuardianEmail
	}
	if request.Phone != "" {
		patient.Phone = request.Phone
	}

	if err := h.service.Update(c.Request.Context(), patient, request.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient updated successfully"})
}

func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id := c.Param("patient_id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}
