package controllers

import (
	"SiKecil/handlers"
	"SiKecil/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupPatientRoutes registers the guardian-facing patient portal: account
// routes, growth history, diagnosis, and notifications.
func SetupPatientRoutes(router *gin.Engine, patientHandler *handlers.PatientHandler, measurementHandler *handlers.MeasurementHandler, consultationHandler *handlers.ConsultationHandler, notificationHandler *handlers.NotificationHandler) {
	// Public routes: account creation and login
	router.POST("/patients/register", patientHandler.RegisterPatient)
	router.POST("/patients/login", patientHandler.LoginPatient)
	router.POST("/patients/logout", patientHandler.LogoutPatient)

	// Patient data routes: any authenticated portal user
	patientGroup := router.Group("/patients").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.PatientOwnershipMiddleware(),
	)
	{
		patientGroup.GET("/:patient_id", patientHandler.GetPatientByID)
		patientGroup.PUT("/:patient_id", patientHandler.UpdatePatient)

		patientGroup.POST("/:patient_id/measurements", measurementHandler.CreateMeasurement)
		patientGroup.GET("/:patient_id/measurements", measurementHandler.GetAllMeasurements)
		patientGroup.GET("/:patient_id/measurements/recent", measurementHandler.GetRecentMeasurements)

		patientGroup.POST("/:patient_id/consultations", consultationHandler.Diagnose)
		patientGroup.GET("/:patient_id/consultations", consultationHandler.GetAllConsultations)
		patientGroup.GET("/:patient_id/consultations/:consultation_id", consultationHandler.GetConsultationByID)

		patientGroup.GET("/:patient_id/notifications", notificationHandler.GetAllNotifications)
		patientGroup.DELETE("/:patient_id/notifications/:notification_id", notificationHandler.DeleteNotification)
	}

	// Expert-only routes over patient records
	expertGroup := router.Group("/patients").Use(
		middlewares.TokenAuthMiddleware(middlewares.RoleAdmin, middlewares.RolePakar),
	)
	{
		expertGroup.GET("", patientHandler.GetAllPatients)
		expertGroup.DELETE("/:patient_id", patientHandler.DeletePatient)
	}
}

// SetupKnowledgeRoutes registers the expert portal's knowledge-base routes.
// All of them require an Admin or Pakar token.
func SetupKnowledgeRoutes(router *gin.Engine, knowledgeHandler *handlers.KnowledgeHandler) {
	knowledgeGroup := router.Group("/knowledge").Use(
		middlewares.TokenAuthMiddleware(middlewares.RoleAdmin, middlewares.RolePakar),
	)
	{
		knowledgeGroup.POST("/symptoms", knowledgeHandler.CreateSymptom)
		knowledgeGroup.GET("/symptoms", knowledgeHandler.GetAllSymptoms)
		knowledgeGroup.PUT("/symptoms/:code", knowledgeHandler.UpdateSymptom)
		knowledgeGroup.DELETE("/symptoms/:code", knowledgeHandler.DeleteSymptom)

		knowledgeGroup.POST("/conditions", knowledgeHandler.CreateCondition)
		knowledgeGroup.GET("/conditions", knowledgeHandler.GetAllConditions)
		knowledgeGroup.PUT("/conditions/:code", knowledgeHandler.UpdateCondition)
		knowledgeGroup.DELETE("/conditions/:code", knowledgeHandler.DeleteCondition)

		knowledgeGroup.POST("/rules", knowledgeHandler.CreateRuleGroup)
		knowledgeGroup.GET("/rules", knowledgeHandler.GetAllRuleGroups)
		knowledgeGroup.PUT("/conditions/:code/rules", knowledgeHandler.ReplaceRulesForCondition)
		knowledgeGroup.DELETE("/conditions/:code/rules", knowledgeHandler.DeleteRulesForCondition)

		knowledgeGroup.GET("/dashboard", knowledgeHandler.GetDashboardStats)
	}
}
