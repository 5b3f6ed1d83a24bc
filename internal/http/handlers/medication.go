package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avaraper/calily-backend/internal/http/response"
	"github.com/avaraper/calily-backend/internal/services"
)

type MedicationHandler struct {
	medService services.MedicationService
}

func NewMedicationHandler(medService services.MedicationService) *MedicationHandler {
	return &MedicationHandler{medService: medService}
}

type medicationRequest struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	TimeOfDay string `json:"timeOfDay"`
	Notes     string `json:"notes"`
	TrackOnly bool   `json:"trackOnly"`
}

func (r medicationRequest) toInput() services.MedicationInput {
	return services.MedicationInput{
		Name:      r.Name,
		Dosage:    r.Dosage,
		Frequency: r.Frequency,
		TimeOfDay: r.TimeOfDay,
		Notes:     r.Notes,
		TrackOnly: r.TrackOnly,
	}
}

func (mh *MedicationHandler) Create(c *gin.Context) {
	var req medicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	med, err := mh.medService.CreateMedication(c.Request.Context(), req.toInput())
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "medication_create_failed", err)
		return
	}
	response.RespondCreated(c, med)
}

func (mh *MedicationHandler) Update(c *gin.Context) {
	medID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req medicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	med, err := mh.medService.UpdateMedication(c.Request.Context(), medID, req.toInput())
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "medication_update_failed", err)
		return
	}
	response.RespondOK(c, med)
}

func (mh *MedicationHandler) Delete(c *gin.Context) {
	medID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := mh.medService.DeleteMedication(c.Request.Context(), medID); err != nil {
		response.RespondError(c, http.StatusNotFound, "medication_delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (mh *MedicationHandler) List(c *gin.Context) {
	meds, err := mh.medService.ListMedications(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "medication_list_failed", err)
		return
	}
	response.RespondOK(c, meds)
}

func (mh *MedicationHandler) ToggleDose(c *gin.Context) {
	medID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		DoseKey string `json:"doseKey"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	med, err := mh.medService.ToggleDose(c.Request.Context(), medID, req.DoseKey)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "dose_toggle_failed", err)
		return
	}
	response.RespondOK(c, med)
}
