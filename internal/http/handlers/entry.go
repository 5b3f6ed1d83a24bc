package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avaraper/calily-backend/internal/http/response"
	"github.com/avaraper/calily-backend/internal/services"
)

type EntryHandler struct {
	entryService services.EntryService
}

func NewEntryHandler(entryService services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

type entryRequest struct {
	Text      string `json:"text"`
	ImageData string `json:"imageData,omitempty"`
	ImageType string `json:"imageType,omitempty"`
	ImageName string `json:"imageName,omitempty"`
}

func (r entryRequest) toInput() (services.EntryInput, error) {
	input := services.EntryInput{
		Text:      r.Text,
		ImageType: r.ImageType,
		ImageName: r.ImageName,
	}
	if r.ImageData != "" {
		raw, err := base64.StdEncoding.DecodeString(r.ImageData)
		if err != nil {
			return input, err
		}
		input.ImageData = raw
	}
	return input, nil
}

func (eh *EntryHandler) Create(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
		return
	}
	entry, err := eh.entryService.CreateEntry(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "entry_create_failed", err)
		return
	}
	response.RespondCreated(c, entry)
}

func (eh *EntryHandler) Get(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	entry, err := eh.entryService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "entry_not_found", err)
		return
	}
	response.RespondOK(c, entry)
}

func (eh *EntryHandler) Update(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
		return
	}
	entry, err := eh.entryService.UpdateEntry(c.Request.Context(), entryID, input)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "entry_update_failed", err)
		return
	}
	response.RespondOK(c, entry)
}

func (eh *EntryHandler) Delete(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := eh.entryService.DeleteEntry(c.Request.Context(), entryID); err != nil {
		response.RespondError(c, http.StatusNotFound, "entry_delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (eh *EntryHandler) List(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}
	entries, err := eh.entryService.ListEntries(c.Request.Context(), limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "entry_list_failed", err)
		return
	}
	response.RespondOK(c, entries)
}

func (eh *EntryHandler) Search(c *gin.Context) {
	entries, err := eh.entryService.SearchEntries(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "entry_search_failed", err)
		return
	}
	response.RespondOK(c, entries)
}

func (eh *EntryHandler) Stats(c *gin.Context) {
	stats, err := eh.entryService.Stats(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "entry_stats_failed", err)
		return
	}
	response.RespondOK(c, stats)
}

func (eh *EntryHandler) Export(c *gin.Context) {
	text, err := eh.entryService.ExportText(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "entry_export_failed", err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=health-journal.txt")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
