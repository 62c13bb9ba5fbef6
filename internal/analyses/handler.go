package analyses

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/shared/server/middleware"
	"github.com/ansshguptaaaa/AI-Resume-Pro/internal/shared/server/respond"
)

const maxUploadBytes = 5 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.GET("/my-history", h.history)
	rg.DELETE("/delete-analysis/:id", h.deleteAnalysis)
}

func (h *Handler) analyze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	jd := strings.TrimSpace(c.PostForm("jd"))
	fileHeader, err := c.FormFile("resume")
	if err != nil || jd == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Resume & JD required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file too large", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read resume file", nil)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil || len(payload) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read resume file", nil)
		return
	}

	result, cacheHit, err := h.Svc.Analyze(c.Request.Context(), Request{
		UserID:         userID,
		JobDescription: jd,
		Document:       payload,
		MimeType:       fileHeader.Header.Get("Content-Type"),
		FileName:       fileHeader.Filename,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBadInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Resume & JD required", nil)
		default:
			// Extraction, inference and store failures all collapse into one
			// generic message; internal diagnostics stay in the logs.
			respond.Error(c, http.StatusInternalServerError, "processing_error", "Processing Error", nil)
		}
		return
	}

	if cacheHit {
		c.Set("cacheResult", "hit")
	} else {
		c.Set("cacheResult", "miss")
	}
	respond.OK(c, result)
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	recs, err := h.Svc.History(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Could not fetch history", nil)
		return
	}
	if recs == nil {
		recs = []Record{}
	}
	respond.OK(c, recs)
}

func (h *Handler) deleteAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	recordID := c.Param("id")
	if recordID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "record id is required", nil)
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), userID, recordID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Item not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Server Error during deletion", nil)
		}
		return
	}
	respond.OK(c, gin.H{"message": "Record deleted successfully"})
}
