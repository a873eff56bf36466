package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobmatch/internal/services"
	"github.com/yoockh/jobmatch/internal/utils"
)

type ResumeHandler struct {
	svc      services.ResumeService
	maxBytes int64
}

func NewResumeHandler(svc services.ResumeService, maxBytes int64) *ResumeHandler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &ResumeHandler{svc: svc, maxBytes: maxBytes}
}

type UploadResponse struct {
	Message         string   `json:"message"`
	ResumeID        string   `json:"resume_id"`
	SkillsExtracted []string `json:"skills_extracted"`
	TextPreview     string   `json:"text_preview"`
	Degraded        bool     `json:"degraded"`
}

func (h *ResumeHandler) Upload(c *gin.Context) {
	const op = "ResumeHandler.Upload"

	// multipart overhead on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large", err))
			return
		}
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'file'", err))
		return
	}
	if fh.Size > h.maxBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read upload", err))
		return
	}

	res, err := h.svc.Upload(c.Request.Context(), fh.Filename, data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, UploadResponse{
		Message:         "Resume uploaded successfully",
		ResumeID:        res.Resume.ID,
		SkillsExtracted: res.Resume.SkillsExtracted,
		TextPreview:     res.Resume.TextPreview,
		Degraded:        res.Degraded,
	})
}

func (h *ResumeHandler) Get(c *gin.Context) {
	r, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
