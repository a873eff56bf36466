package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobmatch/internal/models"
	"github.com/yoockh/jobmatch/internal/services"
	"github.com/yoockh/jobmatch/internal/utils"
)

type JobHandler struct {
	svc services.JobService
}

func NewJobHandler(svc services.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.svc.List(c.Request.Context(), models.JobFilter{
		Search:   c.Query("search"),
		Location: c.Query("location"),
		Company:  c.Query("company"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) Analyze(c *gin.Context) {
	res, err := h.svc.Analyze(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *JobHandler) Create(c *gin.Context) {
	var req services.CreateJobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.Create", "invalid request body", err))
		return
	}

	job, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) Seed(c *gin.Context) {
	n, err := h.svc.Seed(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": n})
}

func (h *JobHandler) AnalyzePending(c *gin.Context) {
	n, err := h.svc.AnalyzePending(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyzed": n})
}
