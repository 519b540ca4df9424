package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	model2 "github.com/DanielFlorido/ledgerload/api/model"
	"github.com/DanielFlorido/ledgerload/config"
	"github.com/DanielFlorido/ledgerload/internal/apierror"
	"github.com/DanielFlorido/ledgerload/model"
)

// ProcessBalance accepts a General Balance upload and queues it for
// asynchronous processing. The response carries the job id to poll.
func (a Api) ProcessBalance(c *gin.Context) {
	a.queueSubmission(c, a.ledgerload.QueueBalanceSubmission)
}

// ProcessCashFlow accepts a Cash Flow upload and queues it.
func (a Api) ProcessCashFlow(c *gin.Context) {
	a.queueSubmission(c, a.ledgerload.QueueCashFlowSubmission)
}

func (a Api) queueSubmission(c *gin.Context, queue func(ctx context.Context, filePath, sourceName, clientID, date string) (string, error)) {
	var req model2.SubmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateSubmissionRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if err := model2.ValidateUploadName(file.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tempPath, err := a.saveUpload(c, file.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	jobID, err := queue(c.Request.Context(), tempPath, file.Filename, req.ClientID, req.Date)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, model2.QueuedResponse{
		JobID:   jobID,
		Status:  string(model.JobStatusPending),
		Message: "submission accepted, poll /status/" + jobID,
	})
}

// saveUpload stores the multipart file under the configured upload
// directory with a unique name; the worker removes it when done.
func (a Api) saveUpload(c *gin.Context, filename string) (string, error) {
	conf, err := config.Fetch()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(conf.Server.UploadDir, 0o755); err != nil {
		return "", err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return "", err
	}

	tempPath := filepath.Join(conf.Server.UploadDir,
		model.GenerateUUIDWithSuffix("upload")+filepath.Ext(filename))
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		return "", err
	}
	return tempPath, nil
}

// ValidateBalance parses and validates an upload without persisting
// anything; the synchronous dry-run counterpart of ProcessBalance.
func (a Api) ValidateBalance(c *gin.Context) {
	var req model2.SubmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateSubmissionRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if err := model2.ValidateUploadName(file.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	result, rowCount, err := a.ledgerload.ValidateBalance(src, req.ClientID, req.Date)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":      result.Valid,
		"errors":     result.Errors,
		"total_rows": rowCount,
	})
}

// BulkInsertBalance is the synchronous continue-on-error endpoint:
// rows are committed independently and per-row failures are reported
// back instead of rolling anything back.
func (a Api) BulkInsertBalance(c *gin.Context) {
	var req model2.SubmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateSubmissionRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if err := model2.ValidateUploadName(file.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	result, err := a.ledgerload.BulkInsertBalance(c.Request.Context(), src, req.ClientID, req.Date)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
