package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielFlorido/ledgerload/internal/apierror"
)

// GetJobStatus returns the current snapshot of a submission job.
func (a Api) GetJobStatus(c *gin.Context) {
	jobID, passed := c.Params.Get("job_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id is required. pass id in the route /:job_id"})
		return
	}

	job, err := a.ledgerload.GetJob(c.Request.Context(), jobID)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJob removes a submission job from the store.
func (a Api) DeleteJob(c *gin.Context) {
	jobID, passed := c.Params.Get("job_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id is required. pass id in the route /:job_id"})
		return
	}

	if err := a.ledgerload.DeleteJob(c.Request.Context(), jobID); err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "job deleted", "job_id": jobID})
}

// Health reports whether the database can serve a trivial query.
func (a Api) Health(c *gin.Context) {
	check := a.ledgerload.HealthCheck()
	if !check.Healthy {
		c.JSON(http.StatusServiceUnavailable, check)
		return
	}
	c.JSON(http.StatusOK, check)
}
