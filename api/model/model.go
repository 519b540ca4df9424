package model

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var datePattern = regexp.MustCompile(`^\d{8}$`)

// SubmissionRequest carries the out-of-band parameters of a
// spreadsheet upload: the external client document and the 8-digit
// YYYYMMDD submission date.
type SubmissionRequest struct {
	ClientID string `form:"client_id" json:"client_id"`
	Date     string `form:"date" json:"date"`
}

func (r *SubmissionRequest) ValidateSubmissionRequest() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ClientID, validation.Required),
		validation.Field(&r.Date, validation.Required, validation.Match(datePattern).Error("date must be an 8-digit YYYYMMDD string")),
	)
}

// ValidateUploadName accepts only spreadsheet extensions.
func ValidateUploadName(name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return nil
	default:
		return errors.New("file must be an .xlsx or .xls spreadsheet")
	}
}

// QueuedResponse acknowledges an accepted submission.
type QueuedResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
