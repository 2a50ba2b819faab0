package server

import (
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"ladangwatch/internal/export"
	"ladangwatch/internal/policy"
	"ladangwatch/pkg/types"
)

const maxSubmissionBytes = 32 << 20

type reportSubmission struct {
	Unit             types.Unit     `form:"unit" validate:"required"`
	Region           types.Region   `form:"region" validate:"required"`
	Category         types.Category `form:"category" validate:"required"`
	IncidentDate     string         `form:"incident_date" validate:"required"`
	IncidentTime     string         `form:"incident_time" validate:"required"`
	LossEstimationKg float64        `form:"loss_estimation_kg" validate:"gte=0"`
	SupervisorPhone  string         `form:"supervisor_phone" validate:"required"`
	Summary          string         `form:"summary" validate:"required"`
	Latitude         *float64       `form:"latitude"`
	Longitude        *float64       `form:"longitude"`
}

// handleSubmitReport accepts a multipart submission: scalar fields plus
// zero or more "photos" parts. All validation runs before the first byte
// hits S3; photo uploads run sequentially in attachment order, and any
// upload failure aborts the submission before the report row is written,
// so a report never persists with a partially uploaded photo set.
func (s *Service) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessionFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain session")
		s.respondUnauthorized(w)
		return
	}

	if session.Profile == nil {
		s.respondProfileRequired(w)
		return
	}

	if !policy.CanSubmitReport(session.Profile) {
		s.respondError(w, types.NewAuthorizationError("submitting reports is not permitted"))
		return
	}

	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		s.respondError(w, types.NewValidationError("invalid multipart form: %v", err))
		return
	}

	var submission reportSubmission
	if err := decoder.Decode(&submission, nonEmptyValues(r.MultipartForm.Value)); err != nil {
		s.logger.WithError(err).Error("failed to decode report submission")
		s.respondError(w, types.NewValidationError("invalid report fields: %v", err))
		return
	}

	if err := s.validateStruct(submission); err != nil {
		s.respondError(w, err)
		return
	}

	report := &types.Report{
		Unit:             submission.Unit,
		Region:           submission.Region,
		Category:         submission.Category,
		IncidentDate:     submission.IncidentDate,
		IncidentTime:     submission.IncidentTime,
		LossEstimationKg: submission.LossEstimationKg,
		SupervisorPhone:  submission.SupervisorPhone,
		Summary:          submission.Summary,
		Latitude:         submission.Latitude,
		Longitude:        submission.Longitude,
		Photos:           []string{},
	}

	if err := report.Validate(); err != nil {
		s.respondError(w, err)
		return
	}

	attachments := r.MultipartForm.File["photos"]
	submittedAt := time.Now().UnixMilli()

	for i, attachment := range attachments {
		file, err := attachment.Open()
		if err != nil {
			s.respondError(w, types.NewValidationError("failed to read photo %d: %v", i+1, err))
			return
		}

		contentType := attachment.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		key := fmt.Sprintf("reports/%d-%d%s", submittedAt, i, filepath.Ext(attachment.Filename))

		photoURL, err := s.evidence.Upload(r.Context(), key, file, contentType)
		file.Close()
		if err != nil {
			s.logger.WithError(err).WithField("key", key).Error("failed to upload evidence photo")
			s.respondError(w, err)
			return
		}

		report.Photos = append(report.Photos, photoURL)
	}

	if err := s.reportRepo.Create(r.Context(), report); err != nil {
		s.logger.WithError(err).Error("failed to create report in datastore")
		s.respondError(w, err)
		return
	}

	s.logger.WithFields(map[string]any{
		"report_id": report.ID,
		"region":    report.Region,
		"unit":      report.Unit,
		"photos":    len(report.Photos),
	}).Info("report submitted")

	s.respondJSON(w, http.StatusCreated, report)
}

func (s *Service) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, ok := s.loadVisibleReports(w, r)
	if !ok {
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Service) handleExportReports(w http.ResponseWriter, r *http.Request) {
	reports, ok := s.loadVisibleReports(w, r)
	if !ok {
		return
	}

	filename := export.Filename(time.Now())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(export.CSV(reports))); err != nil {
		s.logger.WithError(err).Error("failed to write csv export")
	}
}

// loadVisibleReports gates on the aggregate-view capability and returns
// the rows inside the viewer's region scope, newest first.
func (s *Service) loadVisibleReports(w http.ResponseWriter, r *http.Request) ([]*types.Report, bool) {
	session, err := s.sessionFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain session")
		s.respondUnauthorized(w)
		return nil, false
	}

	if session.Profile == nil {
		s.respondProfileRequired(w)
		return nil, false
	}

	if !policy.CanViewAggregateReports(session.Profile) {
		s.respondError(w, types.NewAuthorizationError("viewing reports is not permitted"))
		return nil, false
	}

	reports, err := s.reportRepo.Reports(r.Context(), policy.ReportScope(session.Profile))
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch reports")
		s.respondError(w, err)
		return nil, false
	}

	return reports, true
}

func nonEmptyValues(values url.Values) url.Values {
	filtered := make(url.Values, len(values))
	for key, vals := range values {
		for _, v := range vals {
			if v != "" {
				filtered[key] = append(filtered[key], v)
			}
		}
	}
	return filtered
}
