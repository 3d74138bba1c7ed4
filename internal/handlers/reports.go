// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"sportwire/internal/apperr"
	"sportwire/internal/authz"
	"sportwire/internal/middleware"
	"sportwire/internal/models"
)

// createReportRequest is the body for POST /api/v1/posts/{id}/report.
type createReportRequest struct {
	Reason string `json:"reason"`
}

// CreateReport handles POST /api/v1/posts/{id}/report. The post must be
// readable by the reporter, which for non-staff means published.
func (a *API) CreateReport(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req createReportRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := validateReason(req.Reason); err != nil {
		respondError(w, r, err)
		return
	}

	id := middleware.IdentityFromCtx(r.Context())
	if _, err := a.posts.Get(id, postID); err != nil {
		respondError(w, r, err)
		return
	}

	report, err := a.reportStore.Create(&models.Report{
		PostID: postID,
		UserID: id.UserID,
		Reason: req.Reason,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// ListReports handles GET /api/v1/reports. Admins see every report,
// optionally filtered by ?status=; other users see only their own.
func (a *API) ListReports(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())

	var (
		items []models.Report
		err   error
	)
	if authz.Can(authz.OpHandleReports, id.Role, false) {
		if status := models.ReportStatus(r.URL.Query().Get("status")); status != "" {
			if !models.ValidReportStatus(status) {
				respondError(w, r, apperr.Validation("status", "unknown report status"))
				return
			}
			items, err = a.reportStore.ListByStatus(status)
		} else {
			items, err = a.reportStore.ListAll()
		}
	} else {
		items, err = a.reportStore.ListByUser(id.UserID)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleReportRequest is the body for PUT /api/v1/reports/{id}.
type handleReportRequest struct {
	Status models.ReportStatus `json:"status"`
}

// HandleReport handles PUT /api/v1/reports/{id}: an admin resolves or
// dismisses a report.
func (a *API) HandleReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req handleReportRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if !models.ValidReportStatus(req.Status) {
		respondError(w, r, apperr.Validation("status", "unknown report status"))
		return
	}

	report, err := a.reportStore.FindByID(reportID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if report == nil {
		respondError(w, r, apperr.NotFoundf("report %s", reportID))
		return
	}

	if err := a.reportStore.UpdateStatus(reportID, req.Status); err != nil {
		respondError(w, r, err)
		return
	}
	report.Status = req.Status
	writeJSON(w, http.StatusOK, report)
}

// DeleteReport handles DELETE /api/v1/reports/{id}.
func (a *API) DeleteReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := urlID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	report, err := a.reportStore.FindByID(reportID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if report == nil {
		respondError(w, r, apperr.NotFoundf("report %s", reportID))
		return
	}

	if err := a.reportStore.Delete(reportID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
