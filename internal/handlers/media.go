// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"sportwire/internal/apperr"
	"sportwire/internal/middleware"
	"sportwire/internal/models"
	"sportwire/internal/storage"
)

// maxUploadSize is the maximum allowed media upload size (50 MB).
const maxUploadSize = 50 << 20

// allowedMediaTypes defines MIME types accepted for upload.
var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"video/mp4":  true,
}

// UploadMedia handles POST /api/v1/media: a multipart "file" part plus
// an optional "alt" text field. The file is stored in the object store
// and a media row referencing it is returned.
func (a *API) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "media storage is not configured"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, r, apperr.Validation("file", "upload too large or malformed (max %d MB)", maxUploadSize>>20))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, apperr.Validation("file", "multipart file part is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedMediaTypes[contentType] {
		respondError(w, r, apperr.Validation("file", "unsupported content type %q", contentType))
		return
	}

	key := storage.NewKey(header.Filename)
	if err := a.storageClient.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		respondError(w, r, err)
		return
	}

	var alt *string
	if v := r.FormValue("alt"); v != "" {
		alt = &v
	}

	id := middleware.IdentityFromCtx(r.Context())
	m, err := a.mediaStore.Create(&models.Media{
		ObjectKey:   key,
		URL:         a.storageClient.FileURL(key),
		ContentType: contentType,
		SizeBytes:   header.Size,
		Alt:         alt,
		UploaderID:  id.UserID,
	})
	if err != nil {
		// The object is already in the store; orphaned objects are
		// reaped by a bucket lifecycle rule, not rolled back here.
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}
