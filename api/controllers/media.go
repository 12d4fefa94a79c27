package controllers

import (
	"net/http"

	"github.com/villageessence/marketplace-backend/api/responses"
	"github.com/villageessence/marketplace-backend/api/validators"
	"github.com/villageessence/marketplace-backend/internal/media"
	"github.com/villageessence/marketplace-backend/internal/vendors"
	"github.com/villageessence/marketplace-backend/pkg/config"
	pkgerrors "github.com/villageessence/marketplace-backend/pkg/errors"
	"github.com/villageessence/marketplace-backend/pkg/logger"
)

const uploadFormField = "file"

func uploadedFile(r *http.Request, maxUploadMB int) (*http.Request, error) {
	limit := int64(maxUploadMB+1) << 20
	r.Body = http.MaxBytesReader(nil, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart upload")
	}
	return r, nil
}

// UploadProductImage accepts a multipart product image for the authenticated
// vendor and returns the stored object metadata.
func UploadProductImage(svc media.Service, mediaCfg config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := vendorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		r, err = uploadedFile(r, mediaCfg.MaxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		file, _, err := r.FormFile(uploadFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		upload, err := svc.UploadProductImage(r.Context(), vendorID, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, upload)
	}
}

// UploadProfileImage accepts a multipart profile picture, stores it, and
// points the vendor profile at the new public URL.
func UploadProfileImage(mediaSvc media.Service, vendorSvc vendors.Service, mediaCfg config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := vendorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		r, err = uploadedFile(r, mediaCfg.MaxUploadMB)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		file, _, err := r.FormFile(uploadFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		upload, err := mediaSvc.UploadProfileImage(r.Context(), vendorID, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := vendorSvc.SetProfilePicture(r.Context(), vendorID, &upload.PublicURL); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, upload)
	}
}

type removeMediaRequest struct {
	StorageKey string `json:"storage_key" validate:"required"`
}

// RemoveMedia deletes an object the authenticated vendor owns.
func RemoveMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := vendorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload removeMediaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), vendorID, payload.StorageKey); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
