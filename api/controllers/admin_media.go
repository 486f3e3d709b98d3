package controllers

import (
	"net/http"

	"github.com/turboost/turboost-backend/api/responses"
	"github.com/turboost/turboost-backend/internal/media"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/logger"
)

// AdminUploadMedia accepts one multipart file ("file") plus a "kind"
// form value and responds with the stored object's public URL. The
// admin UI pastes that URL into the product's image or sound slots.
func AdminUploadMedia(svc *media.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file part is required"))
			return
		}
		defer func() { _ = file.Close() }()

		out, err := svc.Upload(ctx, media.UploadInput{
			Kind:        media.Kind(r.FormValue("kind")),
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			SizeBytes:   header.Size,
			Body:        file,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}
