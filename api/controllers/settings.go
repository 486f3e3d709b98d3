package controllers

import (
	"net/http"
	"time"

	"github.com/turboost/turboost-backend/api/responses"
	"github.com/turboost/turboost-backend/api/validators"
	settingssvc "github.com/turboost/turboost-backend/internal/settings"
	"github.com/turboost/turboost-backend/pkg/db/models"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
	"github.com/turboost/turboost-backend/pkg/logger"
)

// SettingsGet returns the storefront presentation settings.
func SettingsGet(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		settings, err := svc.Get(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newSettingsResponse(settings))
	}
}

type updateSettingsRequest struct {
	StoreName    *string `json:"store_name"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	WhatsApp     *string `json:"whatsapp"`
	InstagramURL *string `json:"instagram_url"`
	HeroTitle    *string `json:"hero_title"`
	HeroSubtitle *string `json:"hero_subtitle"`
	LogoURL      *string `json:"logo_url"`
	FaviconURL   *string `json:"favicon_url"`
}

// SettingsUpdate replaces the provided settings fields.
func SettingsUpdate(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		var payload updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		settings, err := svc.Update(ctx, settingssvc.UpdateSettingsInput{
			StoreName:    payload.StoreName,
			ContactEmail: payload.ContactEmail,
			WhatsApp:     payload.WhatsApp,
			InstagramURL: payload.InstagramURL,
			HeroTitle:    payload.HeroTitle,
			HeroSubtitle: payload.HeroSubtitle,
			LogoURL:      payload.LogoURL,
			FaviconURL:   payload.FaviconURL,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newSettingsResponse(settings))
	}
}

type settingsResponse struct {
	StoreName    string    `json:"store_name"`
	ContactEmail string    `json:"contact_email"`
	WhatsApp     string    `json:"whatsapp"`
	InstagramURL string    `json:"instagram_url"`
	HeroTitle    string    `json:"hero_title"`
	HeroSubtitle string    `json:"hero_subtitle"`
	LogoURL      *string   `json:"logo_url,omitempty"`
	FaviconURL   *string   `json:"favicon_url,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newSettingsResponse(s *models.StoreSettings) settingsResponse {
	return settingsResponse{
		StoreName:    s.StoreName,
		ContactEmail: s.ContactEmail,
		WhatsApp:     s.WhatsApp,
		InstagramURL: s.InstagramURL,
		HeroTitle:    s.HeroTitle,
		HeroSubtitle: s.HeroSubtitle,
		LogoURL:      s.LogoURL,
		FaviconURL:   s.FaviconURL,
		UpdatedAt:    s.UpdatedAt,
	}
}
