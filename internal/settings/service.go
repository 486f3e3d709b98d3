package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/turboost/turboost-backend/pkg/db/models"
	pkgerrors "github.com/turboost/turboost-backend/pkg/errors"
)

// settingsRowID pins the configuration to a single row.
const settingsRowID = 1

// Service reads and updates the store's display configuration.
type Service interface {
	Get(ctx context.Context) (*models.StoreSettings, error)
	Update(ctx context.Context, input UpdateSettingsInput) (*models.StoreSettings, error)
}

// UpdateSettingsInput carries optional replacement values.
type UpdateSettingsInput struct {
	StoreName    *string
	ContactEmail *string
	WhatsApp     *string
	InstagramURL *string
	HeroTitle    *string
	HeroSubtitle *string
	LogoURL      *string
	FaviconURL   *string
}

type service struct {
	db *gorm.DB
}

// NewService builds the settings service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle required")
	}
	return &service{db: db}, nil
}

// Get returns the configuration row, falling back to an empty default
// when none has been saved yet.
func (s *service) Get(ctx context.Context) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	err := s.db.WithContext(ctx).First(&settings, "id = ?", settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.StoreSettings{ID: settingsRowID}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store settings")
	}
	return &settings, nil
}

// Update applies the provided fields and upserts the single row.
func (s *service) Update(ctx context.Context, input UpdateSettingsInput) (*models.StoreSettings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.StoreName != nil {
		settings.StoreName = strings.TrimSpace(*input.StoreName)
	}
	if input.ContactEmail != nil {
		settings.ContactEmail = strings.TrimSpace(*input.ContactEmail)
	}
	if input.WhatsApp != nil {
		settings.WhatsApp = strings.TrimSpace(*input.WhatsApp)
	}
	if input.InstagramURL != nil {
		settings.InstagramURL = strings.TrimSpace(*input.InstagramURL)
	}
	if input.HeroTitle != nil {
		settings.HeroTitle = *input.HeroTitle
	}
	if input.HeroSubtitle != nil {
		settings.HeroSubtitle = *input.HeroSubtitle
	}
	if input.LogoURL != nil {
		settings.LogoURL = input.LogoURL
	}
	if input.FaviconURL != nil {
		settings.FaviconURL = input.FaviconURL
	}

	settings.ID = settingsRowID
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(settings).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save store settings")
	}
	return settings, nil
}
