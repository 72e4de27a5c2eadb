package service

import (
	"fmt"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/store"
	"github.com/MKhiriev/oni-auth/internal/utils"
	"github.com/MKhiriev/oni-auth/internal/validators"
	"github.com/MKhiriev/oni-auth/models"
)

type Services struct {
	TokenService        TokenService
	CSRFService         CSRFService
	RegistrationService RegistrationService
	PasswordService     PasswordService
	AuthService         AuthService
	AppInfoService      AppInfoService
}

func NewServices(storages *store.Storages, notifier Notifier, cfg config.App, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	tokens := NewTokenService(cfg)
	hasher := utils.NewArgon2Hasher(utils.DefaultArgon2Params)
	validator := validators.NewAccountValidator(cfg.PasswordMinLength)

	auth, err := NewAuthService(storages.AccountRepository, tokens, hasher, validator, logger)
	if err != nil {
		return nil, err
	}

	appInfo, err := NewAppInfoService(cfg, build, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	return &Services{
		TokenService: tokens,
		CSRFService:  NewCSRFService(cfg),
		RegistrationService: NewRegistrationService(
			storages.AccountRepository, storages.WhitelistRepository,
			tokens, hasher, notifier, validator, cfg, logger,
		),
		PasswordService: NewPasswordService(
			storages.AccountRepository, tokens, hasher, notifier, validator, cfg, logger,
		),
		AuthService:    auth,
		AppInfoService: appInfo,
	}, nil
}
