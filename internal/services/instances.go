package services

import (
	"github.com/edital360/portal/internal/config"
	"github.com/edital360/portal/internal/logging"
)

// Global service instances, initialized at startup
var (
	BackendClientInstance *BackendClient
	RegistrationInstance  *RegistrationService
	NoticeWizardInstance  *NoticeWizardService
	ExemptionInstance     *ExemptionService
	SessionInstance       *SessionService
)

// InitServices wires the global service instances from the loaded
// configuration and the shared database clients.
func InitServices() {
	cfg := config.AppConfig

	BackendClientInstance = NewBackendClient(cfg, logging.Logger)

	RegistrationInstance = NewRegistrationService(
		NewRedisStateStore(config.Redis),
		BackendClientInstance,
		cfg.RegistrationTTL,
		logging.Logger,
	)

	NoticeWizardInstance = NewNoticeWizardService(
		NewMongoDraftStore(config.MongoDB.Collection(cfg.NoticeDraftCollection)),
		BackendClientInstance,
		cfg.MaxNoticePDFBytes,
		logging.Logger,
	)

	ExemptionInstance = NewExemptionService(
		BackendClientInstance,
		cfg.MaxExemptionBytes,
		cfg.MaxExemptionFiles,
		logging.Logger,
	)

	SessionInstance = NewSessionService(
		config.Redis,
		cfg.TokenCookieTTL,
		cfg.ResetCooldown,
		logging.Logger,
	)

	logging.Logger.Info("services initialized")
}
