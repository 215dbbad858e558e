package main

import (
	"time"

	"gorm.io/gorm"

	"github.com/oficont/oficont/internal/config"
	"github.com/oficont/oficont/internal/handlers"
	"github.com/oficont/oficont/internal/logging"
	"github.com/oficont/oficont/internal/mail"
	"github.com/oficont/oficont/internal/policy"
	"github.com/oficont/oficont/internal/services"
	"github.com/oficont/oficont/internal/storage"
)

// profileCacheTTL bounds how long a changed profile assignment can go unnoticed.
const profileCacheTTL = 5 * time.Minute

// RouterConfig holds the configured handlers and the authorization gate.
type RouterConfig struct {
	Conn     *gorm.DB
	Dev      bool
	AuthGate *policy.AuthGate
	Users    *services.UserService
	Files    *storage.Files

	AuthHandler          *handlers.AuthHandler
	PasswordResetHandler *handlers.PasswordResetHandler
	DashboardHandler     *handlers.DashboardHandler
	ClientHandler        *handlers.ClientHandler
	TransactionHandler   *handlers.TransactionHandler
	ReportHandler        *handlers.ReportHandler
	ConfigHandler        *handlers.ConfigHandler
	AdminHandler         *handlers.AdminHandler
}

// NewRouterConfig wires services and handlers on top of conn.
func NewRouterConfig(conn *gorm.DB, cfg *config.Config, log *logging.Logger) *RouterConfig {
	users := services.NewUserService(conn)
	clients := services.NewClientService(conn)
	categories := services.NewCategoryService(conn)
	transactions := services.NewTransactionService(conn)
	reports := services.NewReportService(conn)
	configs := services.NewConfigService(conn)

	files := storage.New(cfg.Storage.UploadDir)
	maxUpload := int64(cfg.Storage.MaxUploadMB) << 20
	gate := policy.NewAuthGate(conn, profileCacheTTL)

	return &RouterConfig{
		Conn:     conn,
		Dev:      cfg.App.Dev,
		AuthGate: gate,
		Users:    users,
		Files:    files,

		AuthHandler: handlers.NewAuthHandler(users),
		PasswordResetHandler: handlers.NewPasswordResetHandler(
			users, mail.NewSender(cfg.Mail, log), cfg.Server.BaseURL, cfg.Auth.ResetTimeout,
		),
		DashboardHandler:   handlers.NewDashboardHandler(services.NewDashboardService(conn)),
		ClientHandler:      handlers.NewClientHandler(clients),
		TransactionHandler: handlers.NewTransactionHandler(transactions, clients, categories, files, maxUpload),
		ReportHandler:      handlers.NewReportHandler(reports, clients, files, maxUpload),
		ConfigHandler:      handlers.NewConfigHandler(configs),
		AdminHandler: handlers.NewAdminHandler(gate, handlers.AdminServices{
			Clients:      clients,
			Categories:   categories,
			Transactions: transactions,
			Reports:      reports,
			Configs:      configs,
			Files:        files,
		}, maxUpload),
	}
}
