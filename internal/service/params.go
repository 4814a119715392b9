package service

import (
	"github.com/npavezibarra/flow-sub/internal/cache"
	"github.com/npavezibarra/flow-sub/internal/config"
	"github.com/npavezibarra/flow-sub/internal/domain/account"
	"github.com/npavezibarra/flow-sub/internal/integration/flow"
	"github.com/npavezibarra/flow-sub/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	// Repositories
	AccountRepo   account.Repository
	AccountWriter account.Writer

	// External clients
	FlowClient flow.FlowClient
}
