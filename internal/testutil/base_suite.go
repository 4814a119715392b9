package testutil

import (
	"context"

	"github.com/npavezibarra/flow-sub/internal/config"
	"github.com/npavezibarra/flow-sub/internal/logger"

	"github.com/stretchr/testify/suite"
)

// Stores holds the in-memory repositories and doubles shared by service
// test suites.
type Stores struct {
	AccountRepo *InMemoryAccountStore
	FlowClient  *StubFlowClient
}

// BaseServiceTestSuite provides common setup for service tests.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	cfg    *config.Configuration
	logger *logger.Logger
	stores Stores
	cache  *InMemoryCache
}

// SetupTest initializes fresh stores before each test.
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.cfg = config.GetDefaultConfig()

	log, err := logger.NewLogger(s.cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
	s.logger = log

	s.stores = Stores{
		AccountRepo: NewInMemoryAccountStore(),
		FlowClient:  NewStubFlowClient(),
	}
	s.cache = NewInMemoryCache()
}

// TearDownTest clears state after each test.
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.AccountRepo.Clear()
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetCache() *InMemoryCache {
	return s.cache
}
