//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/handler"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/repository"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/service"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/session"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/config"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/dbmysql"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/platform"
)

// InitializeApp builds the messaging service graph; wire generates the body.
func InitializeApp() (*App, func(), error) {
	wire.Build(
		config.Load,
		platform.NewLogger,
		dbmysql.NewMySQL,
		repository.NewLedgerRepository,
		session.NewRegistry,
		wire.Bind(new(service.LiveRegistry), new(*session.Registry)),
		providePresence,
		service.NewLedger,
		service.NewDispatcher,
		handler.NewRestHandler,
		provideWSHandler,
		handler.NewRouter,
		newApp,
	)
	return nil, nil, nil
}
