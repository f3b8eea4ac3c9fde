package di

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/handler"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/presence"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/service"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/chat/session"
	"github.com/b2b-marketplacevikram/b2b-marketplace-sub000/internal/config"
)

// App is the assembled messaging service.
type App struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Router   http.Handler
	Registry *session.Registry
	DB       *gorm.DB
}

func newApp(cnf *config.Config, logger *logrus.Logger, router http.Handler, registry *session.Registry, db *gorm.DB) *App {
	return &App{
		Config:   cnf,
		Logger:   logger,
		Router:   router,
		Registry: registry,
		DB:       db,
	}
}

// providePresence selects the typing tracker backend: Redis when enabled so
// presence spans gateway instances, in-process otherwise.
func providePresence(cnf *config.Config) presence.Tracker {
	if cnf.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cnf.Redis.Addr,
			Password: cnf.Redis.Password,
			DB:       cnf.Redis.DB,
		})
		return presence.NewRedisTracker(client, cnf.Messaging.TypingTTL)
	}
	return presence.NewMemoryTracker(cnf.Messaging.TypingTTL)
}

func provideWSHandler(registry *session.Registry, dispatcher *service.Dispatcher, logger *logrus.Logger, cnf *config.Config) *handler.WSHandler {
	return handler.NewWSHandler(registry, dispatcher, logger, cnf.Messaging.SendBufferSize, cnf.Messaging.PingPeriod)
}
