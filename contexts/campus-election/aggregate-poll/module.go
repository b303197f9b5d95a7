package aggregatepoll

import (
	"log/slog"

	httpadapter "agora/contexts/campus-election/aggregate-poll/adapters/http"
	"agora/contexts/campus-election/aggregate-poll/adapters/memory"
	"agora/contexts/campus-election/aggregate-poll/application"
	"agora/contexts/campus-election/aggregate-poll/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Polls  ports.PollRepository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Polls:  deps.Polls,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Polls:  service,
			Logger: deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Polls:  store,
		Outbox: store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
