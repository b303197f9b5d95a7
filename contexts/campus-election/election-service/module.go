package electionservice

import (
	"log/slog"

	httpadapter "agora/contexts/campus-election/election-service/adapters/http"
	"agora/contexts/campus-election/election-service/adapters/memory"
	"agora/contexts/campus-election/election-service/application/commands"
	"agora/contexts/campus-election/election-service/application/queries"
	"agora/contexts/campus-election/election-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Election    ports.ElectionRepository
	Credentials ports.CredentialProjection
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	electionUseCase := commands.ElectionUseCase{
		Election:    deps.Election,
		Credentials: deps.Credentials,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Logger:      deps.Logger,
	}
	readUseCase := queries.ResultsUseCase{
		Election: deps.Election,
	}
	return Module{
		Handler: httpadapter.Handler{
			Election: electionUseCase,
			Reads:    readUseCase,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Election:    store,
		Credentials: store,
		Outbox:      store,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
