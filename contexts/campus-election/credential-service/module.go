package credentialservice

import (
	"log/slog"

	httpadapter "agora/contexts/campus-election/credential-service/adapters/http"
	"agora/contexts/campus-election/credential-service/adapters/memory"
	"agora/contexts/campus-election/credential-service/application/commands"
	"agora/contexts/campus-election/credential-service/application/queries"
	"agora/contexts/campus-election/credential-service/domain/entities"
	"agora/contexts/campus-election/credential-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Credentials ports.CredentialRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	credentialUseCase := commands.CredentialUseCase{
		Credentials: deps.Credentials,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Logger:      deps.Logger,
	}
	readUseCase := queries.CredentialUseCase{
		Credentials: deps.Credentials,
	}
	return Module{
		Handler: httpadapter.Handler{
			Credentials: credentialUseCase,
			Reads:       readUseCase,
			Logger:      deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Credential, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Credentials: store,
		Outbox:      store,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
