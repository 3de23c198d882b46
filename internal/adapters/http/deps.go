package http

import (
	natsadapter "github.com/aptradar/aptradar/internal/adapters/nats"
	"github.com/aptradar/aptradar/internal/adapters/valkey"
	"github.com/aptradar/aptradar/internal/core/ports"
	"github.com/aptradar/aptradar/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Search  *usecases.SearchService
	Places  *usecases.PlaceService
	Voice   *usecases.VoiceService
	Router  *usecases.Router
	Tools   *usecases.ToolRegistry
	Mailbox ports.CommandMailbox
	NATS    *natsadapter.Publisher
	Cache   *valkey.Cache

	// PlacesAPI is the raw vendor client, used only for photo proxying
	// where no usecase logic applies.
	PlacesAPI ports.PlacesClient

	// AgentToolSecret gates the external conversational-AI webhook.
	// Empty means dev mode: requests pass with a warning logged.
	AgentToolSecret string
	// AgentRouteToken is the static bearer token for /v1/agent/route.
	// Empty disables the check.
	AgentRouteToken string
}
