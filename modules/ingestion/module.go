package ingestion

import (
	"embed"

	"github.com/deskflow-io/deskflow/modules/ingestion/infrastructure/persistence"
	"github.com/deskflow-io/deskflow/modules/ingestion/services"
	"github.com/deskflow-io/deskflow/pkg/configuration"
	"github.com/deskflow-io/deskflow/pkg/eventbus"
)

//go:embed infrastructure/persistence/schema/ingestion-schema.sql
var MigrationFiles embed.FS

// Module bundles the ingestion services wired against the Postgres
// repositories. Callers provide the pool and tenant through the context
// (pkg/composables).
type Module struct {
	Ingest           *services.IngestService
	Sessions         *services.SessionService
	OptionsMigration *services.OptionsMigrationService
	Resolver         *services.MappingResolver
	Parser           *services.TemporalParser
}

func NewModule(conf *configuration.Configuration, publisher eventbus.EventBus) (*Module, error) {
	loc, err := conf.Ingestion.Location()
	if err != nil {
		return nil, err
	}

	parser := services.NewTemporalParser(loc)
	tickets := persistence.NewTicketRepository()
	mappings := persistence.NewMappingRepository()
	sessions := services.NewSessionService(persistence.NewUploadSessionRepository(), publisher)
	validator := services.NewRecordValidator(tickets, parser, conf.Ingestion.PriorityCodes)
	resolver := services.NewMappingResolver(mappings)

	return &Module{
		Ingest: services.NewIngestService(
			tickets,
			validator,
			resolver,
			parser,
			sessions,
			publisher,
			conf.Logger(),
		),
		Sessions:         sessions,
		OptionsMigration: services.NewOptionsMigrationService(conf.Logger()),
		Resolver:         resolver,
		Parser:           parser,
	}, nil
}

func (m *Module) Name() string {
	return "ingestion"
}
