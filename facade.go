package shipcompliant

import (
	"fmt"

	shipcommand "github.com/goliatone/go-shipcompliant/command"
	"github.com/goliatone/go-shipcompliant/core"
	shipquery "github.com/goliatone/go-shipcompliant/query"
)

type CommandQueryService interface {
	shipcommand.MutatingService
	shipquery.ReadingService
}

type Commands struct {
	CommitSalesOrder  *shipcommand.CommitSalesOrderCommand
	PersistSalesOrder *shipcommand.PersistSalesOrderCommand
	VoidSalesOrder    *shipcommand.VoidSalesOrderCommand
	UpsertProduct     *shipcommand.UpsertProductCommand
	UpsertBrand       *shipcommand.UpsertBrandCommand
}

type Queries struct {
	GetSalesOrder         *shipquery.GetSalesOrderQuery
	GetSalesOrderTracking *shipquery.GetSalesOrderTrackingQuery
	QuoteSalesTaxRate     *shipquery.QuoteSalesTaxRateQuery
	QuoteSalesTax         *shipquery.QuoteSalesTaxQuery
	CheckCompliance       *shipquery.CheckComplianceQuery
	GetProduct            *shipquery.GetProductQuery
	ListCallJournal       *shipquery.ListCallJournalQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	journalReader core.CallJournalReader
}

func WithCallJournalReader(reader core.CallJournalReader) FacadeOption {
	return func(options *facadeOptions) {
		options.journalReader = reader
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("shipcompliant: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reader := cfg.journalReader
	if reader == nil {
		reader = resolveJournalReader(service)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		CommitSalesOrder:  shipcommand.NewCommitSalesOrderCommand(service),
		PersistSalesOrder: shipcommand.NewPersistSalesOrderCommand(service),
		VoidSalesOrder:    shipcommand.NewVoidSalesOrderCommand(service),
		UpsertProduct:     shipcommand.NewUpsertProductCommand(service),
		UpsertBrand:       shipcommand.NewUpsertBrandCommand(service),
	}
	facade.queries = Queries{
		GetSalesOrder:         shipquery.NewGetSalesOrderQuery(service),
		GetSalesOrderTracking: shipquery.NewGetSalesOrderTrackingQuery(service),
		QuoteSalesTaxRate:     shipquery.NewQuoteSalesTaxRateQuery(service),
		QuoteSalesTax:         shipquery.NewQuoteSalesTaxQuery(service),
		CheckCompliance:       shipquery.NewCheckComplianceQuery(service),
		GetProduct:            shipquery.NewGetProductQuery(service),
		ListCallJournal:       shipquery.NewListCallJournalQuery(reader),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

// resolveJournalReader finds a reader on the service itself or on the journal
// a core client was built with.
func resolveJournalReader(service CommandQueryService) core.CallJournalReader {
	if service == nil {
		return nil
	}
	if reader, ok := service.(core.CallJournalReader); ok {
		return reader
	}
	provider, ok := service.(interface {
		Dependencies() core.ClientDependencies
	})
	if !ok {
		return nil
	}
	reader, ok := provider.Dependencies().CallJournal.(core.CallJournalReader)
	if !ok {
		return nil
	}
	return reader
}
