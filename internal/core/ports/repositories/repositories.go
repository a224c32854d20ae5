package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both the PostgreSQL and the in-memory store fill every field.
type RepositoryProvider struct {
	TxManager      TransactionManager
	ClientRepo     ClientRepositoryFacade
	ResourceRepo   ResourceRepositoryFacade
	InstrumentRepo InstrumentRepositoryFacade
	HistoryRepo    PriceHistoryRepository
}
