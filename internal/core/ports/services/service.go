package services

// ServiceContainer holds instances of all the application services.
// It is the entry point handlers and background workers use.
type ServiceContainer struct {
	Market     MarketSvcFacade
	Client     ClientSvcFacade
	Instrument InstrumentSvcFacade
	History    PriceHistorySvc
	Auth       AuthSvc
}
