package registry

// Service is the interface for all long-running services started by the watch command.
type Service interface {
	Start() error
	Stop() error
}
