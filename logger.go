package sessionguard

// LoggerProvider resolves scoped loggers by component name so host
// applications can route each subsystem to its own sink.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// LoggerProviderFunc adapts a function to the LoggerProvider interface.
type LoggerProviderFunc func(name string) Logger

// GetLogger implements LoggerProvider.
func (f LoggerProviderFunc) GetLogger(name string) Logger {
	if f == nil {
		return defLogger{}
	}
	return f(name)
}

type defLoggerProvider struct{}

func (defLoggerProvider) GetLogger(string) Logger {
	return defLogger{}
}

// ResolveLogger reconciles a provider and an explicit logger override. An
// explicit logger wins; otherwise the provider resolves a logger scoped to
// name. Both returns are always non-nil.
func ResolveLogger(name string, provider LoggerProvider, logger Logger) (LoggerProvider, Logger) {
	if provider == nil {
		provider = defLoggerProvider{}
	}

	if logger == nil {
		logger = provider.GetLogger(name)
	}

	if logger == nil {
		logger = defLogger{}
	}

	return provider, logger
}
