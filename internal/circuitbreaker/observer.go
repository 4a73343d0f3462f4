package circuitbreaker

import "log/slog"

// Observer receives breaker events. Implementations must be safe for
// concurrent use; they are invoked outside the breaker's lock, so calling
// back into the breaker is allowed.
type Observer interface {
	StateChanged(name string, from, to State)
	CallSucceeded(name string)
	CallFailed(name string, err error)
}

// ObserverFuncs adapts plain callbacks to the Observer interface.
// Nil fields are skipped.
type ObserverFuncs struct {
	OnStateChange func(name string, from, to State)
	OnSuccess     func(name string)
	OnFailure     func(name string, err error)
}

func (o ObserverFuncs) StateChanged(name string, from, to State) {
	if o.OnStateChange != nil {
		o.OnStateChange(name, from, to)
	}
}

func (o ObserverFuncs) CallSucceeded(name string) {
	if o.OnSuccess != nil {
		o.OnSuccess(name)
	}
}

func (o ObserverFuncs) CallFailed(name string, err error) {
	if o.OnFailure != nil {
		o.OnFailure(name, err)
	}
}

// LogObserver logs breaker events through slog. Trips are warnings,
// recoveries are informational, individual call outcomes are debug noise.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) StateChanged(name string, from, to State) {
	attrs := []any{
		slog.String("breaker", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	}

	if to == StateOpen {
		o.logger.Warn("Circuit breaker opened", attrs...)
		return
	}
	o.logger.Info("Circuit breaker state changed", attrs...)
}

func (o *LogObserver) CallSucceeded(name string) {
	o.logger.Debug("Call succeeded", slog.String("breaker", name))
}

func (o *LogObserver) CallFailed(name string, err error) {
	o.logger.Debug("Call failed",
		slog.String("breaker", name),
		slog.Any("err", err))
}
