package bananabatch

import (
	"log/slog"
	"time"
)

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithLogger sets a structured logger for the manager.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.SetLogger(logger)
	}
}

// WithStorage sets a storage backend for persisting generated images.
func WithStorage(storage Storage) ManagerOption {
	return func(m *Manager) {
		m.storage = storage
	}
}

// WithDefaultModel sets the default model used when settings.Model is empty.
func WithDefaultModel(model Model) ManagerOption {
	return func(m *Manager) {
		m.defaultModel = model
	}
}

// WithAttemptTimeout bounds each provider call. The retry loop attaches this
// via context, closing the gap left by cooperative-only cancellation.
func WithAttemptTimeout(timeout time.Duration) ManagerOption {
	return func(m *Manager) {
		if timeout > 0 {
			m.retry.attemptTimeout = timeout
		}
	}
}

// NewManager creates a Manager with the given adapters and options. The
// first adapter's first model becomes the default model.
//
// Example:
//
//	adapter, err := gemini.NewWithAPIKey(ctx, apiKey)
//	if err != nil {
//	    return err
//	}
//	manager := bananabatch.NewManager([]bananabatch.ProviderAdapter{adapter})
//
// With options:
//
//	manager := bananabatch.NewManager([]bananabatch.ProviderAdapter{adapter},
//	    bananabatch.WithLogger(slog.Default()),
//	    bananabatch.WithDefaultModel(bananabatch.ModelNanoBanana2),
//	)
func NewManager(adapters []ProviderAdapter, opts ...ManagerOption) *Manager {
	m := New()

	for ai, adapter := range adapters {
		models := adapter.Models()
		for i := range models {
			info := &models[i]

			m.adapters[info.Provider] = adapter

			m.RegisterModel(Model(info.Name),
				ModelMapping{
					Provider:        info.Provider,
					ActualModelName: info.APIModelName,
				},
				info)

			if ai == 0 && i == 0 {
				m.defaultModel = Model(info.Name)
			}
		}
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}
