package bananabatch

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Aowrow/banana-batch/ratelimiter"
)

const (
	ModelNanoBanana2 Model = "nano-banana-2" // Gemini 3 Pro Image

	ModelDefault Model = ModelNanoBanana2
)

// Provider represents a model provider/backend.
type Provider string

const (
	ProviderGeminiAPI    Provider = "gemini"
	ProviderOpenAICompat Provider = "openai-compat"
)

// ProviderConfig configures a specific provider.
type ProviderConfig struct {
	// Provider type
	Provider Provider

	// APIKey for authentication
	APIKey string

	// BaseURL for custom endpoints (optional)
	BaseURL string

	// Model override for this provider (optional)
	Model Model
}

// ModelMapping maps a model identifier to its provider and actual model name.
type ModelMapping struct {
	Provider        Provider
	ActualModelName string
}

// Manager routes batch generation requests to the appropriate provider
// adapter based on the Model in BatchSettings, applying rate limits,
// retries, and the worker pool along the way.
type Manager struct {
	// Model to provider mapping
	modelMappings map[Model]ModelMapping

	// Adapter instances
	adapters map[Provider]ProviderAdapter

	// Default model to use when settings.Model is empty
	defaultModel Model

	// Rate limiting (per model)
	rateLimiters map[Model]ratelimiter.Limiter

	// Model info (per model)
	modelInfo map[Model]*ModelInfo

	// Logger for structured logging (optional)
	logger *slog.Logger

	// Storage for persisting generated images (optional)
	storage Storage

	tokenEstimator TokenEstimator

	contextBuilder *ContextBuilder

	retry *retryPolicy

	mu sync.RWMutex
}

// New creates an empty Manager. Most callers want NewManager.
func New() *Manager {
	logger := slog.Default()
	return &Manager{
		logger:         logger,
		modelMappings:  make(map[Model]ModelMapping),
		adapters:       make(map[Provider]ProviderAdapter),
		rateLimiters:   make(map[Model]ratelimiter.Limiter),
		modelInfo:      make(map[Model]*ModelInfo),
		tokenEstimator: NewSimpleTokenEstimator(),
		contextBuilder: NewContextBuilder(logger),
		retry:          newRetryPolicy(logger),
		defaultModel:   ModelDefault,
	}
}

// RegisterModel registers a model with full info (including rate limits).
// Uses the default in-memory rate limiter. Use SetRateLimiter to override
// with a custom implementation.
func (m *Manager) RegisterModel(model Model, mapping ModelMapping, info *ModelInfo) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.modelMappings[model] = mapping
	m.modelInfo[model] = info

	if info.RateLimits.TokensPerMinute > 0 || info.RateLimits.RequestsPerMinute > 0 {
		m.rateLimiters[model] = ratelimiter.New(
			info.RateLimits.TokensPerMinute,
			info.RateLimits.RequestsPerMinute,
		)
	}

	return m
}

// SetRateLimiter sets a custom rate limiter for a model.
// Use this to swap in a distributed rate limiter for production.
func (m *Manager) SetRateLimiter(model Model, limiter ratelimiter.Limiter) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rateLimiters[model] = limiter
	return m
}

// SetDefaultModel sets the default model used when settings.Model is empty.
func (m *Manager) SetDefaultModel(model Model) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.defaultModel = model
	return m
}

// SetLogger sets a structured logger for the manager. When set, the manager
// logs batch dispatch, per-slot retries, dropped reference images, and
// completions.
func (m *Manager) SetLogger(logger *slog.Logger) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger = logger
	m.contextBuilder = NewContextBuilder(logger)
	m.retry.logger = logger
	return m
}

// SetStorage sets a storage backend for persisting generated images.
func (m *Manager) SetStorage(storage Storage) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.storage = storage
	return m
}

// Storage returns the configured storage backend, or nil if not set.
func (m *Manager) Storage() Storage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.storage
}

// Models returns all registered model definitions.
func (m *Manager) Models() []ModelInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	models := make([]ModelInfo, 0, len(m.modelInfo))
	for _, info := range m.modelInfo {
		if info != nil {
			models = append(models, *info)
		}
	}
	return models
}

// GetModelInfo returns model information for a specific model.
func (m *Manager) GetModelInfo(model Model) (*ModelInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.modelInfo[model]
	return info, ok
}

// Close releases all adapter resources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for provider, adapter := range m.adapters {
		if err := adapter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", provider, err))
		}
	}
	m.adapters = make(map[Provider]ProviderAdapter)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// resolveModel determines the actual model to use. Only an empty
// settings.Model means "use the manager's default"; an explicit choice is
// honored even when it names the same model as the ModelDefault constant.
func (m *Manager) resolveModel(settings *BatchSettings) Model {
	if settings != nil && settings.Model != "" {
		return settings.Model
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultModel
}

// getAdapterForModel returns the adapter serving a model and the model's
// actual API name.
func (m *Manager) getAdapterForModel(model Model) (ProviderAdapter, string, error) {
	m.mu.RLock()
	mapping, ok := m.modelMappings[model]
	m.mu.RUnlock()

	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrModelNotRegistered, model)
	}

	m.mu.RLock()
	adapter, ok := m.adapters[mapping.Provider]
	m.mu.RUnlock()

	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrProviderNotConfigured, mapping.Provider)
	}
	return adapter, mapping.ActualModelName, nil
}
