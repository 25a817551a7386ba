// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/panmaat/backend/internal/domain/generation"
	"github.com/panmaat/backend/internal/domain/recipe"
	"github.com/panmaat/backend/internal/ports/outbound"
)

// MockRecipeGenerator provides a mock implementation of RecipeGenerator.
// It records every request it receives so tests can assert on the exact
// ingredients and flags sent upstream.
type MockRecipeGenerator struct {
	mock.Mock
	mu       sync.Mutex
	requests []generation.Request
}

// NewMockRecipeGenerator creates a new mock recipe generator
func NewMockRecipeGenerator() *MockRecipeGenerator {
	return &MockRecipeGenerator{}
}

// GenerateRecipe returns the configured candidate or error
func (m *MockRecipeGenerator) GenerateRecipe(ctx context.Context, req generation.Request) (generation.Candidate, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	args := m.Called(ctx, req)
	if args.Error(1) != nil {
		return generation.Candidate{}, args.Error(1)
	}
	return args.Get(0).(generation.Candidate), nil
}

// Requests returns a copy of every request seen so far
func (m *MockRecipeGenerator) Requests() []generation.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]generation.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns how many generation calls went out
func (m *MockRecipeGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// MockImageGenerator provides a mock implementation of ImageGenerator
type MockImageGenerator struct {
	mock.Mock
}

// NewMockImageGenerator creates a new mock image generator
func NewMockImageGenerator() *MockImageGenerator {
	return &MockImageGenerator{}
}

// GenerateImage returns the configured base64 payload or error
func (m *MockImageGenerator) GenerateImage(ctx context.Context, title string) (string, error) {
	args := m.Called(ctx, title)
	return args.String(0), args.Error(1)
}

// MockImageService provides a mock implementation of the inbound
// ImageService for exercising confirm-time attachment behavior.
type MockImageService struct {
	mock.Mock
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{}
}

// GenerateImage returns the configured base64 payload or error
func (m *MockImageService) GenerateImage(ctx context.Context, title string) (string, error) {
	args := m.Called(ctx, title)
	return args.String(0), args.Error(1)
}

// Attach reports the configured attachment outcome
func (m *MockImageService) Attach(ctx context.Context, recipeID uuid.UUID, title string) (string, bool) {
	args := m.Called(ctx, recipeID, title)
	return args.String(0), args.Bool(1)
}

// MockStorageService provides a mock implementation of StorageService
type MockStorageService struct {
	mock.Mock
}

// NewMockStorageService creates a new mock storage service
func NewMockStorageService() *MockStorageService {
	return &MockStorageService{}
}

// Upload stores an object
func (m *MockStorageService) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

// Delete removes an object
func (m *MockStorageService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockRecipeRepository provides a mock implementation of RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
	mu      sync.RWMutex
	recipes map[uuid.UUID]*recipe.Recipe
}

// NewMockRecipeRepository creates a new mock recipe repository
func NewMockRecipeRepository() *MockRecipeRepository {
	return &MockRecipeRepository{
		recipes: make(map[uuid.UUID]*recipe.Recipe),
	}
}

// Create inserts a recipe
func (m *MockRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	args := m.Called(ctx, r)

	if args.Error(0) == nil {
		m.mu.Lock()
		m.recipes[r.ID()] = r
		m.mu.Unlock()
	}

	return args.Error(0)
}

// FindByID finds a recipe by ID
func (m *MockRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}

	m.mu.RLock()
	stored, exists := m.recipes[id]
	m.mu.RUnlock()
	if exists {
		return stored, nil
	}

	return args.Get(0).(*recipe.Recipe), nil
}

// FindByOwner lists an owner's recipes
func (m *MockRecipeRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter outbound.RecipeFilter) ([]*recipe.Recipe, int, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Error(2) != nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*recipe.Recipe), args.Int(1), nil
}

// Update replaces a stored recipe
func (m *MockRecipeRepository) Update(ctx context.Context, r *recipe.Recipe) error {
	args := m.Called(ctx, r)

	if args.Error(0) == nil {
		m.mu.Lock()
		m.recipes[r.ID()] = r
		m.mu.Unlock()
	}

	return args.Error(0)
}

// SetImageURL records the image URL update
func (m *MockRecipeRepository) SetImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	args := m.Called(ctx, id, imageURL)
	return args.Error(0)
}

// Delete removes a recipe
func (m *MockRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Stored returns a recipe previously passed to Create, if any
func (m *MockRecipeRepository) Stored(id uuid.UUID) (*recipe.Recipe, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recipes[id]
	return r, ok
}

// StoredCount returns how many recipes Create accepted
func (m *MockRecipeRepository) StoredCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.recipes)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

// NewMockCacheRepository creates a new mock cache repository
func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{}
}

// Get retrieves a cached value
func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), nil
}

// Set stores a value
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Delete removes a key
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Exists checks key presence
func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
