package mocks

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsiquinajay/kardex/internal/domain"
	"github.com/jsiquinajay/kardex/internal/usecase"
)

// ErrCacheMiss is returned by MockCache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product

	GetByIDFunc func(ctx context.Context, id int64) (*domain.Product, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.Product, error)
	CreateFunc  func(ctx context.Context, product *domain.Product) error
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[int64]*domain.Product)}
}

func (m *MockProductRepository) Add(products ...*domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range products {
		m.products[p.ID] = p
	}
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, product)
	}
	m.Add(product)
	return nil
}

// MockWarehouseRepository is a mock implementation of WarehouseRepository.
type MockWarehouseRepository struct {
	mu         sync.RWMutex
	warehouses map[int64]*domain.Warehouse

	GetByIDFunc func(ctx context.Context, id int64) (*domain.Warehouse, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.Warehouse, error)
	CreateFunc  func(ctx context.Context, warehouse *domain.Warehouse) error
}

func NewMockWarehouseRepository() *MockWarehouseRepository {
	return &MockWarehouseRepository{warehouses: make(map[int64]*domain.Warehouse)}
}

func (m *MockWarehouseRepository) Add(warehouses ...*domain.Warehouse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range warehouses {
		m.warehouses[w.ID] = w
	}
}

func (m *MockWarehouseRepository) GetByID(ctx context.Context, id int64) (*domain.Warehouse, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.warehouses[id]; ok {
		return w, nil
	}
	return nil, domain.ErrWarehouseNotFound
}

func (m *MockWarehouseRepository) List(ctx context.Context, limit, offset int) ([]*domain.Warehouse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Warehouse, 0, len(m.warehouses))
	for _, w := range m.warehouses {
		out = append(out, w)
	}
	return out, nil
}

func (m *MockWarehouseRepository) Create(ctx context.Context, warehouse *domain.Warehouse) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, warehouse)
	}
	m.Add(warehouse)
	return nil
}

// MockMovementRepository is a mock implementation of MovementRepository.
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements []*domain.Movement

	CreateFunc               func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
	GetByIDFunc              func(ctx context.Context, id string) (*domain.Movement, error)
	ListByKeyFunc            func(ctx context.Context, key domain.StockKey, limit, offset int) ([]*domain.Movement, error)
	ListAllFunc              func(ctx context.Context, limit, offset int) ([]*domain.Movement, error)
	ListByTransformationFunc func(ctx context.Context, transformationID string) ([]*domain.Movement, error)
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{}
}

func (m *MockMovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements = append(m.movements, movement)
	return nil
}

func (m *MockMovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mv := range m.movements {
		if mv.ID == id {
			return mv, nil
		}
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) ListByKey(ctx context.Context, key domain.StockKey, limit, offset int) ([]*domain.Movement, error) {
	if m.ListByKeyFunc != nil {
		return m.ListByKeyFunc(ctx, key, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Movement
	for _, mv := range m.movements {
		if mv.ProductID == key.ProductID && mv.WarehouseID == key.WarehouseID {
			out = append(out, mv)
		}
	}
	return page(out, limit, offset), nil
}

func (m *MockMovementRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Movement, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return page(m.movements, limit, offset), nil
}

func (m *MockMovementRepository) ListByTransformation(ctx context.Context, transformationID string) ([]*domain.Movement, error) {
	if m.ListByTransformationFunc != nil {
		return m.ListByTransformationFunc(ctx, transformationID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Movement
	for _, mv := range m.movements {
		if mv.TransformationID != nil && *mv.TransformationID == transformationID {
			out = append(out, mv)
		}
	}
	return out, nil
}

// All returns every movement recorded so far.
func (m *MockMovementRepository) All() []*domain.Movement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Movement, len(m.movements))
	copy(out, m.movements)
	return out
}

// MockStockLevelRepository is a mock implementation of StockLevelRepository.
type MockStockLevelRepository struct {
	mu     sync.RWMutex
	levels map[domain.StockKey]*domain.StockLevel

	EnsureAndLockFunc func(ctx context.Context, tx usecase.Transaction, keys []domain.StockKey) ([]*domain.StockLevel, error)
	UpdateFunc        func(ctx context.Context, tx usecase.Transaction, level *domain.StockLevel) error
	GetFunc           func(ctx context.Context, key domain.StockKey) (*domain.StockLevel, error)
	SumByProductFunc  func(ctx context.Context, productID int64) (decimal.Decimal, decimal.Decimal, error)
	ListBalancesFunc  func(ctx context.Context, productIDs []int64, warehouseID int64) ([]*domain.StockLevel, error)
}

func NewMockStockLevelRepository() *MockStockLevelRepository {
	return &MockStockLevelRepository{levels: make(map[domain.StockKey]*domain.StockLevel)}
}

func (m *MockStockLevelRepository) Seed(levels ...*domain.StockLevel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range levels {
		m.levels[domain.StockKey{ProductID: l.ProductID, WarehouseID: l.WarehouseID}] = l
	}
}

func (m *MockStockLevelRepository) EnsureAndLock(ctx context.Context, tx usecase.Transaction, keys []domain.StockKey) ([]*domain.StockLevel, error) {
	if m.EnsureAndLockFunc != nil {
		return m.EnsureAndLockFunc(ctx, tx, keys)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.StockLevel, 0, len(keys))
	for _, key := range keys {
		if _, ok := m.levels[key]; !ok {
			m.levels[key] = &domain.StockLevel{
				ProductID:   key.ProductID,
				WarehouseID: key.WarehouseID,
				Quantity:    decimal.Zero,
				UnitCost:    decimal.Zero,
			}
		}
		copied := *m.levels[key]
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MockStockLevelRepository) Update(ctx context.Context, tx usecase.Transaction, level *domain.StockLevel) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, level)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *level
	m.levels[domain.StockKey{ProductID: level.ProductID, WarehouseID: level.WarehouseID}] = &copied
	return nil
}

func (m *MockStockLevelRepository) Get(ctx context.Context, key domain.StockKey) (*domain.StockLevel, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.levels[key]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, domain.ErrStockLevelNotFound
}

func (m *MockStockLevelRepository) SumByProduct(ctx context.Context, productID int64) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumByProductFunc != nil {
		return m.SumByProductFunc(ctx, productID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	quantity := decimal.Zero
	value := decimal.Zero
	for _, l := range m.levels {
		if l.ProductID == productID {
			quantity = quantity.Add(l.Quantity)
			value = value.Add(l.Value())
		}
	}
	return quantity, value, nil
}

func (m *MockStockLevelRepository) ListBalances(ctx context.Context, productIDs []int64, warehouseID int64) ([]*domain.StockLevel, error) {
	if m.ListBalancesFunc != nil {
		return m.ListBalancesFunc(ctx, productIDs, warehouseID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[int64]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	var out []*domain.StockLevel
	for _, l := range m.levels {
		if len(wanted) > 0 && !wanted[l.ProductID] {
			continue
		}
		if warehouseID != 0 && l.WarehouseID != warehouseID {
			continue
		}
		copied := *l
		out = append(out, &copied)
	}
	return out, nil
}

// MockTransformationRepository is a mock implementation of TransformationRepository.
type MockTransformationRepository struct {
	mu              sync.RWMutex
	transformations map[string]*domain.Transformation

	CreateFunc  func(ctx context.Context, tx usecase.Transaction, transformation *domain.Transformation) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Transformation, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.Transformation, error)
}

func NewMockTransformationRepository() *MockTransformationRepository {
	return &MockTransformationRepository{transformations: make(map[string]*domain.Transformation)}
}

func (m *MockTransformationRepository) Create(ctx context.Context, tx usecase.Transaction, transformation *domain.Transformation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transformation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transformations[transformation.ID]; ok {
		return domain.ErrTransformationExists
	}
	copied := *transformation
	m.transformations[transformation.ID] = &copied
	return nil
}

func (m *MockTransformationRepository) GetByID(ctx context.Context, id string) (*domain.Transformation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if tr, ok := m.transformations[id]; ok {
		copied := *tr
		return &copied, nil
	}
	return nil, domain.ErrTransformationNotFound
}

func (m *MockTransformationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transformation, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Transformation, 0, len(m.transformations))
	for _, tr := range m.transformations {
		out = append(out, tr)
	}
	return page(out, limit, offset), nil
}

// MockYieldRepository is a mock implementation of YieldRepository.
type MockYieldRepository struct {
	mu       sync.RWMutex
	profiles map[[2]int64]*domain.YieldProfile

	GetFactorFunc func(ctx context.Context, inputProductID, outputProductID int64) (decimal.Decimal, error)
	ListFunc      func(ctx context.Context) ([]*domain.YieldProfile, error)
	UpsertFunc    func(ctx context.Context, profile *domain.YieldProfile) error
}

func NewMockYieldRepository() *MockYieldRepository {
	return &MockYieldRepository{profiles: make(map[[2]int64]*domain.YieldProfile)}
}

func (m *MockYieldRepository) Seed(profiles ...*domain.YieldProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range profiles {
		m.profiles[[2]int64{p.InputProductID, p.OutputProductID}] = p
	}
}

func (m *MockYieldRepository) GetFactor(ctx context.Context, inputProductID, outputProductID int64) (decimal.Decimal, error) {
	if m.GetFactorFunc != nil {
		return m.GetFactorFunc(ctx, inputProductID, outputProductID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.profiles[[2]int64{inputProductID, outputProductID}]; ok {
		return p.Factor, nil
	}
	return decimal.Zero, domain.ErrYieldProfileMissing
}

func (m *MockYieldRepository) List(ctx context.Context) ([]*domain.YieldProfile, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.YieldProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockYieldRepository) Upsert(ctx context.Context, profile *domain.YieldProfile) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, profile)
	}
	m.Seed(profile)
	return nil
}

// MockTransaction is a mock transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock transaction manager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu    sync.Mutex
	Began []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Began = append(m.Began, tx)
	return tx, nil
}

// MockIDGenerator is a mock ID generator.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu   sync.Mutex
	next int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return "id-" + strconv.Itoa(m.next)
}

// MockCache is a mock cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error

	Hits   int
	Misses int
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		m.Hits++
		return v, nil
	}
	m.Misses++
	return "", ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
