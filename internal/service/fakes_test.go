package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"inventaris/internal/model"
	"inventaris/internal/repository"
	"inventaris/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the Postgres-backed semantics
// closely enough for service-level tests: record-not-found surfaces as
// gorm.ErrRecordNotFound and the ledger decrement enforces sufficiency
// the same way the conditional UPDATE does.

type fakeStore struct {
	items      map[uint]*model.Item
	categories map[uint]*model.Category
	suppliers  map[uint]*model.Supplier
	receipts   map[uint]*model.IncomingItem
	dispatches map[uint]*model.OutgoingItem
	requests   map[uint]*model.ItemRequest
	audits     []model.AuditLog
	nextID     uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:      make(map[uint]*model.Item),
		categories: make(map[uint]*model.Category),
		suppliers:  make(map[uint]*model.Supplier),
		receipts:   make(map[uint]*model.IncomingItem),
		dispatches: make(map[uint]*model.OutgoingItem),
		requests:   make(map[uint]*model.ItemRequest),
	}
}

func (s *fakeStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addCategory(name string) *model.Category {
	c := &model.Category{ID: s.id(), Name: name}
	s.categories[c.ID] = c
	return c
}

func (s *fakeStore) addSupplier(name string) *model.Supplier {
	sup := &model.Supplier{ID: s.id(), Name: name}
	s.suppliers[sup.ID] = sup
	return sup
}

func (s *fakeStore) addItem(code, name, itemType string, categoryID uint, stock int) *model.Item {
	item := &model.Item{
		ID:            s.id(),
		Code:          code,
		Name:          name,
		Type:          itemType,
		CategoryID:    categoryID,
		Unit:          "pcs",
		StockQuantity: stock,
	}
	s.items[item.ID] = item
	return item
}

func (s *fakeStore) addRequest(userID, itemID uint, qty int, status string) *model.ItemRequest {
	r := &model.ItemRequest{
		ID:       s.id(),
		UserID:   userID,
		ItemID:   itemID,
		Quantity: qty,
		Unit:     "pcs",
		Status:   status,
	}
	s.requests[r.ID] = r
	return r
}

// --- item repository ---

type fakeItemRepo struct{ store *fakeStore }

func (r *fakeItemRepo) Create(_ context.Context, item *model.Item) error {
	for _, existing := range r.store.items {
		if existing.Code == item.Code {
			return uniqueViolation()
		}
	}
	item.ID = r.store.id()
	copied := *item
	r.store.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *model.Item) error {
	existing, ok := r.store.items[item.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// Stock is ledger-owned; repository updates leave it untouched.
	stock := existing.StockQuantity
	copied := *item
	copied.StockQuantity = stock
	r.store.items[item.ID] = &copied
	item.StockQuantity = stock
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.store.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.store.items, id)
	for rid, req := range r.store.requests {
		if req.ItemID == id {
			delete(r.store.requests, rid)
		}
	}
	for rcid, receipt := range r.store.receipts {
		if receipt.ItemID == id {
			delete(r.store.receipts, rcid)
		}
	}
	for did, dispatch := range r.store.dispatches {
		if dispatch.ItemID == id {
			delete(r.store.dispatches, did)
		}
	}
	return nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uint) (*model.Item, error) {
	item, ok := r.store.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) FindByIDForUpdate(ctx context.Context, id uint) (*model.Item, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeItemRepo) List(_ context.Context, filter repository.ItemFilter, offset, limit int) ([]model.Item, int64, error) {
	var matched []model.Item
	for _, item := range r.store.items {
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		if filter.CategoryID != 0 && item.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(item.Name), needle) &&
				!strings.Contains(strings.ToLower(item.Code), needle) {
				continue
			}
		}
		matched = append(matched, *item)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, offset, limit)
}

func (r *fakeItemRepo) LastCodeForPrefix(_ context.Context, prefix string) (string, error) {
	last := ""
	for _, item := range r.store.items {
		if strings.HasPrefix(item.Code, prefix) && item.Code > last {
			last = item.Code
		}
	}
	return last, nil
}

// --- stock ledger ---

// fakeLedger guards its check-and-mutate sequences with a mutex, the
// in-memory stand-in for the conditional UPDATE's atomicity.
type fakeLedger struct {
	store *fakeStore
	mu    sync.Mutex
}

func (l *fakeLedger) Increase(_ context.Context, itemID uint, qty int) error {
	if qty <= 0 {
		return apperror.Validationf("ledger increase quantity must be positive, got %d", qty)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	item, ok := l.store.items[itemID]
	if !ok {
		return apperror.NotFoundf("item %d", itemID)
	}
	item.StockQuantity += qty
	return nil
}

func (l *fakeLedger) Decrease(_ context.Context, itemID uint, qty int) error {
	if qty <= 0 {
		return apperror.Validationf("ledger decrease quantity must be positive, got %d", qty)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	item, ok := l.store.items[itemID]
	if !ok {
		return apperror.NotFoundf("item %d", itemID)
	}
	if item.StockQuantity < qty {
		return apperror.ErrInsufficientStock
	}
	item.StockQuantity -= qty
	return nil
}

func (l *fakeLedger) DecreaseUnchecked(_ context.Context, itemID uint, qty int) error {
	if qty <= 0 {
		return apperror.Validationf("ledger decrease quantity must be positive, got %d", qty)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	item, ok := l.store.items[itemID]
	if !ok {
		return apperror.NotFoundf("item %d", itemID)
	}
	item.StockQuantity -= qty
	return nil
}

// --- incoming / outgoing repositories ---

type fakeIncomingRepo struct{ store *fakeStore }

func (r *fakeIncomingRepo) Create(_ context.Context, receipt *model.IncomingItem) error {
	receipt.ID = r.store.id()
	copied := *receipt
	r.store.receipts[receipt.ID] = &copied
	return nil
}

func (r *fakeIncomingRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.store.receipts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.store.receipts, id)
	return nil
}

func (r *fakeIncomingRepo) FindByID(_ context.Context, id uint) (*model.IncomingItem, error) {
	receipt, ok := r.store.receipts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *receipt
	return &copied, nil
}

func (r *fakeIncomingRepo) List(_ context.Context, filter repository.ReceiptFilter, offset, limit int) ([]model.IncomingItem, int64, error) {
	var matched []model.IncomingItem
	for _, receipt := range r.store.receipts {
		if filter.NoSJ != "" && receipt.NoSJ != filter.NoSJ {
			continue
		}
		matched = append(matched, *receipt)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, offset, limit)
}

type fakeOutgoingRepo struct{ store *fakeStore }

func (r *fakeOutgoingRepo) Create(_ context.Context, dispatch *model.OutgoingItem) error {
	dispatch.ID = r.store.id()
	copied := *dispatch
	r.store.dispatches[dispatch.ID] = &copied
	return nil
}

func (r *fakeOutgoingRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.store.dispatches[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.store.dispatches, id)
	return nil
}

func (r *fakeOutgoingRepo) FindByID(_ context.Context, id uint) (*model.OutgoingItem, error) {
	dispatch, ok := r.store.dispatches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *dispatch
	return &copied, nil
}

func (r *fakeOutgoingRepo) List(_ context.Context, filter repository.DispatchFilter, offset, limit int) ([]model.OutgoingItem, int64, error) {
	var matched []model.OutgoingItem
	for _, dispatch := range r.store.dispatches {
		if filter.Site != "" && dispatch.Site != filter.Site {
			continue
		}
		matched = append(matched, *dispatch)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, offset, limit)
}

// --- item request repository ---

type fakeRequestRepo struct{ store *fakeStore }

func (r *fakeRequestRepo) Create(_ context.Context, request *model.ItemRequest) error {
	request.ID = r.store.id()
	copied := *request
	r.store.requests[request.ID] = &copied
	return nil
}

func (r *fakeRequestRepo) Update(_ context.Context, request *model.ItemRequest) error {
	if _, ok := r.store.requests[request.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *request
	r.store.requests[request.ID] = &copied
	return nil
}

func (r *fakeRequestRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.store.requests[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.store.requests, id)
	return nil
}

func (r *fakeRequestRepo) FindByID(_ context.Context, id uint) (*model.ItemRequest, error) {
	request, ok := r.store.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	if item, ok := r.store.items[request.ItemID]; ok {
		itemCopy := *item
		copied.Item = &itemCopy
	}
	return &copied, nil
}

// FindByIDForUpdate loads the bare row without associations, as the
// locking read does.
func (r *fakeRequestRepo) FindByIDForUpdate(_ context.Context, id uint) (*model.ItemRequest, error) {
	request, ok := r.store.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *fakeRequestRepo) List(_ context.Context, filter repository.RequestFilter, offset, limit int) ([]model.ItemRequest, int64, error) {
	var matched []model.ItemRequest
	for _, request := range r.store.requests {
		if filter.Status != "" && request.Status != filter.Status {
			continue
		}
		if filter.UserID != 0 && request.UserID != filter.UserID {
			continue
		}
		matched = append(matched, *request)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, offset, limit)
}

// --- reference repositories ---

type fakeCategoryRepo struct{ store *fakeStore }

func (r *fakeCategoryRepo) Create(_ context.Context, category *model.Category) error {
	category.ID = r.store.id()
	r.store.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *model.Category) error {
	if _, ok := r.store.categories[category.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.store.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.store.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.store.categories, id)
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uint) (*model.Category, error) {
	category, ok := r.store.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (r *fakeCategoryRepo) ListAll(_ context.Context) ([]model.Category, error) {
	var all []model.Category
	for _, category := range r.store.categories {
		all = append(all, *category)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

type fakeSupplierRepo struct{ store *fakeStore }

func (r *fakeSupplierRepo) Create(_ context.Context, supplier *model.Supplier) error {
	supplier.ID = r.store.id()
	r.store.suppliers[supplier.ID] = supplier
	return nil
}

func (r *fakeSupplierRepo) Update(_ context.Context, supplier *model.Supplier) error {
	if _, ok := r.store.suppliers[supplier.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.store.suppliers[supplier.ID] = supplier
	return nil
}

func (r *fakeSupplierRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.store.suppliers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.store.suppliers, id)
	return nil
}

func (r *fakeSupplierRepo) FindByID(_ context.Context, id uint) (*model.Supplier, error) {
	supplier, ok := r.store.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return supplier, nil
}

func (r *fakeSupplierRepo) ListAll(_ context.Context) ([]model.Supplier, error) {
	var all []model.Supplier
	for _, supplier := range r.store.suppliers {
		all = append(all, *supplier)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// --- audit repository ---

type fakeAuditRepo struct{ store *fakeStore }

func (r *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	entry.ID = r.store.id()
	r.store.audits = append(r.store.audits, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, action string, offset, limit int) ([]model.AuditLog, int64, error) {
	var matched []model.AuditLog
	for _, entry := range r.store.audits {
		if action != "" && entry.Action != action {
			continue
		}
		matched = append(matched, entry)
	}
	return paginate(matched, offset, limit)
}

func (s *fakeStore) auditActions() []string {
	actions := make([]string, 0, len(s.audits))
	for _, entry := range s.audits {
		actions = append(actions, entry.Action)
	}
	return actions
}

// --- transaction manager ---

// fakeTxManager runs the function directly. The services under test only
// mutate state after every fallible step has succeeded, so rollback
// simulation is not needed for these scenarios.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func paginate[T any](rows []T, offset, limit int) ([]T, int64, error) {
	total := int64(len(rows))
	if offset >= len(rows) {
		return nil, total, nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, total, nil
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}
