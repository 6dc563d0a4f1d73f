package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bolsillo/bolsillo-backend/internal/domain"
	"github.com/bolsillo/bolsillo-backend/internal/util"
	"github.com/bolsillo/bolsillo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EntityStore owns the transactions, budgets, categories and payment methods.
// All mutations are serialized and every applied mutation bumps the version,
// persists the affected slots and publishes change events.
type EntityStore struct {
	mu sync.RWMutex

	transactions      []domain.Transaction
	budgets           []domain.Budget
	expenseCategories []domain.Category
	incomeCategories  []domain.Category
	paymentMethods    []domain.PaymentMethod

	dateRange    domain.DateRange
	dateRangeSet bool
	version      uint64

	persistence *PersistenceAdapter
	publisher   websocket.EventPublisher
	now         func() time.Time
}

// NewEntityStore creates an empty EntityStore. Call Load to restore persisted state.
func NewEntityStore(persistence *PersistenceAdapter, publisher websocket.EventPublisher) *EntityStore {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &EntityStore{
		transactions:      []domain.Transaction{},
		budgets:           []domain.Budget{},
		expenseCategories: []domain.Category{},
		incomeCategories:  []domain.Category{},
		paymentMethods:    []domain.PaymentMethod{},
		persistence:       persistence,
		publisher:         publisher,
		now:               time.Now,
	}
}

// SetClock replaces the time source used for ids and the default date range
func (s *EntityStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Load replaces the in-memory containers with the persisted ones
func (s *EntityStore) Load(ctx context.Context) error {
	if s.persistence == nil {
		return nil
	}
	snap, err := s.persistence.LoadSnapshot(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.transactions = snap.Transactions
	s.budgets = snap.Budgets
	s.expenseCategories = snap.ExpenseCategories
	s.incomeCategories = snap.IncomeCategories
	s.paymentMethods = snap.PaymentMethods
	s.version++
	s.mu.Unlock()

	log.Info().
		Int("transactions", len(snap.Transactions)).
		Int("budgets", len(snap.Budgets)).
		Int("expense_categories", len(snap.ExpenseCategories)).
		Int("income_categories", len(snap.IncomeCategories)).
		Int("payment_methods", len(snap.PaymentMethods)).
		Msg("Entity store loaded")
	return nil
}

// Version increases on every applied mutation
func (s *EntityStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns copies of every container
func (s *EntityStore) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// ReadModel returns the containers, the active date range and the version
// observed under a single lock
func (s *EntityStore) ReadModel() (domain.Snapshot, domain.DateRange, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), s.dateRangeLocked(), s.version
}

func (s *EntityStore) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Transactions:      slices.Clone(s.transactions),
		Budgets:           slices.Clone(s.budgets),
		ExpenseCategories: slices.Clone(s.expenseCategories),
		IncomeCategories:  slices.Clone(s.incomeCategories),
		PaymentMethods:    slices.Clone(s.paymentMethods),
	}
}

// Transactions returns a copy of every stored transaction
func (s *EntityStore) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions)
}

// Budgets returns a copy of every budget
func (s *EntityStore) Budgets() []domain.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.budgets)
}

// Categories returns a copy of the categories of one namespace
func (s *EntityStore) Categories(kind domain.CategoryKind) []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(*s.categoriesLocked(kind))
}

// PaymentMethods returns a copy of every payment method
func (s *EntityStore) PaymentMethods() []domain.PaymentMethod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.paymentMethods)
}

// BudgetForCategory returns the budget assigned to an expense category
func (s *EntityStore) BudgetForCategory(categoryID string) (domain.Budget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := budgetIndexForCategory(s.budgets, categoryID); i >= 0 {
		return s.budgets[i], true
	}
	return domain.Budget{}, false
}

// AvailableBudgetCategories lists the expense categories that have no budget yet
func (s *EntityStore) AvailableBudgetCategories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	available := make([]domain.Category, 0, len(s.expenseCategories))
	for _, c := range s.expenseCategories {
		if budgetIndexForCategory(s.budgets, c.ID) < 0 {
			available = append(available, c)
		}
	}
	return available
}

// DateRange returns the active filter window. Until one is set explicitly it
// is the trailing six months ending today.
func (s *EntityStore) DateRange() domain.DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dateRangeLocked()
}

func (s *EntityStore) dateRangeLocked() domain.DateRange {
	if s.dateRangeSet {
		return s.dateRange
	}
	// Calendar days are UTC, the zone date-only input is parsed in
	return domain.DefaultDateRange(util.StartOfDay(s.now().UTC()))
}

// SetDateRange replaces the active filter window. Zero bounds disable filtering.
func (s *EntityStore) SetDateRange(r domain.DateRange) (domain.DateRange, error) {
	if err := r.Validate(); err != nil {
		return domain.DateRange{}, err
	}

	s.mu.Lock()
	s.dateRange = r
	s.dateRangeSet = true
	s.mu.Unlock()

	s.publisher.Publish(websocket.DateRangeUpdated(r))
	return r, nil
}

// ResetDateRange reverts to the default trailing window
func (s *EntityStore) ResetDateRange() domain.DateRange {
	s.mu.Lock()
	s.dateRange = domain.DateRange{}
	s.dateRangeSet = false
	r := s.dateRangeLocked()
	s.mu.Unlock()

	s.publisher.Publish(websocket.DateRangeUpdated(r))
	return r
}

// AddTransaction stores a new transaction and stamps its category and payment
// method names from the current reference data
func (s *EntityStore) AddTransaction(ctx context.Context, in domain.TransactionInput) (domain.MutationResult[domain.Transaction], error) {
	if err := in.Validate(); err != nil {
		return domain.MutationResult[domain.Transaction]{}, err
	}

	s.mu.Lock()
	tx := s.buildTransactionLocked(uuid.New().String(), in, domain.Transaction{})
	s.transactions = append(s.transactions, tx)
	s.commitLocked(ctx, domain.SlotTransactions)
	s.mu.Unlock()

	s.publisher.Publish(websocket.TransactionCreated(tx))
	return domain.Created(tx), nil
}

// UpdateTransaction replaces a transaction's fields and re-resolves its names
func (s *EntityStore) UpdateTransaction(ctx context.Context, id string, in domain.TransactionInput) (domain.MutationResult[domain.Transaction], error) {
	if err := in.Validate(); err != nil {
		return domain.MutationResult[domain.Transaction]{}, err
	}

	s.mu.Lock()
	i := indexByID(s.transactions, id)
	if i < 0 {
		s.mu.Unlock()
		return domain.MutationResult[domain.Transaction]{}, domain.ErrNotFound
	}
	tx := s.buildTransactionLocked(id, in, s.transactions[i])
	s.transactions[i] = tx
	s.commitLocked(ctx, domain.SlotTransactions)
	s.mu.Unlock()

	s.publisher.Publish(websocket.TransactionUpdated(tx))
	return domain.Updated(tx), nil
}

// DeleteTransaction removes a transaction
func (s *EntityStore) DeleteTransaction(ctx context.Context, id string) (domain.MutationResult[domain.Transaction], error) {
	s.mu.Lock()
	i := indexByID(s.transactions, id)
	if i < 0 {
		s.mu.Unlock()
		return domain.MutationResult[domain.Transaction]{}, domain.ErrNotFound
	}
	tx := s.transactions[i]
	s.transactions = removeAt(s.transactions, i)
	s.commitLocked(ctx, domain.SlotTransactions)
	s.mu.Unlock()

	s.publisher.Publish(websocket.TransactionDeleted(tx))
	return domain.Deleted(tx), nil
}

// buildTransactionLocked assembles a transaction from input. prev is the record
// being replaced, whose snapshot names serve as fallbacks for dangling references.
func (s *EntityStore) buildTransactionLocked(id string, in domain.TransactionInput, prev domain.Transaction) domain.Transaction {
	categories := *s.categoriesLocked(domain.ForTransactionType(in.Type))

	categorySnapshot := ""
	if prev.Category == in.Category {
		categorySnapshot = prev.CategoryName
	}

	tx := domain.Transaction{
		ID:           id,
		Type:         in.Type,
		Amount:       in.Amount.Decimal,
		Description:  strings.TrimSpace(in.Description),
		Category:     in.Category,
		CategoryName: resolveName(categories, in.Category, categorySnapshot),
		Date:         in.Date,
		Notes:        strings.TrimSpace(in.Notes),
	}

	if tx.IsExpense() {
		methodSnapshot := ""
		if prev.PaymentMethod == in.PaymentMethod {
			methodSnapshot = prev.PaymentMethodName
		}
		tx.PaymentMethod = in.PaymentMethod
		tx.PaymentMethodName = resolveName(s.paymentMethods, in.PaymentMethod, methodSnapshot)
	}
	return tx
}

// AddBudget creates a budget for an expense category that has none
func (s *EntityStore) AddBudget(ctx context.Context, in domain.BudgetInput) (domain.MutationResult[domain.Budget], error) {
	if err := in.Validate(); err != nil {
		return domain.MutationResult[domain.Budget]{}, err
	}

	s.mu.Lock()
	ci := indexByID(s.expenseCategories, in.Category)
	if ci < 0 {
		s.mu.Unlock()
		log.Warn().Str("category_id", in.Category).Msg("Budget rejected: unknown expense category")
		return domain.Rejected(domain.Budget{}, domain.ErrCategoryNotFound), nil
	}
	if bi := budgetIndexForCategory(s.budgets, in.Category); bi >= 0 {
		existing := s.budgets[bi]
		s.mu.Unlock()
		log.Warn().Str("category_id", in.Category).Msg("Budget rejected: category already has a budget")
		return domain.Rejected(existing, domain.ErrBudgetAlreadyExists), nil
	}

	budget := domain.Budget{
		ID:           uuid.New().String(),
		Category:     in.Category,
		CategoryName: s.expenseCategories[ci].Name,
		Amount:       in.Amount.Decimal,
	}
	s.budgets = append(s.budgets, budget)
	s.commitLocked(ctx, domain.SlotBudgets)
	s.mu.Unlock()

	s.publisher.Publish(websocket.BudgetCreated(budget))
	return domain.Created(budget), nil
}

// UpdateBudget changes a budget's amount and, optionally, its category
func (s *EntityStore) UpdateBudget(ctx context.Context, id string, in domain.BudgetInput) (domain.MutationResult[domain.Budget], error) {
	if err := in.Validate(); err != nil {
		return domain.MutationResult[domain.Budget]{}, err
	}

	s.mu.Lock()
	i := indexByID(s.budgets, id)
	if i < 0 {
		s.mu.Unlock()
		return domain.MutationResult[domain.Budget]{}, domain.ErrNotFound
	}
	current := s.budgets[i]

	if in.Category != current.Category {
		if indexByID(s.expenseCategories, in.Category) < 0 {
			s.mu.Unlock()
			return domain.Rejected(current, domain.ErrCategoryNotFound), nil
		}
		if budgetIndexForCategory(s.budgets, in.Category) >= 0 {
			s.mu.Unlock()
			log.Warn().Str("budget_id", id).Str("category_id", in.Category).Msg("Budget update rejected: category already has a budget")
			return domain.Rejected(current, domain.ErrBudgetAlreadyExists), nil
		}
	}

	snapshot := ""
	if in.Category == current.Category {
		snapshot = current.CategoryName
	}
	budget := domain.Budget{
		ID:           id,
		Category:     in.Category,
		CategoryName: resolveName(s.expenseCategories, in.Category, snapshot),
		Amount:       in.Amount.Decimal,
	}
	s.budgets[i] = budget
	s.commitLocked(ctx, domain.SlotBudgets)
	s.mu.Unlock()

	s.publisher.Publish(websocket.BudgetUpdated(budget))
	return domain.Updated(budget), nil
}

// DeleteBudget removes a budget
func (s *EntityStore) DeleteBudget(ctx context.Context, id string) (domain.MutationResult[domain.Budget], error) {
	s.mu.Lock()
	i := indexByID(s.budgets, id)
	if i < 0 {
		s.mu.Unlock()
		return domain.MutationResult[domain.Budget]{}, domain.ErrNotFound
	}
	budget := s.budgets[i]
	s.budgets = removeAt(s.budgets, i)
	s.commitLocked(ctx, domain.SlotBudgets)
	s.mu.Unlock()

	s.publisher.Publish(websocket.BudgetDeleted(budget))
	return domain.Deleted(budget), nil
}

// AddCategory creates a category in the kind's namespace. A case-insensitive
// name match (or an id collision) returns the existing category unchanged.
func (s *EntityStore) AddCategory(ctx context.Context, kind domain.CategoryKind, name string) (domain.MutationResult[domain.Category], error) {
	name, err := domain.NormalizeName(name)
	if err != nil {
		return domain.MutationResult[domain.Category]{}, err
	}

	s.mu.Lock()
	list := s.categoriesLocked(kind)
	id := namedID(name, s.now())
	if i := findDuplicate(*list, name, id); i >= 0 {
		existing := (*list)[i]
		s.mu.Unlock()
		log.Warn().Str("kind", string(kind)).Str("name", name).Msg("Category already exists")
		return domain.AlreadyExists(existing), nil
	}

	category := domain.Category{ID: id, Name: name}
	*list = append(*list, category)
	s.commitLocked(ctx, domain.CategorySlot(kind))
	s.mu.Unlock()

	s.publisher.Publish(websocket.NewEvent(websocket.EventTypeCreated, categoryEntity(kind), category))
	return domain.Created(category), nil
}

// UpdateCategory renames a category. Expense category renames are copied onto
// the budgets of that category; transactions keep their stored names.
func (s *EntityStore) UpdateCategory(ctx context.Context, kind domain.CategoryKind, id, name string) (domain.MutationResult[domain.Category], error) {
	name, err := domain.NormalizeName(name)
	if err != nil {
		return domain.MutationResult[domain.Category]{}, err
	}

	s.mu.Lock()
	list := s.categoriesLocked(kind)
	i := indexByID(*list, id)
	if i < 0 {
		s.mu.Unlock()
		return domain.MutationResult[domain.Category]{}, domain.ErrNotFound
	}
	if indexByName(*list, name, id) >= 0 {
		current := (*list)[i]
		s.mu.Unlock()
		log.Warn().Str("kind", string(kind)).Str("category_id", id).Str("name", name).Msg("Category rename rejected: name in use")
		return domain.Rejected(current, domain.ErrNameConflict), nil
	}

	(*list)[i].Name = name
	category := (*list)[i]

	slots := []string{domain.CategorySlot(kind)}
	var renamed []domain.Budget
	if kind == domain.CategoryKindExpense {
		renamed = renameBudgets(s.budgets, id, name)
		if len(renamed) > 0 {
			slots = append(slots, domain.SlotBudgets)
		}
	}
	s.commitLocked(ctx, slots...)
	s.mu.Unlock()

	s.publisher.Publish(websocket.NewEvent(websocket.EventTypeUpdated, categoryEntity(kind), category))
	for _, b := range renamed {
		s.publisher.Publish(websocket.BudgetUpdated(b))
	}
	return domain.Updated(category), nil
}

// DeleteCategory removes a category. Deleting an expense category also deletes
// its budgets; transactions keep their dangling reference.
func (s *EntityStore) DeleteCategory(ctx context.Context, kind domain.CategoryKind, id string) (domain.MutationResult[domain.Category], error) {
	s.mu.Lock()
	list := s.categoriesLocked(kind)
	i := indexByID(*list, id)
	if i < 0 {
		s.mu.Unlock()
		return domain.MutationResult[domain.Category]{}, domain.ErrNotFound
	}
	category := (*list)[i]
	*list = removeAt(*list, i)

	slots := []string{domain.CategorySlot(kind)}
	var removed []domain.Budget
	if kind == domain.CategoryKindExpense {
		s.budgets, removed = removeBudgetsForCategory(s.budgets, id)
		if len(removed) > 0 {
			slots = append(slots, domain.SlotBudgets)
		}
	}
	s.commitLocked(ctx, slots...)
	s.mu.Unlock()

	if len(removed) > 0 {
		log.Info().Str("category_id", id).Int("budgets", len(removed)).Msg("Deleted budgets of removed category")
	}

	s.publisher.Publish(websocket.NewEvent(websocket.EventTypeDeleted, categoryEntity(kind), category))
	for _, b := range removed {
		s.publisher.Publish(websocket.BudgetCascadeDeleted(b))
	}
	return domain.Deleted(category), nil
}

// AddPaymentMethod creates a payment method, deduplicating by name like categories
func (s *EntityStore) AddPaymentMethod(ctx context.Context, name string) (domain.MutationResult[domain.PaymentMethod], error) {
	name, err := domain.NormalizeName(name)
	if err != nil {
		return domain.MutationResult[domain.PaymentMethod]{}, err
	}

	s.mu.Lock()
	id := namedID(name, s.now())
	if i := findDuplicate(s.paymentMethods, name, id); i >= 0 {
		existing := s.paymentMethods[i]
		s.mu.Unlock()
		log.Warn().Str("name", name).Msg("Payment method already exists")
		return domain.AlreadyExists(existing), nil
	}

	method := domain.PaymentMethod{ID: id, Name: name}
	s.paymentMethods = append(s.paymentMethods, method)
	s.commitLocked(ctx, domain.SlotPaymentMethods)
	s.mu.Unlock()

	s.publisher.Publish(websocket.PaymentMethodCreated(method))
	return domain.Created(method), nil
}

// UpdatePaymentMethod renames a payment method unless a sibling has the name
func (s *EntityStore) UpdatePaymentMethod(ctx context.Context, id, name string) (domain.MutationResult[domain.PaymentMethod], error) {
	name, err := domain.NormalizeName(name)
	if err != nil {
		return domain.MutationResult[domain.PaymentMethod]{}, err
	}

	s.mu.Lock()
	i := indexByID(s.paymentMethods, id)
	if i < 0 {
		s.mu.Unlock()
		return domain.MutationResult[domain.PaymentMethod]{}, domain.ErrNotFound
	}
	if indexByName(s.paymentMethods, name, id) >= 0 {
		current := s.paymentMethods[i]
		s.mu.Unlock()
		log.Warn().Str("payment_method_id", id).Str("name", name).Msg("Payment method rename rejected: name in use")
		return domain.Rejected(current, domain.ErrNameConflict), nil
	}

	s.paymentMethods[i].Name = name
	method := s.paymentMethods[i]
	s.commitLocked(ctx, domain.SlotPaymentMethods)
	s.mu.Unlock()

	s.publisher.Publish(websocket.PaymentMethodUpdated(method))
	return domain.Updated(method), nil
}

// DeletePaymentMethod removes a payment method; transactions keep their reference
func (s *EntityStore) DeletePaymentMethod(ctx context.Context, id string) (domain.MutationResult[domain.PaymentMethod], error) {
	s.mu.Lock()
	i := indexByID(s.paymentMethods, id)
	if i < 0 {
		s.mu.Unlock()
		return domain.MutationResult[domain.PaymentMethod]{}, domain.ErrNotFound
	}
	method := s.paymentMethods[i]
	s.paymentMethods = removeAt(s.paymentMethods, i)
	s.commitLocked(ctx, domain.SlotPaymentMethods)
	s.mu.Unlock()

	s.publisher.Publish(websocket.PaymentMethodDeleted(method))
	return domain.Deleted(method), nil
}

func (s *EntityStore) categoriesLocked(kind domain.CategoryKind) *[]domain.Category {
	if kind == domain.CategoryKindIncome {
		return &s.incomeCategories
	}
	return &s.expenseCategories
}

// commitLocked bumps the version and writes the named slots. Must hold mu.
func (s *EntityStore) commitLocked(ctx context.Context, slots ...string) {
	s.version++
	if s.persistence == nil {
		return
	}
	for _, slot := range slots {
		s.persistence.Save(ctx, slot, s.slotValueLocked(slot))
	}
}

func (s *EntityStore) slotValueLocked(slot string) any {
	switch slot {
	case domain.SlotTransactions:
		return s.transactions
	case domain.SlotBudgets:
		return s.budgets
	case domain.SlotExpenseCategories:
		return s.expenseCategories
	case domain.SlotIncomeCategories:
		return s.incomeCategories
	case domain.SlotPaymentMethods:
		return s.paymentMethods
	}
	return nil
}

func categoryEntity(kind domain.CategoryKind) websocket.EntityType {
	if kind == domain.CategoryKindIncome {
		return websocket.EntityTypeIncomeCategory
	}
	return websocket.EntityTypeExpenseCategory
}
