package estoque_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/movelaria/estoque-api/internal/application/estoque"
	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória dos repositórios, com semântica de cópia na leitura e na
// escrita (como um banco de verdade) e rollback por snapshot no fakeTx.
// ──────────────────────────────────────────────────────────────────────────────

type balancePair struct{ variantID, warehouseID int64 }

type fakeBalanceRepo struct {
	balances  map[balancePair]entity.StockBalance
	lockOrder []balancePair
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[balancePair]entity.StockBalance)}
}

func (f *fakeBalanceRepo) seed(variantID, warehouseID, quantity int64) {
	f.balances[balancePair{variantID, warehouseID}] = entity.StockBalance{
		VariantID: variantID, WarehouseID: warehouseID, Quantity: quantity,
	}
}

func (f *fakeBalanceRepo) quantity(variantID, warehouseID int64) int64 {
	return f.balances[balancePair{variantID, warehouseID}].Quantity
}

func (f *fakeBalanceRepo) Get(variantID, warehouseID int64) (*entity.StockBalance, error) {
	b, ok := f.balances[balancePair{variantID, warehouseID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := b
	return &copy, nil
}

func (f *fakeBalanceRepo) GetForUpdate(variantID, warehouseID int64) (*entity.StockBalance, error) {
	f.lockOrder = append(f.lockOrder, balancePair{variantID, warehouseID})
	return f.Get(variantID, warehouseID)
}

func (f *fakeBalanceRepo) Upsert(balance *entity.StockBalance) error {
	f.balances[balancePair{balance.VariantID, balance.WarehouseID}] = *balance
	return nil
}

func (f *fakeBalanceRepo) SumByVariant(variantID int64) (int64, error) {
	var total int64
	for k, b := range f.balances {
		if k.variantID == variantID {
			total += b.Quantity
		}
	}
	return total, nil
}

func (f *fakeBalanceRepo) ListByVariant(variantID int64) ([]*entity.StockBalance, error) {
	var out []*entity.StockBalance
	for k, b := range f.balances {
		if k.variantID == variantID {
			copy := b
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

func (f *fakeBalanceRepo) ProvisionVariant(variantID int64) error     { return nil }
func (f *fakeBalanceRepo) ProvisionWarehouse(warehouseID int64) error { return nil }

type fakeMovementRepo struct {
	movements []entity.Movement
}

func (f *fakeMovementRepo) Create(movement *entity.Movement) error {
	f.movements = append(f.movements, *movement)
	return nil
}

func (f *fakeMovementRepo) GetByID(id string) (*entity.Movement, error) {
	for i := range f.movements {
		if f.movements[i].ID == id {
			copy := f.movements[i]
			return &copy, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMovementRepo) ListByLot(lotID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for i := range f.movements {
		if f.movements[i].LotID == lotID {
			copy := f.movements[i]
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (f *fakeMovementRepo) ListByVariant(variantID int64, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for i := range f.movements {
		if f.movements[i].VariantID == variantID {
			copy := f.movements[i]
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (f *fakeMovementRepo) ListByWarehouse(warehouseID int64, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for i := range f.movements {
		if f.movements[i].DeltaAt(warehouseID) != 0 {
			copy := f.movements[i]
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (f *fakeMovementRepo) ListByOrder(orderID int64) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for i := range f.movements {
		m := f.movements[i]
		if m.Reference.Kind == entity.RefPedido && m.Reference.OrderID == orderID {
			copy := m
			out = append(out, &copy)
		}
	}
	return out, nil
}

type fakeReservationRepo struct {
	reservations map[string]entity.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[string]entity.Reservation)}
}

func (f *fakeReservationRepo) Create(reservation *entity.Reservation) error {
	f.reservations[reservation.ID] = *reservation
	return nil
}

func (f *fakeReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := r
	return &copy, nil
}

func (f *fakeReservationRepo) Update(reservation *entity.Reservation) error {
	if _, ok := f.reservations[reservation.ID]; !ok {
		return domain.ErrNotFound
	}
	f.reservations[reservation.ID] = *reservation
	return nil
}

func (f *fakeReservationRepo) ListActiveByOrder(orderID int64) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, r := range f.reservations {
		if r.Status == entity.ReservationAtiva && r.OrderID != nil && *r.OrderID == orderID {
			copy := r
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeReservationRepo) SumActive(variantID int64, warehouseID *int64) (int64, error) {
	var total int64
	for _, r := range f.reservations {
		if r.Status != entity.ReservationAtiva || r.VariantID != variantID {
			continue
		}
		if warehouseID != nil && (r.WarehouseID == nil || *r.WarehouseID != *warehouseID) {
			continue
		}
		total += r.Remaining()
	}
	return total, nil
}

func (f *fakeReservationRepo) ExpireDue(now time.Time) (int64, error) {
	var n int64
	for id, r := range f.reservations {
		if r.Status == entity.ReservationAtiva && r.ExpiresAt != nil && !r.ExpiresAt.After(now) {
			r.Status = entity.ReservationExpirada
			f.reservations[id] = r
			n++
		}
	}
	return n, nil
}

type fakeTransferRepo struct {
	transfers []entity.Transfer
}

func (f *fakeTransferRepo) Create(transfer *entity.Transfer) error {
	if transfer.ID == "" {
		transfer.ID = fmt.Sprintf("transf-%d", len(f.transfers)+1)
	}
	f.transfers = append(f.transfers, *transfer)
	return nil
}

func (f *fakeTransferRepo) GetByID(id string) (*entity.Transfer, error) {
	for i := range f.transfers {
		if f.transfers[i].ID == id {
			copy := f.transfers[i]
			return &copy, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTransferRepo) List(limit, offset int) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for i := range f.transfers {
		copy := f.transfers[i]
		out = append(out, &copy)
	}
	return out, nil
}

type fakeAuditRepo struct {
	events []entity.AuditEvent
}

func (f *fakeAuditRepo) Append(event *entity.AuditEvent) error {
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeAuditRepo) actions() []string {
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Action
	}
	return out
}

type fakeReceivableRepo struct {
	receivables []entity.Receivable
}

func (f *fakeReceivableRepo) Create(receivable *entity.Receivable) error {
	f.receivables = append(f.receivables, *receivable)
	return nil
}

type fakeVariantRepo struct {
	variants map[int64]entity.Variant
}

func newFakeVariantRepo(ids ...int64) *fakeVariantRepo {
	f := &fakeVariantRepo{variants: make(map[int64]entity.Variant)}
	for _, id := range ids {
		f.variants[id] = entity.Variant{ID: id}
	}
	return f
}

func (f *fakeVariantRepo) Create(variant *entity.Variant) error {
	f.variants[variant.ID] = *variant
	return nil
}

func (f *fakeVariantRepo) GetByID(id int64) (*entity.Variant, error) {
	v, ok := f.variants[id]
	if !ok {
		return nil, domain.ErrVariantNotFound
	}
	copy := v
	return &copy, nil
}

func (f *fakeVariantRepo) GetByBarcode(barcode string) (*entity.Variant, error) {
	for _, v := range f.variants {
		if v.Barcode == barcode {
			copy := v
			return &copy, nil
		}
	}
	return nil, domain.ErrVariantNotFound
}

func (f *fakeVariantRepo) List(limit, offset int) ([]*entity.Variant, error) { return nil, nil }
func (f *fakeVariantRepo) Update(variant *entity.Variant) error              { return nil }

type fakeWarehouseRepo struct {
	warehouses map[int64]entity.Warehouse
}

func newFakeWarehouseRepo(ids ...int64) *fakeWarehouseRepo {
	f := &fakeWarehouseRepo{warehouses: make(map[int64]entity.Warehouse)}
	for _, id := range ids {
		f.warehouses[id] = entity.Warehouse{ID: id}
	}
	return f
}

func (f *fakeWarehouseRepo) Create(warehouse *entity.Warehouse) error {
	f.warehouses[warehouse.ID] = *warehouse
	return nil
}

func (f *fakeWarehouseRepo) GetByID(id int64) (*entity.Warehouse, error) {
	w, ok := f.warehouses[id]
	if !ok {
		return nil, domain.ErrWarehouseNotFound
	}
	copy := w
	return &copy, nil
}

func (f *fakeWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) { return nil, nil }

// fakeTx implementa estoque.TxRunner com rollback por snapshot: se o callback
// devolve erro, todo o estado dos fakes volta ao anterior, imitando a
// transação real.
type fakeTx struct {
	balances     *fakeBalanceRepo
	movements    *fakeMovementRepo
	transfers    *fakeTransferRepo
	reservations *fakeReservationRepo
	receivables  *fakeReceivableRepo
	audit        *fakeAuditRepo
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		balances:     newFakeBalanceRepo(),
		movements:    &fakeMovementRepo{},
		transfers:    &fakeTransferRepo{},
		reservations: newFakeReservationRepo(),
		receivables:  &fakeReceivableRepo{},
		audit:        &fakeAuditRepo{},
	}
}

func (f *fakeTx) snapshot() func() {
	balances := make(map[balancePair]entity.StockBalance, len(f.balances.balances))
	for k, v := range f.balances.balances {
		balances[k] = v
	}
	reservations := make(map[string]entity.Reservation, len(f.reservations.reservations))
	for k, v := range f.reservations.reservations {
		reservations[k] = v
	}
	movements := len(f.movements.movements)
	transfers := len(f.transfers.transfers)
	receivables := len(f.receivables.receivables)
	events := len(f.audit.events)
	return func() {
		f.balances.balances = balances
		f.reservations.reservations = reservations
		f.movements.movements = f.movements.movements[:movements]
		f.transfers.transfers = f.transfers.transfers[:transfers]
		f.receivables.receivables = f.receivables.receivables[:receivables]
		f.audit.events = f.audit.events[:events]
	}
}

func (f *fakeTx) Run(ctx context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
	reservationRepo repository.ReservationRepository,
	auditRepo repository.AuditRepository,
) error) error {
	rollback := f.snapshot()
	if err := fn(f.balances, f.movements, f.transfers, f.reservations, f.audit); err != nil {
		rollback()
		return err
	}
	return nil
}

func (f *fakeTx) RunPedido(ctx context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
	reservationRepo repository.ReservationRepository,
	receivableRepo repository.ReceivableRepository,
	auditRepo repository.AuditRepository,
) error) error {
	rollback := f.snapshot()
	if err := fn(f.balances, f.movements, f.transfers, f.reservations, f.receivables, f.audit); err != nil {
		rollback()
		return err
	}
	return nil
}

var _ estoque.TxRunner = (*fakeTx)(nil)

func seedReservation(tx *fakeTx, variantID int64, warehouseID *int64, qty int64) {
	id := fmt.Sprintf("res-%d", len(tx.reservations.reservations)+1)
	tx.reservations.reservations[id] = entity.Reservation{
		ID:          id,
		VariantID:   variantID,
		WarehouseID: warehouseID,
		Quantity:    qty,
		Status:      entity.ReservationAtiva,
		Reason:      "seed",
	}
}
