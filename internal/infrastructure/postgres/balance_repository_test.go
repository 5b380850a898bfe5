package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/entity"
)

func newBalanceTestFixture(t *testing.T) (*BalanceRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewBalanceRepository(mock), mock
}

func balanceColumns() []string {
	return []string{"variant_id", "warehouse_id", "quantity", "updated_at"}
}

func TestBalanceRepo_Get(t *testing.T) {
	repo, mock := newBalanceTestFixture(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT .+ FROM stock_balances WHERE variant_id = .+ AND warehouse_id =").
		WithArgs(int64(1), int64(10)).
		WillReturnRows(pgxmock.NewRows(balanceColumns()).AddRow(int64(1), int64(10), int64(25), now))

	b, err := repo.Get(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), b.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Todo par válido tem linha (fan-out no cadastro); ausência vira ErrNotFound.
func TestBalanceRepo_Get_ParInexistente(t *testing.T) {
	repo, mock := newBalanceTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM stock_balances WHERE variant_id = .+ AND warehouse_id =").
		WithArgs(int64(1), int64(99)).
		WillReturnError(pgx.ErrNoRows)

	b, err := repo.Get(1, 99)
	assert.Nil(t, b)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_GetForUpdate(t *testing.T) {
	repo, mock := newBalanceTestFixture(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT .+ FROM stock_balances .+ FOR UPDATE").
		WithArgs(int64(1), int64(10)).
		WillReturnRows(pgxmock.NewRows(balanceColumns()).AddRow(int64(1), int64(10), int64(7), now))

	b, err := repo.GetForUpdate(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(7), b.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_Upsert(t *testing.T) {
	repo, mock := newBalanceTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO stock_balances").
		WithArgs(int64(1), int64(10), int64(30)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Upsert(&entity.StockBalance{VariantID: 1, WarehouseID: 10, Quantity: 30})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_SumByVariant(t *testing.T) {
	repo, mock := newBalanceTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(quantity\\), 0\\) FROM stock_balances").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(42)))

	total, err := repo.SumByVariant(1)
	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_ListByVariant(t *testing.T) {
	repo, mock := newBalanceTestFixture(t)
	defer mock.Close()

	now := time.Now()
	rows := pgxmock.NewRows(balanceColumns()).
		AddRow(int64(1), int64(10), int64(5), now).
		AddRow(int64(1), int64(20), int64(8), now)
	mock.ExpectQuery("SELECT .+ FROM stock_balances WHERE variant_id = .+ ORDER BY warehouse_id").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	list, err := repo.ListByVariant(1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(10), list[0].WarehouseID)
	assert.Equal(t, int64(20), list[1].WarehouseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_ProvisionVariant(t *testing.T) {
	repo, mock := newBalanceTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO stock_balances .+ FROM warehouses").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("INSERT", 3))

	assert.NoError(t, repo.ProvisionVariant(7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
