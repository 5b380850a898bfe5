package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

// VariantRepo implementação de VariantRepository sobre PostgreSQL (pool ou tx).
type VariantRepo struct {
	q Querier
}

// NewVariantRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

const variantColumns = `id, sku, barcode, name, description, price, created_at, updated_at`

// Create persiste uma variante; o ID é gerado pela sequence e devolvido no struct.
func (r *VariantRepo) Create(variant *entity.Variant) error {
	query := `
		INSERT INTO variants (sku, barcode, name, description, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		variant.SKU, variant.Barcode, variant.Name, variant.Description,
		variant.Price, variant.CreatedAt, variant.UpdatedAt,
	).Scan(&variant.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create variant: %w", err)
	}
	return nil
}

// GetByID obtém uma variante por ID.
func (r *VariantRepo) GetByID(id int64) (*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE id = $1`
	return r.get(query, id)
}

// GetByBarcode obtém uma variante pelo código de barras (leitura no balcão).
func (r *VariantRepo) GetByBarcode(barcode string) (*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants WHERE barcode = $1`
	return r.get(query, barcode)
}

// List lista variantes paginadas.
func (r *VariantRepo) List(limit, offset int) ([]*entity.Variant, error) {
	query := `SELECT ` + variantColumns + ` FROM variants ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Variant
	for rows.Next() {
		var v entity.Variant
		if err := rows.Scan(&v.ID, &v.SKU, &v.Barcode, &v.Name, &v.Description,
			&v.Price, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// Update grava os campos editáveis da variante.
func (r *VariantRepo) Update(variant *entity.Variant) error {
	query := `
		UPDATE variants
		SET sku = $2, barcode = $3, name = $4, description = $5, price = $6, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		variant.ID, variant.SKU, variant.Barcode, variant.Name, variant.Description, variant.Price,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update variant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVariantNotFound
	}
	return nil
}

func (r *VariantRepo) get(query string, arg any) (*entity.Variant, error) {
	var v entity.Variant
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&v.ID, &v.SKU, &v.Barcode, &v.Name, &v.Description, &v.Price, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVariantNotFound
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return &v, nil
}
