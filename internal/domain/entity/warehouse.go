package entity

import "time"

// Warehouse representa um depósito ou loja onde há estoque físico (multi-depósito).
type Warehouse struct {
	ID        int64
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
