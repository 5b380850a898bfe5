package entity

import "time"

// TransferStatus é o status de uma transferência entre depósitos.
type TransferStatus string

const (
	// TransferConcluida: a transferência é registrada já concluída, pois os
	// movimentos e os saldos são gravados na mesma transação.
	TransferConcluida TransferStatus = "concluida"
)

// Transfer agrupa os movimentos de tipo "transferencia" criados por uma ação
// (mesma origem, destino e lote). Os contadores são desnormalizados para
// listagem rápida.
type Transfer struct {
	ID                     string
	LotID                  string
	OriginWarehouseID      int64
	DestinationWarehouseID int64
	Status                 TransferStatus
	TotalItems             int64 // linhas (variantes distintas no lote)
	TotalUnits             int64 // soma das quantidades
	Note                   string
	ActorID                int64
	CreatedAt              time.Time
}
