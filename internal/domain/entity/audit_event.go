package entity

import (
	"encoding/json"
	"time"
)

// Ações registradas na trilha de auditoria. Um evento por ação lógica do
// usuário (não por linha de movimento).
const (
	AuditMovimentoRegistrado = "movimento_registrado"
	AuditTransferenciaCriada = "transferencia_criada"
	AuditReservaCriada       = "reserva_criada"
	AuditReservaConsumida    = "reserva_consumida"
	AuditReservasCanceladas  = "reservas_canceladas"
	AuditPedidoFinalizado    = "pedido_finalizado"
	AuditPedidoReconciliado  = "pedido_reconciliado"
	AuditVarianteEscaneada   = "variante_escaneada"
)

// AuditEvent é um registro estruturado de mudança, emitido pelo núcleo de
// estoque para o coletor de auditoria.
type AuditEvent struct {
	ID        string
	ActorID   int64
	Action    string
	LotID     string // vazio quando a ação não gera lote
	Details   json.RawMessage
	CreatedAt time.Time
}
