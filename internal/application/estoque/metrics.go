package estoque

import (
	"errors"

	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	movimentosRegistrados = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "estoque",
		Name:      "movimentos_registrados_total",
		Help:      "Linhas de movimento gravadas no razão, por tipo.",
	}, []string{"tipo"})

	lotesRejeitados = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "estoque",
		Name:      "lotes_rejeitados_total",
		Help:      "Lotes rejeitados antes do commit, por motivo.",
	}, []string{"motivo"})
)

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "estoque_insuficiente"
	case errors.Is(err, domain.ErrInvalidWarehousePair):
		return "par_depositos_invalido"
	case errors.Is(err, domain.ErrNegativeBalance):
		return "saldo_negativo"
	case errors.Is(err, domain.ErrVariantNotFound), errors.Is(err, domain.ErrWarehouseNotFound), errors.Is(err, domain.ErrNotFound):
		return "referencia_inexistente"
	case errors.Is(err, domain.ErrInvalidInput):
		return "entrada_invalida"
	default:
		return "erro_interno"
	}
}
