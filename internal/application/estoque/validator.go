package estoque

import (
	"errors"
	"fmt"
	"strings"

	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/repository"
)

// ValidationError acumula todos os problemas encontrados na validação de um
// lote, linha a linha, para que o vendedor corrija tudo de uma vez em vez de
// descobrir um erro por tentativa.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validação falhou: " + strings.Join(e.Messages, "; ")
}

// BatchLine é uma linha candidata a saída de estoque, na forma que chega da
// finalização de pedido: variante, depósito escolhido e quantidade.
type BatchLine struct {
	VariantID   int64
	WarehouseID *int64
	Quantity    int64
}

// BatchValidator faz a pré-checagem de um conjunto de linhas de saída antes da
// finalização: variantes existentes, depósito selecionado e disponibilidade
// suficiente, agregando a demanda de linhas repetidas do mesmo par. É uma
// leitura sem bloqueio; a garantia final é do registrador, dentro da transação.
type BatchValidator struct {
	variants repository.VariantRepository
	avail    *AvailabilityCalculator
}

// NewBatchValidator constrói o validador.
func NewBatchValidator(variants repository.VariantRepository, avail *AvailabilityCalculator) *BatchValidator {
	return &BatchValidator{variants: variants, avail: avail}
}

// ValidateBatch valida todas as linhas e devolve *ValidationError com a lista
// completa de problemas, ou nil quando tudo passa. Erros de infraestrutura
// interrompem e são devolvidos diretamente.
func (v *BatchValidator) ValidateBatch(lines []BatchLine) error {
	var msgs []string

	type demandKey struct {
		variantID   int64
		warehouseID int64
	}
	demand := make(map[demandKey]int64)
	var order []demandKey

	for i, line := range lines {
		if line.Quantity <= 0 {
			msgs = append(msgs, fmt.Sprintf("linha %d: quantidade deve ser positiva", i+1))
			continue
		}
		if _, err := v.variants.GetByID(line.VariantID); err != nil {
			if errors.Is(err, domain.ErrVariantNotFound) {
				msgs = append(msgs, fmt.Sprintf("linha %d: variante %d não existe", i+1, line.VariantID))
				continue
			}
			return err
		}
		if line.WarehouseID == nil {
			msgs = append(msgs, fmt.Sprintf("linha %d: selecione o depósito de saída", i+1))
			continue
		}
		k := demandKey{line.VariantID, *line.WarehouseID}
		if _, ok := demand[k]; !ok {
			order = append(order, k)
		}
		demand[k] += line.Quantity
	}

	for _, k := range order {
		available, err := v.avail.Available(k.variantID, &k.warehouseID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				msgs = append(msgs, fmt.Sprintf("variante %d: depósito %d não existe", k.variantID, k.warehouseID))
				continue
			}
			return err
		}
		if demand[k] > available {
			msgs = append(msgs, fmt.Sprintf(
				"variante %d no depósito %d: disponibilidade insuficiente (solicitado %d, disponível %d)",
				k.variantID, k.warehouseID, demand[k], available))
		}
	}

	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}
