package estoque

import (
	"encoding/json"
	"time"

	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ScanResult é a resposta da consulta por código de barras no balcão:
// identificação da variante, preço e disponibilidade no contexto pedido.
type ScanResult struct {
	VariantID    int64
	SKU          string
	Name         string
	UnitPrice    decimal.Decimal
	Availability int64
}

// ScanService resolve uma leitura de código de barras em variante e
// disponibilidade. Cada leitura vira um evento de auditoria para análise de
// uso do balcão.
type ScanService struct {
	variants repository.VariantRepository
	avail    *AvailabilityCalculator
	audit    repository.AuditRepository
}

// NewScanService constrói o serviço de leitura.
func NewScanService(variants repository.VariantRepository, avail *AvailabilityCalculator, audit repository.AuditRepository) *ScanService {
	return &ScanService{variants: variants, avail: avail, audit: audit}
}

// Scan resolve o código de barras e calcula a disponibilidade (global com
// warehouseID nulo, por depósito quando preenchido).
func (s *ScanService) Scan(barcode string, warehouseID *int64, actorID int64) (*ScanResult, error) {
	variant, err := s.variants.GetByBarcode(barcode)
	if err != nil {
		return nil, err
	}
	available, err := s.avail.Available(variant.ID, warehouseID)
	if err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]any{
		"barcode":  barcode,
		"variante": variant.ID,
	})
	if err := s.audit.Append(&entity.AuditEvent{
		ActorID:   actorID,
		Action:    entity.AuditVarianteEscaneada,
		Details:   details,
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, err
	}

	return &ScanResult{
		VariantID:    variant.ID,
		SKU:          variant.SKU,
		Name:         variant.Name,
		UnitPrice:    variant.Price,
		Availability: available,
	}, nil
}
