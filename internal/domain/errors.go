package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrVariantNotFound    = errors.New("variante não encontrada")
	ErrWarehouseNotFound  = errors.New("depósito não encontrado")
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrEmailAlreadyExists = errors.New("o e-mail já está cadastrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrForbidden          = errors.New("acesso negado")

	// ErrInsufficientStock indica que a disponibilidade é menor que a quantidade
	// solicitada no momento do commit; o lote inteiro é rejeitado.
	ErrInsufficientStock = errors.New("estoque insuficiente")

	// ErrInvalidWarehousePair indica transferência com origem igual ao destino
	// ou com um dos lados ausente.
	ErrInvalidWarehousePair = errors.New("par de depósitos inválido")

	// ErrNegativeBalance indica quebra de invariante: o saldo físico nunca pode
	// ficar negativo. Aborta a transação, nunca é ajustado silenciosamente.
	ErrNegativeBalance = errors.New("saldo negativo detectado")

	// ErrInvalidTransition indica uma transição de status fora da tabela
	// permitida (erro de programação, não de entrada do usuário).
	ErrInvalidTransition = errors.New("transição de status inválida")
)
