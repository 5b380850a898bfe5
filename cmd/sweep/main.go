package main

import (
	"context"
	"time"

	"github.com/movelaria/estoque-api/internal/infrastructure/postgres"
	"github.com/movelaria/estoque-api/pkg/config"
	"github.com/movelaria/estoque-api/pkg/logger"
)

// Varredura agendada de reservas vencidas: transiciona ativa→expirada tudo o
// que passou do expires_at. Pensado para rodar via cron; o núcleo da API nunca
// expira reservas sozinho.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com o PostgreSQL")
	}
	defer pool.Close()

	reservationRepo := postgres.NewReservationRepository(pool)
	expired, err := reservationRepo.ExpireDue(time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("expirar reservas vencidas")
	}
	log.Info().Int64("expiradas", expired).Msg("varredura de reservas concluída")
}
