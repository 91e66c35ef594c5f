package dashboardrepo

import (
	"context"
	"database/sql"
	"time"

	"invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
)

// DashboardRepository computa os contadores brutos dos agregados do dashboard.
// A regra de percentual (e o caso total=0) fica no serviço.
type DashboardRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewDashboardRepository cria e retorna uma nova instância do Repositório do Dashboard.
func NewDashboardRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *DashboardRepository {
	return &DashboardRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// CaptureCounts retorna o total de materiais do catálogo com storage_unit e
// quantos deles já possuem captura correspondente.
func (r *DashboardRepository) CaptureCounts(ctx context.Context) (total, captured int, err error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err = r.DB.QueryRowContext(ctxTimeout, `
        SELECT COUNT(*) FROM material WHERE storage_unit IS NOT NULL`,
	).Scan(&total)
	if err != nil {
		r.logger.Error("Falha ao contar materiais do catálogo.", err)
		return 0, 0, errors.NewDBError("Falha ao contar materiais", err)
	}

	err = r.DB.QueryRowContext(ctxTimeout, `
        SELECT COUNT(DISTINCT c.serial)
        FROM captura c
        INNER JOIN material m ON c.serial = m.storage_unit
        WHERE m.storage_unit IS NOT NULL`,
	).Scan(&captured)
	if err != nil {
		r.logger.Error("Falha ao contar materiais capturados.", err)
		return 0, 0, errors.NewDBError("Falha ao contar capturas", err)
	}

	return total, captured, nil
}

// TicketCounts retorna o total de talones e quantas capturas de origem talón
// (captura_grupo NULL) existem.
func (r *DashboardRepository) TicketCounts(ctx context.Context) (total, captured int, err error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// SUM sobre tabela vazia é NULL; COALESCE mantém o contrato de zero.
	var sum sql.NullInt64
	err = r.DB.QueryRowContext(ctxTimeout, `
        SELECT COALESCE(SUM(totales), 0) FROM talones`,
	).Scan(&sum)
	if err != nil {
		r.logger.Error("Falha ao somar talones.", err)
		return 0, 0, errors.NewDBError("Falha ao somar talones", err)
	}
	total = int(sum.Int64)

	err = r.DB.QueryRowContext(ctxTimeout, `
        SELECT COUNT(DISTINCT serial)
        FROM captura
        WHERE captura_grupo IS NULL`,
	).Scan(&captured)
	if err != nil {
		r.logger.Error("Falha ao contar capturas de talón.", err)
		return 0, 0, errors.NewDBError("Falha ao contar capturas de talón", err)
	}

	return total, captured, nil
}
