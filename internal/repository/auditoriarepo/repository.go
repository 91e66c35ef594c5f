package auditoriarepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"invfisico/internal/domain"
	"invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
)

// AuditoriaRepository registra escaneos de auditoria e lê o estado por rack.
type AuditoriaRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewAuditoriaRepository cria e retorna uma nova instância do Repositório de Auditoria.
func NewAuditoriaRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *AuditoriaRepository {
	return &AuditoriaRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// RegisterAuditScan marca um serial do rack como auditado e, quando o percentual
// auditado alcança o umbral, marca a auditoria do rack como completa, tudo em
// UMA transação. Retorna os contadores do rack para o serviço calcular o progresso.
//
// A busca do serial é restrita ao rack: um serial capturado em outro rack conta
// como "não encontrado neste rack". Re-auditar um serial já auditado é no-op.
func (r *AuditoriaRepository) RegisterAuditScan(ctx context.Context, rackID, serial, empID string, threshold float64) (total, audited int, err error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de auditoria.", err)
		return 0, 0, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro

	// 1. Verificar que o serial existe NESTE rack (FOR UPDATE trava a linha
	//    contra escaneos concorrentes do mesmo serial).
	var capturaID int64
	err = tx.QueryRowContext(ctxTimeout,
		`SELECT captura_id FROM captura WHERE serial = $1 AND rack = $2 FOR UPDATE`,
		serial, rackID,
	).Scan(&capturaID)

	if err == sql.ErrNoRows {
		return 0, 0, errors.NewNotFoundError("Serial no encontrado en este rack")
	}
	if err != nil {
		r.logger.Error("Falha ao verificar serial na auditoria.", err)
		return 0, 0, errors.NewDBError("Falha ao verificar serial", err)
	}

	// 2. Marcar como auditado (idempotente: já auditado continua auditado).
	if _, err = tx.ExecContext(ctxTimeout,
		`UPDATE captura SET serial_auditado = TRUE WHERE captura_id = $1`,
		capturaID,
	); err != nil {
		r.logger.Error("Falha ao marcar serial como auditado.", err)
		return 0, 0, errors.NewDBError("Falha ao marcar serial", err)
	}

	// 3. Recomputar o progresso do rack.
	err = tx.QueryRowContext(ctxTimeout,
		`SELECT COUNT(*),
                COALESCE(SUM(CASE WHEN serial_auditado THEN 1 ELSE 0 END), 0)
         FROM captura
         WHERE rack = $1`,
		rackID,
	).Scan(&total, &audited)
	if err != nil {
		r.logger.Error("Falha ao computar progresso da auditoria.", err)
		return 0, 0, errors.NewDBError("Falha ao computar progresso", err)
	}

	// 4. Umbral alcançado: auditoria do rack completa, com o empregado responsável.
	//    Abaixo do umbral a linha de auditoria não é tocada (o reset para
	//    incompleto só acontece via captura nova).
	if total > 0 && float64(audited)*100 >= threshold*float64(total) {
		if _, err = tx.ExecContext(ctxTimeout,
			`UPDATE auditoria SET estado_auditoria = TRUE, emp_id = $1 WHERE id_ubicacion = $2`,
			empID, rackID,
		); err != nil {
			r.logger.Error("Falha ao marcar auditoria completa.", err)
			return 0, 0, errors.NewDBError("Falha ao marcar auditoria completa", err)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		r.logger.Error("Falha ao commitar transação de auditoria.", commitErr)
		return 0, 0, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	return total, audited, nil
}

// Status retorna o estado_auditoria (0|1) de um rack. Rack sem linha de
// auditoria (nenhuma captura ainda) lê como 0, não como erro.
func (r *AuditoriaRepository) Status(ctx context.Context, rackID string) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var estado bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT estado_auditoria FROM auditoria WHERE id_ubicacion = $1`,
		rackID,
	).Scan(&estado)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		r.logger.Error("Falha ao buscar estado de auditoria.", err)
		return 0, errors.NewDBError("Falha ao buscar estado de auditoria", err)
	}

	if estado {
		return 1, nil
	}
	return 0, nil
}

// ListLocations lista os racks com auditoria registrada, ordenados por área e rack.
func (r *AuditoriaRepository) ListLocations(ctx context.Context) ([]domain.AuditLocationSummary, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT DISTINCT id_ubicacion, area_ubicacion,
               CASE WHEN estado_auditoria THEN 1 ELSE 0 END AS estado
        FROM auditoria
        ORDER BY area_ubicacion, id_ubicacion`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao listar ubicações de auditoria.", err)
		return nil, errors.NewDBError("Falha ao listar auditoria", err)
	}
	defer rows.Close()

	locations := make([]domain.AuditLocationSummary, 0)
	for rows.Next() {
		var loc domain.AuditLocationSummary
		if err := rows.Scan(&loc.IDUbicacion, &loc.AreaUbicacion, &loc.EstadoAuditoria); err != nil {
			return nil, errors.NewDBError("Falha ao ler ubicações de auditoria", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar ubicações de auditoria", err)
	}

	return locations, nil
}

// SerialsByRack lista os seriais capturados de um rack com o flag de auditado,
// ordenados por serial (a tela de auditoria faz polling desta lista).
func (r *AuditoriaRepository) SerialsByRack(ctx context.Context, rackID string) ([]domain.AuditSerial, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT DISTINCT serial, material, serial_auditado
        FROM captura
        WHERE rack = $1
        ORDER BY serial`

	rows, err := r.DB.QueryContext(ctxTimeout, query, rackID)
	if err != nil {
		r.logger.Error("Falha ao listar seriais do rack.", err)
		return nil, errors.NewDBError(fmt.Sprintf("Falha ao listar seriais do rack %s", rackID), err)
	}
	defer rows.Close()

	serials := make([]domain.AuditSerial, 0)
	for rows.Next() {
		var s domain.AuditSerial
		if err := rows.Scan(&s.Serial, &s.Material, &s.SerialAuditado); err != nil {
			return nil, errors.NewDBError("Falha ao ler seriais do rack", err)
		}
		serials = append(serials, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar seriais do rack", err)
	}

	return serials, nil
}
