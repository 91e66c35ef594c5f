package capturarepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"invfisico/internal/domain"
	"invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
)

// CapturaRepository persiste capturas de seriais e mantém o efeito colateral
// sobre a tabela auditoria (inventário novo invalida auditoria concluída).
type CapturaRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCapturaRepository cria e retorna uma nova instância do Repositório de Capturas.
func NewCapturaRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *CapturaRepository {
	return &CapturaRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const insertCapturaSQL = `
    INSERT INTO captura (
        captura_grupo, serial, material, material_description, cantidad,
        ubicacion, num_empleado, emp_nombre, fecha, serial_obsoleto, rack
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9, $10)
    RETURNING captura_id, fecha`

// O reset de estado_auditoria é o invariante central do fluxo: toda captura nova
// em um rack derruba uma auditoria já concluída.
const upsertAuditoriaSQL = `
    INSERT INTO auditoria (id_ubicacion, ubicacion, area_ubicacion, emp_id, estado_auditoria)
    VALUES ($1, $2, $3, NULL, FALSE)
    ON CONFLICT (id_ubicacion)
    DO UPDATE SET estado_auditoria = FALSE`

// translateInsertError converte a violação da constraint de unicidade do serial
// em ConflictError. A unicidade é garantida pelo banco, não por pré-checagem,
// para que dois leitores concorrentes não passem ambos pela verificação.
func translateInsertError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return errors.NewConflictError("El serial ya ha sido capturado anteriormente.")
	}
	return errors.NewDBError("Falha ao inserir captura", err)
}

// Insert registra uma captura e o upsert de auditoria do rack em UMA transação:
// ou ambos aplicam, ou nenhum.
func (r *CapturaRepository) Insert(ctx context.Context, rec domain.CaptureRecord, area string) (domain.CaptureRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de captura.", err)
		return domain.CaptureRecord{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro

	err = tx.QueryRowContext(ctxTimeout, insertCapturaSQL,
		rec.CapturaGrupo,
		rec.Serial,
		rec.Material,
		rec.MaterialDescription,
		rec.Cantidad,
		rec.Ubicacion,
		rec.NumEmpleado,
		rec.EmpNombre,
		rec.SerialObsoleto,
		rec.Rack,
	).Scan(&rec.CapturaID, &rec.Fecha)

	if err != nil {
		r.logger.Error("Falha ao inserir captura.", err)
		return domain.CaptureRecord{}, translateInsertError(err)
	}

	if _, err = tx.ExecContext(ctxTimeout, upsertAuditoriaSQL, rec.Rack, rec.Ubicacion, area); err != nil {
		r.logger.Error("Falha ao atualizar auditoria do rack.", err)
		return domain.CaptureRecord{}, errors.NewDBError("Falha ao atualizar auditoria", err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		r.logger.Error("Falha ao commitar transação de captura.", commitErr)
		return domain.CaptureRecord{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	r.logger.Info("Captura registrada.", map[string]interface{}{
		"captura_id": rec.CapturaID,
		"serial":     rec.Serial,
		"rack":       rec.Rack,
		"obsoleto":   rec.SerialObsoleto,
	})
	return rec, nil
}

// InsertBatch registra um lote ordenado de capturas de um mesmo empregado como
// um único INSERT multi-linha. Falha parcial não existe: se o banco rejeitar o
// lote (e.g. serial duplicado), nenhuma linha persiste. O upsert de auditoria
// roda uma vez, sobre o rack do primeiro item.
func (r *CapturaRepository) InsertBatch(ctx context.Context, recs []domain.CaptureRecord, area string) (int, error) {
	if len(recs) == 0 {
		return 0, errors.NewValidationError("O lote de capturas está vazio.")
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de lote.", err)
		return 0, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	// Monta o INSERT multi-linha com placeholders posicionais ($1..$n).
	var sb strings.Builder
	sb.WriteString(`
    INSERT INTO captura (
        captura_grupo, serial, material, material_description, cantidad,
        ubicacion, num_empleado, emp_nombre, fecha, serial_obsoleto, rack
    ) VALUES `)

	args := make([]interface{}, 0, len(recs)*10)
	for i, rec := range recs {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 10
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, NOW(), $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10))
		args = append(args,
			rec.CapturaGrupo,
			rec.Serial,
			rec.Material,
			rec.MaterialDescription,
			rec.Cantidad,
			rec.Ubicacion,
			rec.NumEmpleado,
			rec.EmpNombre,
			rec.SerialObsoleto,
			rec.Rack,
		)
	}

	result, err := tx.ExecContext(ctxTimeout, sb.String(), args...)
	if err != nil {
		r.logger.Error("Falha ao inserir lote de capturas.", err)
		return 0, translateInsertError(err)
	}

	first := recs[0]
	if _, err = tx.ExecContext(ctxTimeout, upsertAuditoriaSQL, first.Rack, first.Ubicacion, area); err != nil {
		r.logger.Error("Falha ao atualizar auditoria do rack (lote).", err)
		return 0, errors.NewDBError("Falha ao atualizar auditoria", err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		r.logger.Error("Falha ao commitar transação de lote.", commitErr)
		return 0, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	inserted, _ := result.RowsAffected()
	r.logger.Info("Lote de capturas registrado.", map[string]interface{}{
		"inserted": inserted,
		"rack":     first.Rack,
	})
	return int(inserted), nil
}

// InsertSpecial registra uma captura do caminho restrito (special). Este caminho
// não alimenta o fluxo de auditoria por rack, então não há upsert de auditoria.
func (r *CapturaRepository) InsertSpecial(ctx context.Context, rec domain.CaptureRecord) (domain.CaptureRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := r.DB.QueryRowContext(ctxTimeout, insertCapturaSQL,
		rec.CapturaGrupo,
		rec.Serial,
		rec.Material,
		rec.MaterialDescription,
		rec.Cantidad,
		rec.Ubicacion,
		rec.NumEmpleado,
		rec.EmpNombre,
		rec.SerialObsoleto,
		rec.Rack,
	).Scan(&rec.CapturaID, &rec.Fecha)

	if err != nil {
		r.logger.Error("Falha ao inserir captura special.", err)
		return domain.CaptureRecord{}, translateInsertError(err)
	}

	return rec, nil
}

// IsCaptured verifica se um serial (sem prefixo) já possui captura registrada.
func (r *CapturaRepository) IsCaptured(ctx context.Context, serial string) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var existing string
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT serial FROM captura WHERE serial = $1`, serial,
	).Scan(&existing)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		r.logger.Error("Falha ao verificar serial capturado.", err)
		return false, errors.NewDBError("Falha ao verificar serial", err)
	}
	return true, nil
}

// FindBySerial busca a captura de um serial (sem prefixo), usada pela consulta
// do caminho special.
func (r *CapturaRepository) FindBySerial(ctx context.Context, serial string) (domain.CaptureRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT captura_id, captura_grupo, serial, material, material_description,
               cantidad, ubicacion, rack, num_empleado, emp_nombre, fecha,
               serial_obsoleto, serial_auditado
        FROM captura
        WHERE serial = $1`

	var rec domain.CaptureRecord
	err := r.DB.QueryRowContext(ctxTimeout, query, serial).Scan(
		&rec.CapturaID, &rec.CapturaGrupo, &rec.Serial, &rec.Material,
		&rec.MaterialDescription, &rec.Cantidad, &rec.Ubicacion, &rec.Rack,
		&rec.NumEmpleado, &rec.EmpNombre, &rec.Fecha,
		&rec.SerialObsoleto, &rec.SerialAuditado,
	)

	if err == sql.ErrNoRows {
		return domain.CaptureRecord{}, errors.NewNotFoundError(fmt.Sprintf("Serial %s não possui captura registrada.", serial))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar captura por serial.", err)
		return domain.CaptureRecord{}, errors.NewDBError("Falha ao buscar captura", err)
	}

	return rec, nil
}

// ListByLocation lista as capturas de um bin dentro de um rack, mais recente
// primeiro. A área não filtra aqui: captura não guarda área, ela vive na
// auditoria do rack.
func (r *CapturaRepository) ListByLocation(ctx context.Context, rack, bin string) ([]domain.CaptureRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT captura_id, captura_grupo, serial, material, material_description,
               cantidad, ubicacion, rack, num_empleado, emp_nombre, fecha,
               serial_obsoleto, serial_auditado
        FROM captura
        WHERE rack = $1 AND ubicacion = $2
        ORDER BY fecha DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, rack, bin)
	if err != nil {
		r.logger.Error("Falha ao listar capturas da ubicação.", err)
		return nil, errors.NewDBError("Falha ao listar capturas", err)
	}
	defer rows.Close()

	recs := make([]domain.CaptureRecord, 0)
	for rows.Next() {
		var rec domain.CaptureRecord
		if err := rows.Scan(
			&rec.CapturaID, &rec.CapturaGrupo, &rec.Serial, &rec.Material,
			&rec.MaterialDescription, &rec.Cantidad, &rec.Ubicacion, &rec.Rack,
			&rec.NumEmpleado, &rec.EmpNombre, &rec.Fecha,
			&rec.SerialObsoleto, &rec.SerialAuditado,
		); err != nil {
			return nil, errors.NewDBError("Falha ao ler capturas", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar capturas", err)
	}

	return recs, nil
}
