package ubicacionrepo

import (
	"context"
	"database/sql"
	"time"

	"invfisico/internal/domain"
	"invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
)

// UbicacionRepository lê o diretório de ubicações válidas de conteo
// (plantas, racks, bins) e o catálogo de números de parte por área.
// Todas as operações são leituras simples, DISTINCT e ordenadas.
type UbicacionRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUbicacionRepository cria e retorna uma nova instância do Repositório de Ubicações.
func NewUbicacionRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UbicacionRepository {
	return &UbicacionRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Plantas lista as plantas distintas do diretório.
func (r *UbicacionRepository) Plantas(ctx context.Context) ([]string, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT DISTINCT planta
        FROM ubicaciones_conteo
        WHERE planta IS NOT NULL
        ORDER BY planta`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao listar plantas.", err)
		return nil, errors.NewDBError("Falha ao listar plantas", err)
	}
	defer rows.Close()

	plantas := make([]string, 0)
	for rows.Next() {
		var planta string
		if err := rows.Scan(&planta); err != nil {
			return nil, errors.NewDBError("Falha ao ler plantas", err)
		}
		plantas = append(plantas, planta)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar plantas", err)
	}

	return plantas, nil
}

// Racks lista os racks distintos de uma área (código armazenado), opcionalmente
// restritos a uma planta.
func (r *UbicacionRepository) Racks(ctx context.Context, storageLocation, planta string) ([]domain.LocationOption, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT DISTINCT rack AS id, rack AS name
        FROM ubicaciones_conteo
        WHERE storage_location = $1`
	args := []interface{}{storageLocation}

	if planta != "" {
		query += ` AND planta = $2`
		args = append(args, planta)
	}
	query += ` ORDER BY rack`

	return r.queryOptions(ctxTimeout, query, args...)
}

// Bins lista os bins distintos de um rack dentro de uma área.
func (r *UbicacionRepository) Bins(ctx context.Context, storageLocation, rack string) ([]domain.LocationOption, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT DISTINCT storage_bin AS id, storage_bin AS name
        FROM ubicaciones_conteo
        WHERE storage_location = $1 AND rack = $2
        ORDER BY storage_bin`

	return r.queryOptions(ctxTimeout, query, storageLocation, rack)
}

// PartNumbers lista o catálogo de números de parte, opcionalmente filtrado por área.
func (r *UbicacionRepository) PartNumbers(ctx context.Context, area string) ([]domain.PartNumber, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT part_number, description, area FROM part_numbers`
	args := []interface{}{}

	if area != "" {
		query += ` WHERE area = $1`
		args = append(args, area)
	}
	query += ` ORDER BY part_number`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar números de parte.", err)
		return nil, errors.NewDBError("Falha ao listar números de parte", err)
	}
	defer rows.Close()

	parts := make([]domain.PartNumber, 0)
	for rows.Next() {
		var p domain.PartNumber
		if err := rows.Scan(&p.PartNumber, &p.Description, &p.Area); err != nil {
			return nil, errors.NewDBError("Falha ao ler números de parte", err)
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar números de parte", err)
	}

	return parts, nil
}

// queryOptions executa uma consulta que retorna pares {id, name}.
func (r *UbicacionRepository) queryOptions(ctx context.Context, query string, args ...interface{}) ([]domain.LocationOption, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Falha ao consultar diretório de ubicações.", err)
		return nil, errors.NewDBError("Falha ao consultar ubicações", err)
	}
	defer rows.Close()

	options := make([]domain.LocationOption, 0)
	for rows.Next() {
		var opt domain.LocationOption
		if err := rows.Scan(&opt.ID, &opt.Name); err != nil {
			return nil, errors.NewDBError("Falha ao ler ubicações", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar ubicações", err)
	}

	return options, nil
}
