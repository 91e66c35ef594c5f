package empleadorepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"invfisico/internal/domain"
	"invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
)

// EmpleadoRepository resolve crachás (emp_id) para empregados cadastrados.
type EmpleadoRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewEmpleadoRepository cria e retorna uma nova instância do Repositório de Empregados.
func NewEmpleadoRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *EmpleadoRepository {
	return &EmpleadoRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// FindByID busca um empregado pelo número de crachá.
func (r *EmpleadoRepository) FindByID(ctx context.Context, empID string) (domain.Empleado, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT emp_id, emp_nombre
        FROM empleados
        WHERE emp_id = $1`

	var emp domain.Empleado
	err := r.DB.QueryRowContext(ctxTimeout, query, empID).Scan(&emp.EmpID, &emp.EmpNombre)

	if err == sql.ErrNoRows {
		r.logger.Info("Empregado não encontrado.", map[string]interface{}{"emp_id": empID})
		return domain.Empleado{}, errors.NewNotFoundError(fmt.Sprintf("Empregado %s não existe na base de dados.", empID))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar empregado no DB.", err)
		return domain.Empleado{}, errors.NewDBError("Falha ao buscar empregado", err)
	}

	return emp, nil
}
