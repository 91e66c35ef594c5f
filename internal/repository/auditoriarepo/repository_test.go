package auditoriarepo_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
	"invfisico/internal/repository/auditoriarepo"
)

func newTestRepo(t *testing.T) (*auditoriarepo.AuditoriaRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := auditoriarepo.NewAuditoriaRepository(db, 5*time.Second, logger.NewLogger("debug"))
	return repo, mock
}

// expectScan registra a sequência transacional de um escaneo de auditoria:
// lookup do serial restrito ao rack, marcação de auditado, recontagem e —
// quando o umbral é alcançado — a conclusão da auditoria do rack.
func expectScan(mock sqlmock.Sqlmock, total, audited int, completesAudit bool) {
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT captura_id FROM captura").
		WithArgs("000123", "RK-01").
		WillReturnRows(sqlmock.NewRows([]string{"captura_id"}).AddRow(int64(5)))
	mock.ExpectExec("UPDATE captura SET serial_auditado = TRUE").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("RK-01").
		WillReturnRows(sqlmock.NewRows([]string{"count", "audited"}).AddRow(total, audited))
	if completesAudit {
		mock.ExpectExec("UPDATE auditoria SET estado_auditoria = TRUE").
			WithArgs("12345", "RK-01").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()
}

// TestRegisterAuditScan_Idempotent testa que re-escanear um serial já auditado
// não muda os contadores: o UPDATE para TRUE é idempotente e a recontagem do
// rack devolve exatamente o mesmo progresso.
func TestRegisterAuditScan_Idempotent(t *testing.T) {
	repo, mock := newTestRepo(t)

	// Primeiro escaneo: 1 de 10 auditados, umbral de 10% alcançado.
	expectScan(mock, 10, 1, true)
	// Segundo escaneo do MESMO serial: continua 1 de 10.
	expectScan(mock, 10, 1, true)

	ctx := context.Background()
	total1, audited1, err := repo.RegisterAuditScan(ctx, "RK-01", "000123", "12345", 10)
	assert.NoError(t, err)

	total2, audited2, err := repo.RegisterAuditScan(ctx, "RK-01", "000123", "12345", 10)
	assert.NoError(t, err)

	assert.Equal(t, total1, total2)
	assert.Equal(t, audited1, audited2)
	assert.Equal(t, 10, total2)
	assert.Equal(t, 1, audited2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRegisterAuditScan_BelowThreshold testa que abaixo do umbral a linha de
// auditoria do rack não é tocada.
func TestRegisterAuditScan_BelowThreshold(t *testing.T) {
	repo, mock := newTestRepo(t)

	// 1 de 20 auditados: 5% < 10%, sem UPDATE em auditoria.
	expectScan(mock, 20, 1, false)

	ctx := context.Background()
	total, audited, err := repo.RegisterAuditScan(ctx, "RK-01", "000123", "12345", 10)

	assert.NoError(t, err)
	assert.Equal(t, 20, total)
	assert.Equal(t, 1, audited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRegisterAuditScan_Fail_SerialNotInRack testa que um serial capturado em
// outro rack não conta: a transação desfaz sem nenhuma escrita.
func TestRegisterAuditScan_Fail_SerialNotInRack(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT captura_id FROM captura").
		WithArgs("000123", "RK-02").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	ctx := context.Background()
	_, _, err := repo.RegisterAuditScan(ctx, "RK-02", "000123", "12345", 10)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	assert.Contains(t, err.Error(), "Serial no encontrado en este rack")
	assert.NoError(t, mock.ExpectationsWereMet())
}
