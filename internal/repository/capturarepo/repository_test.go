package capturarepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"invfisico/internal/domain"
	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
	"invfisico/internal/repository/capturarepo"
)

func newTestRepo(t *testing.T) (*capturarepo.CapturaRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := capturarepo.NewCapturaRepository(db, 5*time.Second, logger.NewLogger("debug"))
	return repo, mock
}

func sampleRecord() domain.CaptureRecord {
	grupo := "12345"
	return domain.CaptureRecord{
		CapturaGrupo:        &grupo,
		Serial:              "000123",
		Material:            "MAT-77",
		MaterialDescription: "Llanta 16in",
		Cantidad:            4,
		Ubicacion:           "BIN-A",
		Rack:                "RK-01",
		NumEmpleado:         "12345",
		EmpNombre:           "Juan Pérez",
	}
}

// TestInsert_ResetsAuditStateInSameTransaction testa o invariante central do
// fluxo: toda captura nova derruba a auditoria do rack para incompleta, na
// MESMA transação da inserção.
func TestInsert_ResetsAuditStateInSameTransaction(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO captura").
		WillReturnRows(sqlmock.NewRows([]string{"captura_id", "fecha"}).AddRow(int64(7), time.Now()))
	// O upsert sobre a auditoria do rack reverte estado_auditoria para FALSE
	// mesmo quando o rack já estava com auditoria completa.
	mock.ExpectExec("DO UPDATE SET estado_auditoria = FALSE").
		WithArgs("RK-01", "BIN-A", "mp").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	created, err := repo.Insert(ctx, sampleRecord(), "mp")

	assert.NoError(t, err)
	assert.Equal(t, int64(7), created.CapturaID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestInsertBatch_ResetsAuditStateInSameTransaction testa o mesmo invariante
// no caminho de lote.
func TestInsertBatch_ResetsAuditStateInSameTransaction(t *testing.T) {
	repo, mock := newTestRepo(t)

	second := sampleRecord()
	second.Serial = "000456"

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO captura").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DO UPDATE SET estado_auditoria = FALSE").
		WithArgs("RK-01", "BIN-A", "mp").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	inserted, err := repo.InsertBatch(ctx, []domain.CaptureRecord{sampleRecord(), second}, "mp")

	assert.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestInsert_Fail_DuplicateSerial testa a tradução da violação de unicidade
// (código 23505 do Postgres) em ConflictError, com rollback da transação.
func TestInsert_Fail_DuplicateSerial(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO captura").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	ctx := context.Background()
	_, err := repo.Insert(ctx, sampleRecord(), "mp")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	assert.Contains(t, err.Error(), "El serial ya ha sido capturado anteriormente.")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestInsert_Fail_AuditUpsertRollsBackCapture testa que a falha no upsert de
// auditoria desfaz também a inserção da captura: ou ambos, ou nenhum.
func TestInsert_Fail_AuditUpsertRollsBackCapture(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO captura").
		WillReturnRows(sqlmock.NewRows([]string{"captura_id", "fecha"}).AddRow(int64(7), time.Now()))
	mock.ExpectExec("DO UPDATE SET estado_auditoria = FALSE").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	ctx := context.Background()
	_, err := repo.Insert(ctx, sampleRecord(), "mp")

	assert.Error(t, err)
	assert.IsType(t, &apperror.InternalError{}, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
