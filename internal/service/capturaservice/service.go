package capturaservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"invfisico/internal/domain"
	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/logger"
)

// CapturaRepository define o contrato de persistência que o Serviço de Captura
// espera. As escritas são transacionais: inserção + efeito sobre auditoria
// aplicam juntas ou não aplicam.
type CapturaRepository interface {
	Insert(ctx context.Context, rec domain.CaptureRecord, area string) (domain.CaptureRecord, error)
	InsertBatch(ctx context.Context, recs []domain.CaptureRecord, area string) (int, error)
	InsertSpecial(ctx context.Context, rec domain.CaptureRecord) (domain.CaptureRecord, error)
	IsCaptured(ctx context.Context, serial string) (bool, error)
	FindBySerial(ctx context.Context, serial string) (domain.CaptureRecord, error)
	ListByLocation(ctx context.Context, rack, bin string) ([]domain.CaptureRecord, error)
}

// MaterialRepository define o contrato de leitura do catálogo de materiais.
type MaterialRepository interface {
	FindByStorageUnit(ctx context.Context, serial string) (domain.Material, error)
	FindByPartNumber(ctx context.Context, partNumber string) (domain.Material, error)
}

// EmpleadoRepository define o contrato de resolução de crachás.
type EmpleadoRepository interface {
	FindByID(ctx context.Context, empID string) (domain.Empleado, error)
}

// Service implementa o motor de captura: valida o serial escaneado, o
// classifica (conhecido, obsoleto ou duplicado) e registra a captura.
type Service struct {
	repo      CapturaRepository
	materials MaterialRepository
	empleados EmpleadoRepository
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Captura.
func NewService(repo CapturaRepository, materials MaterialRepository, empleados EmpleadoRepository, logger logger.Logger) *Service {
	return &Service{
		repo:      repo,
		materials: materials,
		empleados: empleados,
		logger:    logger,
	}
}

// CaptureSerial registra um serial escaneado contra um bin/rack/área.
//
// Sequência de validação (fail-fast, a primeira regra que falha ganha):
//  1. Empregado deve existir.
//  2. Serial cru deve casar com o padrão S/M + resto; o prefixo é removido.
//  3. Serial no catálogo → captura conhecida com os dados do catálogo.
//     Fora do catálogo → caminho obsoleto: o chamador fornece número de parte
//     (prefixo P removido), descrição e quantidade, e a captura é marcada
//     como obsoleta. A confirmação em duas etapas com o operador acontece na
//     tela, não aqui.
//
// O serial duplicado NÃO é pré-checado: a constraint de unicidade do banco
// rejeita a inserção e o repositório traduz para ConflictError, imune a
// corridas entre leitores concorrentes.
func (s *Service) CaptureSerial(ctx context.Context, req domain.CaptureRequest) (domain.CaptureRecord, error) {
	if req.Serial == "" || req.EmployeeID == "" || req.Bin == "" || req.Rack == "" || req.Area == "" {
		return domain.CaptureRecord{}, apperror.NewValidationError("Campos obrigatórios ausentes: serial, employeeId, bin, rack e area.")
	}

	emp, err := s.empleados.FindByID(ctx, req.EmployeeID)
	if err != nil {
		return domain.CaptureRecord{}, err
	}

	serial, ok := domain.NormalizeSerial(strings.TrimSpace(req.Serial))
	if !ok {
		return domain.CaptureRecord{}, apperror.NewValidationError("El serial debe comenzar con S, s, M o m")
	}

	rec := domain.CaptureRecord{
		CapturaGrupo: &req.EmployeeID, // Lote/sessão de captura agrupado por empregado
		Serial:       serial,
		Ubicacion:    req.Bin,
		Rack:         req.Rack,
		NumEmpleado:  req.EmployeeID,
		EmpNombre:    emp.EmpNombre,
	}

	material, err := s.materials.FindByStorageUnit(ctx, serial)
	switch {
	case err == nil:
		// Captura conhecida: os dados vêm do catálogo, não do payload.
		rec.Material = material.Material
		rec.MaterialDescription = material.MaterialDescription
		rec.Cantidad = material.Stock
		rec.SerialObsoleto = false

	case isNotFound(err):
		// Caminho obsoleto: serial fora do catálogo exige os campos manuais.
		partNumber := domain.NormalizePartNumber(strings.TrimSpace(req.Material))
		if partNumber == "" || req.MaterialDescription == "" || req.Stock <= 0 {
			return domain.CaptureRecord{}, apperror.NewValidationError("Serial obsoleto: número de parte, descrição e quantidade são obrigatórios.")
		}
		rec.Material = partNumber
		rec.MaterialDescription = req.MaterialDescription
		rec.Cantidad = req.Stock
		rec.SerialObsoleto = true

	default:
		return domain.CaptureRecord{}, err
	}

	created, err := s.repo.Insert(ctx, rec, req.Area)
	if err != nil {
		return domain.CaptureRecord{}, err
	}

	s.logger.Info("Serial capturado.", map[string]interface{}{
		"serial":   created.Serial,
		"rack":     created.Rack,
		"bin":      created.Ubicacion,
		"obsoleto": created.SerialObsoleto,
	})
	return created, nil
}

// CaptureBatch registra um lote ordenado de capturas de uma mesma sessão.
// Os materiais de cada item já foram resolvidos pelo chamador via check-serial
// antes do envio; este caminho confia nessa pré-verificação e não reconsulta o
// catálogo item a item. A inserção é tudo-ou-nada.
func (s *Service) CaptureBatch(ctx context.Context, req domain.BatchCaptureRequest) (int, error) {
	if len(req.Items) == 0 {
		return 0, apperror.NewValidationError("O lote de capturas está vazio.")
	}

	first := req.Items[0]
	if first.EmployeeID == "" {
		return 0, apperror.NewValidationError("employeeId é obrigatório no lote.")
	}

	emp, err := s.empleados.FindByID(ctx, first.EmployeeID)
	if err != nil {
		return 0, err
	}

	recs := make([]domain.CaptureRecord, 0, len(req.Items))
	for i, item := range req.Items {
		if item.Bin == "" || item.Rack == "" {
			return 0, apperror.NewValidationError(fmt.Sprintf("Item %d do lote sem bin/rack.", i+1))
		}

		serial, ok := domain.NormalizeSerial(strings.TrimSpace(item.Serial))
		if !ok {
			return 0, apperror.NewValidationError(fmt.Sprintf("Item %d do lote: el serial debe comenzar con S, s, M o m", i+1))
		}

		recs = append(recs, domain.CaptureRecord{
			CapturaGrupo:        &first.EmployeeID,
			Serial:              serial,
			Material:            item.Material,
			MaterialDescription: item.MaterialDescription,
			Cantidad:            item.Stock,
			Ubicacion:           item.Bin,
			Rack:                item.Rack,
			NumEmpleado:         first.EmployeeID,
			EmpNombre:           emp.EmpNombre,
			SerialObsoleto:      item.SerialObsoleto,
		})
	}

	inserted, err := s.repo.InsertBatch(ctx, recs, first.Area)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Lote de capturas registrado.", map[string]interface{}{
		"inserted": inserted,
		"rack":     first.Rack,
		"emp_id":   first.EmployeeID,
	})
	return inserted, nil
}

// CaptureSpecial registra uma captura de área restrita. Aqui itens obsoletos
// sem número de parte não são permitidos: a parte informada DEVE existir no
// catálogo, senão a operação falha com NotFound.
func (s *Service) CaptureSpecial(ctx context.Context, req domain.SpecialCaptureRequest) (domain.CaptureRecord, error) {
	if req.Serial == "" || req.PartNumber == "" || req.Quantity <= 0 ||
		req.Area == "" || req.Rack == "" || req.Bin == "" || req.EmployeeID == "" {
		return domain.CaptureRecord{}, apperror.NewValidationError("Campos obrigatórios ausentes na captura special.")
	}

	emp, err := s.empleados.FindByID(ctx, req.EmployeeID)
	if err != nil {
		return domain.CaptureRecord{}, err
	}

	serial, ok := domain.NormalizeSerial(strings.TrimSpace(req.Serial))
	if !ok {
		return domain.CaptureRecord{}, apperror.NewValidationError("El serial debe comenzar con S, s, M o m")
	}

	partNumber := domain.NormalizePartNumber(strings.TrimSpace(req.PartNumber))
	material, err := s.materials.FindByPartNumber(ctx, partNumber)
	if err != nil {
		// NotFound aqui é a semântica de material inexistente do caminho
		// restrito; qualquer outro erro é de infraestrutura.
		return domain.CaptureRecord{}, err
	}

	description := req.MaterialDescription
	if description == "" {
		description = material.MaterialDescription
	}

	rec := domain.CaptureRecord{
		CapturaGrupo:        &req.EmployeeID,
		Serial:              serial,
		Material:            partNumber,
		MaterialDescription: description,
		Cantidad:            req.Quantity,
		Ubicacion:           req.Bin,
		Rack:                req.Rack,
		NumEmpleado:         req.EmployeeID,
		EmpNombre:           emp.EmpNombre,
		SerialObsoleto:      req.IsObsolete,
	}

	created, err := s.repo.InsertSpecial(ctx, rec)
	if err != nil {
		return domain.CaptureRecord{}, err
	}

	s.logger.Info("Captura special registrada.", map[string]interface{}{
		"serial": created.Serial,
		"rack":   created.Rack,
	})
	return created, nil
}

// CheckSerial verifica um serial antes da captura: existe no catálogo? já foi
// capturado? Aceita o serial com ou sem o prefixo S/M.
func (s *Service) CheckSerial(ctx context.Context, raw string) (domain.SerialCheck, error) {
	if raw == "" {
		return domain.SerialCheck{}, apperror.NewValidationError("O parâmetro serial é obrigatório.")
	}

	serial := domain.StripSerialPrefix(strings.TrimSpace(raw))

	check := domain.SerialCheck{}

	material, err := s.materials.FindByStorageUnit(ctx, serial)
	switch {
	case err == nil:
		check.Exists = true
		check.Material = &material
		check.Message = "Serial encontrado en la base de datos"
	case isNotFound(err):
		check.Exists = false
		check.Message = "Serial no encontrado en la base de datos"
	default:
		return domain.SerialCheck{}, err
	}

	captured, err := s.repo.IsCaptured(ctx, serial)
	if err != nil {
		return domain.SerialCheck{}, err
	}
	check.IsCaptured = captured

	return check, nil
}

// CheckPartNumber resolve um número de parte (prefixo P/p removido) para a
// descrição do catálogo.
func (s *Service) CheckPartNumber(ctx context.Context, raw string) (domain.Material, error) {
	if raw == "" {
		return domain.Material{}, apperror.NewValidationError("El número de parte es requerido")
	}

	partNumber := domain.NormalizePartNumber(strings.TrimSpace(raw))
	return s.materials.FindByPartNumber(ctx, partNumber)
}

// CapturedByLocation lista as capturas registradas em um bin de um rack.
// A área é exigida pelo contrato de fio, mas não filtra a consulta: captura
// não guarda área (ela vive na linha de auditoria do rack).
func (s *Service) CapturedByLocation(ctx context.Context, area, rack, bin string) ([]domain.CaptureRecord, error) {
	if area == "" || rack == "" || bin == "" {
		return nil, apperror.NewValidationError("Os parâmetros area, rack e bin são obrigatórios.")
	}
	return s.repo.ListByLocation(ctx, rack, bin)
}

// FindSpecialCapture consulta se um serial já possui captura registrada.
// O segundo retorno é false quando não há captura (não é erro).
func (s *Service) FindSpecialCapture(ctx context.Context, raw string) (domain.CaptureRecord, bool, error) {
	if raw == "" {
		return domain.CaptureRecord{}, false, apperror.NewValidationError("O parâmetro serial é obrigatório.")
	}

	serial := domain.StripSerialPrefix(strings.TrimSpace(raw))

	rec, err := s.repo.FindBySerial(ctx, serial)
	if err != nil {
		if isNotFound(err) {
			return domain.CaptureRecord{}, false, nil
		}
		return domain.CaptureRecord{}, false, err
	}
	return rec, true, nil
}

// isNotFound verifica se a cadeia de erros contém um NotFoundError.
func isNotFound(err error) bool {
	var notFound *apperror.NotFoundError
	return errors.As(err, &notFound)
}
