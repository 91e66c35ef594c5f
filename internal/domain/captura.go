package domain

import "time"

// CaptureRecord representa uma linha da tabela captura: um serial escaneado e
// registrado contra uma ubicação física (bin dentro de um rack).
// Os nomes dos campos JSON seguem o contrato de fio original (em espanhol).
type CaptureRecord struct {
	CapturaID           int64     `json:"captura_id"`
	CapturaGrupo        *string   `json:"captura_grupo"` // Grupo/lote de captura (emp_id); NULL quando a origem é talón
	Serial              string    `json:"serial"`        // Sempre armazenado SEM o prefixo S/M
	Material            string    `json:"material"`
	MaterialDescription string    `json:"material_description"`
	Cantidad            int       `json:"cantidad"`
	Ubicacion           string    `json:"ubicacion"` // Bin
	Rack                string    `json:"rack"`
	NumEmpleado         string    `json:"num_empleado"`
	EmpNombre           string    `json:"emp_nombre"`
	Fecha               time.Time `json:"fecha"`
	SerialObsoleto      bool      `json:"serial_obsoleto"`
	SerialAuditado      bool      `json:"serial_auditado"`
}

// CaptureRequest é o payload de entrada para o registro de um serial.
// O serial chega CRU (com o prefixo S/M do leitor); o serviço valida e remove o prefixo.
// Os campos de material são usados apenas no caminho obsoleto (serial fora do catálogo).
type CaptureRequest struct {
	Serial              string `json:"serial"`
	EmployeeID          string `json:"employeeId"`
	Bin                 string `json:"bin"`
	Rack                string `json:"rack"`
	Area                string `json:"area"`
	Material            string `json:"material"`
	MaterialDescription string `json:"material_description"`
	Stock               int    `json:"stock"`
	SerialObsoleto      bool   `json:"serial_obsoleto"`
}

// BatchCaptureRequest agrupa várias capturas de uma mesma sessão de um empregado.
// Os materiais já foram resolvidos pelo chamador (via check-serial) antes do envio.
type BatchCaptureRequest struct {
	Items []CaptureRequest `json:"items"`
}

// SpecialCaptureRequest é o payload do caminho de captura restrita (special):
// o número de parte é obrigatório e itens obsoletos sem parte não são permitidos.
type SpecialCaptureRequest struct {
	Serial              string `json:"serial"`
	PartNumber          string `json:"partNumber"`
	MaterialDescription string `json:"materialDescription"`
	Quantity            int    `json:"quantity"`
	Area                string `json:"area"`
	Rack                string `json:"rack"`
	Bin                 string `json:"bin"`
	EmployeeID          string `json:"employeeId"`
	IsObsolete          bool   `json:"isObsolete"`
}

// SerialCheck é a resposta da verificação prévia de um serial (GET check-serial).
type SerialCheck struct {
	Exists     bool      `json:"exists"`
	IsCaptured bool      `json:"isCaptured"`
	Material   *Material `json:"material"`
	Message    string    `json:"message"`
}
