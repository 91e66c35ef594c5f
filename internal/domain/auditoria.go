package domain

// AuditLocation representa uma linha da tabela auditoria: uma por rack.
// A linha é criada de forma preguiçosa na primeira captura do rack e o
// estado_auditoria volta a 0 toda vez que entra inventário novo não auditado.
type AuditLocation struct {
	IDUbicacion     string  `json:"id_ubicacion"` // Rack
	Ubicacion       string  `json:"ubicacion"`    // Bin da primeira captura
	AreaUbicacion   string  `json:"area_ubicacion"`
	EmpID           *string `json:"emp_id"` // Responsável; NULL até a auditoria completar
	EstadoAuditoria bool    `json:"estado_auditoria"`
}

// AuditResult é o resultado de um escaneo de auditoria sobre um rack.
type AuditResult struct {
	Progress  float64 `json:"progress"` // Percentual de seriais do rack já auditados
	Completed bool    `json:"completed"`
}

// AuditSerial é uma entrada da lista de seriais de um rack na tela de auditoria.
type AuditSerial struct {
	Serial         string `json:"serial"`
	Material       string `json:"material"`
	SerialAuditado bool   `json:"serial_auditado"`
}

// AuditLocationSummary é uma entrada da lista de racks pendentes de auditoria.
type AuditLocationSummary struct {
	IDUbicacion     string `json:"id_ubicacion"`
	AreaUbicacion   string `json:"area_ubicacion"`
	EstadoAuditoria int    `json:"estado_auditoria"` // 0|1 no contrato de fio
}
