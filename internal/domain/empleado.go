package domain

// Empleado representa um empregado autorizado a capturar/auditar inventário.
// A autenticação é uma busca simples por crachá (emp_id), sem senha.
type Empleado struct {
	EmpID     string `json:"emp_id"`
	EmpNombre string `json:"emp_nombre"`
}

// LoginRequest é o payload de entrada do login por crachá.
type LoginRequest struct {
	EmpID string `json:"emp_id"`
}

// LoginResponse carrega o token emitido e os dados do empregado resolvido.
type LoginResponse struct {
	Token    string   `json:"token"`
	Empleado Empleado `json:"empleado"`
}
