package domain

// CaptureStats é o agregado do dashboard: quantos materiais do catálogo já
// possuem captura correspondente. Com catálogo vazio o percentual é 0, nunca erro.
type CaptureStats struct {
	Total      int `json:"total"`
	Captured   int `json:"captured"`
	Pending    int `json:"pending"`
	Percentage int `json:"percentage"`
}

// TicketStats é o agregado de talones: capturas sem grupo (captura_grupo NULL)
// contadas contra o total de talones.
type TicketStats struct {
	Total      int `json:"total"`
	Captured   int `json:"captured"`
	Pending    int `json:"pending"`
	Percentage int `json:"percentage"`
}
