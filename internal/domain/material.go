package domain

// Material representa um item do catálogo de materiais (dados de referência, imutáveis).
// O storage_unit é o serial da unidade de armazenagem, já sem o prefixo de leitura (S/M).
type Material struct {
	StorageUnit         string `json:"storage_unit"`
	Material            string `json:"material"` // Número de parte
	MaterialDescription string `json:"material_description"`
	Stock               int    `json:"stock"`
}

// PartNumber representa uma entrada do catálogo de números de parte por área.
type PartNumber struct {
	PartNumber  string `json:"part_number"`
	Description string `json:"description"`
	Area        string `json:"area"`
}
