package domain

// LocationEntry representa uma linha do diretório de ubicações válidas de conteo
// (planta → área → rack → bin). Dados de referência, somente leitura.
type LocationEntry struct {
	Planta          string `json:"planta"`
	StorageLocation string `json:"storage_location"` // Código de área armazenado (e.g. "mp", "green")
	Rack            string `json:"rack"`
	StorageBin      string `json:"storage_bin"`
}

// LocationOption é o formato {id, name} que as telas de seleção esperam
// para racks e bins.
type LocationOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
