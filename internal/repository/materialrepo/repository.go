package materialrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"invfisico/internal/domain"
	"invfisico/internal/errors"
	"invfisico/internal/pkg/cache"
	"invfisico/internal/pkg/logger"
)

// Chaves de cache para o catálogo de materiais. O catálogo é dado de referência
// imutável durante o conteo, então o cache-aside aqui é seguro.
const (
	serialCacheKey = "material:su:%s"
	partCacheKey   = "material:pn:%s"
)

// MaterialRepository lê o catálogo de materiais (referência, somente leitura),
// com estratégia Cache-Aside sobre Redis para os lookups quentes de escaneo.
type MaterialRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewMaterialRepository cria e retorna uma nova instância do Repositório de Materiais.
func NewMaterialRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *MaterialRepository {
	return &MaterialRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// FindByStorageUnit busca um material pelo serial da unidade de armazenagem
// (já sem o prefixo S/M).
func (r *MaterialRepository) FindByStorageUnit(ctx context.Context, serial string) (domain.Material, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(serialCacheKey, serial)
	var m domain.Material

	// 1. Estratégia Cache-Aside (READ)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		if json.Unmarshal([]byte(cachedData), &m) == nil {
			return m, nil
		}
		// Se a desserialização falhar, seguimos para o DB.
	} else if err != cache.ErrCacheMiss {
		// Erro real de cache (conexão perdida): logamos e seguimos para o DB.
		r.logger.Warn("Falha ao ler do cache Redis; consultando o DB.", map[string]interface{}{"key": key})
	}

	// 2. Busca no Banco de Dados
	query := `
        SELECT storage_unit, material, material_description, stock
        FROM material
        WHERE storage_unit = $1`

	err = r.DB.QueryRowContext(ctxTimeout, query, serial).Scan(
		&m.StorageUnit, &m.Material, &m.MaterialDescription, &m.Stock,
	)

	if err == sql.ErrNoRows {
		return domain.Material{}, errors.NewNotFoundError(fmt.Sprintf("Serial %s não encontrado no catálogo de materiais.", serial))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar material por storage_unit no DB.", err)
		return domain.Material{}, errors.NewDBError("Falha ao buscar material", err)
	}

	// 3. Estratégia Cache-Aside (WRITE)
	if materialJSON, marshalErr := json.Marshal(m); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, materialJSON, r.CacheTTL)
	}

	return m, nil
}

// FindByPartNumber busca um material pelo número de parte (já sem o prefixo P).
func (r *MaterialRepository) FindByPartNumber(ctx context.Context, partNumber string) (domain.Material, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(partCacheKey, partNumber)
	var m domain.Material

	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		if json.Unmarshal([]byte(cachedData), &m) == nil {
			return m, nil
		}
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao ler do cache Redis; consultando o DB.", map[string]interface{}{"key": key})
	}

	query := `
        SELECT storage_unit, material, material_description, stock
        FROM material
        WHERE material = $1
        LIMIT 1`

	err = r.DB.QueryRowContext(ctxTimeout, query, partNumber).Scan(
		&m.StorageUnit, &m.Material, &m.MaterialDescription, &m.Stock,
	)

	if err == sql.ErrNoRows {
		return domain.Material{}, errors.NewNotFoundError("El número de parte no existe en la base de datos")
	}
	if err != nil {
		r.logger.Error("Falha ao buscar material por número de parte no DB.", err)
		return domain.Material{}, errors.NewDBError("Falha ao buscar número de parte", err)
	}

	if materialJSON, marshalErr := json.Marshal(m); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, materialJSON, r.CacheTTL)
	}

	return m, nil
}
