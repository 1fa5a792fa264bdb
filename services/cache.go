package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// TTL padrão do cache de memoização (janela de frescor das consultas)
const CacheTTLPadrao = 600 * time.Second

// CacheService memoiza os resultados das consultas do dashboard.
// A chave identifica função + argumentos; o valor carrega o instante do
// cálculo e expira pela janela de frescor. Consultas concorrentes idênticas
// podem recalcular em duplicidade: trabalho desperdiçado, nunca incorreto.
type CacheService struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *log.Logger

	mu      sync.RWMutex
	memoria map[string]entradaCache
}

type entradaCache struct {
	valor     []byte
	calculado time.Time
}

// NewCacheService cria um novo CacheService. O cliente Redis é opcional:
// sem ele o cache opera apenas em memória.
func NewCacheService(redisClient *redis.Client, ttl time.Duration, logger *log.Logger) *CacheService {
	if ttl <= 0 {
		ttl = CacheTTLPadrao
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &CacheService{
		redis:   redisClient,
		ttl:     ttl,
		logger:  logger,
		memoria: make(map[string]entradaCache),
	}
}

// Chave monta a chave de memoização a partir do nome da função e argumentos
func Chave(funcao string, args ...interface{}) string {
	chave := funcao
	for _, arg := range args {
		chave += fmt.Sprintf(":%v", arg)
	}
	return chave
}

// Lembrar devolve o resultado memoizado da chave quando ainda fresco; caso
// contrário executa calcular, memoiza e devolve. Erros de cálculo nunca são
// memoizados. dest recebe o resultado decodificado via JSON.
func (cs *CacheService) Lembrar(ctx context.Context, chave string, dest interface{}, calcular func() (interface{}, error)) error {
	if valor, ok := cs.buscar(ctx, chave); ok {
		if err := json.Unmarshal(valor, dest); err == nil {
			return nil
		}
		// Entrada corrompida: recalcula
	}

	resultado, err := calcular()
	if err != nil {
		return err
	}

	valor, err := json.Marshal(resultado)
	if err != nil {
		return fmt.Errorf("erro ao serializar resultado para o cache: %w", err)
	}

	cs.guardar(ctx, chave, valor)
	return json.Unmarshal(valor, dest)
}

// buscar procura a chave na memória e depois no Redis
func (cs *CacheService) buscar(ctx context.Context, chave string) ([]byte, bool) {
	cs.mu.RLock()
	entrada, ok := cs.memoria[chave]
	cs.mu.RUnlock()
	if ok && time.Since(entrada.calculado) < cs.ttl {
		return entrada.valor, true
	}

	if cs.redis != nil {
		valor, err := cs.redis.Get(ctx, chave).Bytes()
		if err == nil {
			return valor, true
		}
		if err != redis.Nil {
			cs.logger.Printf("⚠️  Erro ao consultar o Redis para '%s': %v", chave, err)
		}
	}

	return nil, false
}

// guardar memoiza o valor na memória e, quando disponível, no Redis
func (cs *CacheService) guardar(ctx context.Context, chave string, valor []byte) {
	cs.mu.Lock()
	cs.memoria[chave] = entradaCache{valor: valor, calculado: time.Now()}
	cs.mu.Unlock()

	if cs.redis != nil {
		if err := cs.redis.Set(ctx, chave, valor, cs.ttl).Err(); err != nil {
			cs.logger.Printf("⚠️  Erro ao gravar '%s' no Redis: %v", chave, err)
		}
	}
}

// Limpar descarta todo o cache incondicionalmente (botão "Recarregar").
// A limpeza é global, nunca por chave.
func (cs *CacheService) Limpar(ctx context.Context) {
	cs.mu.Lock()
	cs.memoria = make(map[string]entradaCache)
	cs.mu.Unlock()

	if cs.redis != nil {
		if err := cs.redis.FlushDB(ctx).Err(); err != nil {
			cs.logger.Printf("⚠️  Erro ao limpar o Redis: %v", err)
		}
	}

	cs.logger.Println("🔄 Cache limpo")
}

// Tamanho informa quantas entradas vivem na memória (para diagnóstico)
func (cs *CacheService) Tamanho() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.memoria)
}
