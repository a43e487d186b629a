package audit

import (
	"context"
	"sync"
	"time"

	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
	"github.com/primegestor/primegestor-api/pkg/logger"
)

// Worker persiste entradas de auditoría en segundo plano. Record nunca bloquea ni devuelve error:
// si la cola está llena la entrada se descarta con un warning, y los fallos de escritura solo se loguean.
type Worker struct {
	repo         repository.ActivityLogRepository
	log          *logger.Logger
	queue        chan *entity.ActivityLog
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	once   sync.Once
}

// NewWorker construye el worker con una cola de capacidad buffer.
func NewWorker(repo repository.ActivityLogRepository, log *logger.Logger, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 256
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Worker{
		repo:         repo,
		log:          log,
		queue:        make(chan *entity.ActivityLog, buffer),
		writeTimeout: 5 * time.Second,
		done:         make(chan struct{}),
	}
}

// Start lanza la goroutine consumidora. Termina cuando se llama Close (tras vaciar la cola).
// ctx solo se usa como padre de los timeouts de escritura.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		for entry := range w.queue {
			w.write(ctx, entry)
		}
	}()
	w.log.Info().Int("buffer", cap(w.queue)).Msg("worker de auditoría iniciado")
}

// Record encola la entrada sin bloquear.
func (w *Worker) Record(entry *entity.ActivityLog) {
	if entry == nil {
		return
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.log.Warn().Str("entity_id", entry.EntityID).Msg("auditoría descartada: worker cerrado")
		return
	}
	select {
	case w.queue <- entry:
	default:
		w.log.Warn().
			Str("action", entry.Action).
			Str("entity_type", entry.EntityType).
			Str("entity_id", entry.EntityID).
			Msg("auditoría descartada: cola llena")
	}
}

// Close deja de aceptar entradas y espera a que se persistan las encoladas o a que ctx expire.
func (w *Worker) Close(ctx context.Context) error {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.queue)
		w.mu.Unlock()
	})
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) write(parent context.Context, entry *entity.ActivityLog) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), w.writeTimeout)
	defer cancel()
	if err := w.repo.Create(ctx, entry); err != nil {
		w.log.Error().
			Err(err).
			Str("action", entry.Action).
			Str("entity_type", entry.EntityType).
			Str("entity_id", entry.EntityID).
			Msg("auditoría: no se pudo guardar la entrada")
	}
}

// Sync guarda la entrada en el mismo goroutine; útil para scripts y tests.
type Sync struct {
	Repo repository.ActivityLogRepository
	Log  *logger.Logger
}

// Record persiste y loguea el error sin propagarlo.
func (s Sync) Record(entry *entity.ActivityLog) {
	if entry == nil {
		return
	}
	if err := s.Repo.Create(context.Background(), entry); err != nil && s.Log != nil {
		s.Log.Error().Err(err).Str("entity_id", entry.EntityID).Msg("auditoría: no se pudo guardar la entrada")
	}
}
