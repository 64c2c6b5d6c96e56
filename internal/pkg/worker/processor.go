package worker

import (
	"context"

	"github.com/girlscollective/collective/internal/pkg/notify"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// TaskProcessor consumes queued tasks
type TaskProcessor interface {
	Start() error
	Shutdown()
	ProcessTaskApprovalNotice(ctx context.Context, task *asynq.Task) error
}

// RedisTaskProcessor runs an asynq server against Redis
type RedisTaskProcessor struct {
	server    *asynq.Server
	forwarder *notify.Forwarder
	logger    zerolog.Logger
}

// NewRedisTaskProcessor creates a processor
func NewRedisTaskProcessor(redisOpt asynq.RedisClientOpt, forwarder *notify.Forwarder, logger zerolog.Logger) *RedisTaskProcessor {
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 4,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error().Err(err).Str("task", task.Type()).Msg("Task failed")
		}),
	})
	return &RedisTaskProcessor{
		server:    server,
		forwarder: forwarder,
		logger:    logger,
	}
}

// Start registers handlers and starts the worker server
func (p *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskApprovalNotice, p.ProcessTaskApprovalNotice)

	return p.server.Start(mux)
}

// Shutdown stops the worker server, waiting for active tasks
func (p *RedisTaskProcessor) Shutdown() {
	p.server.Shutdown()
}
