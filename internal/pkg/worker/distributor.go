package worker

import (
	"context"

	"github.com/girlscollective/collective/internal/pkg/notify"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// TaskDistributor enqueues background work
type TaskDistributor interface {
	DistributeTaskApprovalNotice(ctx context.Context, notice notify.ApprovalNotice, opts ...asynq.Option) error
}

// RedisTaskDistributor enqueues tasks on the asynq Redis queue
type RedisTaskDistributor struct {
	client *asynq.Client
	logger zerolog.Logger
}

// NewRedisTaskDistributor creates a distributor backed by Redis
func NewRedisTaskDistributor(redisOpt asynq.RedisClientOpt, logger zerolog.Logger) *RedisTaskDistributor {
	return &RedisTaskDistributor{
		client: asynq.NewClient(redisOpt),
		logger: logger,
	}
}

// Close releases the Redis connection
func (d *RedisTaskDistributor) Close() error {
	return d.client.Close()
}

// InlineDistributor runs tasks in the calling goroutine. Used when Redis is not configured.
type InlineDistributor struct {
	forwarder *notify.Forwarder
	logger    zerolog.Logger
}

// NewInlineDistributor creates a distributor that forwards immediately
func NewInlineDistributor(forwarder *notify.Forwarder, logger zerolog.Logger) *InlineDistributor {
	return &InlineDistributor{forwarder: forwarder, logger: logger}
}

// DistributeTaskApprovalNotice forwards the notice right away. Failures are logged, not returned,
// so creating content never fails because the mailer is down.
func (d *InlineDistributor) DistributeTaskApprovalNotice(ctx context.Context, notice notify.ApprovalNotice, _ ...asynq.Option) error {
	if !d.forwarder.Configured() {
		d.logger.Debug().Str("type", notice.Type).Msg("Notify function not configured, approval notice dropped")
		return nil
	}
	if err := d.forwarder.Send(ctx, notice); err != nil {
		d.logger.Error().Err(err).Str("type", notice.Type).Msg("Failed to send approval notice")
	}
	return nil
}
