package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/girlscollective/collective/internal/pkg/notify"
	"github.com/hibiken/asynq"
)

const TaskApprovalNotice = "notify:approval"

// DefaultApprovalOptions are applied when the caller passes none
var DefaultApprovalOptions = []asynq.Option{
	asynq.MaxRetry(5),
	asynq.Timeout(30 * time.Second),
}

func (d *RedisTaskDistributor) DistributeTaskApprovalNotice(
	ctx context.Context,
	notice notify.ApprovalNotice,
	opts ...asynq.Option,
) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal approval notice: %w", err)
	}
	if len(opts) == 0 {
		opts = DefaultApprovalOptions
	}

	task := asynq.NewTask(TaskApprovalNotice, data, opts...)
	info, err := d.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	d.logger.Info().
		Str("task", TaskApprovalNotice).
		Str("queue", info.Queue).
		Int("maxRetry", info.MaxRetry).
		Msg("Task enqueued")
	return nil
}

func (p *RedisTaskProcessor) ProcessTaskApprovalNotice(ctx context.Context, task *asynq.Task) error {
	var notice notify.ApprovalNotice
	if err := json.Unmarshal(task.Payload(), &notice); err != nil {
		return fmt.Errorf("invalid approval notice payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.Info().Str("task", TaskApprovalNotice).Str("type", notice.Type).Msg("Processing task")

	if !p.forwarder.Configured() {
		p.logger.Warn().Msg("Notify function not configured, dropping approval notice")
		return nil
	}
	return p.forwarder.Forward(ctx, task.Payload())
}
