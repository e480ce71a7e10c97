package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/dropforge/dropforge/internal/config"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueRenderRun queues one pipeline run. Renders are not retried: a
// failed run leaves artifacts behind and a blind retry would re-spend
// provider credits, so the author decides whether to rerun.
func (c *Client) EnqueueRenderRun(payload RenderRunPayload) error {
	return c.enqueue(TypeRenderRun, payload,
		asynq.Queue("critical"), asynq.MaxRetry(0), asynq.Timeout(15*time.Minute))
}

func (c *Client) EnqueueArchiveEmbed(payload ArchiveEmbedPayload) error {
	return c.enqueue(TypeArchiveEmbed, payload,
		asynq.Queue("low"), asynq.MaxRetry(3), asynq.Timeout(2*time.Minute))
}

func (c *Client) enqueue(taskType string, payload any, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
