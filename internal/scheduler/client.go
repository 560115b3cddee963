package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"chanitec_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const defaultReminderHour = 8

type Client struct {
	client *asynq.Client
	queue  string
	hour   int
	loc    *time.Location
}

type ReminderScheduler interface {
	ScheduleQuoteReminder(ctx context.Context, quoteID, reminderDate string) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	hour := cfg.GetQuoteReminderHour()
	if hour < 0 || hour > 23 {
		hour = defaultReminderHour
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
		hour:   hour,
		loc:    time.Local,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleQuoteReminder queues a reminder for the configured hour of
// reminderDate (YYYY-MM-DD). Scheduling the same quote and day twice is a no-op.
func (c *Client) ScheduleQuoteReminder(ctx context.Context, quoteID, reminderDate string) error {
	if c == nil || c.client == nil {
		return nil
	}

	runAt, err := ReminderRunAt(reminderDate, c.hour, c.loc)
	if err != nil {
		return err
	}

	payload := QuoteReminderPayload{QuoteID: quoteID, ReminderDate: reminderDate}
	task, err := NewQuoteReminderTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(runAt),
		asynq.Queue(c.queue),
		asynq.TaskID(reminderTaskID(payload)),
		asynq.Retention(24*time.Hour),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// ReminderRunAt returns hour:00 on the given day in loc.
func ReminderRunAt(date string, hour int, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(time.DateOnly, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reminder date %q: %w", date, err)
	}
	return day.Add(time.Duration(hour) * time.Hour), nil
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
