package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"betting-insight/internal/config"
	"betting-insight/internal/domain"
	"betting-insight/internal/domain/model"
	"betting-insight/internal/domain/ports/adapter"
	"betting-insight/internal/infra/metrics"
)

var _ adapter.AnalysisQueue = (*RedisQueue)(nil)

const keyPrefix = "analysis"

// RedisQueue is a durable FIFO queue over redis primitives:
//
//	analysis:waiting      list  (RPUSH / LPOP, oldest first)
//	analysis:active       zset  (member job key, score = stall deadline)
//	analysis:delayed      zset  (member job key, score = ready time)
//	analysis:completed    list  (history records, trimmed)
//	analysis:failed       list  (history records, trimmed)
//	analysis:job:<key>    string (job payload JSON; SETNX gives dedup)
//
// The job payload key doubles as the idempotency guard: while it exists, a
// second Enqueue for the same prediction is a no-op.
type RedisQueue struct {
	cli *redis.Client
	cfg config.QueueConfig
	log *zerolog.Logger
}

func NewRedisQueue(cli *redis.Client, cfg config.QueueConfig, logger *zerolog.Logger) *RedisQueue {
	l := logger.With().Str("component", "redis_queue").Logger()
	return &RedisQueue{cli: cli, cfg: cfg, log: &l}
}

func (q *RedisQueue) k(name string) string     { return keyPrefix + ":" + name }
func (q *RedisQueue) jobKey(key string) string { return keyPrefix + ":job:" + key }

// dequeueScript pops the head of the waiting list and registers it in the
// active zset in one step. Done as two separate commands, a crash in between
// would leave the job in no set while its payload key still blocks re-enqueue.
var dequeueScript = redis.NewScript(`
local key = redis.call('LPOP', KEYS[1])
if not key then
	return false
end
redis.call('ZADD', KEYS[2], ARGV[1], key)
return key`)

func (q *RedisQueue) Enqueue(ctx context.Context, predictionID, userID string) (*model.AnalysisJob, error) {
	if predictionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	job := &model.AnalysisJob{
		ID:           ulid.Make().String(),
		Key:          model.JobKey(predictionID),
		PredictionID: predictionID,
		UserID:       userID,
		MaxAttempts:  q.cfg.MaxAttempts,
		EnqueuedAt:   now,
		UpdatedAt:    now,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}

	ok, err := q.cli.SetNX(ctx, q.jobKey(job.Key), payload, 0).Result()
	if err != nil {
		metrics.IncEnqueue("unavailable")
		return nil, fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}
	if !ok {
		metrics.IncEnqueue("deduped")
		return nil, domain.ErrJobAlreadyQueued
	}

	if err := q.cli.RPush(ctx, q.k("waiting"), job.Key).Err(); err != nil {
		// Release the dedup key so a later enqueue can succeed.
		q.cli.Del(context.Background(), q.jobKey(job.Key))
		metrics.IncEnqueue("unavailable")
		return nil, fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}
	metrics.IncEnqueue("queued")
	q.log.Debug().Str("job_id", job.ID).Str("key", job.Key).Msg("job enqueued")
	return job, nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (*model.AnalysisJob, error) {
	deadline := time.Now().Add(q.cfg.StallTimeout).UnixMilli()
	res, err := dequeueScript.Run(ctx, q.cli, []string{q.k("waiting"), q.k("active")}, deadline).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}
	key, _ := res.(string)

	job, err := q.loadJob(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Entry with no payload; take it back out of active and drop it.
			q.cli.ZRem(ctx, q.k("active"), key)
			q.log.Warn().Str("key", key).Msg("waiting entry without payload, dropped")
		}
		return nil, err
	}

	// The job is already in the active set, so if this write fails the stall
	// sweep re-queues it instead of it going dark.
	job.Attempts++
	job.UpdatedAt = time.Now()
	if err := q.saveJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (q *RedisQueue) Complete(ctx context.Context, job *model.AnalysisJob) error {
	job.UpdatedAt = time.Now()
	pipe := q.cli.TxPipeline()
	pipe.ZRem(ctx, q.k("active"), job.Key)
	pipe.Del(ctx, q.jobKey(job.Key))
	q.pushHistory(ctx, pipe, "completed", job, q.cfg.KeepCompleted)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}
	metrics.IncAttempt("ok")
	metrics.IncJob("completed")
	return nil
}

func (q *RedisQueue) Fail(ctx context.Context, job *model.AnalysisJob, cause error) error {
	if cause != nil {
		job.LastError = cause.Error()
	}
	job.UpdatedAt = time.Now()

	if job.Attempts < job.MaxAttempts {
		delay := model.BackoffDelay(q.cfg.BackoffBase, job.Attempts)
		readyAt := float64(time.Now().Add(delay).UnixMilli())
		if err := q.saveJob(ctx, job); err != nil {
			return err
		}
		pipe := q.cli.TxPipeline()
		pipe.ZRem(ctx, q.k("active"), job.Key)
		pipe.ZAdd(ctx, q.k("delayed"), &redis.Z{Score: readyAt, Member: job.Key})
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
		}
		metrics.IncAttempt("retry")
		q.log.Info().Str("job_id", job.ID).Int("attempt", job.Attempts).Dur("retry_in", delay).Msg("job scheduled for retry")
		return nil
	}

	pipe := q.cli.TxPipeline()
	pipe.ZRem(ctx, q.k("active"), job.Key)
	pipe.Del(ctx, q.jobKey(job.Key))
	q.pushHistory(ctx, pipe, "failed", job, q.cfg.KeepFailed)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}
	metrics.IncAttempt("exhausted")
	metrics.IncJob("failed")
	q.log.Warn().Str("job_id", job.ID).Str("last_error", job.LastError).Msg("job terminally failed")
	return nil
}

func (q *RedisQueue) PromoteDelayed(ctx context.Context) (int, error) {
	return q.moveDue(ctx, q.k("delayed"), false)
}

func (q *RedisQueue) ReclaimStalled(ctx context.Context) (int, error) {
	n, err := q.moveDue(ctx, q.k("active"), true)
	if n > 0 {
		metrics.AddReclaimed(n)
	}
	return n, err
}

// moveDue pops members of the zset whose score is in the past and pushes
// them back onto the waiting list.
func (q *RedisQueue) moveDue(ctx context.Context, zkey string, stalled bool) (int, error) {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	keys, err := q.cli.ZRangeByScore(ctx, zkey, &redis.ZRangeBy{Min: "-inf", Max: now, Count: 100}).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}
	moved := 0
	for _, key := range keys {
		removed, err := q.cli.ZRem(ctx, zkey, key).Result()
		if err != nil || removed == 0 {
			continue // another worker took it
		}
		if err := q.cli.RPush(ctx, q.k("waiting"), key).Err(); err != nil {
			return moved, fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
		}
		moved++
		if stalled {
			q.log.Warn().Str("key", key).Msg("stalled job re-queued")
		}
	}
	return moved, nil
}

// Stats reads depth counts only (LLEN/ZCARD); it degrades to an explicit
// unavailable snapshot instead of erroring when redis is down.
func (q *RedisQueue) Stats(ctx context.Context) model.QueueStats {
	pipe := q.cli.Pipeline()
	waiting := pipe.LLen(ctx, q.k("waiting"))
	active := pipe.ZCard(ctx, q.k("active"))
	delayed := pipe.ZCard(ctx, q.k("delayed"))
	completed := pipe.LLen(ctx, q.k("completed"))
	failed := pipe.LLen(ctx, q.k("failed"))
	if _, err := pipe.Exec(ctx); err != nil {
		q.log.Warn().Err(err).Msg("queue stats unavailable")
		return model.QueueStats{Available: false}
	}

	st := model.QueueStats{
		Waiting:   int(waiting.Val()),
		Active:    int(active.Val()),
		Delayed:   int(delayed.Val()),
		Completed: int(completed.Val()),
		Failed:    int(failed.Val()),
		Available: true,
	}
	st.Total = st.Waiting + st.Active + st.Delayed + st.Completed + st.Failed
	metrics.SetQueueDepth("waiting", st.Waiting)
	metrics.SetQueueDepth("active", st.Active)
	metrics.SetQueueDepth("delayed", st.Delayed)
	return st
}

func (q *RedisQueue) loadJob(ctx context.Context, key string) (*model.AnalysisJob, error) {
	raw, err := q.cli.Get(ctx, q.jobKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}
	var job model.AnalysisJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (q *RedisQueue) saveJob(ctx context.Context, job *model.AnalysisJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := q.cli.Set(ctx, q.jobKey(job.Key), payload, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}
	return nil
}

func (q *RedisQueue) pushHistory(ctx context.Context, pipe redis.Pipeliner, list string, job *model.AnalysisJob, keep int) {
	record, err := json.Marshal(job)
	if err != nil {
		return
	}
	pipe.LPush(ctx, q.k(list), record)
	pipe.LTrim(ctx, q.k(list), 0, int64(keep-1))
}
