package worker

import (
	"context"
	"time"

	"meetpoll-api/core/config"
	"meetpoll-api/core/logger"

	"meetpoll-api/modules/meeting/service"

	"github.com/hibiken/asynq"
)

const TypeMeetingCleanup = "meeting:cleanup"

// Worker runs background jobs over the shared Redis instance. Today that
// is only the retention cleanup of meetings whose proposed days have passed.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	meetings  service.MeetingServiceInterface
	retention time.Duration
}

func New(cfg *config.Config, meetings service.MeetingServiceInterface) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
	})
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
	})

	return &Worker{
		server:    server,
		scheduler: scheduler,
		meetings:  meetings,
		retention: time.Duration(cfg.App.RetentionDays) * 24 * time.Hour,
	}
}

// Start launches the job server and scheduler. Errors are logged rather than
// fatal so the API keeps serving when Redis is down.
func (w *Worker) Start() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeMeetingCleanup, w.handleMeetingCleanup)

	if _, err := w.scheduler.Register("@every 1h", asynq.NewTask(TypeMeetingCleanup, nil)); err != nil {
		logger.Error("Worker:Start:register", err)
		return
	}

	go func() {
		if err := w.server.Run(mux); err != nil {
			logger.Error("Worker:Start:server", err)
		}
	}()
	go func() {
		if err := w.scheduler.Run(); err != nil {
			logger.Error("Worker:Start:scheduler", err)
		}
	}()

	logger.Info("background worker started", "retention", w.retention.String())
}

// Stop shuts down the scheduler and waits for in-flight jobs.
func (w *Worker) Stop() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

func (w *Worker) handleMeetingCleanup(ctx context.Context, _ *asynq.Task) error {
	deleted, appErr := w.meetings.CleanupExpired(ctx, w.retention)
	if appErr != nil {
		return appErr
	}
	if deleted > 0 {
		logger.Info("expired meetings removed", "count", deleted)
	}
	return nil
}
