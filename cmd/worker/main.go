package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/avdonin/orderhub-backend/internal/config"
	"github.com/avdonin/orderhub-backend/internal/notify"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using process environment")
	}
	cfg := config.Load()

	tc, err := client.Dial(client.Options{HostPort: cfg.TemporalHost})
	if err != nil {
		slog.Error("dial temporal", "error", err)
		os.Exit(1)
	}
	defer tc.Close()

	w := worker.New(tc, cfg.NotifyTaskQueue, worker.Options{
		Identity: "notify-worker-" + hostname(),
	})

	w.RegisterWorkflow(notify.SendActivationEmailWorkflow)
	w.RegisterWorkflow(notify.SendResetEmailWorkflow)
	w.RegisterWorkflow(notify.SendOrderEmailWorkflow)

	mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	activities := notify.NewActivities(mailer)
	w.RegisterActivity(activities.SendActivationEmail)
	w.RegisterActivity(activities.SendResetEmail)
	w.RegisterActivity(activities.SendOrderEmail)

	slog.Info("notify worker starting", "taskQueue", cfg.NotifyTaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		slog.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
