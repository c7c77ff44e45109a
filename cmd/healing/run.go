package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/healing-app/healing/internal/config"
	"github.com/healing-app/healing/internal/medication"
	"github.com/healing-app/healing/internal/notify"
	"github.com/healing-app/healing/internal/schedule"
)

// runDaemon drains the durable reminder queue and, when enabled, emits
// the cron-driven morning summary. This is the process that has to be
// alive for reminders to reach the user; queue entries themselves
// survive it being down and fire on the next start.
func runDaemon(cfg *config.Config) error {
	core, err := openCore(cfg)
	if err != nil {
		return err
	}
	defer core.db.Close()

	notifier, err := buildNotifier(cfg)
	if err != nil {
		return err
	}
	notifier.EnsureChannel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if cfg.Scheduler.DailySummary.Enabled {
		c := cron.New()
		_, err := c.AddFunc(cfg.Scheduler.DailySummary.Cron, func() {
			dailySummary(core.store, notifier)
		})
		if err != nil {
			return fmt.Errorf("invalid daily summary cron spec %q: %w", cfg.Scheduler.DailySummary.Cron, err)
		}
		c.Start()
		defer c.Stop()
		log.Printf("[daemon] daily summary scheduled at %q", cfg.Scheduler.DailySummary.Cron)
	}

	interval := time.Duration(cfg.Scheduler.PollInterval) * time.Second
	runner := schedule.NewRunner(core.queue, notifier, interval)
	return runner.Run(ctx)
}

func buildNotifier(cfg *config.Config) (*notify.Notifier, error) {
	var senders []notify.Sender

	if cfg.Notify.Terminal {
		senders = append(senders, notify.NewTerminalSender())
	}
	if cfg.Notify.Pushover.APIToken != "" {
		p, err := notify.NewPushoverSender(cfg.Notify.Pushover.APIToken, cfg.Notify.Pushover.UserKey)
		if err != nil {
			return nil, err
		}
		senders = append(senders, p)
	}
	if len(senders) == 0 {
		return nil, fmt.Errorf("no notification backend configured: enable notify.terminal or set notify.pushover")
	}

	return notify.NewNotifier(senders...), nil
}

// dailySummary shows one aggregated alert for the day's pending
// medications.
func dailySummary(store *medication.Store, notifier *notify.Notifier) {
	meds, err := store.ByDay(medication.Today())
	if err != nil {
		log.Printf("[daemon] daily summary query failed: %v", err)
		return
	}

	var pending []string
	for _, m := range meds {
		if !m.Taken {
			pending = append(pending, m.Name)
		}
	}

	if err := notifier.ShowSummary(pending); err != nil {
		log.Printf("[daemon] daily summary notification failed: %v", err)
	}
	log.Printf("[daemon] daily summary: %d pending medication(s)", len(pending))
}
