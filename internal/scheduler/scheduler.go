package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"github.com/chris/twentyfour/internal/agent"
	"github.com/chris/twentyfour/internal/db"
	"github.com/chris/twentyfour/internal/llm"
)

const (
	PlanSchedule  = "morning-plan"
	RetroSchedule = "evening-retrospect"

	reloadInterval = 5 * time.Minute
	runTimeout     = 2 * time.Minute
)

// Runner is the part of the agent a scheduled check-in needs.
type Runner interface {
	Run(ctx context.Context, history []llm.Message, userMessage string) (string, []llm.Message, error)
}

// Store is the schedule persistence the scheduler reads and updates.
type Store interface {
	ListSchedules(enabledOnly bool) ([]db.Schedule, error)
	CreateSchedule(name, cronExpr, prompt string) (int64, error)
	GetSchedule(name string) (*db.Schedule, error)
	RecordScheduleRun(id int64) error
	CreateCheckIn(schedule, reply string) (int64, error)
}

type Scheduler struct {
	cron       *cron.Cron
	store      Store
	agent      Runner
	webhookURL string
	dmSend     func(userID, content string) error
	dmUserID   string
	http       *http.Client

	mu       sync.Mutex
	entryIDs map[int64]cron.EntryID // scheduleID -> cron entry
	stop     chan struct{}
}

func New(store Store, ag Runner, webhookURL string, dmSend func(userID, content string) error, dmUserID string) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		store:      store,
		agent:      ag,
		webhookURL: webhookURL,
		dmSend:     dmSend,
		dmUserID:   dmUserID,
		http:       &http.Client{Timeout: 10 * time.Second},
		entryIDs:   make(map[int64]cron.EntryID),
		stop:       make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.loadSchedules()
	s.cron.Start()

	// Reload so schedules toggled from the CLI are picked up.
	go func() {
		t := time.NewTicker(reloadInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.loadSchedules()
			case <-s.stop:
				return
			}
		}
	}()

	log.Info("scheduler started")
}

func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.cron.Stop().Done()
}

// SeedDefaultSchedules inserts the morning plan and evening retrospect check-ins
// when they don't exist yet. An empty cron expression skips that schedule.
func (s *Scheduler) SeedDefaultSchedules(planCron, retroCron string) {
	defaults := []struct{ name, cron, prompt string }{
		{PlanSchedule, planCron, llm.PlanCheckInPrompt},
		{RetroSchedule, retroCron, llm.RetroCheckInPrompt},
	}
	for _, d := range defaults {
		if d.cron == "" {
			continue
		}
		existing, err := s.store.GetSchedule(d.name)
		if err != nil {
			log.Error("scheduler: checking schedule", "name", d.name, "err", err)
			continue
		}
		if existing != nil {
			continue
		}
		if _, err := s.store.CreateSchedule(d.name, d.cron, d.prompt); err != nil {
			log.Error("scheduler: seeding schedule", "name", d.name, "err", err)
			continue
		}
		log.Info("scheduler: seeded schedule", "name", d.name, "cron", d.cron)
	}
}

func (s *Scheduler) loadSchedules() {
	schedules, err := s.store.ListSchedules(true)
	if err != nil {
		log.Error("scheduler: loading schedules", "err", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Remove all existing entries and re-register.
	for _, entryID := range s.entryIDs {
		s.cron.Remove(entryID)
	}
	s.entryIDs = make(map[int64]cron.EntryID)

	for _, sched := range schedules {
		entryID, err := s.cron.AddFunc(sched.CronExpr, func() {
			s.runSchedule(sched)
		})
		if err != nil {
			log.Warn("scheduler: invalid cron", "schedule", sched.Name, "cron", sched.CronExpr, "err", err)
			continue
		}
		s.entryIDs[sched.ID] = entryID
	}

	log.Info("scheduler: loaded schedules", "count", len(s.entryIDs))
}

func (s *Scheduler) runSchedule(sched db.Schedule) {
	logger := log.With("schedule", sched.Name)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	ctx = agent.WithUser(ctx, &agent.User{Name: sched.Name, Provider: "scheduler"})

	reply, _, err := s.agent.Run(ctx, nil, sched.Prompt)
	if err != nil {
		logger.Error("scheduler: agent error", "err", err)
		return
	}

	if err := s.store.RecordScheduleRun(sched.ID); err != nil {
		logger.Error("scheduler: recording run", "err", err)
	}
	if _, err := s.store.CreateCheckIn(sched.Name, reply); err != nil {
		logger.Error("scheduler: storing check-in", "err", err)
	}

	s.deliver(logger, reply)
	logger.Info("scheduler: completed")
}

func (s *Scheduler) deliver(logger *log.Logger, content string) {
	if s.dmSend != nil && s.dmUserID != "" {
		err := s.dmSend(s.dmUserID, content)
		if err == nil {
			return
		}
		logger.Warn("scheduler: DM send failed", "err", err)
	}
	if s.webhookURL != "" {
		if err := s.postWebhook(content); err != nil {
			logger.Error("scheduler: webhook failed", "err", err)
		}
		return
	}
	logger.Warn("scheduler: no delivery method available (no DM user and no webhook)")
}

func (s *Scheduler) postWebhook(content string) error {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("encoding webhook body: %w", err)
	}
	resp, err := s.http.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
