package cron

import (
	"context"
	"time"

	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DefaultRefreshSchedule refreshes the ROR dump weekly, Sunday at 03:00
const DefaultRefreshSchedule = "0 0 3 * * 0"

// DumpRefresher is the job the manager runs on schedule
type DumpRefresher interface {
	Refresh(ctx context.Context) error
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron     *cron.Cron
	db       *gorm.DB
	dump     DumpRefresher
	schedule string
	log      *utils.Logger
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, dump DumpRefresher, schedule string, log *utils.Logger) *CronManager {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:     c,
		db:       db,
		dump:     dump,
		schedule: schedule,
		log:      log,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	m.log.Info("Starting cron jobs")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	m.log.Info("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	m.log.Info("Stopping cron jobs")
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.log.Info("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	_, err := m.cron.AddFunc(m.schedule, m.RefreshRORDump)
	if err != nil {
		return err
	}

	m.log.Info("All cron jobs registered successfully", "ror_dump_schedule", m.schedule)
	return nil
}

// RefreshRORDump downloads a fresh ROR dump and records the run
func (m *CronManager) RefreshRORDump() {
	const jobName = "refresh_ror_dump"
	run := m.logJobStart(jobName)

	if err := m.dump.Refresh(context.Background()); err != nil {
		m.logJobError(run, err)
		return
	}
	m.logJobComplete(run, "ROR dump refreshed")
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) *model.CronJobLog {
	m.log.Info("Starting cron job", "job", jobName)

	run := &model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: time.Now(),
	}
	if err := m.db.Create(run).Error; err != nil {
		m.log.Warn("Failed to record cron job start", "job", jobName, "error", err)
	}
	return run
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(run *model.CronJobLog, message string) {
	m.log.Info("Completed cron job", "job", run.JobName, "message", message)
	m.finish(run, "completed", map[string]interface{}{"message": message})
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(run *model.CronJobLog, err error) {
	m.log.Error("Cron job failed", "job", run.JobName, "error", err)
	m.finish(run, "failed", map[string]interface{}{"error_msg": err.Error()})
}

func (m *CronManager) finish(run *model.CronJobLog, status string, fields map[string]interface{}) {
	if run.ID == 0 {
		return
	}
	now := time.Now()
	fields["status"] = status
	fields["completed_at"] = now
	fields["duration"] = now.Sub(run.StartedAt).Milliseconds()
	if err := m.db.Model(run).Updates(fields).Error; err != nil {
		m.log.Warn("Failed to record cron job result", "job", run.JobName, "error", err)
	}
}
