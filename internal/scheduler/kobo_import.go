package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/koboreader/internal/kobo"
)

var ErrAlreadyRunning = errors.New("an import is already in progress")

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ImportJob imports from the device mounted at devicePath.
type ImportJob func(ctx context.Context, devicePath string) error

type RunStatus string

const (
	StatusNever   RunStatus = "never"
	StatusSuccess RunStatus = "success"
	StatusSkipped RunStatus = "skipped"
	StatusFailed  RunStatus = "failed"
)

type LastRun struct {
	Status  RunStatus
	At      time.Time
	Message string
}

// KoboImportScheduler runs an import whenever the schedule fires and a Kobo
// is mounted. Ticks that find no device are recorded as skipped.
type KoboImportScheduler struct {
	devicePath string
	schedule   string
	job        ImportJob
	detect     func() []kobo.DeviceInfo

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	runMu      sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
	lastRun    LastRun
}

func NewKoboImportScheduler(devicePath, schedule string, job ImportJob) *KoboImportScheduler {
	return &KoboImportScheduler{
		devicePath: devicePath,
		schedule:   schedule,
		job:        job,
		cron:       cron.New(cron.WithParser(cronParser)),
		lastRun:    LastRun{Status: StatusNever},
	}
}

// WithDeviceDetection makes runs fall back to the first device found by
// detect when nothing is mounted at the configured path.
func (s *KoboImportScheduler) WithDeviceDetection(detect func() []kobo.DeviceInfo) *KoboImportScheduler {
	s.detect = detect
	return s
}

// Start schedules the import. It returns immediately; the scheduler stops
// when ctx is cancelled or Stop is called.
func (s *KoboImportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	var runCtx context.Context
	runCtx, s.cancelFunc = context.WithCancel(ctx)

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunNow(runCtx); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			log.Printf("Kobo import scheduler: %v", err)
		}
	})
	if err != nil {
		s.cancelFunc()
		return fmt.Errorf("failed to schedule import job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("Kobo import scheduler: started with schedule '%s' (%s)", s.schedule, DescribeSchedule(s.schedule))

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop cancels a running import and waits for it to return.
func (s *KoboImportScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.cron.Remove(s.entryID)
	s.mu.Unlock()

	cancel()
	<-s.cron.Stop().Done()

	log.Printf("Kobo import scheduler: stopped")
}

func (s *KoboImportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *KoboImportScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

func (s *KoboImportScheduler) LastRun() LastRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// RunNow imports immediately. Overlapping runs are refused with
// ErrAlreadyRunning; a missing device is not an error.
func (s *KoboImportScheduler) RunNow(ctx context.Context) error {
	if !s.runMu.TryLock() {
		return ErrAlreadyRunning
	}
	defer s.runMu.Unlock()

	devicePath, ok := s.findDevice()
	if !ok {
		s.record(StatusSkipped, fmt.Sprintf("no Kobo mounted at %s", s.devicePath))
		return nil
	}

	log.Printf("Kobo import: starting from %s", devicePath)
	startTime := time.Now()

	if err := s.job(ctx, devicePath); err != nil {
		s.record(StatusFailed, err.Error())
		return fmt.Errorf("import failed: %w", err)
	}

	s.record(StatusSuccess, fmt.Sprintf("Imported in %v", time.Since(startTime).Round(time.Millisecond)))
	return nil
}

func (s *KoboImportScheduler) findDevice() (string, bool) {
	if _, err := kobo.Probe(s.devicePath); err == nil {
		return s.devicePath, true
	}
	if s.detect == nil {
		return "", false
	}
	devices := s.detect()
	if len(devices) == 0 {
		return "", false
	}
	log.Printf("Kobo import: nothing at %s, using %s", s.devicePath, devices[0].Root)
	return devices[0].Root, true
}

func (s *KoboImportScheduler) record(status RunStatus, message string) {
	log.Printf("Kobo import: %s (%s)", status, message)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = LastRun{Status: status, At: time.Now(), Message: message}
}

func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// DescribeSchedule returns a human-readable description of a cron schedule
func DescribeSchedule(schedule string) string {
	switch schedule {
	case "*/5 * * * *":
		return "Every 5 minutes"
	case "*/15 * * * *":
		return "Every 15 minutes"
	case "*/30 * * * *":
		return "Every 30 minutes"
	case "0 * * * *":
		return "Every hour at :00"
	case "0 0 * * *":
		return "Daily at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}
