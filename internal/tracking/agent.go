package tracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/repository"
	"github.com/fieldtrack/location-backend-go/internal/spatial"
)

// PermissionFunc asks the positioning source for tracking permission.
// It returns ErrPermissionDenied (possibly wrapped) on refusal.
type PermissionFunc func(ctx context.Context, subjectID string) error

// BatteryFunc reads the current battery level, nil when unknown
type BatteryFunc func(subjectID string) *float64

// Options tunes one agent. Zero values fall back to the documented defaults.
type Options struct {
	MovementThresholdM float64
	RetryBase          time.Duration
	RetryMax           time.Duration
	RetryLimit         int

	Battery     BatteryFunc
	OnPersisted func(sample *models.PositionSample)
	OnFatal     func(subjectID string, err error)
}

func (o Options) withDefaults() Options {
	if o.MovementThresholdM <= 0 {
		o.MovementThresholdM = 10
	}
	if o.RetryBase <= 0 {
		o.RetryBase = time.Second
	}
	if o.RetryMax <= 0 {
		o.RetryMax = 30 * time.Second
	}
	if o.RetryLimit <= 0 {
		o.RetryLimit = 3
	}
	return o
}

// Agent tracks one subject. The positioning source pushes fixes into
// HandleFix; accepted samples are persisted immediately when possible and
// queued in FIFO order otherwise. A drain goroutine replays the queue when
// connectivity returns or after a backoff delay.
//
// One mutex guards all mutable state; the sampling path and the drain loop
// are the only two writers.
type Agent struct {
	subjectID string
	store     repository.LocationRepository
	opts      Options

	mu           sync.Mutex
	state        State
	online       bool
	lastAccepted *models.PositionSample
	queue        []*models.PositionSample
	failures     int
	fatalErr     error
	taskID       *string
	nextAttempt  time.Time
	wake         chan struct{}
	cancel       context.CancelFunc
}

// NewAgent creates an idle agent for one subject
func NewAgent(subjectID string, store repository.LocationRepository, opts Options) *Agent {
	return &Agent{
		subjectID: subjectID,
		store:     store,
		opts:      opts.withDefaults(),
		state:     StateIdle,
		online:    true,
	}
}

// Start requests positioning permission and begins the session. Permission
// denial leaves the agent Idle. Restarting a Stopped agent resumes any
// samples still queued from the previous session.
func (a *Agent) Start(ctx context.Context, permission PermissionFunc) error {
	a.mu.Lock()
	switch a.state {
	case StateRequesting, StateActive, StateDegraded:
		a.mu.Unlock()
		return ErrAlreadyTracking
	}
	a.state = StateRequesting
	a.mu.Unlock()

	if permission != nil {
		if err := permission(ctx, a.subjectID); err != nil {
			a.mu.Lock()
			a.state = StateIdle
			a.mu.Unlock()
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
	}

	a.mu.Lock()
	a.failures = 0
	a.fatalErr = nil
	a.lastAccepted = nil // next fix is the first of the session
	a.nextAttempt = time.Time{}
	if len(a.queue) > 0 {
		a.state = StateDegraded
	} else {
		a.state = StateActive
	}
	a.wake = make(chan struct{}, 1)

	drainCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.drainLoop(drainCtx)

	if len(a.queue) > 0 {
		a.signalWake()
	}
	a.mu.Unlock()

	logrus.WithField("subject", a.subjectID).Info("Tracking started")
	return nil
}

// Stop cancels the session promptly. Fixes delivered after Stop returns are
// rejected; queued samples stay queued for a future Start.
func (a *Agent) Stop() {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.state = StateStopped
	a.mu.Unlock()

	logrus.WithField("subject", a.subjectID).Info("Tracking stopped")
}

// HandleFix processes one raw fix from the positioning source. Fixes that
// moved less than the movement threshold since the last accepted sample are
// dropped silently; persistence failures are absorbed into the offline
// queue and never propagate to the positioning callback.
func (a *Agent) HandleFix(ctx context.Context, fix models.Fix) error {
	a.mu.Lock()

	if a.state != StateActive && a.state != StateDegraded {
		a.mu.Unlock()
		return ErrNotTracking
	}

	if a.lastAccepted != nil {
		moved := spatial.DistanceMeters(fix.Latitude, fix.Longitude,
			a.lastAccepted.Latitude, a.lastAccepted.Longitude)
		if moved < a.opts.MovementThresholdM {
			a.mu.Unlock()
			return nil
		}
	}

	sample := a.enrich(fix)
	a.lastAccepted = sample

	// Anything behind queued samples must queue too, or replay order breaks.
	if !a.online || len(a.queue) > 0 {
		a.queue = append(a.queue, sample)
		a.state = StateDegraded
		a.signalWake()
		a.mu.Unlock()
		return nil
	}

	if err := a.store.Append(ctx, sample); err != nil {
		a.queue = append(a.queue, sample)
		a.state = StateDegraded
		a.failures = 1
		a.nextAttempt = time.Now().Add(a.backoffDelay())
		a.signalWake()
		a.mu.Unlock()
		logrus.WithFields(logrus.Fields{
			"subject": a.subjectID,
			"error":   err,
		}).Warn("Persistence failed, sample queued")
		return nil
	}

	a.failures = 0
	onPersisted := a.opts.OnPersisted
	a.mu.Unlock()

	if onPersisted != nil {
		onPersisted(sample)
	}
	return nil
}

// SetConnectivity records the connectivity signal. An offline to online
// transition triggers an immediate drain attempt, bypassing any backoff.
func (a *Agent) SetConnectivity(online bool) {
	a.mu.Lock()
	wasOnline := a.online
	a.online = online
	if online && !wasOnline {
		a.nextAttempt = time.Time{}
		a.signalWake()
	}
	a.mu.Unlock()
}

// SetTask binds subsequent samples to a task, nil to unbind
func (a *Agent) SetTask(taskID *string) {
	a.mu.Lock()
	a.taskID = taskID
	a.mu.Unlock()
}

// State returns the current lifecycle state
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Err returns the fatal error that stopped the agent, if any
func (a *Agent) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fatalErr
}

// QueueLen returns the number of samples awaiting replay
func (a *Agent) QueueLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

// enrich builds the persisted sample from a raw fix. Caller holds the lock.
func (a *Agent) enrich(fix models.Fix) *models.PositionSample {
	recordedAt := fix.Timestamp
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	connectivity := models.ConnectivityOnline
	if !a.online {
		connectivity = models.ConnectivityOffline
	}

	var battery *float64
	if a.opts.Battery != nil {
		battery = a.opts.Battery(a.subjectID)
	}

	return &models.PositionSample{
		SubjectID:    a.subjectID,
		Latitude:     fix.Latitude,
		Longitude:    fix.Longitude,
		AccuracyM:    fix.AccuracyM,
		AltitudeM:    fix.AltitudeM,
		SpeedMps:     fix.SpeedMps,
		HeadingDeg:   fix.HeadingDeg,
		BatteryPct:   battery,
		Connectivity: connectivity,
		TaskID:       a.taskID,
		RecordedAt:   recordedAt.UTC(),
	}
}

// signalWake nudges the drain loop without blocking. Caller holds the lock.
func (a *Agent) signalWake() {
	if a.wake == nil {
		return
	}
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// backoffDelay computes the exponential delay for the current failure
// count: base, 2x, 4x... capped at RetryMax. Caller holds the lock.
func (a *Agent) backoffDelay() time.Duration {
	delay := a.opts.RetryBase << (a.failures - 1)
	if delay > a.opts.RetryMax || delay <= 0 {
		delay = a.opts.RetryMax
	}
	return delay
}

// drainLoop replays the offline queue in FIFO order. It stops on the first
// persistence failure of a pass, leaving the remainder queued, and halts
// the agent entirely once the consecutive-failure limit is reached.
func (a *Agent) drainLoop(ctx context.Context) {
	wake := a.wake
	for {
		select {
		case <-ctx.Done():
			return
		case <-wake:
		}

		for {
			a.mu.Lock()
			if a.state == StateStopped || !a.online || len(a.queue) == 0 {
				a.mu.Unlock()
				break
			}

			if wait := time.Until(a.nextAttempt); wait > 0 {
				a.mu.Unlock()
				select {
				case <-ctx.Done():
					return
				case <-time.After(wait):
				case <-wake:
					// connectivity wake cleared nextAttempt
				}
				continue
			}

			sample := a.queue[0]
			err := a.store.Append(ctx, sample)
			if err != nil {
				if !a.online {
					// went offline mid-drain; wait for the signal
					a.mu.Unlock()
					break
				}
				a.failures++
				if a.failures >= a.opts.RetryLimit {
					a.state = StateStopped
					a.fatalErr = fmt.Errorf("%w: %v", ErrTrackingStopped, err)
					if a.cancel != nil {
						a.cancel()
						a.cancel = nil
					}
					onFatal := a.opts.OnFatal
					fatal := a.fatalErr
					a.mu.Unlock()

					logrus.WithFields(logrus.Fields{
						"subject": a.subjectID,
						"error":   err,
					}).Error("Retry limit reached, tracking halted")
					if onFatal != nil {
						onFatal(a.subjectID, fatal)
					}
					return
				}
				a.nextAttempt = time.Now().Add(a.backoffDelay())
				a.mu.Unlock()
				continue
			}

			a.queue = a.queue[1:]
			a.failures = 0
			a.nextAttempt = time.Time{}
			if len(a.queue) == 0 && a.state == StateDegraded {
				a.state = StateActive
				logrus.WithField("subject", a.subjectID).Info("Offline queue drained")
			}
			onPersisted := a.opts.OnPersisted
			a.mu.Unlock()

			if onPersisted != nil {
				onPersisted(sample)
			}
		}
	}
}
