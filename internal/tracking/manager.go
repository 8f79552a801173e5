package tracking

import (
	"context"
	"sync"

	"github.com/fieldtrack/location-backend-go/internal/models"
	"github.com/fieldtrack/location-backend-go/internal/repository"
)

// Manager owns one agent per subject. Agents are independent; the manager
// only guards the registry map. A stopped agent stays registered so its
// state (and queued samples) survive until the next Start.
type Manager struct {
	mu         sync.Mutex
	agents     map[string]*Agent
	store      repository.LocationRepository
	permission PermissionFunc
	opts       Options
}

// NewManager creates an agent registry over the given store
func NewManager(store repository.LocationRepository, permission PermissionFunc, opts Options) *Manager {
	return &Manager{
		agents:     make(map[string]*Agent),
		store:      store,
		permission: permission,
		opts:       opts,
	}
}

// Start begins (or resumes) tracking for a subject
func (m *Manager) Start(ctx context.Context, subjectID string) error {
	m.mu.Lock()
	agent, ok := m.agents[subjectID]
	if !ok {
		agent = NewAgent(subjectID, m.store, m.opts)
		m.agents[subjectID] = agent
	}
	m.mu.Unlock()

	return agent.Start(ctx, m.permission)
}

// Stop halts tracking for a subject. The agent stays registered with its
// queue intact.
func (m *Manager) Stop(subjectID string) error {
	agent, err := m.get(subjectID)
	if err != nil {
		return err
	}
	agent.Stop()
	return nil
}

// Status reports the agent state. ErrNotTracking means the subject was
// never started, which callers can distinguish from StateStopped.
func (m *Manager) Status(subjectID string) (State, error) {
	agent, err := m.get(subjectID)
	if err != nil {
		return StateIdle, err
	}
	return agent.State(), nil
}

// FatalErr returns the error that halted a subject's agent, if any
func (m *Manager) FatalErr(subjectID string) error {
	agent, err := m.get(subjectID)
	if err != nil {
		return err
	}
	return agent.Err()
}

// HandleFix routes a positioning fix to the subject's agent
func (m *Manager) HandleFix(ctx context.Context, subjectID string, fix models.Fix) error {
	agent, err := m.get(subjectID)
	if err != nil {
		return err
	}
	return agent.HandleFix(ctx, fix)
}

// SetConnectivity forwards a connectivity signal to the subject's agent
func (m *Manager) SetConnectivity(subjectID string, online bool) error {
	agent, err := m.get(subjectID)
	if err != nil {
		return err
	}
	agent.SetConnectivity(online)
	return nil
}

// SetTask binds subsequent samples of a subject to a task
func (m *Manager) SetTask(subjectID string, taskID *string) error {
	agent, err := m.get(subjectID)
	if err != nil {
		return err
	}
	agent.SetTask(taskID)
	return nil
}

func (m *Manager) get(subjectID string) (*Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	agent, ok := m.agents[subjectID]
	if !ok {
		return nil, ErrNotTracking
	}
	return agent, nil
}
