package application_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockEnvScanner struct {
	sources []model.RawSource
	found   []string
	err     error
	calls   int
	dirs    []string
	names   [][]string
}

func (m *mockEnvScanner) ReadEnvFiles(_ context.Context, dir string, names []string) ([]model.RawSource, []string, error) {
	m.calls++
	m.dirs = append(m.dirs, dir)
	m.names = append(m.names, names)
	return m.sources, m.found, m.err
}

type mockSystemScanner struct {
	sources []model.RawSource
	probed  []model.SystemSource
	err     error
}

func (m *mockSystemScanner) Probe(_ context.Context) ([]model.RawSource, []model.SystemSource, error) {
	return m.sources, m.probed, m.err
}

// mockAccountStore is an in-memory AccountStore.
type mockAccountStore struct {
	accounts  map[string]model.ServiceAccount
	nextID    int
	createErr error
	updates   int
}

func newMockAccountStore(seed ...model.ServiceAccount) *mockAccountStore {
	m := &mockAccountStore{accounts: make(map[string]model.ServiceAccount)}
	for _, a := range seed {
		m.accounts[a.ID] = a
	}
	return m
}

func (m *mockAccountStore) Create(_ context.Context, a model.ServiceAccount) (model.ServiceAccount, error) {
	if m.createErr != nil {
		return model.ServiceAccount{}, m.createErr
	}
	m.nextID++
	a.ID = fmt.Sprintf("acct-%d", m.nextID)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.accounts[a.ID] = a
	return a, nil
}

func (m *mockAccountStore) Update(_ context.Context, a model.ServiceAccount) (model.ServiceAccount, error) {
	if _, ok := m.accounts[a.ID]; !ok {
		return model.ServiceAccount{}, driven.ErrAccountNotFound
	}
	m.updates++
	a.UpdatedAt = time.Now()
	m.accounts[a.ID] = a
	return a, nil
}

func (m *mockAccountStore) Get(_ context.Context, id string) (model.ServiceAccount, error) {
	a, ok := m.accounts[id]
	if !ok {
		return model.ServiceAccount{}, driven.ErrAccountNotFound
	}
	return a, nil
}

func (m *mockAccountStore) List(_ context.Context) ([]model.ServiceAccount, error) {
	out := make([]model.ServiceAccount, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockAccountStore) Delete(_ context.Context, id string) error {
	if _, ok := m.accounts[id]; !ok {
		return driven.ErrAccountNotFound
	}
	delete(m.accounts, id)
	return nil
}

type mockProjectStore struct {
	projects map[string]model.Project
}

func newMockProjectStore(seed ...model.Project) *mockProjectStore {
	m := &mockProjectStore{projects: make(map[string]model.Project)}
	for _, p := range seed {
		m.projects[p.ID] = p
	}
	return m
}

func (m *mockProjectStore) Add(_ context.Context, p model.Project) (model.Project, error) {
	for _, existing := range m.projects {
		if existing.Path == p.Path {
			return model.Project{}, driven.ErrProjectAlreadyExists
		}
	}
	p.ID = fmt.Sprintf("proj-%d", len(m.projects)+1)
	m.projects[p.ID] = p
	return p, nil
}

func (m *mockProjectStore) Get(_ context.Context, id string) (model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return model.Project{}, driven.ErrProjectNotFound
	}
	return p, nil
}

func (m *mockProjectStore) List(_ context.Context) ([]model.Project, error) {
	out := make([]model.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProjectStore) Remove(_ context.Context, id string) error {
	if _, ok := m.projects[id]; !ok {
		return driven.ErrProjectNotFound
	}
	delete(m.projects, id)
	return nil
}

type mockIntegrationStore struct {
	set     []model.ProjectIntegration
	cleared []model.ServiceType
	setErr  error
}

func (m *mockIntegrationStore) Set(_ context.Context, in model.ProjectIntegration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set = append(m.set, in)
	return nil
}

func (m *mockIntegrationStore) Clear(_ context.Context, _ string, t model.ServiceType) error {
	m.cleared = append(m.cleared, t)
	return nil
}

func (m *mockIntegrationStore) ListByProject(_ context.Context, projectID string) ([]model.ProjectIntegration, error) {
	var out []model.ProjectIntegration
	for _, in := range m.set {
		if in.ProjectID == projectID {
			out = append(out, in)
		}
	}
	return out, nil
}

type mockEnvironmentStore struct {
	envs map[string]model.Environment
}

func newMockEnvironmentStore(seed ...model.Environment) *mockEnvironmentStore {
	m := &mockEnvironmentStore{envs: make(map[string]model.Environment)}
	for _, e := range seed {
		m.envs[e.ID] = e
	}
	return m
}

func (m *mockEnvironmentStore) Create(_ context.Context, e model.Environment) (model.Environment, error) {
	e.ID = fmt.Sprintf("env-%d", len(m.envs)+1)
	m.envs[e.ID] = e
	return e, nil
}

func (m *mockEnvironmentStore) Update(_ context.Context, e model.Environment) (model.Environment, error) {
	if _, ok := m.envs[e.ID]; !ok {
		return model.Environment{}, driven.ErrEnvironmentNotFound
	}
	m.envs[e.ID] = e
	return e, nil
}

func (m *mockEnvironmentStore) Get(_ context.Context, projectID, id string) (model.Environment, error) {
	e, ok := m.envs[id]
	if !ok || e.ProjectID != projectID {
		return model.Environment{}, driven.ErrEnvironmentNotFound
	}
	return e, nil
}

func (m *mockEnvironmentStore) ListByProject(_ context.Context, projectID string) ([]model.Environment, error) {
	out := []model.Environment{}
	for _, e := range m.envs {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockEnvironmentStore) Delete(_ context.Context, projectID, id string) error {
	if e, ok := m.envs[id]; !ok || e.ProjectID != projectID {
		return driven.ErrEnvironmentNotFound
	}
	delete(m.envs, id)
	return nil
}

func (m *mockEnvironmentStore) Activate(_ context.Context, projectID, id string) (model.Environment, error) {
	target, ok := m.envs[id]
	if !ok || target.ProjectID != projectID {
		return model.Environment{}, driven.ErrEnvironmentNotFound
	}
	for k, e := range m.envs {
		if e.ProjectID == projectID {
			e.IsActive = k == id
			m.envs[k] = e
		}
	}
	return m.envs[id], nil
}

type mockTestAccountStore struct {
	accounts map[string]model.TestAccount
}

func newMockTestAccountStore() *mockTestAccountStore {
	return &mockTestAccountStore{accounts: make(map[string]model.TestAccount)}
}

func (m *mockTestAccountStore) Create(_ context.Context, a model.TestAccount) (model.TestAccount, error) {
	a.ID = fmt.Sprintf("ta-%d", len(m.accounts)+1)
	m.accounts[a.ID] = a
	return a, nil
}

func (m *mockTestAccountStore) Update(_ context.Context, a model.TestAccount) (model.TestAccount, error) {
	if _, ok := m.accounts[a.ID]; !ok {
		return model.TestAccount{}, driven.ErrTestAccountNotFound
	}
	m.accounts[a.ID] = a
	return a, nil
}

func (m *mockTestAccountStore) Get(_ context.Context, projectID, id string) (model.TestAccount, error) {
	a, ok := m.accounts[id]
	if !ok || a.ProjectID != projectID {
		return model.TestAccount{}, driven.ErrTestAccountNotFound
	}
	return a, nil
}

func (m *mockTestAccountStore) ListByProject(_ context.Context, projectID string) ([]model.TestAccount, error) {
	out := []model.TestAccount{}
	for _, a := range m.accounts {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockTestAccountStore) Delete(_ context.Context, projectID, id string) error {
	if a, ok := m.accounts[id]; !ok || a.ProjectID != projectID {
		return driven.ErrTestAccountNotFound
	}
	delete(m.accounts, id)
	return nil
}

type mockVerifier struct {
	identity driven.TokenIdentity
	err      error
	tokens   []string
}

func (m *mockVerifier) VerifyToken(_ context.Context, token string) (driven.TokenIdentity, error) {
	m.tokens = append(m.tokens, token)
	return m.identity, m.err
}

// --- Helpers ---

func secrets(kv ...string) model.Credentials {
	c := make(model.Credentials, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		c[kv[i]] = model.NewSecret(kv[i+1])
	}
	return c
}

func envSource(name string, kv ...string) model.RawSource {
	values := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		values[kv[i]] = kv[i+1]
	}
	return model.RawSource{Name: name, Path: "/p/" + name, Kind: model.SourceKindEnv, Values: values}
}
