package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCondaManager mocks conda.Manager
type MockCondaManager struct {
	mock.Mock
}

func (m *MockCondaManager) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCondaManager) IsBaseActive() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockCondaManager) ActivationPrefix(ctx context.Context, forBase bool) (string, error) {
	args := m.Called(ctx, forBase)
	return args.String(0), args.Error(1)
}

// MockDockerEngine mocks docker.Engine
type MockDockerEngine struct {
	mock.Mock
}

func (m *MockDockerEngine) Exists(ctx context.Context, org, img, tag string) (bool, error) {
	args := m.Called(ctx, org, img, tag)
	return args.Bool(0), args.Error(1)
}

func (m *MockDockerEngine) Build(ctx context.Context, path, org, img, tag string) error {
	args := m.Called(ctx, path, org, img, tag)
	return args.Error(0)
}

// MockRemoteSource mocks remote.Source
type MockRemoteSource struct {
	mock.Mock
}

func (m *MockRemoteSource) FetchFile(ctx context.Context, org, repo, filename, dst string) error {
	args := m.Called(ctx, org, repo, filename, dst)
	return args.Error(0)
}

func (m *MockRemoteSource) Clone(ctx context.Context, org, repo, dst string) error {
	args := m.Called(ctx, org, repo, dst)
	return args.Error(0)
}

// MockSecretsStore mocks secrets.Store
type MockSecretsStore struct {
	mock.Mock
}

func (m *MockSecretsStore) FetchFromRemote(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSecretsStore) MaterializeAsCredentials(dst string) (bool, error) {
	args := m.Called(dst)
	return args.Bool(0), args.Error(1)
}
