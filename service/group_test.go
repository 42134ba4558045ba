package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	name     string
	deps     []string
	startErr error
	stopErr  error
	journal  *[]string
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	*f.journal = append(*f.journal, "start "+f.name)
	return nil
}

func (f *fakeService) Stop() error {
	*f.journal = append(*f.journal, "stop "+f.name)
	return f.stopErr
}

func TestGroupStartsInDependencyOrder(t *testing.T) {
	var journal []string
	g := NewGroup(nil)
	require.NoError(t, g.Register(&fakeService{name: "pump", deps: []string{"session"}, journal: &journal}))
	require.NoError(t, g.Register(&fakeService{name: "bell", journal: &journal}))
	require.NoError(t, g.Register(&fakeService{name: "session", journal: &journal}))

	require.NoError(t, g.StartAll(context.Background()))
	assert.Equal(t, []string{"start bell", "start session", "start pump"}, journal)
	assert.Equal(t, []string{"bell", "session", "pump"}, g.Started())

	journal = nil
	g.StopAll()
	assert.Equal(t, []string{"stop pump", "stop session", "stop bell"}, journal)
	assert.Empty(t, g.Started())
}

func TestGroupRollsBackOnFailure(t *testing.T) {
	var journal []string
	g := NewGroup(nil)
	require.NoError(t, g.Register(&fakeService{name: "a", journal: &journal}))
	require.NoError(t, g.Register(&fakeService{name: "b", deps: []string{"a"}, startErr: errors.New("boom"), journal: &journal}))

	err := g.StartAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service b start failed")
	assert.Equal(t, []string{"start a", "stop a"}, journal)
}

func TestGroupRejectsBadGraphs(t *testing.T) {
	var journal []string

	g := NewGroup(nil)
	require.NoError(t, g.Register(&fakeService{name: "a", deps: []string{"missing"}, journal: &journal}))
	assert.Error(t, g.StartAll(context.Background()))

	g = NewGroup(nil)
	require.NoError(t, g.Register(&fakeService{name: "a", deps: []string{"b"}, journal: &journal}))
	require.NoError(t, g.Register(&fakeService{name: "b", deps: []string{"a"}, journal: &journal}))
	assert.ErrorContains(t, g.StartAll(context.Background()), "circular")

	assert.Error(t, g.Register(&fakeService{name: "a", journal: &journal}))
}

func TestGroupLogsStopErrors(t *testing.T) {
	var journal []string
	log, hook := test.NewNullLogger()
	g := NewGroup(log)
	require.NoError(t, g.Register(&fakeService{name: "a", stopErr: errors.New("stuck"), journal: &journal}))

	require.NoError(t, g.StartAll(context.Background()))
	g.StopAll()
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "service stop failed", hook.LastEntry().Message)
}

func TestGroupHonorsCanceledContext(t *testing.T) {
	var journal []string
	g := NewGroup(nil)
	require.NoError(t, g.Register(&fakeService{name: "a", journal: &journal}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.StartAll(ctx), context.Canceled)
	assert.Empty(t, journal)
}
