package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Group owns a set of services and drives them in dependency order
type Group struct {
	mu       sync.Mutex
	services map[string]Service
	order    []string // registration order, keeps the sort stable
	started  []string // Services that completed Start(), for rollback
	log      logrus.FieldLogger
}

// NewGroup creates an empty group; nil log uses the standard logger
func NewGroup(log logrus.FieldLogger) *Group {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Group{
		services: make(map[string]Service),
		log:      log,
	}
}

// Register adds a service instance to the group
func (g *Group) Register(svc Service) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	name := svc.Name()
	if _, exists := g.services[name]; exists {
		return fmt.Errorf("service already registered: %s", name)
	}

	g.services[name] = svc
	g.order = append(g.order, name)
	return nil
}

// Get retrieves a service by name
func (g *Group) Get(name string) (Service, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	svc, ok := g.services[name]
	return svc, ok
}

// StartAll starts every service after its dependencies
// On failure, already-started services are stopped in reverse order
func (g *Group) StartAll(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	sorted, err := g.topologicalSort()
	if err != nil {
		return err
	}

	g.started = nil
	for _, name := range sorted {
		if err := ctx.Err(); err != nil {
			g.rollback()
			return err
		}
		if err := g.services[name].Start(ctx); err != nil {
			g.rollback()
			return fmt.Errorf("service %s start failed: %w", name, err)
		}
		g.log.WithField("service", name).Debug("service started")
		g.started = append(g.started, name)
	}
	return nil
}

// StopAll stops started services in reverse start order
// Errors are logged; every service gets Stop called
func (g *Group) StopAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rollback()
}

// rollback stops started services in reverse order; caller holds mu
func (g *Group) rollback() {
	for i := len(g.started) - 1; i >= 0; i-- {
		name := g.started[i]
		if err := g.services[name].Stop(); err != nil {
			g.log.WithError(err).WithField("service", name).Warn("service stop failed")
		}
	}
	g.started = nil
}

// Started returns names of running services in start order
func (g *Group) Started() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.started...)
}

// topologicalSort computes start order using Kahn's algorithm
// Returns error if a dependency is missing or circular
func (g *Group) topologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.services))
	dependents := make(map[string][]string) // dep -> services that depend on it

	for _, name := range g.order {
		inDegree[name] = 0
	}

	for _, name := range g.order {
		for _, dep := range g.services[name].Dependencies() {
			if _, exists := g.services[dep]; !exists {
				return nil, fmt.Errorf("service %s depends on unregistered service: %s", name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var queue []string
	for _, name := range g.order {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	var result []string
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		result = append(result, name)

		for _, dependent := range dependents[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(g.services) {
		return nil, fmt.Errorf("circular dependency detected in services")
	}
	return result, nil
}
