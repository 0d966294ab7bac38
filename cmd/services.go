package cmd

import (
	"fmt"

	"github.com/dt-pm-tools/jsm-panel/internal/actions"
	"github.com/dt-pm-tools/jsm-panel/internal/aggregate"
	"github.com/dt-pm-tools/jsm-panel/internal/handlers"
	"github.com/dt-pm-tools/jsm-panel/internal/jira"
)

// services bundles everything built from appConfig.
type services struct {
	client   *jira.Client
	strategy aggregate.Strategy
	gateway  *actions.Gateway
}

func newServices() (*services, error) {
	if err := requireConfig(); err != nil {
		return nil, err
	}

	client := jira.NewClient(appConfig)
	strategy, err := aggregate.New(appConfig.Panel, client)
	if err != nil {
		return nil, fmt.Errorf("building %s strategy: %w", appConfig.Panel.Strategy, err)
	}

	return &services{
		client:   client,
		strategy: strategy,
		gateway:  actions.NewGateway(client),
	}, nil
}

func (s *services) registry() *handlers.Registry {
	return handlers.NewRegistry(s.strategy, s.gateway)
}
