package backend

import (
	"slices"
	"sort"

	"github.com/quatton/qjob/pkg/qerr"
	"github.com/quatton/qjob/pkg/qexec"
)

// Scheduler names a supported scheduler family.
type Scheduler string

const (
	SchedulerSlurm Scheduler = "slurm"
)

const (
	ToolDashboard = "dashboard_cli"
	ToolSacct     = "sacct"
)

// Factory builds the adapter for one tool.
type Factory func(exec qexec.Executor) Adapter

var factories = map[string]Factory{
	ToolDashboard: func(exec qexec.Executor) Adapter { return NewDashboard(exec) },
	ToolSacct:     func(exec qexec.Executor) Adapter { return NewSacct(exec) },
}

// priorities lists, per scheduler, the tools to try in order: fastest first.
var priorities = map[Scheduler][]string{
	SchedulerSlurm: {ToolDashboard, ToolSacct},
}

// Schedulers returns the supported scheduler names, sorted.
func Schedulers() []string {
	names := make([]string, 0, len(priorities))
	for s := range priorities {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}

// ParseScheduler validates name against the supported set.
func ParseScheduler(name string) (Scheduler, error) {
	s := Scheduler(name)
	if _, ok := priorities[s]; !ok {
		return "", qerr.Errorf(qerr.CodeUnsupportedScheduler, "unsupported scheduler %q (supported: %v)", name, Schedulers())
	}
	return s, nil
}

// Priorities returns the default tool preference list for s.
func Priorities(s Scheduler) ([]string, error) {
	tools, ok := priorities[s]
	if !ok {
		return nil, qerr.Errorf(qerr.CodeUnsupportedScheduler, "unsupported scheduler %q (supported: %v)", s, Schedulers())
	}
	return slices.Clone(tools), nil
}

// ResolvePriorities applies a configured preference list for s. Every configured tool must be
// one the scheduler supports; an empty override keeps the default order.
func ResolvePriorities(s Scheduler, override []string) ([]string, error) {
	defaults, err := Priorities(s)
	if err != nil {
		return nil, err
	}
	if len(override) == 0 {
		return defaults, nil
	}
	tools := make([]string, 0, len(override))
	for _, tool := range override {
		if !slices.Contains(defaults, tool) {
			return nil, qerr.Errorf(qerr.CodeConfig, "tool %q is not a %s backend (known: %v)", tool, s, defaults)
		}
		if !slices.Contains(tools, tool) {
			tools = append(tools, tool)
		}
	}
	return tools, nil
}

// New builds the adapter for tool.
func New(tool string, exec qexec.Executor) (Adapter, error) {
	factory, ok := factories[tool]
	if !ok {
		return nil, qerr.Errorf(qerr.CodeConfig, "no adapter for tool %q", tool)
	}
	return factory(exec), nil
}
