// -- cmd/scenario.go --
package cmd

import (
	"fmt"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/lancet/internal/config"
	"github.com/xkilldash9x/lancet/internal/dom"
	"github.com/xkilldash9x/lancet/internal/event"
)

// json is the shared jsoniter instance; stdlib-compatible so scenario files
// behave exactly as a user would expect from encoding/json.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Scenario is the JSON description of a simulation: which listeners and
// delegations to install, then which events to run through the engine.
type Scenario struct {
	Listeners   []ListenerSpec   `json:"listeners"`
	Delegations []DelegationSpec `json:"delegations"`
	Steps       []StepSpec       `json:"steps"`
}

// ListenerSpec installs a plain observer on the first element matching
// Target. An empty Target means the document itself.
type ListenerSpec struct {
	Target string `json:"target"`
	Event  string `json:"event"`
}

// DelegationSpec installs a delegated listener rooted at Root, filtered by
// Selector. An empty Root means the document.
type DelegationSpec struct {
	Root     string `json:"root"`
	Event    string `json:"event"`
	Selector string `json:"selector"`
}

// StepSpec is one event to run: action "fire" sends a custom event, action
// "dispatch" synthesizes a native one.
type StepSpec struct {
	Action  string         `json:"action"`
	Target  string         `json:"target"`
	Event   string         `json:"event"`
	Memo    map[string]any `json:"memo,omitempty"`
	Bubbles *bool          `json:"bubbles,omitempty"`
}

// Invocation records one handler call observed while running the scenario.
type Invocation struct {
	Kind  string `json:"kind"` // "observe" or "delegate"
	Node  string `json:"node"`
	Event string `json:"event"`
	Match string `json:"match,omitempty"`
	Memo  any    `json:"memo,omitempty"`
}

// Report is the simulate command's output document.
type Report struct {
	Document       string       `json:"document"`
	Steps          int          `json:"steps"`
	DocumentLoaded bool         `json:"document_loaded"`
	Invocations    []Invocation `json:"invocations"`
}

// LoadScenario reads and decodes a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding scenario %s: %w", path, err)
	}
	return &s, nil
}

// runner wires a scenario into an engine and records every invocation.
type runner struct {
	doc    *dom.Document
	engine *event.Engine
	log    *zap.Logger
	debug  bool

	mu          sync.Mutex
	invocations []Invocation
	delegations []*event.Delegation
}

func newRunner(doc *dom.Document, engineCfg config.EngineConfig, logger *zap.Logger) *runner {
	return &runner{
		doc: doc,
		engine: event.NewEngine(doc.Node(), event.Options{
			Logger:              logger,
			MaxListenersWarning: engineCfg.MaxListenersWarning,
		}),
		log:   logger.Named("simulate"),
		debug: engineCfg.DebugDispatch,
	}
}

func (r *runner) record(inv Invocation) {
	r.mu.Lock()
	r.invocations = append(r.invocations, inv)
	r.mu.Unlock()
	if r.debug {
		r.log.Debug("handler invoked",
			zap.String("kind", inv.Kind),
			zap.String("event", inv.Event),
			zap.String("node", inv.Node))
	}
}

// resolve maps a scenario selector to a node; empty means the document.
func (r *runner) resolve(selector string) (*html.Node, error) {
	if selector == "" {
		return r.engine.Document(), nil
	}
	n, err := r.doc.QuerySelector(selector)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	return n, nil
}

// install registers the scenario's listeners and delegations.
func (r *runner) install(s *Scenario) error {
	for _, spec := range s.Listeners {
		node, err := r.resolve(spec.Target)
		if err != nil {
			return fmt.Errorf("listener for %q: %w", spec.Event, err)
		}
		eventName := spec.Event
		r.engine.Observe(node, eventName, event.NewHandler(func(n *html.Node, ev *event.Event) {
			r.record(Invocation{
				Kind:  "observe",
				Node:  dom.NodePath(n),
				Event: ev.Name(),
				Memo:  ev.Memo,
			})
		}))
	}

	for _, spec := range s.Delegations {
		root, err := r.resolve(spec.Root)
		if err != nil {
			return fmt.Errorf("delegation for %q: %w", spec.Event, err)
		}
		d, err := r.engine.On(root, spec.Event, spec.Selector, func(root *html.Node, ev *event.Event, match *html.Node) {
			r.record(Invocation{
				Kind:  "delegate",
				Node:  dom.NodePath(root),
				Event: ev.Name(),
				Match: dom.NodePath(match),
				Memo:  ev.Memo,
			})
		})
		if err != nil {
			return fmt.Errorf("delegation for %q: %w", spec.Event, err)
		}
		r.delegations = append(r.delegations, d)
	}
	return nil
}

// step executes one scenario step.
func (r *runner) step(spec StepSpec) error {
	node, err := r.resolve(spec.Target)
	if err != nil {
		return fmt.Errorf("step %q: %w", spec.Event, err)
	}
	bubbles := true
	if spec.Bubbles != nil {
		bubbles = *spec.Bubbles
	}

	switch spec.Action {
	case "fire", "":
		if _, err := r.engine.Fire(node, spec.Event, anyMemo(spec.Memo), bubbles); err != nil {
			return err
		}
	case "dispatch":
		r.engine.DispatchNative(node, spec.Event, bubbles)
	default:
		return fmt.Errorf("unknown step action %q", spec.Action)
	}
	return nil
}

func anyMemo(memo map[string]any) any {
	if memo == nil {
		return nil
	}
	return memo
}

// run executes the scenario's steps, optionally replaying them from several
// workers to stress the engine's locking.
func (r *runner) run(s *Scenario, workers int) error {
	if workers <= 1 {
		for _, spec := range s.Steps {
			if err := r.step(spec); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for _, spec := range s.Steps {
				if err := r.step(spec); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// teardown stops every delegation the scenario installed.
func (r *runner) teardown() {
	for _, d := range r.delegations {
		d.Stop()
	}
}

func (r *runner) report(documentPath string, steps int) Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Report{
		Document:       documentPath,
		Steps:          steps,
		DocumentLoaded: r.engine.DocumentLoaded(),
		Invocations:    append([]Invocation(nil), r.invocations...),
	}
}
