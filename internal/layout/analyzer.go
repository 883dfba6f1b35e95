package layout

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/idescope/idescope/internal/faults"
	"github.com/idescope/idescope/internal/logger"
	"github.com/idescope/idescope/internal/window"
)

// DefaultCacheTTL is how long an analyzed layout stays fresh.
const DefaultCacheTTL = 30 * time.Second

// Enumerator yields window snapshots. *window.Enumerator satisfies it.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]window.Window, error)
}

// Ownership gates windows by owning process. *window.Validator satisfies it.
type Ownership interface {
	Validate(w window.Window) bool
}

// ActiveSource reports the focused top-level window.
type ActiveSource interface {
	ActiveWindow() (window.Handle, error)
}

// Layout is one immutable analysis result.
type Layout struct {
	Main     *window.Window                   `json:"main,omitempty"`
	Windows  []window.Window                  `json:"windows"`
	ByRole   map[window.Role][]window.Window  `json:"by_role"`
	Active   *window.Window                   `json:"active,omitempty"`
	Docking  Docking                          `json:"docking"`
	Analyzed time.Time                        `json:"analyzed"`
}

type cacheEntry struct {
	layout *Layout
	at     time.Time
}

// Analyzer runs the discovery pipeline and infers the docking layout.
// Results are cached per owning process id; concurrent cache misses share
// one in-flight analysis instead of racing duplicate enumerations.
type Analyzer struct {
	enum   Enumerator
	owner  Ownership
	active ActiveSource
	ttl    time.Duration

	mu    sync.Mutex
	cache map[int]cacheEntry
	group singleflight.Group
}

// NewAnalyzer creates an analyzer. A ttl of 0 selects the default; a
// negative ttl disables caching.
func NewAnalyzer(enum Enumerator, owner Ownership, active ActiveSource, ttl time.Duration) *Analyzer {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &Analyzer{
		enum:   enum,
		owner:  owner,
		active: active,
		ttl:    ttl,
		cache:  make(map[int]cacheEntry),
	}
}

// Analyze returns the current layout, serving a cached one when fresh.
// A partial enumeration (deadline hit) still produces a layout from what
// was collected.
func (a *Analyzer) Analyze(ctx context.Context) (*Layout, error) {
	if a.ttl > 0 {
		a.mu.Lock()
		for _, entry := range a.cache {
			if time.Since(entry.at) < a.ttl {
				a.mu.Unlock()
				return entry.layout, nil
			}
		}
		a.mu.Unlock()
	}

	v, err, _ := a.group.Do("analyze", func() (interface{}, error) {
		return a.analyze(ctx)
	})
	if v == nil {
		return nil, err
	}
	return v.(*Layout), err
}

// Invalidate drops every cached layout.
func (a *Analyzer) Invalidate() {
	a.mu.Lock()
	a.cache = make(map[int]cacheEntry)
	a.mu.Unlock()
}

func (a *Analyzer) analyze(ctx context.Context) (*Layout, error) {
	log := logger.WithComponent("layout-analyzer")

	windows, err := a.enum.Enumerate(ctx)
	if err != nil && faults.Kind(err) != faults.ErrTimeout {
		return nil, err
	}
	if err != nil {
		log.Warn().Err(err).Int("partial", len(windows)).Msg("Analyzing partial enumeration")
	}

	// Filter by ownership, then classify. Each surviving window is a
	// fresh copy with its role assigned; the enumeration snapshot is not
	// mutated.
	surviving := make([]window.Window, 0, len(windows))
	for _, w := range windows {
		if !a.owner.Validate(w) {
			continue
		}
		w.Role = window.Classify(w)
		w.Children = classifyChildren(w.Children)
		surviving = append(surviving, w)
	}

	layout := &Layout{
		Windows:  surviving,
		ByRole:   make(map[window.Role][]window.Window),
		Analyzed: time.Now(),
	}

	for i := range surviving {
		w := surviving[i]
		layout.ByRole[w.Role] = append(layout.ByRole[w.Role], w)
		if layout.Main == nil && w.Role == window.RoleMainWindow {
			main := w
			layout.Main = &main
		}
	}

	layout.Active = a.selectActive(surviving, layout.Main)
	layout.Docking = InferDocking(layout.Main, surviving)

	pid := 0
	if layout.Main != nil {
		pid = layout.Main.PID
	}
	if a.ttl > 0 {
		a.mu.Lock()
		a.cache[pid] = cacheEntry{layout: layout, at: time.Now()}
		a.mu.Unlock()
	}

	log.Debug().
		Int("windows", len(surviving)).
		Int("roles", len(layout.ByRole)).
		Bool("has_main", layout.Main != nil).
		Msg("Layout analyzed")
	return layout, nil
}

// selectActive picks the focused window when it belongs to the analyzed
// set, else the main window.
func (a *Analyzer) selectActive(windows []window.Window, main *window.Window) *window.Window {
	focused, err := a.active.ActiveWindow()
	if err == nil {
		for i := range windows {
			if windows[i].Handle == focused {
				active := windows[i]
				active.Active = true
				return &active
			}
		}
	}
	if main != nil {
		active := *main
		active.Active = true
		return &active
	}
	return nil
}

func classifyChildren(children []window.Window) []window.Window {
	if len(children) == 0 {
		return nil
	}
	out := make([]window.Window, len(children))
	for i, c := range children {
		c.Role = window.Classify(c)
		c.Children = classifyChildren(c.Children)
		out[i] = c
	}
	return out
}
