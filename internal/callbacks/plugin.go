package callbacks

import (
	"fmt"
	"sync"
)

// Args carries named event arguments.
type Args map[string]any

// Func handles one event. The returned value is collected into the dispatch
// result list.
type Func func(Args) (any, error)

// Plugin is any object that can sit in a dispatch pool.
type Plugin interface {
	Name() string
}

// Hooker is the optional capability a plugin implements to receive events.
// Hook reports whether the plugin handles event and returns the handler.
type Hooker interface {
	Hook(event string) (Func, bool)
}

// Hooks is a map-backed Hooker.
type Hooks map[string]Func

func (h Hooks) Hook(event string) (Func, bool) {
	fn, ok := h[event]
	return fn, ok && fn != nil
}

// HookPlugin is a named plugin whose handlers live in a Hooks map.
type HookPlugin struct {
	name string
	Hooks
}

// NewPlugin builds a plugin named name that handles the events in hooks.
func NewPlugin(name string, hooks Hooks) *HookPlugin {
	if hooks == nil {
		hooks = Hooks{}
	}
	return &HookPlugin{name: name, Hooks: hooks}
}

func (p *HookPlugin) Name() string { return p.name }

// Pool identifies one category of dispatch targets.
type Pool int

const (
	PoolCurrentApp Pool = iota
	PoolUnloadedApps
	PoolCustom
	PoolProjectManagers
	PoolRenderFarmManagers
)

// dispatchOrder is the fixed order pools are visited in.
var dispatchOrder = []Pool{
	PoolCurrentApp,
	PoolUnloadedApps,
	PoolCustom,
	PoolProjectManagers,
	PoolRenderFarmManagers,
}

func (p Pool) String() string {
	switch p {
	case PoolCurrentApp:
		return "curApp"
	case PoolUnloadedApps:
		return "unloadedApps"
	case PoolCustom:
		return "custom"
	case PoolProjectManagers:
		return "prjManagers"
	case PoolRenderFarmManagers:
		return "rfManagers"
	}
	return fmt.Sprintf("pool(%d)", int(p))
}

// ParsePool converts a pool name as printed by String back into a Pool.
func ParsePool(name string) (Pool, error) {
	for _, p := range dispatchOrder {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown callback pool %q", name)
}

// Pools resolves the members of each pool at dispatch time.
type Pools interface {
	Members(pool Pool) []Plugin
}

// PluginSet is the in-memory Pools implementation. Members keep insertion
// order. The current-app pool holds at most one plugin.
type PluginSet struct {
	mu       sync.RWMutex
	current  Plugin
	pools    map[Pool][]Plugin
	disabled map[string]bool
}

// NewPluginSet creates an empty set.
func NewPluginSet() *PluginSet {
	return &PluginSet{
		pools:    make(map[Pool][]Plugin),
		disabled: make(map[string]bool),
	}
}

// SetCurrentApp installs the integration plugin of the running host
// application. nil clears it.
func (s *PluginSet) SetCurrentApp(p Plugin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = p
}

// Add appends p to pool. Names are unique per pool.
func (s *PluginSet) Add(pool Pool, p Plugin) error {
	if pool == PoolCurrentApp {
		s.SetCurrentApp(p)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.pools[pool] {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin %q already registered in %s", p.Name(), pool)
		}
	}
	s.pools[pool] = append(s.pools[pool], p)
	return nil
}

// Remove drops the plugin called name from pool.
func (s *PluginSet) Remove(pool Pool, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pool == PoolCurrentApp {
		if s.current != nil && s.current.Name() == name {
			s.current = nil
			return true
		}
		return false
	}
	members := s.pools[pool]
	for i, p := range members {
		if p.Name() == name {
			s.pools[pool] = append(members[:i:i], members[i+1:]...)
			return true
		}
	}
	return false
}

// Disable stops custom plugins with the given names from receiving events.
func (s *PluginSet) Disable(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		s.disabled[name] = true
	}
}

// Members returns a snapshot of pool's plugins.
func (s *PluginSet) Members(pool Pool) []Plugin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pool == PoolCurrentApp {
		if s.current == nil {
			return nil
		}
		return []Plugin{s.current}
	}
	members := make([]Plugin, 0, len(s.pools[pool]))
	for _, p := range s.pools[pool] {
		if pool == PoolCustom && s.disabled[p.Name()] {
			continue
		}
		members = append(members, p)
	}
	return members
}
