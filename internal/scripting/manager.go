package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/aspectsofpower/ruleset/internal/game/combat"
	"github.com/aspectsofpower/ruleset/internal/game/dice"
	"github.com/aspectsofpower/ruleset/internal/game/stat"
)

// Manager owns one sandboxed LState holding the loaded homebrew scripts.
//
// Scripts register to-hit formulas per weapon kind via rules.register_to_hit;
// ToHitBase consults them. The mutex serializes VM access: an LState is
// single-threaded.
type Manager struct {
	mu       sync.Mutex
	state    *lua.LState
	cancel   func()
	formulas map[string]*lua.LFunction
	roller   *dice.Roller
	logger   *zap.Logger
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: roller and logger must be non-nil.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	return &Manager{
		formulas: make(map[string]*lua.LFunction),
		roller:   roller,
		logger:   logger,
	}
}

// Load creates a sandboxed VM, registers the dice and rules modules, then
// executes every *.lua file in scriptDir in lexicographic order. A previous
// VM and its registered formulas are replaced wholesale.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: the VM is loaded, or the previous state survives untouched.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	staged := make(map[string]*lua.LFunction)
	m.registerModules(L, staged)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.state != nil {
		if m.cancel != nil {
			m.cancel()
		}
		m.state.Close()
	}
	m.state = L
	m.cancel = cancel
	m.formulas = staged
	m.mu.Unlock()
	return nil
}

// Close releases the VM. The Manager is unusable afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		if m.cancel != nil {
			m.cancel()
		}
		m.state.Close()
		m.state = nil
	}
	m.formulas = make(map[string]*lua.LFunction)
}

// ToHitBase evaluates the registered to-hit formula for kind against the
// attacker's ability modifiers. The second return is false when no formula is
// registered for kind. Lua runtime errors are logged at Warn level and
// reported as not-registered, so the caller falls back to the built-in table.
//
// Postcondition: never panics on script misbehavior.
func (m *Manager) ToHitBase(kind string, mods map[stat.Key]int) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn, ok := m.formulas[kind]
	if !ok || m.state == nil {
		return 0, false
	}

	tbl := m.state.NewTable()
	for k, v := range mods {
		m.state.SetField(tbl, string(k), lua.LNumber(v))
	}

	if err := m.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, tbl); err != nil {
		m.logger.Warn("scripting: to-hit formula failed",
			zap.String("kind", kind),
			zap.Error(err),
		)
		return 0, false
	}

	ret := m.state.Get(-1)
	m.state.Pop(1)
	num, isNum := ret.(lua.LNumber)
	if !isNum {
		m.logger.Warn("scripting: to-hit formula returned non-number",
			zap.String("kind", kind),
			zap.String("type", ret.Type().String()),
		)
		return 0, false
	}
	return float64(num), true
}

// Override adapts the Manager into the combat resolver's to-hit hook, so
// loaded scripts take precedence over the built-in dispatch table wherever
// the caller passes the hook through.
func (m *Manager) Override() combat.ToHitOverride {
	return func(kind combat.WeaponKind, mods map[stat.Key]int) (float64, bool) {
		return m.ToHitBase(string(kind), mods)
	}
}

// Kinds returns the weapon kinds with a registered formula, sorted.
func (m *Manager) Kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]string, 0, len(m.formulas))
	for k := range m.formulas {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
