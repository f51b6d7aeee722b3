package hookscript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"

	"prism/internal/logging"
)

// EntryPoint is the global function a hook script may define.
const EntryPoint = "main"

// Extension is the file extension of hook scripts.
const Extension = ".lua"

// ErrTimeout is returned when a script exceeds its execution budget.
var ErrTimeout = errors.New("hook script timed out")

// Runner executes per-project hook scripts in a fresh sandboxed Lua state.
// Only the base, table, string, and math libraries are available; file and
// module loading functions are removed.
type Runner struct {
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Runner. A non-positive timeout disables the execution budget.
func New(timeout time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "hookscript"),
	}
}

// Run loads the script at path, then calls main(args) when the script
// defines it. The Lua state is discarded afterwards.
func (r *Runner) Run(ctx context.Context, path string, args map[string]any) (err error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read hook script: %w", err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	L.SetContext(ctx)
	openSafeLibraries(L)
	r.installLog(L, path)

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %v", ErrTimeout, r.timeout, err)
		}
	}()

	chunk, err := L.LoadString(string(source))
	if err != nil {
		return fmt.Errorf("compile %s: %w", path, err)
	}
	L.Push(chunk)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	entry := L.GetGlobal(EntryPoint)
	if entry.Type() != lua.LTFunction {
		r.logger.Debug("hook script has no entry point", logging.String("path", path))
		return nil
	}

	if err := L.CallByParam(lua.P{Fn: entry, NRet: 0, Protect: true}, toLua(L, args)); err != nil {
		return fmt.Errorf("call %s in %s: %w", EntryPoint, path, err)
	}
	return nil
}

func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// installLog exposes log(message) to scripts, routed to the structured logger.
func (r *Runner) installLog(L *lua.LState, path string) {
	logger := r.logger.With(logging.String("script", path))
	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		logger.Info(L.CheckString(1))
		return 0
	}))
}
