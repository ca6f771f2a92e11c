// Package automation drives a parameter store from a Lua script.
//
// A script defines a global function automate(t) that receives the
// playback position in seconds and returns a table mapping parameter ids
// to values:
//
//	function automate(t)
//	  return { mix = 50 + 50 * math.sin(t), tempoSync = t > 4, delayNote = "1/8 dot" }
//	end
//
// Numbers set plain values, booleans switch bool parameters and strings
// go through the parameter's text parser. Scripts run with the base,
// table, string and math libraries only.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/plugin/params"
)

// EntryPoint is the global function a script must define.
const EntryPoint = "automate"

// ErrNoEntryPoint is returned when a script does not define automate.
var ErrNoEntryPoint = errors.New("automation: script does not define function " + EntryPoint)

// Script is a loaded automation script. It is not safe for concurrent use;
// drive it from one control goroutine.
type Script struct {
	state  *lua.LState
	fn     *lua.LFunction
	store  *params.Store
	logger *slog.Logger
}

// Load compiles src and resolves its entry point. The script sees the
// globals sample_rate and parameters (a list of parameter ids).
func Load(src string, store *params.Store, sampleRate float64, logger *slog.Logger) (*Script, error) {
	if store == nil {
		return nil, errors.New("automation: nil store")
	}
	if logger == nil {
		logger = core.DiscardLogger()
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	if err := openLibs(L); err != nil {
		L.Close()
		return nil, err
	}

	L.SetGlobal("sample_rate", lua.LNumber(sampleRate))
	ids := L.NewTable()
	for _, p := range store.Params() {
		ids.Append(lua.LString(p.ID()))
	}
	L.SetGlobal("parameters", ids)

	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("automation load: %w", err)
	}
	fn, ok := L.GetGlobal(EntryPoint).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, ErrNoEntryPoint
	}

	return &Script{state: L, fn: fn, store: store, logger: logger}, nil
}

// LoadFile reads and loads the script at path.
func LoadFile(path string, store *params.Store, sampleRate float64, logger *slog.Logger) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("automation: %w", err)
	}
	return Load(string(src), store, sampleRate, logger)
}

func openLibs(L *lua.LState) error {
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			return fmt.Errorf("automation open %s: %w", lib.name, err)
		}
	}
	// Base pulls in file loaders; scripts get no file access.
	for _, name := range []string{"dofile", "loadfile", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return nil
}

// Apply calls automate(t) and writes the returned values to the store.
// ctx bounds the script's run time. Ids and value types are checked
// before any value is applied.
func (s *Script) Apply(ctx context.Context, t float64) error {
	L := s.state
	L.SetContext(ctx)
	defer L.RemoveContext()

	if err := L.CallByParam(lua.P{Fn: s.fn, NRet: 1, Protect: true}, lua.LNumber(t)); err != nil {
		return fmt.Errorf("automation at %.3fs: %w", t, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return fmt.Errorf("automation at %.3fs: %s returned %s, want table", t, EntryPoint, ret.Type())
	}

	type assignment struct {
		p     params.Parameter
		value lua.LValue
	}
	var (
		pending []assignment
		err     error
	)
	tbl.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		key, isString := k.(lua.LString)
		if !isString {
			err = fmt.Errorf("automation at %.3fs: key %s is not a parameter id", t, k.String())
			return
		}
		p, lookupErr := s.store.Lookup(params.ID(key))
		if lookupErr != nil {
			err = fmt.Errorf("automation at %.3fs: %w", t, lookupErr)
			return
		}
		switch v.(type) {
		case lua.LNumber, lua.LBool, lua.LString:
			pending = append(pending, assignment{p: p, value: v})
		default:
			err = fmt.Errorf("automation at %.3fs: %s value has type %s", t, key, v.Type())
		}
	})
	if err != nil {
		return err
	}

	for _, a := range pending {
		switch v := a.value.(type) {
		case lua.LNumber:
			a.p.SetValue(float64(v))
		case lua.LBool:
			if v {
				a.p.SetValue(1)
			} else {
				a.p.SetValue(0)
			}
		case lua.LString:
			if err := a.p.SetText(string(v)); err != nil {
				return fmt.Errorf("automation at %.3fs: %w", t, err)
			}
		}
		s.logger.Debug("automation", "t", t, "param", a.p.ID(), "text", a.p.Text())
	}
	return nil
}

// Close releases the interpreter.
func (s *Script) Close() {
	s.state.Close()
}
