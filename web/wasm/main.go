//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cwbudde/algo-delay/internal/webdemo"
)

var (
	engine *webdemo.Engine
	funcs  []js.Func

	scratchL, scratchR []float32
)

func main() {
	api := js.Global().Get("Object").New()
	api.Set("init", export(func(args []js.Value) any {
		sr := 48000.0
		if len(args) > 0 {
			sr = args[0].Float()
		}
		e, err := webdemo.NewEngine(sr)
		if err != nil {
			return err.Error()
		}
		engine = e
		return js.Null()
	}))

	api.Set("setTransport", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		engine.SetTransport(args[0].Float())
		return js.Null()
	}))

	api.Set("setParam", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		var err error
		if args[1].Type() == js.TypeNumber {
			err = engine.SetNormalized(args[0].String(), args[1].Float())
		} else {
			err = engine.SetParam(args[0].String(), args[1].String())
		}
		if err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("params", export(func(args []js.Value) any {
		arr := js.Global().Get("Array").New()
		if engine == nil {
			return arr
		}
		for i, p := range engine.Params() {
			item := js.Global().Get("Object").New()
			item.Set("id", p.ID)
			item.Set("name", p.Name)
			item.Set("kind", p.Kind)
			item.Set("text", p.Text)
			item.Set("value", p.Normalized)
			if p.Choices != nil {
				choices := js.Global().Get("Array").New(len(p.Choices))
				for j, c := range p.Choices {
					choices.SetIndex(j, c)
				}
				item.Set("choices", choices)
			}
			arr.SetIndex(i, item)
		}
		return arr
	}))

	api.Set("reset", export(func(args []js.Value) any {
		if engine != nil {
			engine.Reset()
		}
		return js.Null()
	}))

	// process(left, right) runs the delay over two Float32Arrays in place.
	api.Set("process", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		n := min(args[0].Length(), args[1].Length())
		if cap(scratchL) < n {
			scratchL = make([]float32, n)
			scratchR = make([]float32, n)
		}
		l, r := scratchL[:n], scratchR[:n]
		for i := 0; i < n; i++ {
			l[i] = float32(args[0].Index(i).Float())
			r[i] = float32(args[1].Index(i).Float())
		}
		engine.Process(l, r)
		for i := 0; i < n; i++ {
			args[0].SetIndex(i, l[i])
			args[1].SetIndex(i, r[i])
		}
		return js.Null()
	}))

	api.Set("levels", export(func(args []js.Value) any {
		arr := js.Global().Get("Float32Array").New(2)
		if engine == nil {
			return arr
		}
		l, r := engine.Levels()
		arr.SetIndex(0, l)
		arr.SetIndex(1, r)
		return arr
	}))

	api.Set("responseCurve", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		input := args[0]
		freqs := make([]float64, input.Length())
		for i := 0; i < input.Length(); i++ {
			freqs[i] = input.Index(i).Float()
		}
		resp, err := engine.ResponseCurveDB(freqs)
		if err != nil {
			return err.Error()
		}
		arr := js.Global().Get("Float32Array").New(len(resp))
		for i := range resp {
			arr.SetIndex(i, resp[i])
		}
		return arr
	}))

	api.Set("state", export(func(args []js.Value) any {
		if engine == nil {
			return js.Null()
		}
		data, err := engine.State()
		if err != nil {
			return js.Null()
		}
		return string(data)
	}))

	api.Set("loadState", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		if err := engine.LoadState([]byte(args[0].String())); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	js.Global().Set("AlgoDelayDemo", api)
	select {}
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
