package particle

import (
	"errors"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// ScriptPrefix marks a value string as a Lua expression in t.
const ScriptPrefix = "expr:"

// scriptSteps is the number of Simpson steps used to integrate script curves.
const scriptSteps = 32

var errScriptClosed = errors.New("script curve closed")

// ScriptCurve evaluates a Lua expression of the normalized lifetime t.
//
// The expression body is wrapped as `return function(t) return <expr> end`
// and compiled once; each GetValue call invokes the compiled function.
// A ScriptCurve owns a Lua VM and is single-goroutine like the rest of the
// simulation. Call Close when the curve is no longer used.
type ScriptCurve struct {
	src string
	vm  *lua.LState
	fn  lua.LValue
}

// NewScriptCurve compiles expr into a curve.
func NewScriptCurve(expr string) (*ScriptCurve, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidValue)
	}

	vm := lua.NewState(lua.Options{SkipOpenLibs: true})
	// math is the only library an expression needs
	if err := vm.CallByParam(lua.P{
		Fn:      vm.NewFunction(lua.OpenMath),
		NRet:    0,
		Protect: true,
	}); err != nil {
		vm.Close()
		return nil, fmt.Errorf("open lua math: %w", err)
	}

	chunk := "return function(t) return " + expr + " end"
	if err := vm.DoString(chunk); err != nil {
		vm.Close()
		return nil, fmt.Errorf("%w: compile %q: %v", ErrInvalidValue, expr, err)
	}
	fn := vm.Get(-1)
	vm.Pop(1)
	if fn.Type() != lua.LTFunction {
		vm.Close()
		return nil, fmt.Errorf("%w: %q did not compile to a function", ErrInvalidValue, expr)
	}

	c := &ScriptCurve{src: expr, vm: vm, fn: fn}
	// surface runtime errors (nil arithmetic, bad calls) at load time
	if _, err := c.call(0.5); err != nil {
		vm.Close()
		return nil, fmt.Errorf("%w: evaluate %q: %v", ErrInvalidValue, expr, err)
	}
	return c, nil
}

// Source returns the expression the curve was compiled from.
func (c *ScriptCurve) Source() string {
	return c.src
}

func (c *ScriptCurve) call(t float64) (float64, error) {
	if c.vm == nil {
		return 0, errScriptClosed
	}
	if err := c.vm.CallByParam(lua.P{
		Fn:      c.fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(t)); err != nil {
		return 0, err
	}
	ret := c.vm.Get(-1)
	c.vm.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("expression returned %s, want number", ret.Type())
	}
	return float64(n), nil
}

// GetValue implements ValueGetter. Runtime errors and closed curves
// evaluate to 0.
func (c *ScriptCurve) GetValue(t float64) float64 {
	v, err := c.call(clamp01(t))
	if err != nil {
		return 0
	}
	return v
}

// GetIntegrateValue implements ValueGetter.
func (c *ScriptCurve) GetIntegrateValue(from, to, duration float64) float64 {
	return integrateNumeric(c.GetValue, from, to, duration, scriptSteps)
}

// Close releases the Lua VM.
func (c *ScriptCurve) Close() {
	if c.vm != nil {
		c.vm.Close()
		c.vm = nil
	}
}
