// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inseo-oh/nes65/m6502"
	lua "github.com/yuin/gopher-lua"
)

var errBreakpointEval = errors.New("breakpoint evaluation failed")

// breakpointTimeout bounds a single evaluation. Running past it is an
// evaluation error.
var breakpointTimeout = 100 * time.Millisecond

// breakpoint is a Lua expression checked after every instruction of a
// RunCycles command. The expression sees the registers as the globals a, x,
// y, s, p and pc, and the cycle counter as cycles.
//
//	pc == 0xc000 and a ~= 0
type breakpoint struct {
	expr string
	ls   *lua.LState
	fn   *lua.LFunction
}

func newBreakpoint(expr string) (*breakpoint, error) {
	ls := lua.NewState(lua.Options{SkipOpenLibs: true})
	// math only; nothing that reaches outside the VM.
	if err := ls.CallByParam(lua.P{
		Fn:      ls.NewFunction(lua.OpenMath),
		NRet:    0,
		Protect: true,
	}, lua.LString(lua.MathLibName)); err != nil {
		ls.Close()
		return nil, err
	}
	fn, err := ls.LoadString("return " + expr)
	if err != nil {
		ls.Close()
		return nil, fmt.Errorf("compiling breakpoint %q: %w", expr, err)
	}
	return &breakpoint{expr: expr, ls: ls, fn: fn}, nil
}

func (bp *breakpoint) hit(cpu *m6502.CPU) (bool, error) {
	regs := &cpu.Regs
	bp.ls.SetGlobal("a", lua.LNumber(regs.A))
	bp.ls.SetGlobal("x", lua.LNumber(regs.X))
	bp.ls.SetGlobal("y", lua.LNumber(regs.Y))
	bp.ls.SetGlobal("s", lua.LNumber(regs.S))
	bp.ls.SetGlobal("p", lua.LNumber(regs.P.Pack()))
	bp.ls.SetGlobal("pc", lua.LNumber(regs.PC))
	bp.ls.SetGlobal("cycles", lua.LNumber(cpu.Cycles))

	ctx, cancel := context.WithTimeout(context.Background(), breakpointTimeout)
	defer cancel()
	bp.ls.SetContext(ctx)
	defer bp.ls.RemoveContext()

	bp.ls.Push(bp.fn)
	if err := bp.ls.PCall(0, 1, nil); err != nil {
		return false, fmt.Errorf("%w: %q: %v", errBreakpointEval, bp.expr, err)
	}
	ret := bp.ls.Get(-1)
	bp.ls.Pop(1)
	return lua.LVAsBool(ret), nil
}

func (bp *breakpoint) close() {
	bp.ls.Close()
}
