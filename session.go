// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package main

import (
	"errors"
	"io"
	"math"

	"github.com/inseo-oh/nes65/m6502"
	"github.com/sirupsen/logrus"
)

//==============================================================================
// State
//==============================================================================

// clientContext is one client session. Each session owns its CPU and internal
// RAM, and is served by a single goroutine.
type clientContext struct {
	logger *logrus.Entry
	conn   netConn
	ram    *m6502.RAM
	cpu    *m6502.CPU
	brk    *breakpoint

	traceExec bool
	// First transport error raised while tracing, checked after each step.
	traceErr error
}

func newClientContext(logger *logrus.Entry, conn netConn) *clientContext {
	ctx := &clientContext{
		logger: logger,
		conn:   conn,
		ram:    m6502.NewRAM(),
	}
	ctx.cpu = m6502.NewCPU(&clientBus{ram: ctx.ram, conn: conn})
	ctx.cpu.OnStep = ctx.onStep
	return ctx
}

// serve runs commands until the client says Bye or the connection fails.
func (ctx *clientContext) serve() {
	defer ctx.setBreakpoint(nil)
	for !ctx.conn.isClosed() {
		err := ctx.serveNextCmd()
		if errors.Is(err, io.EOF) {
			ctx.logger.Info("Client went away")
			break
		} else if err != nil {
			ctx.logger.WithError(err).Warn("Closing client connection due to an error")
			break
		}
	}
}

//==============================================================================
// Commands
//==============================================================================

func (ctx *clientContext) serveNextCmd() error {
	hdrByte, err := ctx.conn.inB()
	if err != nil {
		return err
	}
	regs := &ctx.cpu.Regs
	switch netOpbyte(hdrByte) {
	case netOpbyteBye:
		ctx.logger.Trace("Bye")
		ctx.conn.close()
		return nil

	case netOpbyteTraceExecOn:
		ctx.logger.Trace("TraceExecOn")
		ctx.traceExec = true
		return ctx.outAck()

	case netOpbyteTraceExecOff:
		ctx.logger.Trace("TraceExecOff")
		ctx.traceExec = false
		return ctx.outAck()

	case netOpbyteSetBreak:
		expr, err := inS(ctx.conn)
		if err != nil {
			return err
		}
		ctx.logger.Tracef("SetBreak %q", expr)
		if expr == "" {
			ctx.setBreakpoint(nil)
			return ctx.outAck()
		}
		bp, err := newBreakpoint(expr)
		if err != nil {
			ctx.logger.WithError(err).Warn("Rejected breakpoint")
			return ctx.outFail()
		}
		ctx.setBreakpoint(bp)
		return ctx.outAck()

	case netOpbyteRunCycles:
		budget, err := ctx.conn.inW()
		if err != nil {
			return err
		}
		ctx.logger.Tracef("RunCycles %d", budget)
		return ctx.runCycles(budget)

	case netOpbyteTick:
		ctx.logger.Trace("Tick")
		return ctx.tick()

	case netOpbyteWriteA:
		return ctx.writeReg("WriteA", &regs.A)
	case netOpbyteReadA:
		return ctx.readReg("ReadA", regs.A)
	case netOpbyteWriteX:
		return ctx.writeReg("WriteX", &regs.X)
	case netOpbyteReadX:
		return ctx.readReg("ReadX", regs.X)
	case netOpbyteWriteY:
		return ctx.writeReg("WriteY", &regs.Y)
	case netOpbyteReadY:
		return ctx.readReg("ReadY", regs.Y)
	case netOpbyteWriteS:
		return ctx.writeReg("WriteS", &regs.S)
	case netOpbyteReadS:
		return ctx.readReg("ReadS", regs.S)

	case netOpbyteWriteP:
		var p uint8
		if err := ctx.writeReg("WriteP", &p); err != nil {
			return err
		}
		regs.P = m6502.UnpackFlags(p)
		return nil
	case netOpbyteReadP:
		return ctx.readReg("ReadP", regs.P.Pack())

	case netOpbyteWritePc:
		val, err := ctx.conn.inW()
		if err != nil {
			return err
		}
		ctx.logger.Tracef("WritePc %#x", val)
		regs.PC = val
		return ctx.outAck()

	case netOpbyteReadPc:
		ctx.logger.Trace("ReadPc")
		res := newNetAckResponse(2)
		res.appendW(regs.PC)
		return ctx.conn.out(res)

	case netOpbyteWriteMem:
		addr, err := ctx.conn.inW()
		if err != nil {
			return err
		}
		val, err := ctx.conn.inB()
		if err != nil {
			return err
		}
		ctx.logger.Tracef("WriteMem %#04x %#02x", addr, val)
		if err := ctx.ram.Write(addr, val); err != nil {
			ctx.logger.WithError(err).Debug("WriteMem outside internal RAM")
			return ctx.outFail()
		}
		return ctx.outAck()

	case netOpbyteReadMem:
		addr, err := ctx.conn.inW()
		if err != nil {
			return err
		}
		ctx.logger.Tracef("ReadMem %#04x", addr)
		val, err := ctx.ram.Read(addr)
		if err != nil {
			ctx.logger.WithError(err).Debug("ReadMem outside internal RAM")
			return ctx.outFail()
		}
		res := newNetAckResponse(1)
		res.appendB(val)
		return ctx.conn.out(res)

	case netOpbyteReadCycles:
		ctx.logger.Trace("ReadCycles")
		res := newNetAckResponse(4)
		res.appendD(uint32(ctx.cpu.Cycles))
		return ctx.conn.out(res)

	case netOpbyteResetCpu:
		ctx.logger.Trace("Reset")
		ctx.cpu.Reset()
		return ctx.outAck()

	default:
		ctx.logger.Warnf("Unrecognized message type %#x", hdrByte)
		return ctx.outFail()
	}
}

func (ctx *clientContext) writeReg(name string, dst *uint8) error {
	val, err := ctx.conn.inB()
	if err != nil {
		return err
	}
	ctx.logger.Tracef("%s %#x", name, val)
	*dst = val
	return ctx.outAck()
}

func (ctx *clientContext) readReg(name string, val uint8) error {
	ctx.logger.Trace(name)
	res := newNetAckResponse(1)
	res.appendB(val)
	return ctx.conn.out(res)
}

func (ctx *clientContext) outAck() error {
	return ctx.conn.out(newNetAckResponse(0))
}

func (ctx *clientContext) outFail() error {
	return ctx.conn.out(newNetFailResponse(0))
}

func (ctx *clientContext) setBreakpoint(bp *breakpoint) {
	if ctx.brk != nil {
		ctx.brk.close()
	}
	ctx.brk = bp
}

//==============================================================================
// Execution
//==============================================================================

func (ctx *clientContext) tick() error {
	_, cycles, err := ctx.cpu.Step()
	if traceErr := ctx.takeTraceErr(); traceErr != nil {
		return traceErr
	}
	if err != nil {
		kind := netErrorKindOf(err)
		ctx.logger.WithError(err).Warn("Instruction failed")
		res := newNetFailResponse(1)
		res.appendB(uint8(kind))
		if outErr := ctx.conn.out(res); outErr != nil {
			return outErr
		}
		if kind == netErrorOther {
			return err
		}
		return nil
	}
	res := newNetAckResponse(1)
	res.appendB(uint8(cycles))
	return ctx.conn.out(res)
}

func (ctx *clientContext) runCycles(budget uint16) error {
	elapsed, reason, err := ctx.cpu.RunCycles(uint64(budget), ctx.stopCheck)
	if traceErr := ctx.takeTraceErr(); traceErr != nil {
		return traceErr
	}
	var stop netStopReason
	switch reason {
	case m6502.StopBudget:
		stop = netStopBudget
	case m6502.StopBreakpoint:
		stop = netStopBreakpoint
		ctx.logger.WithField("pc", ctx.cpu.Regs.PC).Info("Breakpoint hit")
	case m6502.StopError:
		if errors.Is(err, errBreakpointEval) {
			stop = netStopBreakError
		} else if netErrorKindOf(err) == netErrorOther {
			return err
		} else {
			stop = netStopCpuError
		}
		ctx.logger.WithError(err).Warn("Run stopped")
	}
	res := newNetAckResponse(3)
	res.appendW(uint16(min(elapsed, math.MaxUint16)))
	res.appendB(uint8(stop))
	return ctx.conn.out(res)
}

func (ctx *clientContext) stopCheck(cpu *m6502.CPU) (bool, error) {
	if ctx.traceErr != nil {
		return false, ctx.traceErr
	}
	if ctx.brk == nil {
		return false, nil
	}
	return ctx.brk.hit(cpu)
}

func (ctx *clientContext) onStep(pc uint16, u m6502.Unit, cycles int) {
	if ctx.logger.Logger.IsLevelEnabled(logrus.DebugLevel) {
		ctx.logger.WithFields(logrus.Fields{
			"pc":     pc,
			"opcode": u.Opcode,
			"cycles": cycles,
			"regs":   ctx.cpu.Regs.String(),
		}).Debug(u.String())
	}
	if !ctx.traceExec || ctx.traceErr != nil {
		return
	}
	if err := eventTraceExec(ctx.conn, pc, u.Opcode, u.String()); err != nil {
		ctx.traceErr = err
	}
}

func (ctx *clientContext) takeTraceErr() error {
	err := ctx.traceErr
	ctx.traceErr = nil
	return err
}

func netErrorKindOf(err error) netErrorKind {
	switch {
	case errors.Is(err, m6502.ErrMalformedStream):
		return netErrorMalformed
	case errors.Is(err, m6502.ErrMemoryFault):
		return netErrorMemoryFault
	case errors.Is(err, m6502.ErrUnsupportedOpcode):
		return netErrorUnsupported
	}
	return netErrorOther
}
