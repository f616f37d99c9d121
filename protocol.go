// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package main

import (
	"encoding/binary"
	"fmt"
)

// Every message(request or response) starts with header byte telling what kind of message it's sending
// Note that commands always come from the client
type netOpbyte uint8

const (
	// 0x - Response type.
	// Every response starts with this byte,
	netOpbyteAck  = netOpbyte(0x00) // Acknowledged
	netOpbyteFail = netOpbyte(0x01) // Failed

	// 1x - General commands
	netOpbyteBye          = netOpbyte(0x10) // Close the connection
	netOpbyteTraceExecOn  = netOpbyte(0x11) // Trace Execution - Enable
	netOpbyteTraceExecOff = netOpbyte(0x12) // Trace Execution - Disable
	netOpbyteSetBreak     = netOpbyte(0x13) // Set (or clear) the breakpoint expression
	netOpbyteRunCycles    = netOpbyte(0x1e) // Run the CPU for a number of cycles
	netOpbyteTick         = netOpbyte(0x1f) // Run the CPU for one instruction

	// 2x - CPU state manipulation commands
	netOpbyteWriteA     = netOpbyte(0x20) // Accumulator write
	netOpbyteReadA      = netOpbyte(0x21) // Accumulator read
	netOpbyteWriteX     = netOpbyte(0x22) // X Register write
	netOpbyteReadX      = netOpbyte(0x23) // X Register read
	netOpbyteWriteY     = netOpbyte(0x24) // Y Register write
	netOpbyteReadY      = netOpbyte(0x25) // Y Register read
	netOpbyteWriteS     = netOpbyte(0x26) // Stack pointer write
	netOpbyteReadS      = netOpbyte(0x27) // Stack pointer read
	netOpbyteWriteP     = netOpbyte(0x28) // Processor status write
	netOpbyteReadP      = netOpbyte(0x29) // Processor status read
	netOpbyteWritePc    = netOpbyte(0x2a) // PC write
	netOpbyteReadPc     = netOpbyte(0x2b) // PC read
	netOpbyteWriteMem   = netOpbyte(0x2c) // Internal RAM write
	netOpbyteReadMem    = netOpbyte(0x2d) // Internal RAM read
	netOpbyteReadCycles = netOpbyte(0x2e) // Cycle counter read
	netOpbyteResetCpu   = netOpbyte(0x2f) // Power-on reset

	// 8x - Server events
	// When client receives one of these, it should respond to it accordingly.
	netOpbyteEventReadBus   = netOpbyte(0x80) // Read from address
	netOpbyteEventWriteBus  = netOpbyte(0x81) // Write to address
	netOpbyteEventTraceExec = netOpbyte(0x82) // Event for Trace Execution
)

// Sent after FAIL when Tick could not run the instruction.
type netErrorKind uint8

const (
	netErrorMalformed   = netErrorKind(1)
	netErrorMemoryFault = netErrorKind(2)
	netErrorUnsupported = netErrorKind(3)
	netErrorOther       = netErrorKind(4)
)

// Sent after ACK + cycle count in the RunCycles response.
type netStopReason uint8

const (
	netStopBudget     = netStopReason(0)
	netStopBreakpoint = netStopReason(1)
	netStopCpuError   = netStopReason(2)
	netStopBreakError = netStopReason(3)
)

//==============================================================================
// Send buffer
//==============================================================================

type sendBuf struct {
	buf  []uint8
	dest []uint8
}

func newNetEvent(typ netOpbyte, restLen int) sendBuf {
	buf := make([]uint8, restLen+1)
	buf[0] = uint8(typ)
	return sendBuf{buf: buf, dest: buf[1:]}
}
func newNetAckResponse(restLen int) sendBuf {
	return newNetEvent(netOpbyteAck, restLen)
}
func newNetFailResponse(restLen int) sendBuf {
	return newNetEvent(netOpbyteFail, restLen)
}

func (b *sendBuf) appendB(v uint8) {
	b.dest[0] = v
	b.dest = b.dest[1:]
}
func (b *sendBuf) appendW(v uint16) {
	binary.BigEndian.PutUint16(b.dest[0:2], v)
	b.dest = b.dest[2:]
}
func (b *sendBuf) appendD(v uint32) {
	binary.BigEndian.PutUint32(b.dest[0:4], v)
	b.dest = b.dest[4:]
}
func (b *sendBuf) appendS(s string) {
	if 255 < len(s) {
		panic("string cannot be sent because it's too long(max: 255 bytes)")
	}
	b.appendB(byte(len(s)))
	copy(b.dest, s)
	b.dest = b.dest[len(s):]
}

// finish returns the encoded message.
func (b *sendBuf) finish() []uint8 {
	// Make sure we were not wasting more space by accident
	if len(b.dest) != 0 {
		panic("too many bytes were allocated")
	}
	return b.buf
}

//==============================================================================
// Connection
//==============================================================================

// netConn is one client connection, as provided by a net driver.
type netConn interface {
	close()
	isClosed() bool
	out(b sendBuf) error
	inB() (uint8, error)
	inW() (uint16, error)
}

// inS reads a length-prefixed string.
func inS(conn netConn) (string, error) {
	n, err := conn.inB()
	if err != nil {
		return "", err
	}
	buf := make([]uint8, n)
	for i := range buf {
		if buf[i], err = conn.inB(); err != nil {
			return "", err
		}
	}
	return string(buf), nil
}

func expectAckOrFail(conn netConn) error {
	ackByte, err := conn.inB()
	if err != nil {
		return err
	}
	switch netOpbyte(ackByte) {
	case netOpbyteAck:
		return nil
	case netOpbyteFail:
		return errClientFail
	default:
		return fmt.Errorf("communication error: expected ACK(%#x) or FAIL(%#x), got %#x", netOpbyteAck, netOpbyteFail, ackByte)
	}
}
