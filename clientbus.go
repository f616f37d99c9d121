// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package main

import (
	"errors"
	"fmt"

	"github.com/inseo-oh/nes65/m6502"
)

var errClientFail = errors.New("client answered FAIL")

// clientBusError is a transport failure during a bus event. It does not
// unwrap, so the decoder never takes an io.EOF from the connection for the end
// of an instruction stream.
type clientBusError struct {
	addr uint16
	err  error
}

func (e *clientBusError) Error() string {
	return fmt.Sprintf("bus event for $%04X: %v", e.addr, e.err)
}

// clientBus is the CPU's view of memory for one client. Internal RAM is kept
// on the server; everything above it is forwarded to the client as events.
type clientBus struct {
	ram  *m6502.RAM
	conn netConn
}

func (b *clientBus) Read(addr uint16) (uint8, error) {
	if addr < m6502.RAMEnd {
		return b.ram.Read(addr)
	}
	v, err := eventReadBus(b.conn, addr)
	switch {
	case errors.Is(err, errClientFail):
		return 0, &m6502.MemoryFault{Addr: addr}
	case err != nil:
		return 0, &clientBusError{addr: addr, err: err}
	}
	return v, nil
}

func (b *clientBus) Write(addr uint16, v uint8) error {
	if addr < m6502.RAMEnd {
		return b.ram.Write(addr, v)
	}
	err := eventWriteBus(b.conn, addr, v)
	switch {
	case errors.Is(err, errClientFail):
		return &m6502.MemoryFault{Addr: addr, Write: true}
	case err != nil:
		return &clientBusError{addr: addr, err: err}
	}
	return nil
}

func eventReadBus(conn netConn, addr uint16) (uint8, error) {
	// Send event --------------------------------------------------------------
	event := newNetEvent(netOpbyteEventReadBus, 2)
	event.appendW(addr)
	if err := conn.out(event); err != nil {
		return 0, err
	}
	// Receive response --------------------------------------------------------
	if err := expectAckOrFail(conn); err != nil {
		return 0, err
	}
	return conn.inB()
}

func eventWriteBus(conn netConn, addr uint16, v uint8) error {
	// Send event --------------------------------------------------------------
	event := newNetEvent(netOpbyteEventWriteBus, 3)
	event.appendW(addr)
	event.appendB(v)
	if err := conn.out(event); err != nil {
		return err
	}
	// Receive response --------------------------------------------------------
	return expectAckOrFail(conn)
}

func eventTraceExec(conn netConn, pc uint16, ir uint8, disasm string) error {
	// Send event --------------------------------------------------------------
	event := newNetEvent(netOpbyteEventTraceExec, 4+len(disasm))
	event.appendW(pc)
	event.appendB(ir)
	event.appendS(disasm)
	if err := conn.out(event); err != nil {
		return err
	}
	// Receive response --------------------------------------------------------
	return expectAckOrFail(conn)
}
