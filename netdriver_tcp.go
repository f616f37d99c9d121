// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package main

import (
	"bufio"
	"errors"
	"io"
	"net"

	"github.com/sirupsen/logrus"
)

type tcpClientConn struct {
	conn   net.Conn
	reader *bufio.Reader
	closed bool
}

// serveTcp accepts clients until the listener is closed.
func serveTcp(logger *logrus.Logger, listener net.Listener) error {
	logger.Infof("Started TCP server at %s", listener.Addr())
	for {
		conn, err := listener.Accept()
		if errors.Is(err, net.ErrClosed) {
			return nil
		} else if err != nil {
			logger.WithError(err).Warn("Failed to accept connection")
			continue
		}
		go serveTcpClient(logger, conn)
	}
}

func serveTcpClient(logger *logrus.Logger, conn net.Conn) {
	clientConn := tcpClientConn{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
	ctx := newClientContext(clientLogger(logger, "tcp", conn.RemoteAddr().String()), &clientConn)
	ctx.logger.Info("New client connection")
	ctx.serve()
	ctx.logger.Debug("Closing client connection")
	conn.Close()
	ctx.logger.Info("Closed client connection")
}

func (conn *tcpClientConn) close() {
	conn.closed = true
}
func (conn *tcpClientConn) isClosed() bool {
	return conn.closed
}
func (conn *tcpClientConn) out(b sendBuf) error {
	_, err := conn.conn.Write(b.finish())
	return err
}

func (conn *tcpClientConn) inB() (uint8, error) {
	return conn.reader.ReadByte()
}
func (conn *tcpClientConn) inW() (uint16, error) {
	bytes := [2]uint8{}
	_, err := io.ReadFull(conn.reader, bytes[:])
	if err != nil {
		return 0, err
	}
	res := (uint16(bytes[0]) << 8) | uint16(bytes[1])
	return res, nil
}
