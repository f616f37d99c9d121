// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type wsClientConn struct {
	conn   *websocket.Conn
	closed bool
	msgBuf []uint8
}

var wsUpgrader = websocket.Upgrader{} // use default options
var wsPath = "/con65"

// newWsHandler serves the WebSocket endpoint, plus static files from wwwDir
// when it is not empty.
func newWsHandler(logger *logrus.Logger, wwwDir string) http.Handler {
	mux := http.NewServeMux()
	if wwwDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(wwwDir)))
	}
	mux.HandleFunc(wsPath, func(w http.ResponseWriter, r *http.Request) {
		serveWsClient(logger, w, r)
	})
	return mux
}

func startWsServer(logger *logrus.Logger, serverAddr string, wwwDir string) error {
	logger.Infof("Started HTTP(WebSocket) server at %s%s", serverAddr, wsPath)
	return http.ListenAndServe(serverAddr, newWsHandler(logger, wwwDir))
}

func serveWsClient(logger *logrus.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).WithField("client", r.RemoteAddr).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	clientConn := wsClientConn{
		conn: conn,
	}
	ctx := newClientContext(clientLogger(logger, "ws", conn.RemoteAddr().String()), &clientConn)
	ctx.logger.Info("New client connection")
	ctx.serve()
	ctx.logger.Debug("Closing client connection")
	conn.Close()
	ctx.logger.Info("Closed client connection")
}

func (conn *wsClientConn) close() {
	conn.closed = true
}
func (conn *wsClientConn) isClosed() bool {
	return conn.closed
}
func (conn *wsClientConn) out(b sendBuf) error {
	return conn.conn.WriteMessage(websocket.BinaryMessage, b.finish())
}

// recvMsg appends the next binary message to msgBuf. A normal close from the
// client reads as io.EOF.
func (conn *wsClientConn) recvMsg() error {
	tp, msg, err := conn.conn.ReadMessage()
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return io.EOF
	} else if err != nil {
		return err
	}
	if tp != websocket.BinaryMessage {
		return errors.New("expected binary message, got something else")
	}
	conn.msgBuf = append(conn.msgBuf, msg...)
	return nil
}
func (conn *wsClientConn) fill(n int) error {
	for len(conn.msgBuf) < n {
		if err := conn.recvMsg(); err != nil {
			return err
		}
	}
	return nil
}
func (conn *wsClientConn) inB() (uint8, error) {
	if err := conn.fill(1); err != nil {
		return 0, err
	}
	res := conn.msgBuf[0]
	conn.msgBuf = conn.msgBuf[1:]
	return res, nil
}
func (conn *wsClientConn) inW() (uint16, error) {
	if err := conn.fill(2); err != nil {
		return 0, err
	}
	res := (uint16(conn.msgBuf[0]) << 8) | uint16(conn.msgBuf[1])
	conn.msgBuf = conn.msgBuf[2:]
	return res, nil
}
