package callHandler

import (
	"MortgageIntake/pkg/log"

	"github.com/gofiber/websocket/v2"
)

// StreamTranscripts pushes live transcript updates to a dashboard
// client. A reader goroutine watches for the client closing the socket
// and cancels the subscription so the hub does not leak channels.
func (h *CallHandler) StreamTranscripts(conn *websocket.Conn) {
	updates, cancel := h.callService.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(update); err != nil {
				h.log.WithFields(log.Fields{
					"error": err.Error(),
				}).Debug("Websocket write failed, dropping subscriber")
				return
			}
		case <-closed:
			return
		}
	}
}
