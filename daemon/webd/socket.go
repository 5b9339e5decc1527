package webd

import (
	"encoding/json"
	"net/http"

	"github.com/olahol/melody"
	"github.com/rotblauer/catspots/types/inference"
)

type websocketAction string

const (
	// websocketActionPopulate is sent for each cached result when a client connects.
	websocketActionPopulate websocketAction = "populate"
	// websocketActionResult is broadcast for every new run.
	websocketActionResult websocketAction = "result"
)

type socketMessage struct {
	Action websocketAction   `json:"action"`
	Result *inference.Result `json:"result"`
}

func newSocketMessage(action websocketAction, res *inference.Result) ([]byte, error) {
	return json.Marshal(socketMessage{Action: action, Result: res})
}

// newMelody sets up the websocket handler.
// Clients are sent every cached result on connect, then every new result as it is announced.
func (s *WebDaemon) newMelody() *melody.Melody {
	m := melody.New()

	m.HandleConnect(func(session *melody.Session) {
		s.logger.Info("Websocket connected", "remote", session.Request.RemoteAddr)
		for _, item := range s.results.Items() {
			b, err := newSocketMessage(websocketActionPopulate, item.Value())
			if err != nil {
				s.logger.Error("Failed to marshal cached result", "cat", item.Key(), "error", err)
				continue
			}
			if err := session.Write(b); err != nil {
				s.logger.Warn("Failed to populate websocket", "error", err)
				return
			}
		}
	})

	// Clients have nothing to say. Log and drop.
	m.HandleMessage(func(session *melody.Session, msg []byte) {
		s.logger.Debug("Websocket message", "remote", session.Request.RemoteAddr, "message", string(msg))
	})

	m.HandleDisconnect(func(session *melody.Session) {
		s.logger.Info("Websocket disconnected", "remote", session.Request.RemoteAddr)
	})

	m.HandleError(func(session *melody.Session, err error) {
		s.logger.Warn("Websocket error", "remote", session.Request.RemoteAddr, "error", err)
	})
	return m
}

// broadcastResult sends res to every connected websocket client.
func (s *WebDaemon) broadcastResult(res *inference.Result) {
	b, err := newSocketMessage(websocketActionResult, res)
	if err != nil {
		s.logger.Error("Failed to marshal result", "cat", res.CatID, "error", err)
		return
	}
	if err := s.melody.Broadcast(b); err != nil {
		s.logger.Warn("Failed to broadcast result", "cat", res.CatID, "error", err)
	}
}

func (s *WebDaemon) handleSocket(w http.ResponseWriter, r *http.Request) {
	_ = s.melody.HandleRequest(w, r)
}
