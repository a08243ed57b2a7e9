package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"nearby-places/internal/calculator"
)

const maxMessageSize = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type outgoing struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload"`
}

// Stream upgrades to a websocket and answers every LOCATION_UPDATE with the
// ranking for that location. Messages on one connection are handled in
// order, one at a time.
func (h *Handler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	log := h.log.With(zap.String("remote", c.ClientIP()))
	log.Info("stream opened")

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("stream read failed", zap.Error(err))
			}
			log.Info("stream closed")
			return
		}

		if err := conn.WriteJSON(h.handleMessage(message)); err != nil {
			log.Warn("stream write failed", zap.Error(err))
			return
		}
	}
}

func (h *Handler) handleMessage(message []byte) outgoing {
	var env Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		return errorMessage("invalid json")
	}

	switch env.Type {
	case MsgLocationUpdate:
		var loc LocationPayload
		if err := json.Unmarshal(env.Payload, &loc); err != nil {
			return errorMessage("invalid location payload")
		}

		query, ok := loc.coordinate()
		if !ok {
			return errorMessage("lat and lng are required")
		}
		if err := calculator.ValidateCoordinate(query); err != nil {
			return errorMessage(err.Error())
		}

		return outgoing{
			Type:    MsgRanked,
			Payload: newRankingResponse(query, h.ranker.Rank(query)),
		}
	default:
		return errorMessage(fmt.Sprintf("unsupported message type %q", env.Type))
	}
}

func errorMessage(msg string) outgoing {
	return outgoing{Type: MsgError, Payload: ErrorPayload{Error: msg}}
}
