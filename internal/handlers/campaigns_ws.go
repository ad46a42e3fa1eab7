package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/brandloop/campaigns/internal/models"
)

const campaignWSReadLimit = 64 << 10

var campaignWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// campaignWSInMessage is the JSON shape sent from the client.
type campaignWSInMessage struct {
	Type string `json:"type"` // "run"
	models.RunCampaignRequest
}

// campaignWSOutMessage is the JSON shape sent to the client.
type campaignWSOutMessage struct {
	Type    string                 `json:"type"` // "progress", "result", "error"
	Stage   string                 `json:"stage,omitempty"`
	Message string                 `json:"message,omitempty"`
	Result  *models.CampaignResult `json:"result,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// CampaignWS handles GET /v1/campaigns/ws — runs the pipeline and streams
// per-stage progress to the client, then the final result.
func (h *Handler) CampaignWS(w http.ResponseWriter, r *http.Request) {
	conn, err := campaignWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("campaign ws upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(campaignWSReadLimit)
	conn.SetReadDeadline(time.Now().Add(30 * time.Minute))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(30 * time.Minute))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			log.Debug().Err(err).Msg("campaign ws read")
			return
		}
		conn.SetReadDeadline(time.Now().Add(30 * time.Minute))

		var in campaignWSInMessage
		if err := json.Unmarshal(raw, &in); err != nil {
			_ = writeWSJSON(conn, campaignWSOutMessage{Type: "error", Error: "invalid JSON: " + err.Error()})
			continue
		}
		if in.Type != "run" {
			_ = writeWSJSON(conn, campaignWSOutMessage{Type: "error", Error: "expected type: run"})
			continue
		}

		session := sessionKey(in.SessionID)
		result, err := h.orchestrator.RunCampaignWithProgress(r.Context(), session, in.CampaignBrief, func(stage, message string) {
			_ = writeWSJSON(conn, campaignWSOutMessage{Type: "progress", Stage: stage, Message: message})
		})
		if err != nil {
			if errors.Is(err, models.ErrBrandRequired) || errors.Is(err, models.ErrProductRequired) {
				_ = writeWSJSON(conn, campaignWSOutMessage{Type: "error", Error: err.Error()})
				continue
			}
			log.Error().Err(err).Msg("campaign ws run failed")
			_ = writeWSJSON(conn, campaignWSOutMessage{Type: "error", Error: "failed to run campaign"})
			continue
		}

		if err := writeWSJSON(conn, campaignWSOutMessage{Type: "result", Result: result}); err != nil {
			log.Debug().Err(err).Msg("campaign ws write")
			return
		}
	}
}

func writeWSJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
	return conn.WriteJSON(v)
}
