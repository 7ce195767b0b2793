package api

import (
	"net/http"
	"time"

	models "CryptoAnalyst/internal/domain/models"
	xlogger "CryptoAnalyst/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	maxRequestSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// streamFrame is one WebSocket message. Stage frames carry a single log
// entry as it is produced; the final frame carries the complete state.
type streamFrame struct {
	Type  string                `json:"type"` // "stage", "result" or "error"
	Stage *models.StageMessage  `json:"stage,omitempty"`
	State *models.PipelineState `json:"state,omitempty"`
	Error string                `json:"error,omitempty"`
}

// Stream upgrades to WebSocket, reads one analyze request and streams stage
// progress followed by the final state.
func (h *AnalyzeEchoHandler) Stream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.SetReadLimit(maxRequestSize)
	var req models.AnalyzeRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.writeFrame(conn, streamFrame{Type: "error", Error: "invalid request"})
		return nil
	}
	if req.Text == "" || len(req.Text) > 2000 {
		h.writeFrame(conn, streamFrame{Type: "error", Error: "text must be 1..2000 characters"})
		return nil
	}
	if !h.allow(c, "stream") {
		h.writeFrame(conn, streamFrame{Type: "error", Error: "rate limit exceeded"})
		return nil
	}

	st, runErr := h.analyzer.AnalyzeWithObserver(c.Request().Context(), req.Text, func(msg models.StageMessage) {
		h.writeFrame(conn, streamFrame{Type: "stage", Stage: &msg})
	})
	if runErr != nil {
		h.writeFrame(conn, streamFrame{Type: "error", Error: runErr.Error(), State: st})
		return nil
	}

	h.writeFrame(conn, streamFrame{Type: "result", State: st})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	return nil
}

func (h *AnalyzeEchoHandler) writeFrame(conn *websocket.Conn, frame streamFrame) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(frame); err != nil {
		h.logger.Debug("stream write failed", xlogger.Error(err))
	}
}
