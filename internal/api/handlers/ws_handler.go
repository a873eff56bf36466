package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobmatch/internal/services"
	"github.com/yoockh/jobmatch/internal/utils"
)

// WSHandler streams match computation progress over a websocket.
type WSHandler struct {
	matches  services.MatchService
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

func NewWSHandler(matches services.MatchService, allowedOrigins []string, log logrus.FieldLogger) *WSHandler {
	return &WSHandler{
		matches: matches,
		log:     log,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	allow := map[string]struct{}{}
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allow[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allow[strings.TrimRight(origin, "/")]
		return ok
	}
}

type wsServerMsg struct {
	Type    string                 `json:"type"` // progress|complete|error
	Done    int                    `json:"done,omitempty"`
	Total   int                    `json:"total,omitempty"`
	JobID   string                 `json:"job_id,omitempty"`
	Result  *services.MatchOutcome `json:"result,omitempty"`
	Code    utils.Code             `json:"code,omitempty"`
	Message string                 `json:"message,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteJSON(v)
}

func (h *WSHandler) MatchWS(c *gin.Context) {
	resumeID := c.Param("resume_id")
	if resumeID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.MatchWS", "missing resume_id", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote the response
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// a closed socket cancels the computation
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	out, err := h.matches.Compute(ctx, resumeID, func(p services.Progress) {
		_ = wc.writeJSON(wsServerMsg{Type: "progress", Done: p.Done, Total: p.Total, JobID: p.JobID})
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		h.log.WithError(err).WithField("resume_id", resumeID).Warn("match stream failed")
		code := utils.CodeOf(err)
		msg := http.StatusText(utils.HTTPStatus(err))
		if ae := appError(err); ae != nil && code != utils.CodeInternal {
			msg = ae.Message
		}
		_ = wc.writeJSON(wsServerMsg{Type: "error", Code: code, Message: msg})
		return
	}

	_ = wc.writeJSON(wsServerMsg{Type: "complete", Result: out})
	_ = wc.c.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
}
