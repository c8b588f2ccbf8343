package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"refactorengine/internal/refactor/run"
	"refactorengine/internal/types"
)

const (
	runsWSWriteWait = 10 * time.Second
	runsWSPongWait  = 60 * time.Second
	runsWSPingEvery = (runsWSPongWait * 9) / 10
)

var runsWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type runsWSInbound struct {
	Type string `json:"type"`
}

type runsWSOutbound struct {
	Type        string          `json:"type"`
	State       *types.RunState `json:"state,omitempty"`
	OutputCount int             `json:"outputCount,omitempty"`
	Summary     string          `json:"summary,omitempty"`
	Code        string          `json:"code,omitempty"`
	Message     string          `json:"message,omitempty"`
}

// RunEventsHandler streams run state transitions to websocket clients.
type RunEventsHandler struct {
	ctrl *run.Controller
	log  logrus.FieldLogger
}

func NewRunEventsHandler(ctrl *run.Controller, log logrus.FieldLogger) *RunEventsHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RunEventsHandler{ctrl: ctrl, log: log.WithField("component", "runs_ws")}
}

func (h *RunEventsHandler) HandleRunsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := runsWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(runsWSPongWait)); err != nil {
		h.log.WithError(err).Warn("set read deadline failed")
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(runsWSPongWait))
	})

	writeCh := make(chan runsWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(runsWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(runsWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(runsWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	subCh, unsubscribe := h.ctrl.Events().Subscribe(16)
	defer unsubscribe()

	current := h.ctrl.State()
	pushRunsWS(writeCh, runsWSOutbound{
		Type:        "subscribed",
		State:       &current,
		OutputCount: len(h.ctrl.Outputs()),
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-subCh:
				if !ok {
					return
				}
				state := n.State
				pushRunsWS(writeCh, runsWSOutbound{
					Type:        "run_state",
					State:       &state,
					OutputCount: n.OutputCount,
					Summary:     n.Summary,
				})
			}
		}
	}()

	for {
		var in runsWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch msgType := strings.ToLower(strings.TrimSpace(in.Type)); msgType {
		case "ping":
			pushRunsWS(writeCh, runsWSOutbound{Type: "pong"})
		case "":
			pushRunsWS(writeCh, runsWSOutbound{Type: "error", Code: "invalid_argument", Message: "type is required"})
		default:
			pushRunsWS(writeCh, runsWSOutbound{Type: "error", Code: "invalid_argument", Message: "unsupported type: " + msgType})
		}
	}
}

// pushRunsWS queues out, dropping the oldest pending message when full.
func pushRunsWS(writeCh chan runsWSOutbound, out runsWSOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
