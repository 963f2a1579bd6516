package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"escape-game-service/internal/app"
	"github.com/gorilla/websocket"
)

// timeoutPollInterval drives the countdown check for the connected team.
// Correctness does not depend on this granularity; the authoritative elapsed
// time decides timeouts.
const timeoutPollInterval = 100 * time.Millisecond

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startLevelPayload struct {
	LevelNumber int `json:"levelNumber"`
}

type answerPayload struct {
	QuestionIndex int    `json:"questionIndex"`
	Answer        string `json:"answer"`
}

type finalWordPayload struct {
	Word string `json:"word"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type answerAck struct {
	QuestionID       string `json:"questionId"`
	Correct          bool   `json:"correct"`
	Score            int    `json:"score"`
	LevelDone        bool   `json:"levelDone"`
	NextQuestionInMs int64  `json:"nextQuestionInMs,omitempty"`
}

// ServeWS upgrades the connection, authenticates the team from query
// parameters, and wires the socket into the game use cases: commands in,
// events out.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	teamID := r.URL.Query().Get("teamId")
	password := r.URL.Query().Get("password")
	if teamID == "" || password == "" {
		http.Error(w, "missing teamId or password", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	snapshot, err := h.service.Login(r.Context(), teamID, password)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Logout(teamID)

	events, cancel, err := h.service.Subscribe(teamID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: event.Type, Payload: event.Payload}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	// Poll for question timeouts while the connection is alive; resulting
	// events reach the client through the subscription.
	go func() {
		ticker := time.NewTicker(timeoutPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = h.service.CheckTimeout(r.Context(), teamID)
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: snapshot}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "startLevel":
			var payload startLevelPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid startLevel payload")
				continue
			}
			view, err := h.service.StartLevel(r.Context(), teamID, payload.LevelNumber)
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "levelStarted", Payload: view}

		case "submitAnswer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid submitAnswer payload")
				continue
			}
			result, summary, err := h.service.SubmitAnswer(r.Context(), teamID, payload.QuestionIndex, payload.Answer)
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			ack := answerAck{
				QuestionID: result.QuestionID,
				Correct:    result.IsCorrect,
				Score:      result.Score,
				LevelDone:  summary != nil,
			}
			if summary == nil {
				ack.NextQuestionInMs = app.InterQuestionDelayMillis()
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: ack}

		case "forceComplete":
			summary, err := h.service.ForceCompleteLevel(r.Context(), teamID)
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "levelForceCompleted", Payload: summary}

		case "finalWord":
			var payload finalWordPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid finalWord payload")
				continue
			}
			record, err := h.service.SubmitFinalWordGuess(r.Context(), teamID, payload.Word)
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "finalWordResult", Payload: app.FinalWordView{
				AttemptsUsed: record.AttemptsUsed,
				IsCorrect:    record.IsCorrect,
				IsLocked:     record.Locked(),
			}}

		case "timer":
			view, err := h.service.TimerSample(r.Context(), teamID)
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "timer", Payload: view}

		case "leaderboard":
			entries, err := h.service.Leaderboard(r.Context())
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "leaderboard", Payload: entries}

		default:
			send <- errMsg("unsupported message type")
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

func errMsg(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}
