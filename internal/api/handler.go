package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yegors/qso-trainer/internal/audio"
	"github.com/yegors/qso-trainer/internal/config"
	"github.com/yegors/qso-trainer/internal/practice"
	"github.com/yegors/qso-trainer/internal/qso"
	"github.com/yegors/qso-trainer/internal/refdata"
	"github.com/yegors/qso-trainer/internal/scoring"
	"github.com/yegors/qso-trainer/internal/websocket"
	"github.com/yegors/qso-trainer/pkg/logger"
)

// Handler implements the HTTP endpoints. It owns one practice session at
// a time; starting a session replaces the previous one.
type Handler struct {
	config   *config.Config
	logger   *logger.Logger
	data     *refdata.ReferenceData
	session  *practice.Session
	scores   *scoring.SessionScorer
	morse    *audio.MorsePlayer
	wsServer *websocket.Server
}

// NewHandler creates an API handler around an already-constructed
// session and its collaborators.
func NewHandler(cfg *config.Config, data *refdata.ReferenceData, session *practice.Session, scores *scoring.SessionScorer, morse *audio.MorsePlayer, wsServer *websocket.Server, log *logger.Logger) *Handler {
	return &Handler{
		config:   cfg,
		logger:   log.Named("api-handler"),
		data:     data,
		session:  session,
		scores:   scores,
		morse:    morse,
		wsServer: wsServer,
	}
}

// StartSession generates a fresh QSO list and puts the session in the
// ready state.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	if err := h.session.StartSession(); err != nil {
		h.respondSessionError(w, err)
		return
	}
	h.respondStatus(w)
}

// PlayCurrentQSO starts background playback of the current exchange.
func (h *Handler) PlayCurrentQSO(w http.ResponseWriter, r *http.Request) {
	if err := h.session.PlayCurrentQSO(); err != nil {
		h.respondSessionError(w, err)
		return
	}
	h.respondStatus(w)
}

// ReplayCurrentQSO plays the current exchange again.
func (h *Handler) ReplayCurrentQSO(w http.ResponseWriter, r *http.Request) {
	if err := h.session.ReplayCurrentQSO(); err != nil {
		h.respondSessionError(w, err)
		return
	}
	h.respondStatus(w)
}

// PausePlayback holds playback at the next symbol boundary.
func (h *Handler) PausePlayback(w http.ResponseWriter, r *http.Request) {
	if err := h.session.PausePlayback(); err != nil {
		h.respondSessionError(w, err)
		return
	}
	h.respondStatus(w)
}

// ResumePlayback releases a paused playback.
func (h *Handler) ResumePlayback(w http.ResponseWriter, r *http.Request) {
	if err := h.session.ResumePlayback(); err != nil {
		h.respondSessionError(w, err)
		return
	}
	h.respondStatus(w)
}

// StopPlayback ends playback of the current exchange.
func (h *Handler) StopPlayback(w http.ResponseWriter, r *http.Request) {
	if err := h.session.StopPlayback(); err != nil {
		h.respondSessionError(w, err)
		return
	}
	h.respondStatus(w)
}

// SkipCurrentQSO advances without counting the exchange as completed.
func (h *Handler) SkipCurrentQSO(w http.ResponseWriter, r *http.Request) {
	if err := h.session.SkipCurrentQSO(); err != nil {
		h.respondSessionError(w, err)
		return
	}
	h.respondStatus(w)
}

// NextQSO advances to the next exchange after transcription.
func (h *Handler) NextQSO(w http.ResponseWriter, r *http.Request) {
	if err := h.session.NextQSO(); err != nil {
		h.respondSessionError(w, err)
		return
	}
	h.respondStatus(w)
}

// ResetSession restores the session to its pre-start defaults.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	h.session.ResetSession()
	h.respondStatus(w)
}

// GetSessionStatus reports the session state and progress.
func (h *Handler) GetSessionStatus(w http.ResponseWriter, r *http.Request) {
	h.respondStatus(w)
}

// GetCurrentQSO returns the full current QSO record, answer key
// included. Intended for review after transcription, not before.
func (h *Handler) GetCurrentQSO(w http.ResponseWriter, r *http.Request) {
	record := h.session.CurrentQSO()
	if record == nil {
		h.respondError(w, http.StatusNotFound, "no current QSO")
		return
	}
	h.respondJSON(w, http.StatusOK, record)
}

// GetCurrentText returns the rendered transcript of the current QSO.
func (h *Handler) GetCurrentText(w http.ResponseWriter, r *http.Request) {
	text := h.session.CurrentText()
	if text == "" {
		h.respondError(w, http.StatusNotFound, "no current QSO")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"text": text})
}

// GetCurrentElements returns the current QSO's answer key.
func (h *Handler) GetCurrentElements(w http.ResponseWriter, r *http.Request) {
	elements, ok := h.session.CurrentElements()
	if !ok {
		h.respondError(w, http.StatusNotFound, "no current QSO")
		return
	}
	h.respondJSON(w, http.StatusOK, elements)
}

// ScoreCurrentQSO scores submitted answers against the current QSO's
// answer key and records the result in the session.
func (h *Handler) ScoreCurrentQSO(w http.ResponseWriter, r *http.Request) {
	var answers map[string]string
	if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	elements, ok := h.session.CurrentElements()
	if !ok {
		h.respondError(w, http.StatusNotFound, "no current QSO to score")
		return
	}

	result := h.scores.ScoreQSO(answers, elements)
	h.respondJSON(w, http.StatusOK, result)
}

// GetScoreSummary reports the accumulated session scores.
func (h *Handler) GetScoreSummary(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.scores.Summary())
}

// GetScoreByIndex returns one recorded score by zero-based index.
func (h *Handler) GetScoreByIndex(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid score index")
		return
	}
	result, err := h.scores.Get(index)
	if err != nil {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// ResetScores drops all recorded scores and statistics.
func (h *Handler) ResetScores(w http.ResponseWriter, r *http.Request) {
	h.scores.Reset()
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// StreamCurrentQSO renders the current QSO as CW and serves it as a
// complete WAV file, so any browser audio element can play it.
func (h *Handler) StreamCurrentQSO(w http.ResponseWriter, r *http.Request) {
	text := h.session.CurrentText()
	if text == "" {
		h.respondError(w, http.StatusNotFound, "no current QSO")
		return
	}

	wav := audio.EncodeWAV(h.morse.Synthesize(text), h.morse.SampleRate())

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(wav)))
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	if _, err := w.Write(wav); err != nil {
		h.logger.Debug("Failed to write audio stream", logger.Error(err))
	}
}

// HandleWebSocket upgrades the connection and subscribes the client to
// session events.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.wsServer.HandleConnection(w, r)
}

// GetGlossary returns the CW abbreviation glossary grouped by category.
func (h *Handler) GetGlossary(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"abbreviations": h.data.Abbreviations(),
		"categories":    h.data.AbbreviationCategories(),
	})
}

// GetHealth reports service liveness.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"state":      h.session.State(),
		"ws_clients": h.wsServer.ClientCount(),
	})
}

// GetConfig returns the active configuration with credentials removed.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	sanitized := *h.config
	sanitized.Audio.OpenAIAPIKey = ""
	h.respondJSON(w, http.StatusOK, sanitized)
}

func (h *Handler) respondStatus(w http.ResponseWriter) {
	progress := h.session.Progress()
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"state":           h.session.State(),
		"progress":        progress,
		"playback_active": h.session.IsPlaybackActive(),
	})
}

// respondSessionError maps lifecycle errors onto HTTP statuses: state
// errors are conflicts the client is expected to handle, configuration
// errors are bad requests.
func (h *Handler) respondSessionError(w http.ResponseWriter, err error) {
	var stateErr *practice.InvalidStateError
	if errors.As(err, &stateErr) {
		h.respondJSON(w, http.StatusConflict, map[string]string{
			"error": stateErr.Error(),
			"state": string(stateErr.State),
		})
		return
	}

	var countErr *qso.InvalidCountError
	var verbosityErr *qso.InvalidVerbosityError
	if errors.As(err, &countErr) || errors.As(err, &verbosityErr) {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Error("Session operation failed", logger.Error(err))
	h.respondError(w, http.StatusInternalServerError, err.Error())
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}

// RegisterSessionEvents wires the session callbacks to the WebSocket
// event feed. Broadcast never blocks, which keeps the callbacks safe to
// run inside state transitions.
func RegisterSessionEvents(session *practice.Session, wsServer *websocket.Server) {
	session.OnStateChange(func(state practice.State) {
		wsServer.Broadcast(&websocket.Message{
			Type: "state_change",
			Data: map[string]interface{}{"state": string(state)},
		})
	})
	session.OnProgress(func(current, total int) {
		wsServer.Broadcast(&websocket.Message{
			Type: "progress",
			Data: map[string]interface{}{
				"current": current,
				"total":   total,
				"label":   fmt.Sprintf("%d/%d", current, total),
			},
		})
	})
	session.OnPlaybackComplete(func() {
		wsServer.Broadcast(&websocket.Message{
			Type: "playback_complete",
			Data: map[string]interface{}{},
		})
	})
}
