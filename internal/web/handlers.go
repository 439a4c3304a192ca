package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/tictactoe-timetravel/internal/app"
	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	log       *slog.Logger
	heartbeat time.Duration
}

func (h *handlers) renderGame(gs app.GameState) []byte {
	return renderTemplate(h.tpl.frag, "", newGameView(gs))
}

func (h *handlers) writeGame(w http.ResponseWriter, gs *app.GameState) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderGame(*gs))
}

// fail maps service errors to responses; unexpected ones are logged as 500.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, domain.ErrStepOutOfRange):
		http.Error(w, "no such step", http.StatusBadRequest)
	default:
		h.log.Error("request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "base", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	// Render page with embedded game container
	_, _ = w.Write(renderTemplate(h.tpl.game, "base", newGameView(*gs)))
}

func (h *handlers) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// move ignores unparsable cells the same way the rules ignore illegal ones:
// the unchanged game comes back.
func (h *handlers) move(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	cell, err := strconv.Atoi(r.Form.Get("cell"))
	var gs *app.GameState
	if err != nil {
		gs, err = h.svc.Get(r.Context(), id)
	} else {
		gs, _, err = h.svc.Move(r.Context(), id, cell)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeGame(w, gs)
}

func (h *handlers) jump(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	step, err := strconv.Atoi(r.Form.Get("step"))
	if err != nil {
		http.Error(w, "invalid step", http.StatusBadRequest)
		return
	}
	gs, err := h.svc.JumpTo(r.Context(), chi.URLParam(r, "id"), step)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeGame(w, gs)
}

func (h *handlers) order(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.ToggleOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeGame(w, gs)
}

type stateResponse struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Next      domain.Cell       `json:"next"`
	Step      int               `json:"step"`
	Winner    domain.Cell       `json:"winner"`
	Line      []int             `json:"line,omitempty"`
	Draw      bool              `json:"draw"`
	Squares   []domain.Square   `json:"squares"`
	Moves     []domain.MoveItem `json:"moves"`
	Ascending bool              `json:"ascending"`
}

func newStateResponse(gs app.GameState) stateResponse {
	g := gs.Game
	resp := stateResponse{
		ID:        gs.ID,
		Status:    g.Status(),
		Next:      g.Next(),
		Step:      g.Step(),
		Draw:      g.Draw(),
		Squares:   g.Squares(),
		Moves:     g.MoveList(),
		Ascending: g.Ascending(),
	}
	if res, ok := g.Winner(); ok {
		resp.Winner = res.Winner
		resp.Line = res.Line[:]
	}
	return resp
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(*gs))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()
	if _, err := h.svc.Get(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// Non-EventSource requests only get the headers
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer unsub()
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, "game", b)
			flusher.Flush()
		}
	}
}

// writeEvent frames payload as one SSE event, one data line per payload line.
func writeEvent(w io.Writer, event string, payload []byte) {
	_, _ = io.WriteString(w, "event: "+event+"\n")
	for _, line := range bytes.Split(payload, []byte("\n")) {
		_, _ = io.WriteString(w, "data: ")
		_, _ = w.Write(line)
		_, _ = io.WriteString(w, "\n")
	}
	_, _ = io.WriteString(w, "\n")
}
