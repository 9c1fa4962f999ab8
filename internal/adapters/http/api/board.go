package api

import (
	"net/http"
	"strconv"
)

const maxBoardWidth = 200

// BoardHandler renders the current job's surfaces as text.
type BoardHandler struct {
	deps BoardDependencies
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(deps BoardDependencies) *BoardHandler {
	return &BoardHandler{deps: deps}
}

// HandleBoard handles GET /board?width=N requests.
func (h *BoardHandler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	const op = "api.board"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	width := 0
	if raw := r.URL.Query().Get("width"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxBoardWidth {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		width = n
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.deps.Board(width) + "\n"))
}
