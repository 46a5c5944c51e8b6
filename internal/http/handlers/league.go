package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/courtside/internal/matchmaking"
)

// LeagueRequest is the body of POST /league/new.
type LeagueRequest struct {
	Name  string `json:"name"`
	Sport string `json:"sport"`
}

func NewLeagueHandler(svc matchmaking.MatchmakingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LeagueRequest
		if err := readJSON(w, r, &req); err != nil {
			writeBadRequest(w, err)
			return
		}
		l, err := svc.CreateLeague(r.Context(), caller(r), req.Name, req.Sport)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusCreated, l)
	}
}

func GetLeagueHandler(svc matchmaking.MatchmakingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := svc.GetLeague(r.Context(), caller(r), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, l)
	}
}

func JoinLeagueHandler(svc matchmaking.MatchmakingService) http.HandlerFunc {
	return actionHandler(func(r *http.Request) error {
		return svc.JoinLeague(r.Context(), caller(r), chi.URLParam(r, "id"))
	})
}
