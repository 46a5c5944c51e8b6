package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/matchmaking"
)

// FindRequest is the body of /match/find and /match/find/proposed.
type FindRequest struct {
	Query     match.Query `json:"query"`
	PageStart int         `json:"pageStart"`
	PageSize  int         `json:"pageSize"`
	Sort      struct {
		Date int `json:"date"`
	} `json:"sort"`
}

// MessageRequest is the body of /match/{id}/message.
type MessageRequest struct {
	Message string `json:"message"`
}

// RateRequest is the body of /match/{id}/rate.
type RateRequest struct {
	Stars int `json:"stars"`
}

func NewMatchHandler(svc matchmaking.MatchmakingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p matchmaking.Proposal
		if err := readJSON(w, r, &p); err != nil {
			writeBadRequest(w, err)
			return
		}
		m, err := svc.Propose(r.Context(), caller(r), p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusCreated, m)
	}
}

func GetMatchHandler(svc matchmaking.MatchmakingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Get(r.Context(), caller(r), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, m)
	}
}

func FindMatchesHandler(svc matchmaking.MatchmakingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FindRequest
		if err := readOptionalJSON(w, r, &req); err != nil {
			writeBadRequest(w, err)
			return
		}
		opts := match.FindOptions{
			Query:     req.Query,
			PageStart: req.PageStart,
			PageSize:  req.PageSize,
			SortDate:  req.Sort.Date,
		}
		matches, err := svc.Find(r.Context(), caller(r), opts)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, nonNil(matches))
	}
}

func FindProposedHandler(svc matchmaking.MatchmakingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FindRequest
		if err := readOptionalJSON(w, r, &req); err != nil {
			writeBadRequest(w, err)
			return
		}
		matches, err := svc.FindProposed(r.Context(), caller(r), req.PageStart, req.PageSize)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, nonNil(matches))
	}
}

func AcceptMatchHandler(svc matchmaking.MatchmakingService) http.HandlerFunc {
	return actionHandler(func(r *http.Request) error {
		return svc.Accept(r.Context(), caller(r), chi.URLParam(r, "id"))
	})
}

func CancelMatchHandler(svc matchmaking.MatchmakingService) http.HandlerFunc {
	return actionHandler(func(r *http.Request) error {
		return svc.Cancel(r.Context(), caller(r), chi.URLParam(r, "id"))
	})
}

func CompleteMatchHandler(svc matchmaking.MatchmakingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var scores match.Scores
		if err := readJSON(w, r, &scores); err != nil {
			writeBadRequest(w, err)
			return
		}
		respond(w, r, svc.Complete(r.Context(), caller(r), chi.URLParam(r, "id"), scores))
	}
}

func MessageMatchHandler(svc matchmaking.MatchmakingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MessageRequest
		if err := readJSON(w, r, &req); err != nil {
			writeBadRequest(w, err)
			return
		}
		respond(w, r, svc.Message(r.Context(), caller(r), chi.URLParam(r, "id"), req.Message))
	}
}

func RateMatchHandler(svc matchmaking.MatchmakingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RateRequest
		if err := readJSON(w, r, &req); err != nil {
			writeBadRequest(w, err)
			return
		}
		respond(w, r, svc.Rate(r.Context(), caller(r), chi.URLParam(r, "id"), req.Stars))
	}
}

// actionHandler runs a body-less match action.
func actionHandler(action func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, action(r))
	}
}

func respond(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.Debug("Match action succeeded", "path", r.URL.Path, "caller", caller(r))
	writeSuccess(w, http.StatusOK, nil)
}

func nonNil(matches []match.Match) []match.Match {
	if matches == nil {
		return []match.Match{}
	}
	return matches
}
