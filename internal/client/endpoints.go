package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mauv0809/courtside/internal/league"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/mauv0809/courtside/internal/user"
)

// FindRequest mirrors the body accepted by the find endpoints.
type FindRequest struct {
	Query     match.Query `json:"query"`
	PageStart int         `json:"pageStart,omitempty"`
	PageSize  int         `json:"pageSize,omitempty"`
	Sort      struct {
		Date int `json:"date,omitempty"`
	} `json:"sort"`
}

func matchPath(id, action string) string {
	p := "/match/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *Client) Propose(ctx context.Context, p matchmaking.Proposal) (match.Document, error) {
	var doc match.Document
	err := c.do(ctx, http.MethodPost, "/match/new", p, &doc)
	return doc, err
}

func (c *Client) Match(ctx context.Context, id string) (match.Document, error) {
	var doc match.Document
	err := c.do(ctx, http.MethodGet, matchPath(id, ""), nil, &doc)
	return doc, err
}

func (c *Client) Find(ctx context.Context, req FindRequest) ([]match.Document, error) {
	var docs []match.Document
	err := c.do(ctx, http.MethodPost, "/match/find", req, &docs)
	return docs, err
}

// FindProposed lists open proposals from other users.
func (c *Client) FindProposed(ctx context.Context, pageStart, pageSize int) ([]match.Document, error) {
	var docs []match.Document
	err := c.do(ctx, http.MethodPost, "/match/find/proposed", FindRequest{PageStart: pageStart, PageSize: pageSize}, &docs)
	return docs, err
}

func (c *Client) Accept(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, matchPath(id, "accept"), nil, nil)
}

func (c *Client) Cancel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, matchPath(id, "cancel"), nil, nil)
}

func (c *Client) Complete(ctx context.Context, id string, scores match.Scores) error {
	return c.do(ctx, http.MethodPost, matchPath(id, "complete"), scores, nil)
}

func (c *Client) Message(ctx context.Context, id, text string) error {
	return c.do(ctx, http.MethodPost, matchPath(id, "message"), map[string]string{"message": text}, nil)
}

func (c *Client) Rate(ctx context.Context, id string, stars int) error {
	return c.do(ctx, http.MethodPost, matchPath(id, "rate"), map[string]int{"stars": stars}, nil)
}

func (c *Client) Me(ctx context.Context) (user.User, error) {
	var u user.User
	err := c.do(ctx, http.MethodGet, "/user/me", nil, &u)
	return u, err
}

func (c *Client) UpdateMe(ctx context.Context, name string) (user.User, error) {
	var u user.User
	err := c.do(ctx, http.MethodPost, "/user/me", map[string]string{"name": name}, &u)
	return u, err
}

// Users lists every profile, without ratings.
func (c *Client) Users(ctx context.Context) ([]user.User, error) {
	var users []user.User
	err := c.do(ctx, http.MethodGet, "/user", nil, &users)
	return users, err
}

func (c *Client) User(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := c.do(ctx, http.MethodGet, "/user/"+url.PathEscape(id), nil, &u)
	return u, err
}

func (c *Client) CreateLeague(ctx context.Context, name, sport string) (league.League, error) {
	var l league.League
	err := c.do(ctx, http.MethodPost, "/league/new", map[string]string{"name": name, "sport": sport}, &l)
	return l, err
}

func (c *Client) League(ctx context.Context, id string) (league.League, error) {
	var l league.League
	err := c.do(ctx, http.MethodGet, "/league/"+url.PathEscape(id), nil, &l)
	return l, err
}

func (c *Client) JoinLeague(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/league/"+url.PathEscape(id)+"/join", nil, nil)
}
