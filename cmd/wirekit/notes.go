package main

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/wirekit/core/binder"
	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/response"
)

type note struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type noteInput struct {
	Text string `json:"text"`
}

type noteQuery struct {
	Search string `query:"q"`
	Limit  int    `query:"limit"`
}

// notesController is an in-memory router.Controller[int].
type notesController struct {
	mu     sync.RWMutex
	nextID int
	notes  map[int]note
	now    func() time.Time
}

func newNotesController() *notesController {
	return &notesController{
		nextID: 1,
		notes:  make(map[int]note),
		now:    time.Now,
	}
}

// Ping reports whether the store is usable.
func (c *notesController) Ping(ctx context.Context) error {
	if c.notes == nil {
		return errors.New("notes store not initialized")
	}
	return ctx.Err()
}

func (c *notesController) Index(ctx *handler.Context) (*message.Response, error) {
	var q noteQuery
	if err := binder.Bind(ctx, &q, binder.Query()); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]note, 0, len(c.notes))
	for _, n := range c.notes {
		if q.Search != "" && !strings.Contains(strings.ToLower(n.Text), strings.ToLower(q.Search)) {
			continue
		}
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b note) int { return a.ID - b.ID })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return response.JSON(out)
}

func (c *notesController) Store(ctx *handler.Context) (*message.Response, error) {
	in, err := decodeNote(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now().UTC()
	n := note{ID: c.nextID, Text: in.Text, CreatedAt: now, UpdatedAt: now}
	c.notes[n.ID] = n
	c.nextID++
	return response.JSONWithStatus(n, 201)
}

func (c *notesController) Show(_ *handler.Context, id int) (*message.Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.notes[id]
	if !ok {
		return nil, response.ErrNotFound.WithMessage("note not found")
	}
	return response.JSON(n)
}

func (c *notesController) Update(ctx *handler.Context, id int) (*message.Response, error) {
	in, err := decodeNote(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.notes[id]
	if !ok {
		return nil, response.ErrNotFound.WithMessage("note not found")
	}
	n.Text = in.Text
	n.UpdatedAt = c.now().UTC()
	c.notes[id] = n
	return response.JSON(n)
}

func (c *notesController) Destroy(_ *handler.Context, id int) (*message.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.notes[id]; !ok {
		return nil, response.ErrNotFound.WithMessage("note not found")
	}
	delete(c.notes, id)
	return response.NoContent(), nil
}

func decodeNote(ctx *handler.Context) (noteInput, error) {
	var in noteInput
	if err := binder.Bind(ctx, &in, binder.JSON()); err != nil {
		return in, err
	}
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		return in, response.ErrUnprocessableEntity.WithDetails(map[string]any{"text": "required"})
	}
	return in, nil
}
