package controllers

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"study-sync/studysync/models"
	"study-sync/studysync/services"
)

const (
	msgSpaceNotFound     = "Space not found."
	msgSpaceAccessDenied = "Access denied to this space."
	msgSpaceLoadFailed   = "Failed to load data for this Sync Space."
	msgCreateNoteFailed  = "Failed to create note."
)

type SpaceDetailState struct {
	Space        *models.Space
	Notes        []models.Note
	Previews     map[string]string
	Loading      bool
	Error        string
	CreatingNote bool
	NewNoteTitle string
}

// SpaceDetail shows one space and its notes, most recently edited first.
type SpaceDetail struct {
	store[SpaceDetailState]

	spaceID  string
	backend  Backend
	identity IdentitySource
	nav      Navigator
}

func NewSpaceDetail(backend Backend, identity IdentitySource, nav Navigator, spaceID string) *SpaceDetail {
	c := &SpaceDetail{
		spaceID:  spaceID,
		backend:  backend,
		identity: identity,
		nav:      nav,
	}
	c.state = SpaceDetailState{
		Notes:    []models.Note{},
		Previews: map[string]string{},
		Loading:  true,
	}
	return c
}

func (c *SpaceDetail) State() SpaceDetailState {
	var snapshot SpaceDetailState
	c.read(func(s SpaceDetailState) {
		snapshot = s
		if s.Space != nil {
			space := *s.Space
			snapshot.Space = &space
		}
		snapshot.Notes = append([]models.Note(nil), s.Notes...)
		snapshot.Previews = make(map[string]string, len(s.Previews))
		for id, preview := range s.Previews {
			snapshot.Previews[id] = preview
		}
	})
	return snapshot
}

// Load fetches the space and, only when the current user owns it, its notes.
func (c *SpaceDetail) Load(ctx context.Context) {
	identity, ok := c.identity.Current()
	if !ok {
		if c.update(func(s *SpaceDetailState) { s.Loading = false }) {
			c.nav.ToLogin()
		}
		return
	}
	if c.spaceID == "" {
		c.update(func(s *SpaceDetailState) { s.Loading = false })
		return
	}

	c.update(func(s *SpaceDetailState) {
		s.Loading = true
		s.Error = ""
	})

	space, err := c.backend.GetSpace(ctx, c.spaceID)
	switch {
	case errors.Is(err, services.ErrAccessDenied):
		c.fail(msgSpaceAccessDenied)
		return
	case err != nil:
		log.Error().Err(err).Str("space_id", c.spaceID).Msg("failed to load space")
		c.fail(msgSpaceLoadFailed)
		return
	case space == nil:
		c.fail(msgSpaceNotFound)
		return
	case space.UserID.String() != identity.ID:
		c.fail(msgSpaceAccessDenied)
		return
	}

	if !c.update(func(s *SpaceDetailState) { s.Space = space }) {
		return
	}

	notes, err := c.backend.ListNotes(ctx, c.spaceID)
	c.update(func(s *SpaceDetailState) {
		s.Loading = false
		if err != nil {
			log.Error().Err(err).Str("space_id", c.spaceID).Msg("failed to load notes")
			s.Error = msgSpaceLoadFailed
			return
		}
		s.Notes = notes
		s.Previews = make(map[string]string, len(notes))
		for _, note := range notes {
			s.Previews[note.ID.String()] = models.PreviewSnippet(note.Content)
		}
	})
}

func (c *SpaceDetail) fail(msg string) {
	c.update(func(s *SpaceDetailState) {
		s.Loading = false
		s.Error = msg
	})
}

func (c *SpaceDetail) SetNewNoteTitle(title string) {
	c.update(func(s *SpaceDetailState) { s.NewNoteTitle = title })
}

// CreateNote creates a note and opens it in the editor. The list is not
// refreshed; it is reloaded when the user comes back to this view.
func (c *SpaceDetail) CreateNote(ctx context.Context) {
	var title string
	started := false
	c.update(func(s *SpaceDetailState) {
		title = strings.TrimSpace(s.NewNoteTitle)
		if title == "" || s.CreatingNote {
			return
		}
		s.CreatingNote = true
		s.Error = ""
		started = true
	})
	if !started {
		return
	}

	note, err := c.backend.CreateNote(ctx, c.spaceID, title)
	alive := c.update(func(s *SpaceDetailState) {
		s.CreatingNote = false
		if err != nil {
			log.Error().Err(err).Str("space_id", c.spaceID).Msg("failed to create note")
			s.Error = msgCreateNoteFailed
			return
		}
		s.NewNoteTitle = ""
	})
	if alive && err == nil {
		c.nav.ToNote(note.ID.String())
	}
}

func (c *SpaceDetail) OpenNote(noteID string) {
	if c.alive() {
		c.nav.ToNote(noteID)
	}
}

func (c *SpaceDetail) GoBack() {
	if c.alive() {
		c.nav.ToDashboard()
	}
}
