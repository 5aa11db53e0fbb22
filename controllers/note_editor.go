package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"study-sync/studysync/models"
	"study-sync/studysync/services"
)

type SaveMessage int

const (
	SaveIdle SaveMessage = iota
	SaveSaving
	SaveSaved
	SaveFailed
)

func (m SaveMessage) String() string {
	switch m {
	case SaveSaving:
		return "Saving..."
	case SaveSaved:
		return "Saved!"
	case SaveFailed:
		return "Save Failed!"
	default:
		return ""
	}
}

const (
	DefaultResetDelay = 2 * time.Second

	defaultNoteTitle  = "Untitled Note"
	unknownSpaceName  = "Unknown Space"
	noParentSpaceName = "No Parent Space"

	msgNoNoteID         = "No Note ID provided."
	msgNoteNotFound     = "Note not found or Access denied."
	msgNoteLoadFailed   = "Failed to load note data."
	msgDeleteNoteFailed = "Failed to delete note."
)

var errNotSignedIn = errors.New("not signed in")

type NoteEditorState struct {
	Title         string
	Content       string
	SpaceID       string
	SpaceName     string
	Loading       bool
	Saving        bool
	SaveMessage   SaveMessage
	Error         string
	Previewing    bool
	EditorVisible bool
}

// NoteEditor edits a single note. At most one save is in flight at a time.
type NoteEditor struct {
	store[NoteEditorState]

	// ResetDelay is how long "saved" stays up before returning to idle.
	ResetDelay time.Duration

	noteID   string
	backend  Backend
	identity IdentitySource
	nav      Navigator
	confirm  Confirmer

	saveSeq    int
	resetTimer *time.Timer
}

func NewNoteEditor(backend Backend, identity IdentitySource, nav Navigator, confirm Confirmer, noteID string) *NoteEditor {
	e := &NoteEditor{
		ResetDelay: DefaultResetDelay,
		noteID:     noteID,
		backend:    backend,
		identity:   identity,
		nav:        nav,
		confirm:    confirm,
	}
	e.state = NoteEditorState{Loading: true}
	return e
}

func (e *NoteEditor) State() NoteEditorState {
	var snapshot NoteEditorState
	e.read(func(s NoteEditorState) { snapshot = s })
	return snapshot
}

// Load fetches the note and the name of its space. Notes that are missing or
// owned by someone else keep the editor hidden.
func (e *NoteEditor) Load(ctx context.Context) {
	identity, signedIn := e.identity.Current()
	if !signedIn {
		if e.update(func(s *NoteEditorState) { s.Loading = false }) {
			e.nav.ToLogin()
		}
		return
	}
	if e.noteID == "" {
		e.failLoad(msgNoNoteID)
		return
	}

	note, err := e.backend.GetNote(ctx, e.noteID)
	switch {
	case errors.Is(err, services.ErrAccessDenied):
		e.failLoad(msgNoteNotFound)
		return
	case err != nil:
		log.Error().Err(err).Str("note_id", e.noteID).Msg("failed to load note")
		e.failLoad(msgNoteLoadFailed)
		return
	case note == nil, note.UserID.String() != identity.ID:
		e.failLoad(msgNoteNotFound)
		return
	}

	spaceID := ""
	if note.SpaceID != uuid.Nil {
		spaceID = note.SpaceID.String()
	}

	spaceName := noParentSpaceName
	if spaceID != "" {
		spaceName = unknownSpaceName
		space, err := e.backend.GetSpace(ctx, spaceID)
		if err != nil {
			log.Warn().Err(err).Str("space_id", spaceID).Msg("failed to resolve parent space")
		} else if space != nil && space.Name != "" {
			spaceName = space.Name
		}
	}

	title := note.Title
	if title == "" {
		title = defaultNoteTitle
	}

	e.update(func(s *NoteEditorState) {
		s.Title = title
		s.Content = note.Content
		s.SpaceID = spaceID
		s.SpaceName = spaceName
		s.Loading = false
		s.Error = ""
		s.EditorVisible = true
	})
}

func (e *NoteEditor) failLoad(msg string) {
	e.update(func(s *NoteEditorState) {
		s.Loading = false
		s.Error = msg
		s.EditorVisible = false
	})
}

func (e *NoteEditor) SetTitle(title string) {
	e.update(func(s *NoteEditorState) { s.Title = title })
}

func (e *NoteEditor) SetContent(content string) {
	e.update(func(s *NoteEditorState) { s.Content = content })
}

func (e *NoteEditor) TogglePreview() {
	e.update(func(s *NoteEditorState) { s.Previewing = !s.Previewing })
}

// Save writes title and content. It does nothing while another save is in
// flight or when the content is empty. The note always stays in the space it
// was loaded from.
func (e *NoteEditor) Save(ctx context.Context) {
	var fields models.NoteFields
	var seq int
	started := false
	e.update(func(s *NoteEditorState) {
		if s.Saving || s.Content == "" || !s.EditorVisible {
			return
		}
		title, content, spaceID := s.Title, s.Content, s.SpaceID
		fields = models.NoteFields{Title: &title, Content: &content}
		if spaceID != "" {
			fields.SpaceID = &spaceID
		}
		e.saveSeq++
		seq = e.saveSeq
		if e.resetTimer != nil {
			e.resetTimer.Stop()
		}
		s.Saving = true
		s.SaveMessage = SaveSaving
		started = true
	})
	if !started {
		return
	}

	err := errNotSignedIn
	if identity, ok := e.identity.Current(); ok {
		fields.UserID = &identity.ID
		err = e.backend.SaveNote(ctx, e.noteID, fields)
	}

	e.update(func(s *NoteEditorState) {
		s.Saving = false
		if err != nil {
			log.Error().Err(err).Str("note_id", e.noteID).Msg("failed to save note")
			s.SaveMessage = SaveFailed
			return
		}
		s.SaveMessage = SaveSaved
		e.resetTimer = time.AfterFunc(e.ResetDelay, func() { e.resetSaveMessage(seq) })
	})
}

func (e *NoteEditor) resetSaveMessage(seq int) {
	e.update(func(s *NoteEditorState) {
		if e.saveSeq == seq && s.SaveMessage == SaveSaved {
			s.SaveMessage = SaveIdle
		}
	})
}

// Delete removes the note once the user confirms and returns to its space.
// On failure the editor stays open with its unsaved changes.
func (e *NoteEditor) Delete(ctx context.Context) {
	var title string
	e.read(func(s NoteEditorState) { title = s.Title })

	if !e.confirm.Confirm(fmt.Sprintf("Are you sure you want to delete the note: \"%s\"?", title)) {
		return
	}

	err := e.backend.DeleteNote(ctx, e.noteID)
	if err != nil {
		log.Error().Err(err).Str("note_id", e.noteID).Msg("failed to delete note")
		e.update(func(s *NoteEditorState) { s.Error = msgDeleteNoteFailed })
		return
	}

	if e.alive() {
		e.GoBack()
	}
}

// GoBack returns to the parent space, or to the dashboard for orphans.
func (e *NoteEditor) GoBack() {
	var spaceID string
	e.read(func(s NoteEditorState) { spaceID = s.SpaceID })
	if !e.alive() {
		return
	}
	if spaceID != "" {
		e.nav.ToSpace(spaceID)
		return
	}
	e.nav.ToDashboard()
}

func (e *NoteEditor) Close() {
	e.update(func(*NoteEditorState) {
		if e.resetTimer != nil {
			e.resetTimer.Stop()
		}
	})
	e.store.Close()
}
