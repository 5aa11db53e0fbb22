package controllers

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"study-sync/studysync/models"
)

type DashboardTab string

const (
	TabViewSpaces  DashboardTab = "view_spaces"
	TabCreateSpace DashboardTab = "create_space"
)

const (
	msgFetchSpacesFailed = "Failed to fetch Sync Spaces."
	msgCreateSpaceFailed = "Failed to create new Sync Space."
	msgDeleteSpaceFailed = "Failed to delete space."
)

type DashboardState struct {
	Spaces       []models.Space
	Loading      bool
	Error        string
	Creating     bool
	DeletingID   string
	NewSpaceName string
	ActiveTab    DashboardTab
}

// SessionControl is the part of the session the dashboard needs.
type SessionControl interface {
	IdentitySource
	SignOut(ctx context.Context) error
}

// Dashboard lists the user's spaces. The list is always refetched in full
// after a mutation; nothing is inserted optimistically.
type Dashboard struct {
	store[DashboardState]

	backend Backend
	session SessionControl
	nav     Navigator
	confirm Confirmer
}

func NewDashboard(backend Backend, session SessionControl, nav Navigator, confirm Confirmer) *Dashboard {
	d := &Dashboard{
		backend: backend,
		session: session,
		nav:     nav,
		confirm: confirm,
	}
	d.state = DashboardState{
		Spaces:    []models.Space{},
		Loading:   true,
		ActiveTab: TabViewSpaces,
	}
	return d
}

func (d *Dashboard) State() DashboardState {
	var snapshot DashboardState
	d.read(func(s DashboardState) {
		snapshot = s
		snapshot.Spaces = append([]models.Space(nil), s.Spaces...)
	})
	return snapshot
}

// Load fetches the spaces. Without a signed-in user it sends the user to the
// login view instead.
func (d *Dashboard) Load(ctx context.Context) {
	if _, ok := d.session.Current(); !ok {
		if d.update(func(s *DashboardState) { s.Loading = false }) {
			d.nav.ToLogin()
		}
		return
	}

	d.update(func(s *DashboardState) {
		s.Loading = true
		s.Error = ""
	})

	spaces, err := d.backend.ListSpaces(ctx)
	d.update(func(s *DashboardState) {
		s.Loading = false
		if err != nil {
			log.Error().Err(err).Msg("failed to fetch spaces")
			s.Error = msgFetchSpacesFailed
			return
		}
		s.Spaces = spaces
	})
}

func (d *Dashboard) SetNewSpaceName(name string) {
	d.update(func(s *DashboardState) { s.NewSpaceName = name })
}

func (d *Dashboard) SetTab(tab DashboardTab) {
	d.update(func(s *DashboardState) { s.ActiveTab = tab })
}

// Create adds a space named after the input field. Blank names are ignored
// without contacting the backend. The input is kept when creation fails.
func (d *Dashboard) Create(ctx context.Context) {
	var name string
	started := false
	d.update(func(s *DashboardState) {
		name = strings.TrimSpace(s.NewSpaceName)
		if name == "" || s.Creating {
			return
		}
		s.Creating = true
		s.Error = ""
		started = true
	})
	if !started {
		return
	}
	if _, ok := d.session.Current(); !ok {
		d.update(func(s *DashboardState) { s.Creating = false })
		return
	}

	_, err := d.backend.CreateSpace(ctx, name)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to create space")
		d.update(func(s *DashboardState) {
			s.Creating = false
			s.Error = msgCreateSpaceFailed
		})
		return
	}

	if !d.update(func(s *DashboardState) { s.NewSpaceName = "" }) {
		return
	}
	d.Load(ctx)
	d.update(func(s *DashboardState) {
		s.Creating = false
		s.ActiveTab = TabViewSpaces
	})
}

// Delete removes a space and all of its notes once the user confirms.
func (d *Dashboard) Delete(ctx context.Context, spaceID, spaceName string) {
	prompt := fmt.Sprintf("Are you absolutely sure you want to delete the Sync Space: \"%s\"?", spaceName)
	if !d.confirm.Confirm(prompt) {
		return
	}

	if !d.update(func(s *DashboardState) {
		s.DeletingID = spaceID
		s.Error = ""
	}) {
		return
	}

	err := d.backend.DeleteSpace(ctx, spaceID)
	if err != nil {
		log.Error().Err(err).Str("space_id", spaceID).Msg("failed to delete space")
		d.update(func(s *DashboardState) { s.Error = msgDeleteSpaceFailed })
	} else {
		d.Load(ctx)
	}

	d.update(func(s *DashboardState) {
		if s.DeletingID == spaceID {
			s.DeletingID = ""
		}
	})
}

func (d *Dashboard) OpenSpace(spaceID string) {
	if d.alive() {
		d.nav.ToSpace(spaceID)
	}
}

func (d *Dashboard) SignOut(ctx context.Context) {
	if err := d.session.SignOut(ctx); err != nil {
		log.Warn().Err(err).Msg("sign out failed")
	}
	if d.alive() {
		d.nav.ToLogin()
	}
}
