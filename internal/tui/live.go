package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/lotas/salonreviews/internal/applog"
	"github.com/lotas/salonreviews/internal/reviews"
	"github.com/lotas/salonreviews/internal/server"
	"github.com/lotas/salonreviews/internal/snapshot"
	"github.com/lotas/salonreviews/internal/storage"
	"github.com/lotas/salonreviews/internal/types"
)

// Messages from the WebSocket server
type wsDisconnectedMsg struct{}
type wsSnapshotMsg struct{ cat *types.Catalog }
type wsArtistMsg struct{ artist *types.Artist }
type wsArtistRemovedMsg struct{ id string }
type wsReviewMsg struct{ review *types.Review }
type wsHelpfulMsg struct{ id string }
type wsSelectMsg struct{ id string }
type wsErrorMsg struct{ err error }

func sendCmd(srv *server.Server, msg server.OutgoingMsg) tea.Cmd {
	return func() tea.Msg {
		msg.ID = uuid.NewString()
		if err := srv.Send(msg); err != nil {
			applog.Error("ws.send", err, "action", msg.Action)
		}
		return nil
	}
}

func startWSServer(srv *server.Server) tea.Cmd {
	return func() tea.Msg {
		if err := srv.ListenAndServe(context.Background()); err != nil {
			applog.Error("server.stop", err)
		}
		return wsDisconnectedMsg{}
	}
}

func listenWebSocket(srv *server.Server) tea.Cmd {
	return func() tea.Msg {
		for {
			msg, ok := <-srv.Messages()
			if !ok {
				return wsDisconnectedMsg{}
			}
			switch msg.Type {
			case server.TypeSnapshot:
				cat, err := server.ParseSnapshot(msg)
				if err != nil {
					return wsErrorMsg{err: err}
				}
				return wsSnapshotMsg{cat: cat}
			case server.TypeArtistAdded, server.TypeArtistUpdated:
				a, err := server.ParseArtist(msg.Artist)
				if err != nil {
					return wsErrorMsg{err: err}
				}
				return wsArtistMsg{artist: a}
			case server.TypeArtistRemoved:
				return wsArtistRemovedMsg{id: msg.ArtistID}
			case server.TypeReviewAdded:
				r, err := server.ParseReview(msg.Review)
				if err != nil {
					return wsErrorMsg{err: err}
				}
				return wsReviewMsg{review: r}
			case server.TypeReviewHelpful:
				return wsHelpfulMsg{id: msg.ReviewID}
			case server.TypeSelect:
				return wsSelectMsg{id: msg.ArtistID}
			default:
				// Unknown message type, skip and keep listening
			}
		}
	}
}

// handleLive applies a feed message to the catalog and the database.
func (m *Model) handleLive(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case wsSnapshotMsg:
		if m.db != nil {
			if _, _, err := snapshot.Apply(m.db, msg.cat); err != nil {
				applog.Error("snapshot.apply", err)
				m.status = "snapshot not saved: " + err.Error()
			}
		}
		m.setCatalog(msg.cat)

	case wsArtistMsg:
		if m.db != nil {
			if err := storage.UpsertArtist(m.db, *msg.artist); err != nil {
				applog.Error("store.upsert_artist", err, "id", msg.artist.ID)
				m.status = err.Error()
				break
			}
		}
		if i := m.cat.ArtistIndex(msg.artist.ID); i >= 0 {
			m.cat.Artists[i] = *msg.artist
		} else {
			m.cat.Artists = append(m.cat.Artists, *msg.artist)
		}
		m.catalogChanged()

	case wsArtistRemovedMsg:
		if m.db != nil {
			if err := storage.DeleteArtist(m.db, msg.id); err != nil {
				applog.Error("store.delete_artist", err, "id", msg.id)
			}
		}
		if i := m.cat.ArtistIndex(msg.id); i >= 0 {
			m.cat.Artists = append(m.cat.Artists[:i], m.cat.Artists[i+1:]...)
			kept := m.cat.Reviews[:0]
			for _, r := range m.cat.Reviews {
				if r.ArtistID != msg.id {
					kept = append(kept, r)
				}
			}
			m.cat.Reviews = kept
		}
		m.catalogChanged()

	case wsReviewMsg:
		if m.cat.ArtistIndex(msg.review.ArtistID) < 0 {
			applog.Warn("ws.review_unknown_artist", "artist", msg.review.ArtistID)
			return m.sendError("unknown artist " + msg.review.ArtistID)
		}
		if m.db != nil {
			if err := storage.InsertReview(m.db, *msg.review); err != nil {
				applog.Error("store.insert_review", err, "id", msg.review.ID)
				m.status = err.Error()
				break
			}
		}
		m.cat.Reviews = append([]types.Review{*msg.review}, m.cat.Reviews...)
		m.catalogChanged()

	case wsHelpfulMsg:
		for i := range m.cat.Reviews {
			if m.cat.Reviews[i].ID != msg.id {
				continue
			}
			m.cat.Reviews[i].HelpfulCount++
			if m.db != nil {
				if n, err := storage.MarkHelpful(m.db, msg.id); err == nil {
					m.cat.Reviews[i].HelpfulCount = n
				} else {
					applog.Error("store.mark_helpful", err, "id", msg.id)
				}
			}
			m.refreshList()
			break
		}

	case wsSelectMsg:
		if msg.id != "" && m.cat.ArtistIndex(msg.id) < 0 {
			applog.Warn("ws.select_unknown", "artist", msg.id)
			return m.sendError("unknown artist " + msg.id)
		}
		m.bar.Select(msg.id)

	case wsErrorMsg:
		applog.Error("ws.message", msg.err)
		m.status = msg.err.Error()
		return m.sendError(msg.err.Error())
	}
	return nil
}

func (m *Model) sendError(text string) tea.Cmd {
	if m.server == nil {
		return nil
	}
	return sendCmd(m.server, server.OutgoingMsg{Action: server.ActionError, Error: text})
}

// announceSelection tells the front desk what the reviews box now shows.
func (m *Model) announceSelection() tea.Cmd {
	if m.server == nil {
		return nil
	}
	shown := m.shownReviews()
	return sendCmd(m.server, server.OutgoingMsg{
		Action:   server.ActionSelected,
		ArtistID: m.sel.Current(),
		Heading:  m.heading(),
		Count:    len(shown),
		Average:  reviews.Average(shown),
	})
}
