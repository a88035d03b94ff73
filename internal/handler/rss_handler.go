package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/EpocDotFr/server-patrol/internal/model"
	"github.com/EpocDotFr/server-patrol/internal/service"
	"github.com/EpocDotFr/server-patrol/pkg/middleware"
	"github.com/gorilla/feeds"
)

// RSSHandler renders the monitorings status RSS feed
type RSSHandler struct {
	service   *service.MonitoringService
	publicURL string
}

// NewRSSHandler creates a new RSS handler
func NewRSSHandler(service *service.MonitoringService, publicURL string) *RSSHandler {
	return &RSSHandler{
		service:   service,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// Feed handles GET /rss
func (h *RSSHandler) Feed(w http.ResponseWriter, r *http.Request) {
	monitorings, err := h.service.ListVisible(r.Context(), middleware.IsAuthenticated(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	feed := &feeds.Feed{
		Title:       "Server Patrol - Monitorings status",
		Link:        &feeds.Link{Href: h.publicURL},
		Description: "Server Patrol - Monitorings status",
		Created:     time.Now().UTC(),
	}

	for i := range monitorings {
		feed.Items = append(feed.Items, h.feedItem(&monitorings[i]))
	}

	rss, err := feed.ToRss()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, rss)
}

func (h *RSSHandler) feedItem(m *model.Monitoring) *feeds.Item {
	var title, description string

	switch m.Status {
	case model.StatusDown:
		title = fmt.Sprintf("%s is down", m.Name)
		description = fmt.Sprintf(
			"<p><b>%s</b> seems to encounter issues and is unreachable since the <b>%s</b>. The reason is:</p><p>%s</p>",
			m.Name,
			m.LastStatusChangeAt.Format(time.RFC1123),
			m.LastDownReason,
		)
	case model.StatusUp:
		title = fmt.Sprintf("%s is up", m.Name)
		description = fmt.Sprintf(
			"<p><b>%s</b> is up and reachable since the <b>%s</b>.</p>",
			m.Name,
			m.LastStatusChangeAt.Format(time.RFC1123),
		)
	default:
		title = fmt.Sprintf("%s status is unknown", m.Name)
		description = fmt.Sprintf("<p>The status of <b>%s</b> is currently unknown.</p>", m.Name)
	}

	date := m.LastStatusChangeAt
	if date.IsZero() {
		date = m.CreatedAt
	}

	return &feeds.Item{
		Title:       title,
		Link:        &feeds.Link{Href: m.URL},
		Description: description,
		Id:          strings.Join([]string{m.ID.Hex(), string(m.Status), date.Format(time.RFC3339)}, ":"),
		Created:     date,
	}
}
