package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// pageTemplates is the parsed set of all page templates.
var pageTemplates = mustParseTemplates()

func mustParseTemplates() *template.Template {
	t, err := template.New("").ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		panic("parse templates: " + err.Error())
	}
	return t
}

// indexData feeds the index page: the configured agent identities and the
// session's running stats.
type indexData struct {
	SupervisorAgentID string
	ContentAgentID    string
	VisualAgentID     string
	ImageRegion       string
	ImageModelID      string
	SessionID         string
	CampaignsCreated  int
	VisualsGenerated  int
}

// Index handles GET / — the campaign creator page with configuration
// summary and session stats.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	session := r.URL.Query().Get("session")
	campaigns, visuals := 0, 0
	if session != "" {
		campaigns, visuals = h.history.Stats(session)
	}

	data := indexData{
		SupervisorAgentID: h.cfg.SupervisorAgentID,
		ContentAgentID:    h.cfg.ContentAgentID,
		VisualAgentID:     h.cfg.VisualAgentID,
		ImageRegion:       h.cfg.ImageRegion,
		ImageModelID:      h.cfg.ImageModelID,
		SessionID:         session,
		CampaignsCreated:  campaigns,
		VisualsGenerated:  visuals,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "index", data); err != nil {
		log.Error().Err(err).Msg("Failed to render index")
	}
}
