package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

// indexPage is the data behind templates/index.html
type indexPage struct {
	Loaded            bool
	Attributes        []string
	Families          []stats.TestFamily
	Alternatives      []stats.Alternative
	Corrections       []stats.CorrectionMethod
	DefaultCorrection stats.CorrectionMethod
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{
		Loaded:            a.service.Session().Loaded(),
		Families:          []stats.TestFamily{stats.IndependentGroups, stats.PairedSamples},
		Alternatives:      stats.Alternatives(),
		Corrections:       stats.CorrectionMethods(),
		DefaultCorrection: a.service.DefaultCorrection(),
	}
	if page.Loaded {
		attrs, err := a.service.Attributes()
		if err != nil {
			a.writeError(w, err)
			return
		}
		page.Attributes = attrs
	}
	a.renderTemplate(w, "index.html", page)
}

func (a *App) handleAbout(w http.ResponseWriter, r *http.Request) {
	family, err := stats.ParseTestFamily(chi.URLParam(r, "family"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(renderAbout(family)))
}
