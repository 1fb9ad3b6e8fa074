package ui

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/adapters/export"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/adapters/plot"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

func (a *App) resultFromPath(r *http.Request) (*stats.ResultTable, error) {
	key, err := core.ParseRunKey(chi.URLParam(r, "key"))
	if err != nil {
		return nil, err
	}
	return a.service.Result(key)
}

func (a *App) handleResult(w http.ResponseWriter, r *http.Request) {
	table, err := a.resultFromPath(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (a *App) handleResultCSV(w http.ResponseWriter, r *http.Request) {
	table, err := a.resultFromPath(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	data, err := export.CSVBytes(table)
	if err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(table)))
	w.Write(data)
}

func (a *App) handleVolcano(w http.ResponseWriter, r *http.Request) {
	table, err := a.resultFromPath(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	img, err := plot.Volcano(table)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writePNG(w, img)
}

func (a *App) handleBoxPlot(w http.ResponseWriter, r *http.Request) {
	key, err := core.ParseRunKey(chi.URLParam(r, "key"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	feature := strings.TrimSuffix(pathParam(r, "feature"), ".png")

	fg, err := a.service.FeatureGroups(key, feature)
	if err != nil {
		a.writeError(w, err)
		return
	}
	img, err := plot.BoxPlot(feature, fg.Row.PCorrected,
		plot.Group{Label: fg.A.Label, Values: fg.A.Values},
		plot.Group{Label: fg.B.Label, Values: fg.B.Values},
	)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writePNG(w, img)
}

func (a *App) handleFeatureGroups(w http.ResponseWriter, r *http.Request) {
	key, err := core.ParseRunKey(chi.URLParam(r, "key"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	fg, err := a.service.FeatureGroups(key, pathParam(r, "feature"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fg)
}

func writePNG(w http.ResponseWriter, img []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(img)
}
