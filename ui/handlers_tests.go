package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/app"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
	apperrors "github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal/errors"
)

// runTestRequest is the body of POST /api/tests/{family}, as JSON or form values
type runTestRequest struct {
	Attribute   string `json:"attribute"`
	GroupA      string `json:"group_a"`
	GroupB      string `json:"group_b"`
	Alternative string `json:"alternative"`
	Correction  string `json:"correction"`
}

func (a *App) handleRunTest(w http.ResponseWriter, r *http.Request) {
	family, err := stats.ParseTestFamily(chi.URLParam(r, "family"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	var req runTestRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.writeError(w, apperrors.InvalidInput(fmt.Sprintf("invalid JSON body: %v", err)))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			a.writeError(w, apperrors.InvalidInput(fmt.Sprintf("invalid form: %v", err)))
			return
		}
		req = runTestRequest{
			Attribute:   r.FormValue("attribute"),
			GroupA:      r.FormValue("group_a"),
			GroupB:      r.FormValue("group_b"),
			Alternative: r.FormValue("alternative"),
			Correction:  r.FormValue("correction"),
		}
	}

	table, err := a.service.Run(r.Context(), app.RunRequest{
		Family:      family,
		Grouping:    stats.Grouping{Attribute: req.Attribute, GroupA: req.GroupA, GroupB: req.GroupB},
		Alternative: stats.Alternative(req.Alternative),
		Correction:  req.Correction,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}
