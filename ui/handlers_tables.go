package ui

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/adapters/excel"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/dataset"
	apperrors "github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal/errors"
)

// tablesResponse describes the tables now loaded in the session
type tablesResponse struct {
	FeatureTableID  string   `json:"feature_table_id"`
	MetadataTableID string   `json:"metadata_table_id"`
	Samples         int      `json:"samples"`
	Features        int      `json:"features"`
	MissingRate     float64  `json:"missing_rate"`
	Attributes      []string `json:"attributes"`
}

// handleUploadTables accepts multipart fields "features" and "metadata" (csv, tsv or xlsx),
// plus optional "transpose" and "sheet".
func (a *App) handleUploadTables(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.writeError(w, apperrors.InvalidInput(fmt.Sprintf("invalid upload: %v", err)))
		return
	}
	transpose, err := parseTranspose(r.FormValue("transpose"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	sheet := r.FormValue("sheet")

	featureRaw, err := a.readUpload(r, "features", sheet)
	if err != nil {
		a.writeError(w, err)
		return
	}
	metadataRaw, err := a.readUpload(r, "metadata", sheet)
	if err != nil {
		a.writeError(w, err)
		return
	}

	ft, err := excel.ParseFeatureTable(featureRaw, transpose)
	if err != nil {
		a.writeError(w, err)
		return
	}
	md, err := excel.ParseMetadataTable(metadataRaw)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if err := a.service.LoadTables(ft, md, "upload"); err != nil {
		a.writeError(w, err)
		return
	}

	a.writeTables(w, ft)
}

// parseTranspose treats an absent field as false.
func parseTranspose(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperrors.ValidationError(fmt.Sprintf("transpose must be true or false, got %q", v))
	}
	return b, nil
}

func (a *App) readUpload(r *http.Request, field, sheet string) (*excel.RawTable, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("missing file field %q", field))
	}
	defer file.Close()
	return a.reader.Read(header.Filename, file, sheet)
}

func (a *App) writeTables(w http.ResponseWriter, ft *dataset.FeatureTable) {
	_, md, err := a.service.Session().Tables()
	if err != nil {
		a.writeError(w, err)
		return
	}
	attrs, err := a.service.Attributes()
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tablesResponse{
		FeatureTableID:  ft.ID.String(),
		MetadataTableID: md.ID.String(),
		Samples:         ft.NumSamples(),
		Features:        ft.NumFeatures(),
		MissingRate:     ft.MissingRate(),
		Attributes:      attrs,
	})
}

func (a *App) handleAttributes(w http.ResponseWriter, r *http.Request) {
	attrs, err := a.service.Attributes()
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"attributes": attrs})
}

func (a *App) handleAttributeLevels(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	levels, err := a.service.Levels(name)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"attribute": name, "levels": levels})
}

// pathParam returns a URL parameter with percent-escapes decoded
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
