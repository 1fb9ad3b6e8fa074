package app

import (
	"fmt"
	"sync"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/dataset"
)

// Session holds the feature and metadata tables of the current analysis. Tables are
// immutable; loading a new pair replaces the old one wholesale.
type Session struct {
	mu       sync.RWMutex
	features *dataset.FeatureTable
	metadata *dataset.MetadataTable
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{}
}

// Load aligns metadata to the feature table's sample order and installs the pair. It returns
// the IDs of the tables that were replaced so derived results can be invalidated.
func (s *Session) Load(ft *dataset.FeatureTable, md *dataset.MetadataTable) ([]core.TableID, error) {
	if ft == nil || md == nil {
		return nil, fmt.Errorf("%w: both a feature and a metadata table are required", core.ErrEmptyTable)
	}
	aligned, err := dataset.Align(ft, md)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var replaced []core.TableID
	if s.features != nil {
		replaced = append(replaced, s.features.ID)
	}
	if s.metadata != nil {
		replaced = append(replaced, s.metadata.ID)
	}
	s.features, s.metadata = ft, aligned
	return replaced, nil
}

// Tables returns the loaded pair, or ErrTableNotFound when nothing has been loaded.
func (s *Session) Tables() (*dataset.FeatureTable, *dataset.MetadataTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.features == nil || s.metadata == nil {
		return nil, nil, fmt.Errorf("%w: no feature and metadata tables loaded", core.ErrTableNotFound)
	}
	return s.features, s.metadata, nil
}

// Loaded reports whether tables are available.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.features != nil
}
