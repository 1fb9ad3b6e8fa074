package ports

import (
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

// ResultCache memoises result tables by run key.
type ResultCache interface {
	Get(key core.RunKey) (*stats.ResultTable, bool)
	Put(table *stats.ResultTable)
	// InvalidateTable drops every entry computed from the given feature or metadata table
	// and returns how many were removed.
	InvalidateTable(id core.TableID) int
	Len() int
}
