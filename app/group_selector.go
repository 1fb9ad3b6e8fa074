package app

import (
	"fmt"
	"sort"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/dataset"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

// GroupIndices are the metadata rows of each group, ascending in table order.
type GroupIndices struct {
	Grouping stats.Grouping
	A        []int
	B        []int
}

// SelectGroups partitions the samples of md by a two-level grouping. Rows with a missing
// attribute value belong to neither group.
func SelectGroups(md *dataset.MetadataTable, g stats.Grouping) (GroupIndices, error) {
	invalid := func(reason string) error {
		return core.NewInvalidGroupingError(g.Attribute, g.GroupA, g.GroupB, reason)
	}

	column, err := md.Attribute(g.Attribute)
	if err != nil {
		return GroupIndices{}, invalid("attribute does not exist")
	}
	if g.GroupA == g.GroupB {
		return GroupIndices{}, invalid("group labels must differ")
	}

	levels := distinctLevels(column)
	if len(levels) < 2 {
		return GroupIndices{}, invalid(fmt.Sprintf("attribute has %d distinct non-missing values, need at least 2", len(levels)))
	}

	out := GroupIndices{Grouping: g}
	for i, v := range column {
		switch {
		case dataset.IsMissing(v):
		case v == g.GroupA:
			out.A = append(out.A, i)
		case v == g.GroupB:
			out.B = append(out.B, i)
		}
	}
	if len(out.A) == 0 {
		return GroupIndices{}, invalid(fmt.Sprintf("label %q not present", g.GroupA))
	}
	if len(out.B) == 0 {
		return GroupIndices{}, invalid(fmt.Sprintf("label %q not present", g.GroupB))
	}
	return out, nil
}

// CandidateAttributes lists, in table order, the attributes with more than one distinct
// non-missing value.
func CandidateAttributes(md *dataset.MetadataTable) []string {
	var out []string
	for _, attr := range md.Attributes {
		column, _ := md.Attribute(attr)
		if len(distinctLevels(column)) > 1 {
			out = append(out, attr)
		}
	}
	return out
}

// AttributeLevels returns the sorted distinct non-missing values of an attribute.
func AttributeLevels(md *dataset.MetadataTable, attribute string) ([]string, error) {
	column, err := md.Attribute(attribute)
	if err != nil {
		return nil, err
	}
	levels := distinctLevels(column)
	sort.Strings(levels)
	return levels, nil
}

func distinctLevels(column []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range column {
		if dataset.IsMissing(v) {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
