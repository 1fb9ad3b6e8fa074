package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/core"
)

// SignificanceLevel is the fixed threshold applied to corrected p-values.
const SignificanceLevel = 0.05

// ============================================================================
// RUN PARAMETERS
// ============================================================================

// TestFamily selects the hypothesis test applied to every feature.
type TestFamily string

const (
	// IndependentGroups runs the Mann-Whitney U test.
	IndependentGroups TestFamily = "mwu"
	// PairedSamples runs the Wilcoxon signed-rank test and requires equal group sizes.
	PairedSamples TestFamily = "wilcoxon"
)

// ParseTestFamily accepts the canonical names and the common spellings used in URLs and flags.
func ParseTestFamily(s string) (TestFamily, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mwu", "mann-whitney", "mannwhitney", "independent":
		return IndependentGroups, nil
	case "wilcoxon", "signed-rank", "paired":
		return PairedSamples, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidTestFamily, s)
}

// StatisticName is the result column label used by exports and plots.
func (f TestFamily) StatisticName() string {
	if f == PairedSamples {
		return "W-val"
	}
	return "U-val"
}

// DisplayName is the human readable test name.
func (f TestFamily) DisplayName() string {
	if f == PairedSamples {
		return "Wilcoxon Signed-Rank Test"
	}
	return "Mann-Whitney U Test"
}

// Alternative is the alternative hypothesis, applied uniformly to every feature.
// Greater means group A tends to be larger than group B.
type Alternative string

const (
	TwoSided Alternative = "two-sided"
	Greater  Alternative = "greater"
	Less     Alternative = "less"
)

// Alternatives lists the accepted values in display order.
func Alternatives() []Alternative { return []Alternative{TwoSided, Greater, Less} }

// ParseAlternative validates an alternative; the empty string means two-sided.
func ParseAlternative(s string) (Alternative, error) {
	switch Alternative(strings.ToLower(strings.TrimSpace(s))) {
	case "", TwoSided:
		return TwoSided, nil
	case Greater:
		return Greater, nil
	case Less:
		return Less, nil
	}
	return "", fmt.Errorf("%w: %q (want two-sided, greater or less)", core.ErrInvalidAlternative, s)
}

// CorrectionMethod identifies a multiple-testing correction procedure.
type CorrectionMethod string

const (
	CorrectionNone       CorrectionMethod = "none"
	CorrectionBonferroni CorrectionMethod = "bonferroni"
	CorrectionSidak      CorrectionMethod = "sidak"
	CorrectionHolm       CorrectionMethod = "holm"
	CorrectionFDRBH      CorrectionMethod = "fdr_bh"
	CorrectionFDRBY      CorrectionMethod = "fdr_by"
)

var correctionAliases = map[string]CorrectionMethod{
	"none":       CorrectionNone,
	"no":         CorrectionNone,
	"bonferroni": CorrectionBonferroni,
	"bonf":       CorrectionBonferroni,
	"sidak":      CorrectionSidak,
	"holm":       CorrectionHolm,
	"fdr_bh":     CorrectionFDRBH,
	"fdr":        CorrectionFDRBH,
	"bh":         CorrectionFDRBH,
	"fdr_by":     CorrectionFDRBY,
	"by":         CorrectionFDRBY,
}

// CorrectionMethods lists the canonical members of the supported set.
func CorrectionMethods() []CorrectionMethod {
	return []CorrectionMethod{
		CorrectionNone, CorrectionBonferroni, CorrectionSidak,
		CorrectionHolm, CorrectionFDRBH, CorrectionFDRBY,
	}
}

// ParseCorrectionMethod resolves aliases to the canonical identifier.
func ParseCorrectionMethod(s string) (CorrectionMethod, error) {
	if m, ok := correctionAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", &core.UnsupportedCorrectionError{Method: s}
}

// Grouping is the attribute and the two category labels compared by a run.
type Grouping struct {
	Attribute string `json:"attribute"`
	GroupA    string `json:"group_a"`
	GroupB    string `json:"group_b"`
}

func (g Grouping) String() string {
	return fmt.Sprintf("%s: %s vs %s", g.Attribute, g.GroupA, g.GroupB)
}

// ============================================================================
// PER-FEATURE OUTCOMES
// ============================================================================

// PValueMethod records how a p-value was obtained.
type PValueMethod string

const (
	MethodExact      PValueMethod = "exact"
	MethodAsymptotic PValueMethod = "asymptotic"
)

// UndefinedReason explains why a feature's test has no defined result.
type UndefinedReason string

const (
	UndefinedEmptyGroup    UndefinedReason = "EMPTY_GROUP"    // no non-missing values in a group
	UndefinedConstant      UndefinedReason = "CONSTANT"       // every pooled value identical
	UndefinedNoDifferences UndefinedReason = "NO_DIFFERENCES" // every paired difference is zero
)

// TestResult is the output of one two-sample test. An undefined result has NaN
// Statistic and PValue and a non-empty Undefined reason.
type TestResult struct {
	Statistic float64         `json:"statistic"`
	PValue    float64         `json:"p_value"`
	RBC       float64         `json:"rbc"`  // rank-biserial correlation
	CLES      float64         `json:"cles"` // common-language effect size, P(A > B)
	SizeA     int             `json:"n_a"`
	SizeB     int             `json:"n_b"`
	Method    PValueMethod    `json:"method,omitempty"`
	Undefined UndefinedReason `json:"undefined,omitempty"`
}

// Defined reports whether the test produced a usable p-value.
func (r TestResult) Defined() bool {
	return r.Undefined == "" && !math.IsNaN(r.PValue)
}

// UndefinedResult builds the result for a degenerate feature.
func UndefinedResult(reason UndefinedReason, sizeA, sizeB int) TestResult {
	return TestResult{
		Statistic: math.NaN(),
		PValue:    math.NaN(),
		RBC:       math.NaN(),
		CLES:      math.NaN(),
		SizeA:     sizeA,
		SizeB:     sizeB,
		Undefined: reason,
	}
}

// FeatureOutcome pairs a feature with its raw test result, in feature-table order.
type FeatureOutcome struct {
	Feature string
	Index   int
	Result  TestResult
}

// ============================================================================
// RESULT TABLE
// ============================================================================

// FeatureResult is one row of a result table.
type FeatureResult struct {
	Feature     string       `json:"metabolite"`
	Statistic   float64      `json:"statistic"`
	PValue      float64      `json:"p_val"`
	PCorrected  float64      `json:"p_corrected"`
	Significant bool         `json:"significance"`
	Attribute   string       `json:"attribute"`
	GroupA      string       `json:"A"`
	GroupB      string       `json:"B"`
	RBC         float64      `json:"rbc"`
	CLES        float64      `json:"cles"`
	SizeA       int          `json:"n_a"`
	SizeB       int          `json:"n_b"`
	Method      PValueMethod `json:"method"`
}

// ResultTable is the ranked output of one run, sorted ascending by corrected p-value.
type ResultTable struct {
	Key             core.RunKey      `json:"key"`
	Family          TestFamily       `json:"family"`
	Grouping        Grouping         `json:"grouping"`
	Alternative     Alternative      `json:"alternative"`
	Correction      CorrectionMethod `json:"correction"`
	FeatureTableID  core.TableID     `json:"feature_table_id"`
	MetadataTableID core.TableID     `json:"metadata_table_id"`
	Tested          int              `json:"tested"`
	Undefined       int              `json:"undefined"`
	Rows            []FeatureResult  `json:"rows"`
}

// Row looks up a feature's row.
func (t *ResultTable) Row(feature string) (FeatureResult, bool) {
	for _, r := range t.Rows {
		if r.Feature == feature {
			return r, true
		}
	}
	return FeatureResult{}, false
}

// Significant returns the significant rows in table order.
func (t *ResultTable) Significant() []FeatureResult {
	var out []FeatureResult
	for _, r := range t.Rows {
		if r.Significant {
			out = append(out, r)
		}
	}
	return out
}

// IsSignificant applies the fixed threshold.
func IsSignificant(pCorrected float64) bool {
	return pCorrected < SignificanceLevel
}

// SignificanceSymbol maps a corrected p-value to the box plot annotation.
func SignificanceSymbol(pCorrected float64) string {
	switch {
	case math.IsNaN(pCorrected) || pCorrected >= 0.05:
		return "ns"
	case pCorrected >= 0.01:
		return "*"
	case pCorrected >= 0.001:
		return "**"
	default:
		return "***"
	}
}
