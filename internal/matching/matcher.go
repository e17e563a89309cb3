// Package matching ranks vendors against an RFQ's category and location.
// All functions are pure: they never touch storage and never mutate their
// inputs, so the recipients step can recompute rankings freely.
package matching

import (
	"fmt"
	"sort"
	"strings"
)

// Scoring weights, 100 points total. The relative ordering (category >>
// location >> reputation signals) is the contract; the exact constants are
// tuning knobs.
const (
	weightCategoryPrimary   = 30
	weightCategorySecondary = 15
	weightLocationCounty    = 20
	weightLocationTown      = 5
	weightRating            = 10
	weightVerified          = 5
	weightResponseTime      = 5
	weightTrackRecord       = 5
	weightPriceRange        = 5

	maxScore = 100
)

// DefaultMinScore is the qualification threshold for auto-matching.
const DefaultMinScore = 30

// DefaultMaxResults caps wizard auto-match fan-out.
const DefaultMaxResults = 10

// Vendor is the view of a vendor the matcher scores. Callers map their
// storage model into this shape.
type Vendor struct {
	ID                  string
	Name                string
	PrimaryCategorySlug string
	SecondaryCategories []string
	County              string
	Town                string
	Rating              float64
	ReviewCount         int
	Verified            bool
	ResponseTimeHours   int
	RFQsCompleted       int
	PriceRange          string
}

// Criteria describes the RFQ side of the match.
type Criteria struct {
	CategorySlug string
	County       string
	Town         string
	BudgetMax    float64
}

// Options tunes Match behavior.
type Options struct {
	MinScore   int
	MaxResults int
	SortBy     string // "score" (default), "rating", "name"
}

// Candidate is a vendor annotated with its computed match.
type Candidate struct {
	Vendor
	MatchScore   int
	MatchReasons []string
}

// Score computes a 0-100 match score and the human-readable reasons behind
// it. A vendor with no category overlap scores zero and is disqualified.
func Score(v Vendor, c Criteria) (int, []string) {
	score := 0
	var reasons []string

	switch {
	case v.PrimaryCategorySlug == c.CategorySlug && c.CategorySlug != "":
		score += weightCategoryPrimary
		reasons = append(reasons, "Primary category match")
	case containsFold(v.SecondaryCategories, c.CategorySlug):
		score += weightCategorySecondary
		reasons = append(reasons, "Secondary category match")
	default:
		return 0, []string{"No category match"}
	}

	vendorCounty := normalize(v.County)
	rfqCounty := normalize(c.County)
	if rfqCounty != "" && vendorCounty == rfqCounty {
		score += weightLocationCounty
		reasons = append(reasons, fmt.Sprintf("Same county (%s)", c.County))

		vendorTown := normalize(v.Town)
		rfqTown := normalize(c.Town)
		if rfqTown != "" && vendorTown != "" && strings.Contains(vendorTown, rfqTown) {
			score += weightLocationTown
			reasons = append(reasons, fmt.Sprintf("Same town (%s)", c.Town))
		}
	}

	switch {
	case v.Rating >= 4:
		score += weightRating
		reasons = append(reasons, fmt.Sprintf("High rating (%.1f)", v.Rating))
	case v.Rating >= 3:
		score += weightRating / 2
		reasons = append(reasons, fmt.Sprintf("Good rating (%.1f)", v.Rating))
	}

	if v.Verified {
		score += weightVerified
		reasons = append(reasons, "Verified vendor")
	}

	switch {
	case v.ResponseTimeHours > 0 && v.ResponseTimeHours <= 4:
		score += weightResponseTime
		reasons = append(reasons, fmt.Sprintf("Fast responder (%dh)", v.ResponseTimeHours))
	case v.ResponseTimeHours > 0 && v.ResponseTimeHours <= 8:
		score += weightResponseTime / 2
	}

	switch {
	case v.RFQsCompleted >= 3:
		score += weightTrackRecord
		reasons = append(reasons, fmt.Sprintf("%d RFQs completed", v.RFQsCompleted))
	case v.RFQsCompleted >= 1:
		score += weightTrackRecord / 2
	}

	if v.PriceRange != "" && c.BudgetMax > 0 {
		tier := budgetTier(c.BudgetMax)
		pr := strings.ToLower(v.PriceRange)
		if strings.Contains(pr, tier) || strings.Contains(pr, "all") {
			score += weightPriceRange
			reasons = append(reasons, "Price range matches budget")
		}
	}

	if score > maxScore {
		score = maxScore
	}
	return score, reasons
}

// Match scores every vendor against the criteria and returns the qualifying
// candidates. Sorting is deterministic: score descending, ties broken by
// rating descending, then by input order.
func Match(vendors []Vendor, c Criteria, opts Options) []Candidate {
	if len(vendors) == 0 {
		return []Candidate{}
	}
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	candidates := make([]Candidate, 0, len(vendors))
	for _, v := range vendors {
		score, reasons := Score(v, c)
		if score < minScore {
			continue
		}
		candidates = append(candidates, Candidate{Vendor: v, MatchScore: score, MatchReasons: reasons})
	}

	switch opts.SortBy {
	case "rating":
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Rating > candidates[j].Rating
		})
	case "name":
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Name < candidates[j].Name
		})
	default:
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].MatchScore != candidates[j].MatchScore {
				return candidates[i].MatchScore > candidates[j].MatchScore
			}
			return candidates[i].Rating > candidates[j].Rating
		})
	}

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates
}

// FilterByCategory returns the vendors whose primary or secondary categories
// include the slug, unscored and in input order. Used by the direct-RFQ
// recipients view to split specialists from the rest.
func FilterByCategory(vendors []Vendor, categorySlug string) []Vendor {
	if categorySlug == "" {
		return []Vendor{}
	}
	out := make([]Vendor, 0, len(vendors))
	for _, v := range vendors {
		if v.PrimaryCategorySlug == categorySlug || containsFold(v.SecondaryCategories, categorySlug) {
			out = append(out, v)
		}
	}
	return out
}

// ConfidenceLevel buckets a score for display.
func ConfidenceLevel(score int) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 60:
		return "medium"
	default:
		return "low"
	}
}

// MatchReason joins the vendor's reasons for display.
func MatchReason(c Candidate) string {
	return strings.Join(c.MatchReasons, " • ")
}

func budgetTier(budgetMax float64) string {
	switch {
	case budgetMax <= 50000:
		return "budget"
	case budgetMax <= 200000:
		return "mid-range"
	default:
		return "premium"
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsFold(list []string, target string) bool {
	if target == "" {
		return false
	}
	for _, s := range list {
		if strings.EqualFold(s, target) {
			return true
		}
	}
	return false
}
