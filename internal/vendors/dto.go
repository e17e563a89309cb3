package vendors

import "time"

type vendorResponse struct {
	VendorID            string   `json:"vendorId"`
	CompanyName         string   `json:"companyName"`
	PrimaryCategorySlug string   `json:"primaryCategorySlug"`
	SecondaryCategories []string `json:"secondaryCategories"`
	County              string   `json:"county"`
	Town                string   `json:"town,omitempty"`
	Description         string   `json:"description,omitempty"`
	PriceRange          string   `json:"priceRange,omitempty"`
	Rating              float64  `json:"rating"`
	ReviewCount         int      `json:"reviewCount"`
	Verified            bool     `json:"verified"`
	ResponseTimeHours   int      `json:"responseTimeHours"`
	RFQsCompleted       int      `json:"rfqsCompleted"`
	AvatarURL           string   `json:"avatarUrl,omitempty"`
	MemberSince         time.Time `json:"memberSince"`
}

func toResponse(v Vendor) vendorResponse {
	secondary := v.SecondaryCategories
	if secondary == nil {
		secondary = []string{}
	}
	return vendorResponse{
		VendorID:            v.ID,
		CompanyName:         v.CompanyName,
		PrimaryCategorySlug: v.PrimaryCategorySlug,
		SecondaryCategories: secondary,
		County:              v.County,
		Town:                v.Town,
		Description:         v.Description,
		PriceRange:          v.PriceRange,
		Rating:              v.Rating,
		ReviewCount:         v.ReviewCount,
		Verified:            v.Verified,
		ResponseTimeHours:   v.ResponseTimeHours,
		RFQsCompleted:       v.RFQsCompleted,
		AvatarURL:           v.AvatarURL,
		MemberSince:         v.CreatedAt,
	}
}
