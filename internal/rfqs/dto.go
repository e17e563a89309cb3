package rfqs

import (
	"time"

	"jengahub-backend/internal/matching"
)

type createRequest struct {
	RFQType        string         `json:"rfqType"`
	CategorySlug   string         `json:"categorySlug"`
	JobTypeSlug    string         `json:"jobTypeSlug"`
	TemplateFields map[string]any `json:"templateFields"`
	SharedFields   map[string]any `json:"sharedFields"`

	ReferenceImages []ReferenceImage `json:"referenceImages"`

	SelectedVendors   []string `json:"selectedVendors"`
	AllowOtherVendors bool     `json:"allowOtherVendors"`
	Visibility        string   `json:"visibility"`
	ResponseCap       int      `json:"responseCap"`

	GuestEmail         string `json:"guestEmail"`
	GuestPhone         string `json:"guestPhone"`
	GuestPhoneVerified bool   `json:"guestPhoneVerified"`
}

type assignmentResponse struct {
	VendorID    string    `json:"vendorId"`
	MatchScore  int       `json:"matchScore"`
	MatchReason string    `json:"matchReason,omitempty"`
	AssignedAt  time.Time `json:"assignedAt"`
}

type rfqResponse struct {
	RFQID           string               `json:"rfqId"`
	RFQType         string               `json:"rfqType"`
	CategorySlug    string               `json:"categorySlug"`
	JobTypeSlug     string               `json:"jobTypeSlug,omitempty"`
	TemplateFields  map[string]any       `json:"templateFields"`
	SharedFields    map[string]any       `json:"sharedFields"`
	ReferenceImages []ReferenceImage     `json:"referenceImages,omitempty"`
	Visibility      string               `json:"visibility,omitempty"`
	ResponseCap     int                  `json:"responseCap,omitempty"`
	Status          string               `json:"status"`
	CreatedAt       time.Time            `json:"createdAt"`
	Vendors         []assignmentResponse `json:"vendors,omitempty"`
}

func toResponse(rfq RFQ, assignments []Assignment) rfqResponse {
	resp := rfqResponse{
		RFQID:           rfq.ID,
		RFQType:         rfq.RFQType,
		CategorySlug:    rfq.CategorySlug,
		JobTypeSlug:     rfq.JobTypeSlug,
		TemplateFields:  rfq.TemplateFields,
		SharedFields:    rfq.SharedFields,
		ReferenceImages: rfq.ReferenceImages,
		Visibility:      rfq.Visibility,
		ResponseCap:     rfq.ResponseCap,
		Status:          rfq.Status,
		CreatedAt:       rfq.CreatedAt,
	}
	for _, a := range assignments {
		resp.Vendors = append(resp.Vendors, assignmentResponse{
			VendorID:    a.VendorID,
			MatchScore:  a.MatchScore,
			MatchReason: a.MatchReason,
			AssignedAt:  a.AssignedAt,
		})
	}
	return resp
}

type candidateResponse struct {
	VendorID    string  `json:"vendorId"`
	Name        string  `json:"name"`
	County      string  `json:"county"`
	Town        string  `json:"town,omitempty"`
	Rating      float64 `json:"rating"`
	Verified    bool    `json:"verified"`
	MatchScore  int     `json:"matchScore"`
	Confidence  string  `json:"confidence"`
	MatchReason string  `json:"matchReason"`
}

func toCandidateResponse(c matching.Candidate) candidateResponse {
	return candidateResponse{
		VendorID:    c.ID,
		Name:        c.Name,
		County:      c.County,
		Town:        c.Town,
		Rating:      c.Rating,
		Verified:    c.Verified,
		MatchScore:  c.MatchScore,
		Confidence:  matching.ConfidenceLevel(c.MatchScore),
		MatchReason: matching.MatchReason(c),
	}
}
