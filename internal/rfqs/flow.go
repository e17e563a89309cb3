package rfqs

import (
	"context"
	"errors"
	"strings"

	"jengahub-backend/internal/catalog"
	"jengahub-backend/internal/drafts"
	"jengahub-backend/internal/forms"
)

// Step names in a flow. The active subset and order are derived from the
// RFQ type and whether a category was pre-supplied.
type Step string

const (
	StepCategory   Step = "category"
	StepJobType    Step = "jobtype"
	StepDetails    Step = "details"
	StepProject    Step = "project"
	StepRecipients Step = "recipients"
	StepAuth       Step = "auth"
	StepReview     Step = "review"
	StepSuccess    Step = "success"
)

// Submission is the full payload handed to the Submitter exactly once per
// successful flow.
type Submission struct {
	RFQType         string
	CategorySlug    string
	JobTypeSlug     string
	TemplateFields  map[string]any
	SharedFields    map[string]any
	ReferenceImages []ReferenceImage

	SelectedVendors   []string
	AllowOtherVendors bool
	Visibility        string
	ResponseCap       int

	UserID             string
	GuestEmail         string
	GuestPhone         string
	GuestPhoneVerified bool
}

// Submitter performs the single network submission for a flow. It returns
// the created RFQ id, or one of ErrQuotaExceeded / ErrRateLimited for the
// domain failure statuses.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (string, error)
}

// FlowConfig configures a new Flow.
type FlowConfig struct {
	RFQType string

	// OwnerID scopes draft persistence. For guests this is the guest id.
	OwnerID string

	// PreselectedCategory skips the category (and jobtype) steps, e.g. when
	// the flow is opened from a vendor profile. Categories with more than
	// one job type also need PreselectedJobType, since no jobtype step runs.
	PreselectedCategory string
	PreselectedJobType  string

	// VendorID is the implicit recipient for vendor-request flows and an
	// initial selection for direct flows.
	VendorID string

	Drafts    *drafts.Service
	Submitter Submitter
}

// Flow is the RFQ step machine. It owns the authoritative draft state and
// advances through a step list derived from the RFQ type.
type Flow struct {
	rfqType     string
	ownerID     string
	preselected bool

	CategorySlug    string
	JobTypeSlug     string
	TemplateFields  map[string]any
	SharedFields    map[string]any
	ReferenceImages []ReferenceImage

	SelectedVendors   []string
	AllowOtherVendors bool
	Visibility        string
	ResponseCap       int

	UserID             string
	GuestEmail         string
	GuestPhone         string
	GuestPhoneVerified bool

	// Errors maps field or step names to validation messages. Replaced on
	// every Next and Submit.
	Errors map[string]string

	// SubmitError carries the last submission failure message.
	SubmitError string

	steps        []Step
	idx          int
	isSubmitting bool
	closed       bool

	drafts    *drafts.Service
	autosave  *drafts.Autosaver
	submitter Submitter
}

// NewFlow builds a flow for the given type. The step list is generated once
// here and regenerated when the category selection changes.
func NewFlow(cfg FlowConfig) (*Flow, error) {
	if !ValidType(cfg.RFQType) {
		return nil, ErrInvalidInput
	}

	f := &Flow{
		rfqType:        cfg.RFQType,
		ownerID:        cfg.OwnerID,
		TemplateFields: make(map[string]any),
		SharedFields:   make(map[string]any),
		Errors:         make(map[string]string),
		drafts:         cfg.Drafts,
		submitter:      cfg.Submitter,
	}
	f.autosave = drafts.NewAutosaver(cfg.Drafts, drafts.DefaultAutosaveDebounce)

	if cfg.VendorID != "" {
		f.SelectedVendors = []string{cfg.VendorID}
	}

	if cfg.PreselectedCategory != "" {
		cat, ok := catalog.CategoryBySlug(cfg.PreselectedCategory)
		if !ok {
			return nil, ErrInvalidInput
		}
		f.preselected = true
		f.CategorySlug = cat.Slug
		f.JobTypeSlug = defaultJobType(cat.Slug)
		if cfg.PreselectedJobType != "" {
			if _, ok := catalog.JobTypeBySlug(cat.Slug, cfg.PreselectedJobType); !ok {
				return nil, ErrInvalidInput
			}
			f.JobTypeSlug = cfg.PreselectedJobType
		}
		if catalog.RequiresJobType(cat.Slug) && f.JobTypeSlug == "" {
			return nil, ErrInvalidInput
		}
	}

	f.deriveSteps()
	return f, nil
}

// defaultJobType resolves the implicit job type for single-job-type
// categories, and empty for those that need an explicit choice.
func defaultJobType(categorySlug string) string {
	if catalog.RequiresJobType(categorySlug) {
		return ""
	}
	return catalog.ImplicitJobType(categorySlug)
}

func (f *Flow) deriveSteps() {
	steps := make([]Step, 0, 8)
	if !f.preselected {
		steps = append(steps, StepCategory)
		if f.CategorySlug != "" && catalog.RequiresJobType(f.CategorySlug) {
			steps = append(steps, StepJobType)
		}
	}
	steps = append(steps, StepDetails, StepProject)
	if f.rfqType != TypeVendorRequest {
		steps = append(steps, StepRecipients)
	}
	steps = append(steps, StepAuth, StepReview, StepSuccess)
	f.steps = steps
	if f.idx >= len(f.steps) {
		f.idx = len(f.steps) - 1
	}
}

// Steps returns the ordered step list for this flow instance.
func (f *Flow) Steps() []Step {
	out := make([]Step, len(f.steps))
	copy(out, f.steps)
	return out
}

// CurrentStep returns the step the flow is on.
func (f *Flow) CurrentStep() Step {
	return f.steps[f.idx]
}

// RFQType returns the flow's fixed RFQ type.
func (f *Flow) RFQType() string {
	return f.rfqType
}

// SelectCategory sets the category, resetting the job type, template field
// values, and any field errors. The step list is re-derived because the new
// category may or may not need a job-type step.
func (f *Flow) SelectCategory(identifier string) bool {
	if f.closed {
		return false
	}
	cat, ok := catalog.CategoryBySlug(identifier)
	if !ok {
		f.Errors = map[string]string{"category": "Select a valid category"}
		return false
	}
	if cat.Slug == f.CategorySlug {
		return true
	}
	f.CategorySlug = cat.Slug
	f.JobTypeSlug = defaultJobType(cat.Slug)
	f.TemplateFields = make(map[string]any)
	f.Errors = make(map[string]string)
	f.deriveSteps()
	return true
}

// SelectJobType sets the job type, resetting template field values and
// errors so stale keys from the previous template cannot survive.
func (f *Flow) SelectJobType(slug string) bool {
	if f.closed {
		return false
	}
	if _, ok := catalog.JobTypeBySlug(f.CategorySlug, slug); !ok {
		f.Errors = map[string]string{"jobType": "Select a valid job type"}
		return false
	}
	if slug == f.JobTypeSlug {
		return true
	}
	f.JobTypeSlug = slug
	f.TemplateFields = make(map[string]any)
	f.Errors = make(map[string]string)
	return true
}

// UpdateTemplateField records a field change and schedules a debounced
// draft save.
func (f *Flow) UpdateTemplateField(name string, value any) {
	if f.closed {
		return
	}
	f.TemplateFields[name] = value
	delete(f.Errors, name)
	f.scheduleAutosave()
}

// UpdateSharedField records a project-level field change and schedules a
// debounced draft save.
func (f *Flow) UpdateSharedField(name string, value any) {
	if f.closed {
		return
	}
	f.SharedFields[name] = value
	delete(f.Errors, name)
	f.scheduleAutosave()
}

// SetRecipients replaces the selected vendor list.
func (f *Flow) SetRecipients(vendorIDs []string, allowOthers bool) {
	if f.closed {
		return
	}
	f.SelectedVendors = append([]string(nil), vendorIDs...)
	f.AllowOtherVendors = allowOthers
	delete(f.Errors, "recipients")
}

// SetPublicScope sets the visibility scope for public RFQs.
func (f *Flow) SetPublicScope(visibility string, responseCap int) {
	if f.closed {
		return
	}
	f.Visibility = visibility
	f.ResponseCap = responseCap
}

// SetUser records an authenticated identity.
func (f *Flow) SetUser(userID string) {
	if f.closed {
		return
	}
	f.UserID = userID
	delete(f.Errors, "auth")
}

// SetGuest records a guest identity captured by the auth gate.
func (f *Flow) SetGuest(email, phone string, phoneVerified bool) {
	if f.closed {
		return
	}
	f.GuestEmail = strings.TrimSpace(email)
	f.GuestPhone = strings.TrimSpace(phone)
	f.GuestPhoneVerified = phoneVerified
	delete(f.Errors, "auth")
}

// Next validates the current step. On failure it records errors and stays
// put; on success it saves the draft and advances.
func (f *Flow) Next(ctx context.Context) bool {
	if f.closed {
		return false
	}
	step := f.CurrentStep()
	if step == StepReview || step == StepSuccess {
		return false
	}

	errs := f.validateStep(step)
	if len(errs) > 0 {
		f.Errors = errs
		return false
	}

	f.Errors = make(map[string]string)
	f.saveDraft(ctx)
	f.idx++
	return true
}

// Back moves to the previous step without re-validating. On the first step
// it reports false, meaning "cancel": the caller closes the flow and the
// draft stays persisted for resume.
func (f *Flow) Back(ctx context.Context) bool {
	if f.closed {
		return false
	}
	if f.idx == 0 {
		return false
	}
	f.saveDraft(ctx)
	f.idx--
	return true
}

// Resume restores draft field values saved under this flow's key. It only
// applies when the flow is still on its first step.
func (f *Flow) Resume(ctx context.Context) bool {
	if f.closed || f.idx != 0 {
		return false
	}
	key, ok := f.draftKey()
	if !ok {
		return false
	}
	draft := f.drafts.Load(ctx, key)
	if draft == nil {
		return false
	}
	if draft.TemplateFields != nil {
		f.TemplateFields = draft.TemplateFields
	}
	if draft.SharedFields != nil {
		f.SharedFields = draft.SharedFields
	}
	return true
}

// Submit is only valid from the review step. It re-runs full validation,
// performs exactly one network submission, and on success advances to the
// success step and clears the draft.
func (f *Flow) Submit(ctx context.Context) (string, error) {
	if f.closed {
		return "", ErrFlowClosed
	}
	if f.CurrentStep() != StepReview {
		return "", ErrInvalidInput
	}
	if f.isSubmitting {
		return "", ErrSubmitInFlight
	}

	errs := f.validateAll()
	if len(errs) > 0 {
		f.Errors = errs
		return "", ErrValidation
	}

	f.isSubmitting = true
	defer func() { f.isSubmitting = false }()

	rfqID, err := f.submitter.Submit(ctx, f.submission())
	if err != nil {
		switch {
		case errors.Is(err, ErrQuotaExceeded):
			f.SubmitError = "You have reached your monthly RFQ limit"
		case errors.Is(err, ErrRateLimited):
			f.SubmitError = "Too many requests, please try again shortly"
		default:
			f.SubmitError = err.Error()
		}
		return "", err
	}

	f.SubmitError = ""
	if key, ok := f.draftKey(); ok {
		f.autosave.Cancel()
		f.drafts.Clear(ctx, key)
	}
	f.idx = len(f.steps) - 1
	f.resetFields()
	return rfqID, nil
}

// IsSubmitting reports whether a submission is outstanding.
func (f *Flow) IsSubmitting() bool {
	return f.isSubmitting
}

// Close abandons the flow. The draft stays persisted; any in-flight work
// that completes afterwards is ignored.
func (f *Flow) Close() {
	if f.closed {
		return
	}
	f.closed = true
	f.autosave.Cancel()
}

func (f *Flow) submission() Submission {
	return Submission{
		RFQType:            f.rfqType,
		CategorySlug:       f.CategorySlug,
		JobTypeSlug:        f.JobTypeSlug,
		TemplateFields:     f.TemplateFields,
		SharedFields:       f.SharedFields,
		ReferenceImages:    f.ReferenceImages,
		SelectedVendors:    f.SelectedVendors,
		AllowOtherVendors:  f.AllowOtherVendors,
		Visibility:         f.Visibility,
		ResponseCap:        f.ResponseCap,
		UserID:             f.UserID,
		GuestEmail:         f.GuestEmail,
		GuestPhone:         f.GuestPhone,
		GuestPhoneVerified: f.GuestPhoneVerified,
	}
}

func (f *Flow) resetFields() {
	f.TemplateFields = make(map[string]any)
	f.SharedFields = make(map[string]any)
	f.ReferenceImages = nil
	f.SelectedVendors = nil
	f.AllowOtherVendors = false
	f.Errors = make(map[string]string)
}

func (f *Flow) draftKey() (drafts.Key, bool) {
	key := drafts.Key{
		OwnerID:      f.ownerID,
		RFQType:      f.rfqType,
		CategorySlug: f.CategorySlug,
		JobTypeSlug:  f.JobTypeSlug,
	}
	return key, key.Valid()
}

func (f *Flow) saveDraft(ctx context.Context) {
	key, ok := f.draftKey()
	if !ok {
		return
	}
	f.autosave.Cancel()
	f.drafts.Save(ctx, key, drafts.Draft{
		RFQType:        f.rfqType,
		CategorySlug:   f.CategorySlug,
		JobTypeSlug:    f.JobTypeSlug,
		TemplateFields: f.TemplateFields,
		SharedFields:   f.SharedFields,
	})
}

func (f *Flow) scheduleAutosave() {
	key, ok := f.draftKey()
	if !ok {
		return
	}
	f.autosave.Schedule(key, drafts.Draft{
		RFQType:        f.rfqType,
		CategorySlug:   f.CategorySlug,
		JobTypeSlug:    f.JobTypeSlug,
		TemplateFields: f.TemplateFields,
		SharedFields:   f.SharedFields,
	})
}

func (f *Flow) validateStep(step Step) map[string]string {
	switch step {
	case StepCategory:
		return f.validateCategory()
	case StepJobType:
		return f.validateJobType()
	case StepDetails:
		return f.validateDetails()
	case StepProject:
		return f.validateProject()
	case StepRecipients:
		return f.validateRecipients()
	case StepAuth:
		return f.validateAuth()
	}
	return nil
}

func (f *Flow) validateAll() map[string]string {
	errs := make(map[string]string)
	for _, step := range f.steps {
		if step == StepReview || step == StepSuccess {
			continue
		}
		for k, v := range f.validateStep(step) {
			errs[k] = v
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (f *Flow) validateCategory() map[string]string {
	errs := make(map[string]string)
	if f.CategorySlug == "" {
		errs["category"] = "Select a category"
	} else if catalog.RequiresJobType(f.CategorySlug) && f.JobTypeSlug == "" && !f.hasStep(StepJobType) {
		errs["jobType"] = "Select a job type"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (f *Flow) validateJobType() map[string]string {
	if f.JobTypeSlug == "" {
		return map[string]string{"jobType": "Select a job type"}
	}
	return nil
}

func (f *Flow) validateDetails() map[string]string {
	if catalog.RequiresJobType(f.CategorySlug) && f.JobTypeSlug == "" {
		return map[string]string{"jobType": "Select a job type"}
	}
	defs := catalog.FieldsFor(f.CategorySlug, f.JobTypeSlug)
	errs := forms.ValidateValues(defs, f.TemplateFields)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (f *Flow) validateProject() map[string]string {
	errs := forms.ValidateValues(catalog.SharedFields(), f.SharedFields)
	if errs == nil {
		errs = make(map[string]string)
	}

	minVal, hasMin := numberValue(f.SharedFields["budgetMin"])
	maxVal, hasMax := numberValue(f.SharedFields["budgetMax"])
	if hasMin && hasMax && minVal > maxVal {
		errs["budgetMin"] = "Minimum budget cannot exceed maximum budget"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (f *Flow) validateRecipients() map[string]string {
	switch f.rfqType {
	case TypeDirect:
		if len(f.SelectedVendors) == 0 {
			return map[string]string{"recipients": "Select at least one vendor"}
		}
	case TypeWizard:
		if len(f.SelectedVendors) == 0 && !f.AllowOtherVendors {
			return map[string]string{"recipients": "Select at least one vendor or allow other vendors to respond"}
		}
	}
	return nil
}

func (f *Flow) validateAuth() map[string]string {
	if f.UserID != "" || f.GuestEmail != "" {
		return nil
	}
	return map[string]string{"auth": "Sign in or continue as guest to submit"}
}

func (f *Flow) hasStep(step Step) bool {
	for _, s := range f.steps {
		if s == step {
			return true
		}
	}
	return false
}

func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
