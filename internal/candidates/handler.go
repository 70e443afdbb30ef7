package candidates

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"callportal-backend/internal/schedule"
	"callportal-backend/internal/shared/server/middleware"
	"callportal-backend/internal/shared/server/respond"
)

const dateLayout = "2006-01-02"

// StaffDirectory resolves a staff token to a display name for "being
// edited by X" messages.
type StaffDirectory interface {
	DisplayName(ctx context.Context, staffID string) string
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc   *Service
	Staff StaffDirectory
}

func NewHandler(svc *Service, staff StaffDirectory) *Handler {
	return &Handler{Svc: svc, Staff: staff}
}

// RegisterRoutes attaches candidate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/candidates", h.list)
	rg.GET("/candidates/:candidateId", h.open)
	rg.PUT("/candidates/:candidateId", h.save)
	rg.POST("/candidates/:candidateId/lock", h.keepalive)
	rg.POST("/candidates/:candidateId/unlock", h.unlock)
}

func (h *Handler) list(c *gin.Context) {
	companyID := strings.TrimSpace(c.Query("company"))
	if companyID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "company is required", nil)
		return
	}

	c.Set("companyId", companyID)

	q := ListQuery{Filter: Filter{
		CompanyID:  companyID,
		Progress:   ProgressFilter(c.Query("progress")),
		MajorClass: c.Query("major_class"),
		MinorClass: c.Query("minor_class"),
		Search:     c.Query("q"),
	}}

	if raw := c.Query("call_date"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "call_date must be YYYY-MM-DD", nil)
			return
		}
		q.CallDate = &d
	}

	// next_slot=2_morning filters to candidates whose next due attempt
	// is number 2 and lands in the morning bucket.
	if raw := c.Query("next_slot"); raw != "" {
		attempt, slot, ok := parseNextSlot(raw)
		if !ok {
			respond.Error(c, http.StatusBadRequest, "validation_error", "next_slot must be like 2_morning or 3_evening", nil)
			return
		}
		q.NextAttempt = attempt
		q.NextSlot = slot
	}

	cands, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list candidates", nil)
		return
	}

	resp := make([]gin.H, 0, len(cands))
	for _, cand := range cands {
		resp = append(resp, toListItem(cand))
	}
	respond.OK(c, resp)
}

func parseNextSlot(raw string) (int, schedule.TimeSlot, bool) {
	parts := strings.SplitN(raw, "_", 2)
	if len(parts) != 2 {
		return 0, "", false
	}
	var attempt int
	switch parts[0] {
	case "2":
		attempt = 2
	case "3":
		attempt = 3
	default:
		return 0, "", false
	}
	slot := schedule.TimeSlot(parts[1])
	if !slot.Valid() {
		return 0, "", false
	}
	return attempt, slot, true
}

// open loads a candidate and acquires the edit lock for the caller, so
// the common single-editor case never races a later save.
func (h *Handler) open(c *gin.Context) {
	staffID := middleware.StaffIDFromContext(c)
	c.Set("candidateId", c.Param("candidateId"))
	cand, talkScript, err := h.Svc.Open(c.Request.Context(), c.Param("candidateId"), staffID)
	if err != nil {
		h.lockAwareError(c, cand, err, "failed to open candidate")
		return
	}
	c.Set("lockOutcome", "acquired")
	body := toDetail(cand)
	if talkScript != "" {
		body["talkScriptUrl"] = talkScript
	}
	respond.OK(c, body)
}

type editRequest struct {
	FirstCallDate  string `json:"firstCallDate"`
	FirstCallSlot  string `json:"firstCallSlot"`
	FirstCallNote  string `json:"firstCallNote"`
	SecondCallDate string `json:"secondCallDate"`
	SecondCallSlot string `json:"secondCallSlot"`
	SecondCallNote string `json:"secondCallNote"`
	ThirdCallDate  string `json:"thirdCallDate"`
	ThirdCallSlot  string `json:"thirdCallSlot"`
	ThirdCallNote  string `json:"thirdCallNote"`
	NeedsFollowup  bool   `json:"needsFollowup"`
	NeedsReview    bool   `json:"needsReview"`
	Resolved       bool   `json:"resolved"`
	BeforeNotes    string `json:"beforeNotes"`
	AfterNotes     string `json:"afterNotes"`
}

func (h *Handler) save(c *gin.Context) {
	staffID := middleware.StaffIDFromContext(c)
	c.Set("candidateId", c.Param("candidateId"))

	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	in := EditInput{
		FirstCallSlot:  schedule.TimeSlot(req.FirstCallSlot),
		FirstCallNote:  req.FirstCallNote,
		SecondCallSlot: schedule.TimeSlot(req.SecondCallSlot),
		SecondCallNote: req.SecondCallNote,
		ThirdCallSlot:  schedule.TimeSlot(req.ThirdCallSlot),
		ThirdCallNote:  req.ThirdCallNote,
		NeedsFollowup:  req.NeedsFollowup,
		NeedsReview:    req.NeedsReview,
		Resolved:       req.Resolved,
		BeforeNotes:    req.BeforeNotes,
		AfterNotes:     req.AfterNotes,
	}
	var err error
	if in.FirstCallDate, err = parseOptionalDate(req.FirstCallDate); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "firstCallDate must be YYYY-MM-DD", nil)
		return
	}
	if in.SecondCallDate, err = parseOptionalDate(req.SecondCallDate); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "secondCallDate must be YYYY-MM-DD", nil)
		return
	}
	if in.ThirdCallDate, err = parseOptionalDate(req.ThirdCallDate); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "thirdCallDate must be YYYY-MM-DD", nil)
		return
	}

	cand, err := h.Svc.Save(c.Request.Context(), c.Param("candidateId"), staffID, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			h.lockAwareError(c, cand, err, "failed to save candidate")
		}
		return
	}
	respond.OK(c, toDetail(cand))
}

func (h *Handler) keepalive(c *gin.Context) {
	staffID := middleware.StaffIDFromContext(c)
	c.Set("candidateId", c.Param("candidateId"))
	err := h.Svc.Keepalive(c.Request.Context(), c.Param("candidateId"), staffID)
	if err != nil {
		cand, _ := h.Svc.Get(c.Request.Context(), c.Param("candidateId"))
		h.lockAwareError(c, cand, err, "failed to renew lock")
		return
	}
	respond.OK(c, gin.H{"status": "locked"})
}

func (h *Handler) unlock(c *gin.Context) {
	c.Set("candidateId", c.Param("candidateId"))
	if err := h.Svc.Unlock(c.Request.Context(), c.Param("candidateId")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to unlock candidate", nil)
		return
	}
	respond.OK(c, gin.H{"status": "unlocked"})
}

func (h *Handler) lockAwareError(c *gin.Context, cand Candidate, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
	case errors.Is(err, ErrLockBusy):
		c.Set("lockOutcome", "contended")
		holder := cand.LockedBy
		if h.Staff != nil {
			if name := h.Staff.DisplayName(c.Request.Context(), cand.LockedBy); name != "" {
				holder = name
			}
		}
		respond.Error(c, http.StatusLocked, "lock_busy", "candidate is being edited by "+holder, gin.H{
			"lockedBy": cand.LockedBy,
		})
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func parseOptionalDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func toListItem(cand Candidate) gin.H {
	item := gin.H{
		"candidateId": cand.ID,
		"companyId":   cand.CompanyID,
		"name":        cand.Name,
		"phoneNumber": cand.PhoneNumber,
		"majorClass":  cand.MajorClass,
		"stage":       cand.Stage(),
		"resolved":    cand.Resolved,
	}
	if note := cand.FirstCallNote; note != "" {
		item["firstCallNote"] = note
	}
	if note := cand.SecondCallNote; note != "" {
		item["secondCallNote"] = note
	}
	if note := cand.ThirdCallNote; note != "" {
		item["thirdCallNote"] = note
	}
	if slot, ok := cand.Progress().NextSlot(); ok {
		item["nextSlot"] = slot
	}
	return item
}

func toDetail(cand Candidate) gin.H {
	body := gin.H{
		"candidateId":    cand.ID,
		"companyId":      cand.CompanyID,
		"dataId":         cand.DataID,
		"name":           cand.Name,
		"fullName":       cand.FullName,
		"phoneNumber":    cand.PhoneNumber,
		"majorClass":     cand.MajorClass,
		"minorClass":     cand.MinorClass,
		"entryRoute":     cand.EntryRoute,
		"university":     cand.University,
		"faculty":        cand.Faculty,
		"department":     cand.Department,
		"firstCallDate":  formatDate(cand.FirstCallDate),
		"firstCallSlot":  cand.FirstCallSlot,
		"firstCallNote":  cand.FirstCallNote,
		"secondCallDate": formatDate(cand.SecondCallDate),
		"secondCallSlot": cand.SecondCallSlot,
		"secondCallNote": cand.SecondCallNote,
		"thirdCallDate":  formatDate(cand.ThirdCallDate),
		"thirdCallSlot":  cand.ThirdCallSlot,
		"thirdCallNote":  cand.ThirdCallNote,
		"needsFollowup":  cand.NeedsFollowup,
		"needsReview":    cand.NeedsReview,
		"resolved":       cand.Resolved,
		"beforeNotes":    cand.BeforeNotes,
		"afterNotes":     cand.AfterNotes,
		"firstEntryDate": formatDate(cand.FirstEntryDate),
		"stage":          cand.Stage(),
	}
	if cand.GradYear != nil {
		body["gradYear"] = *cand.GradYear
	}
	p := cand.Progress()
	if n := p.NextAttempt(); n > 0 {
		body["nextAttempt"] = n
	}
	if slot, ok := p.NextSlot(); ok {
		body["nextSlot"] = slot
	}
	if cand.LockedBy != "" {
		body["lockedBy"] = cand.LockedBy
	}
	return body
}
