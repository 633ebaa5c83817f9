package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mentorhub/mentorhub-api/internal/domain"
	"github.com/mentorhub/mentorhub-api/internal/http/response"
	"github.com/mentorhub/mentorhub-api/internal/schedule"
)

type slotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Key   string `json:"key"`

	View *schedule.SlotView `json:"view,omitempty"`
}

type availabilityResponse struct {
	Slots []slotResponse `json:"slots"`
}

type replaceAvailabilityRequest struct {
	Slots []domain.RawSlot `json:"slots"`
}

func (h *Handlers) slotResponses(slots []domain.Slot, r *http.Request, editing bool) []slotResponse {
	offsetMinutes, hasViewer := viewerOffset(r)

	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		resp := slotResponse{
			Start: s.Start.UTC().Format(time.RFC3339),
			End:   s.End.UTC().Format(time.RFC3339),
			Key:   schedule.SelectionKey(s),
		}
		switch {
		case editing:
			v := h.formatter.EditView(s)
			resp.View = &v
		case hasViewer:
			v := h.formatter.ViewerView(s, offsetMinutes)
			resp.View = &v
		}
		out = append(out, resp)
	}
	return out
}

// GetMentor returns the mentor profile with viewer-formatted availability
func (h *Handlers) GetMentor(w http.ResponseWriter, r *http.Request) {
	id, ok := mentorIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid mentor id")
		return
	}

	mentor, slots, err := h.availability.Profile(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mentor": mentor,
		"slots":  h.slotResponses(slots, r, false),
	})
}

// GetAvailability returns the persisted slots as ISO-8601 UTC instants.
// Formatted civil strings ride along: the owner's editing form requests
// view=edit and always gets the system civil offset; anyone else may pass
// tz_offset to see their own wall-clock times.
func (h *Handlers) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := mentorIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid mentor id")
		return
	}

	slots, err := h.availability.Get(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	editing := r.URL.Query().Get("view") == "edit"
	writeJSON(w, http.StatusOK, availabilityResponse{
		Slots: h.slotResponses(slots, r, editing),
	})
}

// ReplaceAvailability overwrites the mentor's whole slot collection. Only
// the mentor who verified control of this profile's contact may call it.
func (h *Handlers) ReplaceAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := mentorIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid mentor id")
		return
	}

	claims := getClaims(r)
	if claims == nil || claims.Sub != id {
		response.Forbidden(w, "You can only edit your own schedule")
		return
	}

	var req replaceAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	saved, err := h.availability.Replace(r.Context(), id, req.Slots)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, availabilityResponse{
		Slots: h.slotResponses(saved, r, true),
	})
}
