package controllers

import (
	"net/http"

	"github.com/hydrationdev/hydration-os/api/middleware"
	"github.com/hydrationdev/hydration-os/api/responses"
)

type pingResponse struct {
	Scope     string `json:"scope"`
	Status    string `json:"status"`
	Subject   string `json:"subject,omitempty"`
	ProfileID string `json:"profile_id,omitempty"`
	Role      string `json:"role,omitempty"`
}

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, pingResponse{Scope: "public", Status: "ok"})
	}
}

// PrivatePing echoes the resolved identity. The profile fields are omitted
// while the profile is unavailable.
func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		resp := pingResponse{Scope: "private", Status: "ok", Subject: middleware.SubjectFromContext(ctx)}
		if profile := middleware.ProfileFromContext(ctx); profile != nil {
			resp.ProfileID = profile.ID.String()
			resp.Role = profile.Role.String()
		}
		responses.WriteSuccess(w, resp)
	}
}
