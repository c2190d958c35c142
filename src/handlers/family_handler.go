package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
)

func CreateFamily(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to decode create family request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		created, err := db.CreateFamily(r.Context(), pool, req.Name, int(userID))
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create family")
			http.Error(w, "failed to create family", http.StatusInternalServerError)
			return
		}
		log.Info().Str("family_id", created.ID).Int64("user_id", userID).Msg("created family")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetFamilies(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		families, err := db.GetFamiliesForUser(r.Context(), pool, int(userID))
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get families")
			http.Error(w, "failed to get families", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(families)
	}
}

// requireMembership loads the caller's membership row, writing a 403 when
// they don't belong to the family.
func requireMembership(w http.ResponseWriter, r *http.Request, pool *pgxpool.Pool, familyID string, userID int) *models.FamilyMember {
	member, err := db.GetFamilyMember(r.Context(), pool, familyID, userID)
	if err != nil {
		http.Error(w, "not a member of this family", http.StatusForbidden)
		return nil
	}
	return member
}

func GetFamily(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		familyID := chi.URLParam(r, "family_id")

		if requireMembership(w, r, pool, familyID, int(userID)) == nil {
			return
		}
		family, err := db.GetFamilyByID(r.Context(), pool, familyID)
		if err != nil {
			log.Error().Err(err).Str("family_id", familyID).Msg("family not found")
			http.Error(w, "family not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(family)
	}
}

func InviteFamilyMember(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		familyID := chi.URLParam(r, "family_id")

		member := requireMembership(w, r, pool, familyID, int(userID))
		if member == nil {
			return
		}
		if !member.CanInvite {
			http.Error(w, "role does not allow inviting members", http.StatusForbidden)
			return
		}

		var req struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to decode invite request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if !models.ValidFamilyRole(req.Role) || req.Role == models.RolePrincipal {
			http.Error(w, "invalid role", http.StatusBadRequest)
			return
		}

		invitee, err := db.GetUserByEmail(r.Context(), pool, strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			http.Error(w, "no user with that email", http.StatusNotFound)
			return
		}

		added, err := db.AddFamilyMember(r.Context(), pool, familyID, invitee.ID, req.Role)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				http.Error(w, "user is already a member", http.StatusConflict)
				return
			}
			log.Error().Err(err).Str("family_id", familyID).Int("invitee_id", invitee.ID).Msg("failed to add family member")
			http.Error(w, "failed to add member", http.StatusInternalServerError)
			return
		}
		log.Info().Str("family_id", familyID).Int("invitee_id", invitee.ID).Str("role", req.Role).Msg("added family member")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(added)
	}
}

func UpdateFamilyMemberRole(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		familyID := chi.URLParam(r, "family_id")

		member := requireMembership(w, r, pool, familyID, int(userID))
		if member == nil {
			return
		}
		// Only the principal reassigns roles.
		if member.Role != models.RolePrincipal {
			http.Error(w, "only the principal can change roles", http.StatusForbidden)
			return
		}

		var req struct {
			UserID int    `json:"user_id"`
			Role   string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to decode role update request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if !models.ValidFamilyRole(req.Role) || req.Role == models.RolePrincipal {
			http.Error(w, "invalid role", http.StatusBadRequest)
			return
		}
		if req.UserID == int(userID) {
			http.Error(w, "principal cannot change their own role", http.StatusBadRequest)
			return
		}

		updated, err := db.UpdateFamilyMemberRole(r.Context(), pool, familyID, req.UserID, req.Role)
		if err != nil {
			log.Error().Err(err).Str("family_id", familyID).Int("member_id", req.UserID).Msg("failed to update member role")
			http.Error(w, "member not found", http.StatusNotFound)
			return
		}
		log.Info().Str("family_id", familyID).Int("member_id", req.UserID).Str("role", req.Role).Msg("updated member role")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func RemoveFamilyMember(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		familyID := chi.URLParam(r, "family_id")
		targetID := chi.URLParam(r, "member_id")

		member := requireMembership(w, r, pool, familyID, int(userID))
		if member == nil {
			return
		}

		target, err := strconv.Atoi(targetID)
		if err != nil {
			http.Error(w, "invalid member id", http.StatusBadRequest)
			return
		}

		// Members may leave on their own; removing someone else needs the
		// delete permission, and the principal can never be removed.
		if target != int(userID) && !member.CanDelete {
			http.Error(w, "role does not allow removing members", http.StatusForbidden)
			return
		}
		family, err := db.GetFamilyByID(r.Context(), pool, familyID)
		if err != nil {
			http.Error(w, "family not found", http.StatusNotFound)
			return
		}
		if target == family.OwnerID {
			http.Error(w, "the principal cannot be removed", http.StatusBadRequest)
			return
		}

		if err := db.RemoveFamilyMember(r.Context(), pool, familyID, target); err != nil {
			log.Error().Err(err).Str("family_id", familyID).Int("member_id", target).Msg("failed to remove family member")
			http.Error(w, "member not found", http.StatusNotFound)
			return
		}
		log.Info().Str("family_id", familyID).Int("member_id", target).Msg("removed family member")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "member removed"})
	}
}
