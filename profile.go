package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// profileBiometrics builds the complete baseline-calculation input from a
// profile row. Returns ok=false when any required biometric field is nil —
// the baseline cannot be computed for an incomplete profile.
func profileBiometrics(p *macroProfile) (biometrics, bool) {
	if p.Age == nil || p.Sex == nil || p.HeightCM == nil ||
		p.WeightKG == nil || p.ExerciseFreq == nil {
		return biometrics{}, false
	}
	return biometrics{
		Age:          *p.Age,
		Sex:          *p.Sex,
		HeightCM:     *p.HeightCM,
		WeightKG:     *p.WeightKG,
		ExerciseFreq: *p.ExerciseFreq,
		Goal:         p.Goal,
	}, true
}

// baselineFromProfile returns the stored baseline targets from a profile row.
// Returns ok=false when the baseline columns are still NULL (profile never
// completed).
func baselineFromProfile(p *macroProfile) (macroTargets, bool) {
	if p.BaselineCalories == nil || p.BaselineProteinG == nil ||
		p.BaselineCarbsG == nil || p.BaselineFatG == nil ||
		p.BaselineSugarG == nil || p.BaselineSodiumMg == nil {
		return macroTargets{}, false
	}
	return macroTargets{
		Calories: *p.BaselineCalories,
		ProteinG: *p.BaselineProteinG,
		CarbsG:   *p.BaselineCarbsG,
		FatG:     *p.BaselineFatG,
		SugarG:   *p.BaselineSugarG,
		SodiumMg: *p.BaselineSodiumMg,
	}, true
}

// getProfile returns the macro profile for the authenticated user, including
// the stored baseline targets when the profile is complete.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[macroProfile](h.db, c,
		"SELECT * FROM macro_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	c.JSON(http.StatusOK, p)
}

// patchProfile updates only the provided biometric fields.
// PATCH /api/profile. Uses pointer fields in the request body to distinguish
// "not provided" from zero — only non-nil fields get updated. After the
// update, if the profile is complete, the baseline targets are recomputed and
// persisted so later workout adjustments read a consistent snapshot.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate enums before saving — an unknown goal or sex silently breaks
	// all future baseline calculations with no visible error.
	if body.Goal != nil && !validGoals[*body.Goal] {
		apiError(c, http.StatusBadRequest, "goal must be one of: cut, maintain, bulk")
		return
	}
	if body.Sex != nil && !validSexes[*body.Sex] {
		apiError(c, http.StatusBadRequest, "sex must be one of: male, female")
		return
	}
	if body.Age != nil && (*body.Age <= 0 || *body.Age > 130) {
		apiError(c, http.StatusBadRequest, "age must be between 1 and 130")
		return
	}
	if body.HeightCM != nil && *body.HeightCM <= 0 {
		apiError(c, http.StatusBadRequest, "height_cm must be positive")
		return
	}
	if body.WeightKG != nil && *body.WeightKG <= 0 {
		apiError(c, http.StatusBadRequest, "weight_kg must be positive")
		return
	}

	// Build SET clause dynamically — only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	if body.Age != nil {
		setClauses = append(setClauses, "age = @age")
		args["age"] = *body.Age
	}
	if body.Sex != nil {
		setClauses = append(setClauses, "sex = @sex")
		args["sex"] = *body.Sex
	}
	if body.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = @heightCM")
		args["heightCM"] = *body.HeightCM
	}
	if body.WeightKG != nil {
		setClauses = append(setClauses, "weight_kg = @weightKG")
		args["weightKG"] = *body.WeightKG
	}
	if body.ExerciseFreq != nil {
		setClauses = append(setClauses, "exercise_freq = @exerciseFreq")
		args["exerciseFreq"] = *body.ExerciseFreq
	}
	if body.WeeklyMinutes != nil {
		setClauses = append(setClauses, "weekly_minutes = @weeklyMinutes")
		args["weeklyMinutes"] = *body.WeeklyMinutes
	}
	if body.Goal != nil {
		setClauses = append(setClauses, "goal = @goal")
		args["goal"] = *body.Goal
	}
	if body.SetupComplete != nil {
		setClauses = append(setClauses, "setup_complete = @setupComplete")
		args["setupComplete"] = *body.SetupComplete
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE macro_profiles SET " +
		strings.Join(setClauses, ", ") +
		" WHERE user_id = @userID RETURNING *"

	p, err := queryOne[macroProfile](h.db, c, query, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	// Recompute and persist the baseline whenever the profile is complete.
	// The stored baseline is what the workout adjuster reads, so it must
	// track every biometric change.
	if b, ok := profileBiometrics(&p); ok {
		baseline := computeBaselineMacros(b)
		updated, err := queryOne[macroProfile](h.db, c,
			`UPDATE macro_profiles SET
				baseline_calories  = @calories,
				baseline_protein_g = @proteinG,
				baseline_carbs_g   = @carbsG,
				baseline_fat_g     = @fatG,
				baseline_sugar_g   = @sugarG,
				baseline_sodium_mg = @sodiumMg
			 WHERE user_id = @userID RETURNING *`,
			pgx.NamedArgs{
				"userID":   userID,
				"calories": baseline.Calories,
				"proteinG": baseline.ProteinG,
				"carbsG":   baseline.CarbsG,
				"fatG":     baseline.FatG,
				"sugarG":   baseline.SugarG,
				"sodiumMg": baseline.SodiumMg,
			})
		if err != nil {
			log.Printf("[patchProfile] baseline update failed for user %d: %v", userID, err)
		} else {
			p = updated
		}

		// Keep any already-computed daily targets in sync with the new
		// baseline for today onward.
		if err := h.recomputeDailyTargets(c, userID); err != nil {
			log.Printf("[patchProfile] daily target refresh failed for user %d: %v", userID, err)
		}
	}

	c.JSON(http.StatusOK, p)
}
