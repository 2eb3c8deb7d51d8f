package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getWorkouts returns the workout log entries for a given date.
// GET /api/workouts?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getWorkouts(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	workouts, err := queryMany[workoutEntry](h.db, c,
		`SELECT * FROM workout_log
		 WHERE user_id = @userID AND date = @date
		 ORDER BY created_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch workouts")
		return
	}
	// Ensure workouts is an empty array (not null) in JSON
	if workouts == nil {
		workouts = []workoutEntry{}
	}

	c.JSON(http.StatusOK, workouts)
}

// createWorkout inserts a new workout log entry and recomputes the day's
// adjusted targets. POST /api/workouts. Defaults date to today and intensity
// to moderate if omitted. The type tag is free-form on purpose — unknown tags
// still get a default calorie estimate.
func (h *Handler) createWorkout(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createWorkoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.WorkoutType == "" {
		apiError(c, http.StatusBadRequest, "workout_type is required")
		return
	}
	if body.DurationMin < 0 {
		apiError(c, http.StatusBadRequest, "duration_min must be non-negative")
		return
	}
	if body.Intensity == "" {
		body.Intensity = intensityModerate
	}
	if !validIntensities[body.Intensity] {
		apiError(c, http.StatusBadRequest, "intensity must be one of: low, moderate, high")
		return
	}
	if body.CaloriesBurned != nil && *body.CaloriesBurned < 0 {
		apiError(c, http.StatusBadRequest, "calories_burned must be non-negative")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	workout, err := queryOne[workoutEntry](h.db, c,
		`INSERT INTO workout_log (user_id, date, workout_type, duration_min, intensity, calories_burned)
		 VALUES (@userID, @date, @workoutType, @durationMin, @intensity, @caloriesBurned)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": body.Date,
			"workoutType": body.WorkoutType, "durationMin": body.DurationMin,
			"intensity": body.Intensity, "caloriesBurned": body.CaloriesBurned,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create workout")
		return
	}

	if err := h.recomputeTargetsForDate(c, userID, body.Date); err != nil {
		log.Printf("[createWorkout] target recompute failed for user %d: %v", userID, err)
	}

	c.JSON(http.StatusCreated, workout)
}

// updateWorkout partially updates an existing workout log entry and recomputes
// targets for the affected date(s).
// PUT /api/workouts/:id. Uses COALESCE so omitted fields keep their current value.
func (h *Handler) updateWorkout(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		Date           *string  `json:"date"`
		WorkoutType    *string  `json:"workout_type"`
		DurationMin    *float64 `json:"duration_min"`
		Intensity      *string  `json:"intensity"`
		CaloriesBurned *float64 `json:"calories_burned"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date != nil {
		if _, err := time.Parse("2006-01-02", *body.Date); err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}
	if body.DurationMin != nil && *body.DurationMin < 0 {
		apiError(c, http.StatusBadRequest, "duration_min must be non-negative")
		return
	}
	if body.Intensity != nil && !validIntensities[*body.Intensity] {
		apiError(c, http.StatusBadRequest, "intensity must be one of: low, moderate, high")
		return
	}

	// Fetch the current row first — if the date moves, the old day's stored
	// targets must be recomputed too or they keep counting this workout.
	existing, err := queryOne[workoutEntry](h.db, c,
		"SELECT * FROM workout_log WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "workout not found")
		return
	}
	oldDate := existing.Date.Time.Format("2006-01-02")

	workout, err := queryOne[workoutEntry](h.db, c,
		`UPDATE workout_log SET
			date            = COALESCE(@date, date),
			workout_type    = COALESCE(@workoutType, workout_type),
			duration_min    = COALESCE(@durationMin, duration_min),
			intensity       = COALESCE(@intensity, intensity),
			calories_burned = COALESCE(@caloriesBurned, calories_burned),
			updated_at      = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID,
			"date": body.Date, "workoutType": body.WorkoutType,
			"durationMin": body.DurationMin, "intensity": body.Intensity,
			"caloriesBurned": body.CaloriesBurned,
		})
	if err != nil {
		// Distinguish a missing row from a real DB failure so callers get an
		// actionable status code rather than a misleading 404.
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "workout not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update workout")
		}
		return
	}

	newDate := workout.Date.Time.Format("2006-01-02")
	if err := h.recomputeTargetsForDate(c, userID, newDate); err != nil {
		log.Printf("[updateWorkout] target recompute failed for user %d: %v", userID, err)
	}
	if oldDate != newDate {
		if err := h.recomputeTargetsForDate(c, userID, oldDate); err != nil {
			log.Printf("[updateWorkout] target recompute failed for user %d: %v", userID, err)
		}
	}

	c.JSON(http.StatusOK, workout)
}

// deleteWorkout removes a workout log entry and recomputes that day's targets.
// DELETE /api/workouts/:id. Returns 204 on success, 404 if not found.
// Ownership is enforced by requiring both id and user_id to match.
func (h *Handler) deleteWorkout(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	// RETURNING the date tells us which day's targets to refresh.
	var date *string
	err := h.db.QueryRow(c,
		`DELETE FROM workout_log WHERE id = @id AND user_id = @userID
		 RETURNING TO_CHAR(date, 'YYYY-MM-DD')`,
		pgx.NamedArgs{"id": id, "userID": userID}).Scan(&date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "workout not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to delete workout")
		}
		return
	}

	if date != nil {
		if err := h.recomputeTargetsForDate(c, userID, *date); err != nil {
			log.Printf("[deleteWorkout] target recompute failed for user %d: %v", userID, err)
		}
	}

	c.Status(http.StatusNoContent)
}
