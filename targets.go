package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// adjustedTargetsForDate loads the user's stored baseline and the date's
// workouts and runs the adjustment. Returns ok=false when the profile is
// incomplete (no baseline yet) — workouts can still be logged, there is just
// nothing to adjust.
func (h *Handler) adjustedTargetsForDate(c *gin.Context, userID int, date string) (macroTargets, adjustMeta, []workoutEntry, bool, error) {
	p, err := queryOne[macroProfile](h.db, c,
		"SELECT * FROM macro_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return macroTargets{}, adjustMeta{}, nil, false, err
	}

	baseline, ok := baselineFromProfile(&p)
	if !ok || p.WeightKG == nil {
		return macroTargets{}, adjustMeta{}, nil, false, nil
	}

	workouts, err := queryMany[workoutEntry](h.db, c,
		`SELECT * FROM workout_log
		 WHERE user_id = @userID AND date = @date
		 ORDER BY created_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		return macroTargets{}, adjustMeta{}, nil, false, err
	}
	if workouts == nil {
		workouts = []workoutEntry{}
	}

	targets, meta := adjustMacrosForWorkouts(baseline, workouts, *p.WeightKG, p.Goal)
	return targets, meta, workouts, true, nil
}

// recomputeTargetsForDate recomputes one day's adjusted targets and upserts
// the snapshot into daily_targets. Called after every workout-log mutation so
// the stored row always reflects the current workout set. A no-op when the
// profile has no baseline yet.
func (h *Handler) recomputeTargetsForDate(c *gin.Context, userID int, date string) error {
	targets, meta, _, ok, err := h.adjustedTargetsForDate(c, userID, date)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	_, err = h.db.Exec(c,
		`INSERT INTO daily_targets (user_id, date, calories, protein_g, carbs_g, fat_g, sugar_g, sodium_mg, workout_calories, goal)
		 VALUES (@userID, @date, @calories, @proteinG, @carbsG, @fatG, @sugarG, @sodiumMg, @workoutCalories, @goal)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			calories = EXCLUDED.calories,
			protein_g = EXCLUDED.protein_g,
			carbs_g = EXCLUDED.carbs_g,
			fat_g = EXCLUDED.fat_g,
			sugar_g = EXCLUDED.sugar_g,
			sodium_mg = EXCLUDED.sodium_mg,
			workout_calories = EXCLUDED.workout_calories,
			goal = EXCLUDED.goal`,
		pgx.NamedArgs{
			"userID": userID, "date": date,
			"calories": targets.Calories, "proteinG": targets.ProteinG,
			"carbsG": targets.CarbsG, "fatG": targets.FatG,
			"sugarG": targets.SugarG, "sodiumMg": targets.SodiumMg,
			"workoutCalories": meta.TotalWorkoutCalories, "goal": meta.Goal,
		})
	return err
}

// recomputeDailyTargets refreshes every stored daily_targets snapshot from
// today onward after a baseline change. Past days keep the targets the user
// actually saw.
func (h *Handler) recomputeDailyTargets(c *gin.Context, userID int) error {
	today := time.Now().Format("2006-01-02")
	rows, err := h.db.Query(c,
		`SELECT TO_CHAR(date, 'YYYY-MM-DD') FROM daily_targets
		 WHERE user_id = @userID AND date >= @today`,
		pgx.NamedArgs{"userID": userID, "today": today})
	if err != nil {
		return err
	}
	dates, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return err
	}

	for _, d := range dates {
		if err := h.recomputeTargetsForDate(c, userID, d); err != nil {
			return fmt.Errorf("recompute %s: %w", d, err)
		}
	}
	return nil
}

// getDailyTargets returns the workout-adjusted targets for a given date,
// computed on the fly from the stored baseline and that day's workout log.
// GET /api/targets/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailyTargets(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	// Validate date format before querying — an invalid value silently returns no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	targets, meta, workouts, ok, err := h.adjustedTargetsForDate(c, userID, date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to compute targets")
		return
	}
	if !ok {
		apiError(c, http.StatusConflict, "profile incomplete — set age, sex, height, weight and exercise frequency first")
		return
	}

	c.JSON(http.StatusOK, dailyTargetsResponse{
		Date:            date,
		Targets:         targets,
		WorkoutCalories: meta.TotalWorkoutCalories,
		Goal:            meta.Goal,
		Workouts:        workouts,
	})
}

// getTargetHistory returns the stored per-day target snapshots for an
// arbitrary date range — the targets the user actually saw on each day, not a
// recomputation from the current baseline.
// GET /api/targets/history?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
func (h *Handler) getTargetHistory(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	snapshots, err := queryMany[dailyTargets](h.db, c,
		`SELECT * FROM daily_targets
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch target history")
		return
	}
	// Ensure empty array (not null) in JSON
	if snapshots == nil {
		snapshots = []dailyTargets{}
	}

	c.JSON(http.StatusOK, snapshots)
}

// currentMonday returns the Monday of the current week at midnight UTC.
// Uses AddDate to safely handle month/year boundaries — direct day subtraction
// can produce day=0 or negative, which time.Date normalizes but is confusing.
func currentMonday() time.Time {
	now := time.Now().UTC()
	weekday := int(now.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7 // treat Sunday as day 7 so Mon=1..Sun=7
	}
	daysBack := weekday - 1
	return now.AddDate(0, 0, -daysBack).Truncate(24 * time.Hour)
}

// getWeekSummary returns per-day adjusted targets for the Mon–Sun week
// containing week_start. Days with no logged workouts carry the plain
// baseline with has_workouts=false.
// GET /api/targets/week-summary?week_start=YYYY-MM-DD (defaults to current week).
func (h *Handler) getWeekSummary(c *gin.Context) {
	userID := c.GetInt("user_id")

	// Parse week_start; default to the current Monday.
	var weekStart time.Time
	if s := c.Query("week_start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
			return
		}
		weekStart = t
	} else {
		weekStart = currentMonday()
	}
	weekEnd := weekStart.AddDate(0, 0, 6)

	p, err := queryOne[macroProfile](h.db, c,
		"SELECT * FROM macro_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	baseline, ok := baselineFromProfile(&p)
	if !ok || p.WeightKG == nil {
		apiError(c, http.StatusConflict, "profile incomplete — set age, sex, height, weight and exercise frequency first")
		return
	}

	// One query for the whole window; grouped by day in Go so each day's
	// workout set feeds a separate adjustment.
	workouts, err := queryMany[workoutEntry](h.db, c,
		`SELECT * FROM workout_log
		 WHERE user_id = @userID AND date >= @weekStart AND date <= @weekEnd
		 ORDER BY created_at`,
		pgx.NamedArgs{
			"userID":    userID,
			"weekStart": weekStart.Format("2006-01-02"),
			"weekEnd":   weekEnd.Format("2006-01-02"),
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch week data")
		return
	}

	byDate := make(map[string][]workoutEntry, 7)
	for _, w := range workouts {
		key := w.Date.Time.Format("2006-01-02")
		byDate[key] = append(byDate[key], w)
	}

	// Build a full 7-day response, falling back to the baseline for days
	// with no workouts.
	result := make([]weekDayTargets, 7)
	for i := 0; i < 7; i++ {
		d := weekStart.AddDate(0, 0, i)
		dayWorkouts := byDate[d.Format("2006-01-02")]

		targets, meta := adjustMacrosForWorkouts(baseline, dayWorkouts, *p.WeightKG, p.Goal)
		var totalDuration float64
		for _, w := range dayWorkouts {
			totalDuration += w.DurationMin
		}

		result[i] = weekDayTargets{
			Date:            DateOnly{d},
			Targets:         targets,
			WorkoutCount:    len(dayWorkouts),
			TotalDuration:   totalDuration,
			WorkoutCalories: meta.TotalWorkoutCalories,
			HasWorkouts:     len(dayWorkouts) > 0,
		}
	}

	c.JSON(http.StatusOK, result)
}
