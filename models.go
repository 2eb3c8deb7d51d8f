package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Enumerations ───────────────────────────────────────────────────── */

// Dietary goals. validGoals is the single source of truth for accepted
// values — also used for input validation in patchProfile.
const (
	goalCut      = "cut"
	goalMaintain = "maintain"
	goalBulk     = "bulk"
)

var validGoals = map[string]bool{
	goalCut:      true,
	goalMaintain: true,
	goalBulk:     true,
}

// Biological sex categories used by the BMR offset. Only these two are
// modeled — a known simplification of Mifflin-St Jeor.
const (
	sexMale   = "male"
	sexFemale = "female"
)

var validSexes = map[string]bool{
	sexMale:   true,
	sexFemale: true,
}

// Workout intensities. Moderate is the default when the client omits it.
const (
	intensityLow      = "low"
	intensityModerate = "moderate"
	intensityHigh     = "high"
)

var validIntensities = map[string]bool{
	intensityLow:      true,
	intensityModerate: true,
	intensityHigh:     true,
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// macroProfile maps to macro_profiles. One row per user with the biometric
// fields the baseline computation needs plus the stored baseline targets.
// Biometric fields are all nullable; zero-knowledge rows still work, and the
// baseline columns stay NULL until the profile is complete.
type macroProfile struct {
	UserID int `json:"user_id" db:"user_id"`

	// Biometrics — all nullable so a fresh row carries no data.
	Age           *int     `json:"age"            db:"age"`
	Sex           *string  `json:"sex"            db:"sex"`
	HeightCM      *float64 `json:"height_cm"      db:"height_cm"`
	WeightKG      *float64 `json:"weight_kg"      db:"weight_kg"`
	ExerciseFreq  *float64 `json:"exercise_freq"  db:"exercise_freq"`
	WeeklyMinutes *float64 `json:"weekly_minutes" db:"weekly_minutes"`
	Goal          string   `json:"goal"           db:"goal"`

	// Stored baseline targets — written by patchProfile whenever the
	// biometrics change and the profile is complete.
	BaselineCalories *int     `json:"baseline_calories"  db:"baseline_calories"`
	BaselineProteinG *float64 `json:"baseline_protein_g" db:"baseline_protein_g"`
	BaselineCarbsG   *float64 `json:"baseline_carbs_g"   db:"baseline_carbs_g"`
	BaselineFatG     *float64 `json:"baseline_fat_g"     db:"baseline_fat_g"`
	BaselineSugarG   *float64 `json:"baseline_sugar_g"   db:"baseline_sugar_g"`
	BaselineSodiumMg *int     `json:"baseline_sodium_mg" db:"baseline_sodium_mg"`

	SetupComplete bool `json:"setup_complete" db:"setup_complete"`
}

// biometrics is the complete, non-nullable input the baseline calculation
// works on. Built from a macroProfile row only once every required field is
// present (see profileBiometrics in profile.go).
type biometrics struct {
	Age          int
	Sex          string
	HeightCM     float64
	WeightKG     float64
	ExerciseFreq float64
	Goal         string
}

// macroTargets is an immutable snapshot of daily targets — either the stored
// baseline or one day's workout-adjusted targets. Never mutated in place,
// only replaced by a new computation.
type macroTargets struct {
	Calories int     `json:"calories"  db:"calories"`
	ProteinG float64 `json:"protein_g" db:"protein_g"`
	CarbsG   float64 `json:"carbs_g"   db:"carbs_g"`
	FatG     float64 `json:"fat_g"     db:"fat_g"`
	SugarG   float64 `json:"sugar_g"   db:"sugar_g"`
	SodiumMg int     `json:"sodium_mg" db:"sodium_mg"`
}

// workoutEntry maps to workout_log. The type tag stays a free-form string —
// the MET classifier matches it by substring, so unknown tags still estimate.
type workoutEntry struct {
	ID             int        `json:"id" db:"id"`
	UserID         int        `json:"user_id" db:"user_id"`
	Date           DateOnly   `json:"date" db:"date"`
	WorkoutType    string     `json:"workout_type" db:"workout_type"`
	DurationMin    float64    `json:"duration_min" db:"duration_min"`
	Intensity      string     `json:"intensity" db:"intensity"`
	CaloriesBurned *float64   `json:"calories_burned" db:"calories_burned"`
	CreatedAt      *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at" db:"updated_at"`
}

// dailyTargets maps to daily_targets: the workout-adjusted snapshot for one
// user/date, superseded on every workout-log change.
type dailyTargets struct {
	UserID          int      `json:"user_id" db:"user_id"`
	Date            DateOnly `json:"date" db:"date"`
	Calories        int      `json:"calories" db:"calories"`
	ProteinG        float64  `json:"protein_g" db:"protein_g"`
	CarbsG          float64  `json:"carbs_g" db:"carbs_g"`
	FatG            float64  `json:"fat_g" db:"fat_g"`
	SugarG          float64  `json:"sugar_g" db:"sugar_g"`
	SodiumMg        int      `json:"sodium_mg" db:"sodium_mg"`
	WorkoutCalories int      `json:"workout_calories" db:"workout_calories"`
	Goal            string   `json:"goal" db:"goal"`
}

/* ─── Request / response shapes ──────────────────────────────────────── */

// patchProfileRequest is the request body for PATCH /api/profile.
// All fields are pointers — only non-nil fields get written to the database.
type patchProfileRequest struct {
	Age           *int     `json:"age"`
	Sex           *string  `json:"sex"`
	HeightCM      *float64 `json:"height_cm"`
	WeightKG      *float64 `json:"weight_kg"`
	ExerciseFreq  *float64 `json:"exercise_freq"`
	WeeklyMinutes *float64 `json:"weekly_minutes"`
	Goal          *string  `json:"goal"`
	SetupComplete *bool    `json:"setup_complete"`
}

// createWorkoutRequest is the request body for POST /api/workouts.
// Intensity defaults to moderate when omitted.
type createWorkoutRequest struct {
	Date           string   `json:"date"`
	WorkoutType    string   `json:"workout_type"`
	DurationMin    float64  `json:"duration_min"`
	Intensity      string   `json:"intensity"`
	CaloriesBurned *float64 `json:"calories_burned"`
}

// dailyTargetsResponse is the response shape for GET /api/targets/daily:
// the day's adjusted targets plus the workouts that produced them.
type dailyTargetsResponse struct {
	Date            string         `json:"date"`
	Targets         macroTargets   `json:"targets"`
	WorkoutCalories int            `json:"workout_calories"`
	Goal            string         `json:"goal"`
	Workouts        []workoutEntry `json:"workouts"`
}

// weekDayTargets is one day's entry in the GET /api/targets/week-summary
// response. Days with no logged workouts have HasWorkouts=false and carry the
// plain baseline.
type weekDayTargets struct {
	Date            DateOnly     `json:"date"`
	Targets         macroTargets `json:"targets"`
	WorkoutCount    int          `json:"workout_count"`
	TotalDuration   float64      `json:"total_duration_min"`
	WorkoutCalories int          `json:"workout_calories"`
	HasWorkouts     bool         `json:"has_workouts"`
}
