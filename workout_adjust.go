package main

import (
	"math"
	"strings"
)

// Workout-adjustment policy constants.
const (
	strengthProteinBonusG   = 15.0 // per qualifying strength/mixed workout
	strengthMinDurationMin  = 45.0
	enduranceCarbPerKg      = 0.7 // g carbs per kg bodyweight per qualifying workout
	enduranceMinDurationMin = 60.0
	sodiumMinDurationMin    = 60.0
	sodiumMgPerHour         = 500.0
)

// adjustMeta describes how a day's targets were produced: the total estimated
// workout expenditure that was credited back, and the goal in effect.
type adjustMeta struct {
	TotalWorkoutCalories int    `json:"total_workout_calories"`
	Goal                 string `json:"goal"`
}

// metForWorkout selects a MET (metabolic equivalent) value from the free-form
// workout-type tag. Case-insensitive substring match, first match wins. The
// priority order is load-bearing: tags can legitimately match more than one
// category ("strength run club"), and reordering changes which MET applies.
func metForWorkout(workoutType, intensity string) float64 {
	t := strings.ToLower(workoutType)
	high := intensity == intensityHigh

	switch {
	case strings.Contains(t, "walk"):
		return 3
	case strings.Contains(t, "strength"), strings.Contains(t, "lift"):
		return 5
	case strings.Contains(t, "hiit"):
		return 12
	case strings.Contains(t, "endurance"), strings.Contains(t, "run"), strings.Contains(t, "cycle"):
		if high {
			return 11
		}
		return 7
	case strings.Contains(t, "mixed"):
		return 6
	default:
		if high {
			return 8
		}
		return 5
	}
}

// estimateWorkoutCalories estimates the calorie expenditure of one workout.
// A positive directly-reported burn always wins over estimation; otherwise
// kcal = MET * weightKg * hours. Negative durations count as zero.
func estimateWorkoutCalories(w workoutEntry, weightKg float64) float64 {
	if w.CaloriesBurned != nil && *w.CaloriesBurned > 0 {
		return *w.CaloriesBurned
	}
	hours := math.Max(w.DurationMin, 0) / 60
	return metForWorkout(w.WorkoutType, w.Intensity) * weightKg * hours
}

// isStrengthWorkout reports whether a workout earns the protein bonus:
// the mixed tag, or anything containing "strength".
func isStrengthWorkout(workoutType string) bool {
	t := strings.ToLower(workoutType)
	return t == "mixed" || strings.Contains(t, "strength")
}

// isEnduranceWorkout reports whether a workout earns the carb bonus.
func isEnduranceWorkout(workoutType string) bool {
	t := strings.ToLower(workoutType)
	return strings.Contains(t, "endurance") || strings.Contains(t, "run") || strings.Contains(t, "cycle")
}

// adjustMacrosForWorkouts recomputes one day's targets from the stored
// baseline and the day's logged workouts. Pure: same inputs, same output,
// workout order irrelevant. Unknown type tags never fail — they fall through
// to default MET and earn no bonuses.
//
// Policy: 100% of estimated workout expenditure is credited back to the
// calorie target. Long strength/mixed work (≥45 min) adds a flat 15 g protein
// each; long endurance work (≥60 min) adds 0.7 g/kg carbs each; any workout
// ≥60 min adds sodium scaled by its duration. Fat and sugar always carry
// through from the baseline untouched.
func adjustMacrosForWorkouts(baseline macroTargets, workouts []workoutEntry, weightKg float64, goal string) (macroTargets, adjustMeta) {
	var totalWorkoutCalories float64
	protein := baseline.ProteinG
	carbAccum := baseline.CarbsG
	sodium := float64(baseline.SodiumMg)

	for _, w := range workouts {
		totalWorkoutCalories += estimateWorkoutCalories(w, weightKg)

		if isStrengthWorkout(w.WorkoutType) && w.DurationMin >= strengthMinDurationMin {
			protein += strengthProteinBonusG
		}
		if isEnduranceWorkout(w.WorkoutType) && w.DurationMin >= enduranceMinDurationMin {
			carbAccum += enduranceCarbPerKg * weightKg
		}
		if w.DurationMin >= sodiumMinDurationMin {
			sodium += sodiumMgPerHour * (w.DurationMin / 60)
		}
	}

	adjustedCalories := int(math.Round(float64(baseline.Calories) + totalWorkoutCalories))
	fat := baseline.FatG

	// Carbs are rebuilt in two separate steps: a base derived from the
	// adjusted calorie budget, plus only the incremental endurance bonus.
	// Adding the raw accumulator instead would double-count baseline carbs.
	baseCarb := baseCarbFromCalories(adjustedCalories, protein, fat)
	enduranceBonus := math.Max(carbAccum-baseline.CarbsG, 0)
	carbs := round1(baseCarb + enduranceBonus)

	adjusted := macroTargets{
		Calories: adjustedCalories,
		ProteinG: round1(protein),
		CarbsG:   carbs,
		FatG:     round1(fat),
		SugarG:   baseline.SugarG,
		SodiumMg: int(math.Round(sodium)),
	}
	meta := adjustMeta{
		TotalWorkoutCalories: int(math.Round(totalWorkoutCalories)),
		Goal:                 goal,
	}
	return adjusted, meta
}

// baseCarbFromCalories derives the carb grams left in a calorie budget after
// protein and fat take their share. Never negative.
func baseCarbFromCalories(calories int, proteinG, fatG float64) float64 {
	carbKcal := math.Max(float64(calories)-(proteinG*kcalPerGramProtein+fatG*kcalPerGramFat), 0)
	return carbKcal / kcalPerGramCarb
}
