package main

import "math"

// Calorie densities per gram and fixed policy constants for the baseline
// macro split. minDailyCalories is a hard safety floor — the engine never
// hands back a target below it regardless of inputs.
const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarb    = 4.0
	kcalPerGramFat     = 9.0

	minDailyCalories = 1200
	goalCalorieDelta = 250 // kcal subtracted for cut, added for bulk

	fatCalorieShare   = 0.25
	sugarCalorieShare = 0.05

	dailySodiumMg = 2300
)

// proteinPerKg maps a dietary goal to its protein coefficient in g/kg
// bodyweight. Cutting keeps protein highest to spare lean mass; bulking
// leans on the calorie surplus instead.
var proteinPerKg = map[string]float64{
	goalCut:      2.0,
	goalMaintain: 1.6,
	goalBulk:     1.4,
}

// round1 rounds to one decimal place — the resolution all gram-valued
// targets are reported at.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// computeActivityFactor maps weekly exercise-session count to a TDEE
// multiplier via ascending threshold bands. Negative or NaN input clamps to
// zero (sedentary) rather than failing.
func computeActivityFactor(weeklyFrequency float64) float64 {
	if math.IsNaN(weeklyFrequency) || weeklyFrequency < 0 {
		weeklyFrequency = 0
	}
	switch {
	case weeklyFrequency <= 0:
		return 1.2
	case weeklyFrequency <= 3:
		return 1.375
	case weeklyFrequency <= 5:
		return 1.55
	case weeklyFrequency <= 7:
		return 1.725
	default:
		return 1.9
	}
}

// computeBMR computes basal metabolic rate in kcal/day via Mifflin-St Jeor:
// 10*kg + 6.25*cm - 5*age, then +5 for male or -161 otherwise. Female is the
// only other modeled category.
func computeBMR(b biometrics) float64 {
	bmr := 10*b.WeightKG + 6.25*b.HeightCM - 5*float64(b.Age)
	if b.Sex == sexMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	return bmr
}

// computeBaselineMacros computes resting daily macro targets from a complete
// biometric profile. Pure and deterministic — callers store the result as the
// user's baseline and replace it wholesale when the biometrics change.
//
// Calories: BMR * activity factor, shifted ±250 kcal for cut/bulk, floored at
// 1200. Protein: goal-dependent g/kg. Fat: 25% of calories. Carbs: whatever
// calories remain, never negative. Sugar: 5% of calories. Sodium: fixed
// 2300 mg.
func computeBaselineMacros(b biometrics) macroTargets {
	tdee := computeBMR(b) * computeActivityFactor(b.ExerciseFreq)

	switch b.Goal {
	case goalCut:
		tdee -= goalCalorieDelta
	case goalBulk:
		tdee += goalCalorieDelta
	}
	if tdee < minDailyCalories {
		tdee = minDailyCalories
	}
	calories := int(math.Round(tdee))

	coeff, ok := proteinPerKg[b.Goal]
	if !ok {
		coeff = proteinPerKg[goalMaintain]
	}
	protein := round1(coeff * b.WeightKG)
	fat := round1(fatCalorieShare * float64(calories) / kcalPerGramFat)

	// Carbs fill the remaining calorie budget. Derived from the already-
	// rounded protein/fat so recomputing the split later from the stored
	// targets (see adjustMacrosForWorkouts) reproduces the same value.
	carbKcal := float64(calories) - protein*kcalPerGramProtein - fat*kcalPerGramFat
	if carbKcal < 0 {
		carbKcal = 0
	}
	carbs := round1(carbKcal / kcalPerGramCarb)

	sugar := round1(sugarCalorieShare * float64(calories) / kcalPerGramCarb)

	return macroTargets{
		Calories: calories,
		ProteinG: protein,
		CarbsG:   carbs,
		FatG:     fat,
		SugarG:   sugar,
		SodiumMg: dailySodiumMg,
	}
}
