package main

import (
	"math"
	"testing"
)

// makeBiometrics constructs a valid biometrics value for baseline tests.
// Individual tests tweak fields to exercise specific branches.
func makeBiometrics(sex string, age int, heightCM, weightKG, freq float64, goal string) biometrics {
	return biometrics{
		Age:          age,
		Sex:          sex,
		HeightCM:     heightCM,
		WeightKG:     weightKG,
		ExerciseFreq: freq,
		Goal:         goal,
	}
}

/* ─── Activity factor tests ──────────────────────────────────────────── */

// TestComputeActivityFactor_Table verifies the threshold bands against their
// known multipliers, including band edges.
func TestComputeActivityFactor_Table(t *testing.T) {
	cases := []struct {
		freq float64
		want float64
	}{
		{0, 1.2},
		{1, 1.375},
		{3, 1.375},
		{3.5, 1.55},
		{5, 1.55},
		{6, 1.725},
		{7, 1.725},
		{7.5, 1.9},
		{10, 1.9},
	}

	for _, tc := range cases {
		if got := computeActivityFactor(tc.freq); got != tc.want {
			t.Errorf("computeActivityFactor(%v) = %v, want %v", tc.freq, got, tc.want)
		}
	}
}

// TestComputeActivityFactor_ClampsBadInput verifies that negative and NaN
// frequencies clamp to the sedentary multiplier instead of failing.
func TestComputeActivityFactor_ClampsBadInput(t *testing.T) {
	if got := computeActivityFactor(-3); got != 1.2 {
		t.Errorf("computeActivityFactor(-3) = %v, want 1.2", got)
	}
	if got := computeActivityFactor(math.NaN()); got != 1.2 {
		t.Errorf("computeActivityFactor(NaN) = %v, want 1.2", got)
	}
}

// TestComputeActivityFactor_Monotonic verifies the factor never decreases as
// frequency increases.
func TestComputeActivityFactor_Monotonic(t *testing.T) {
	prev := 0.0
	for freq := 0.0; freq <= 12; freq += 0.5 {
		got := computeActivityFactor(freq)
		if got < prev {
			t.Fatalf("factor decreased at freq=%v: %v < %v", freq, got, prev)
		}
		prev = got
	}
}

/* ─── BMR accuracy tests ─────────────────────────────────────────────── */

// TestComputeBMR_Male verifies the male Mifflin-St Jeor formula with known
// inputs: 10*80 + 6.25*180 - 5*30 + 5 = 1780.
func TestComputeBMR_Male(t *testing.T) {
	b := makeBiometrics(sexMale, 30, 180, 80, 0, goalMaintain)
	got := computeBMR(b)
	want := 10*80.0 + 6.25*180 - 5*30 + 5
	if got != want {
		t.Errorf("male BMR = %v, want %v", got, want)
	}
}

// TestComputeBMR_Female verifies the female offset (-161) with known inputs.
func TestComputeBMR_Female(t *testing.T) {
	b := makeBiometrics(sexFemale, 30, 165, 60, 0, goalMaintain)
	got := computeBMR(b)
	want := 10*60.0 + 6.25*165 - 5*30 - 161
	if got != want {
		t.Errorf("female BMR = %v, want %v", got, want)
	}
}

/* ─── Baseline macro tests ───────────────────────────────────────────── */

// TestComputeBaselineMacros_CalorieFloor verifies the 1200 kcal safety floor:
// a small, elderly, sedentary profile on a cut can't be pushed below it.
func TestComputeBaselineMacros_CalorieFloor(t *testing.T) {
	b := makeBiometrics(sexFemale, 90, 140, 35, 0, goalCut)
	targets := computeBaselineMacros(b)
	if targets.Calories < 1200 {
		t.Errorf("calories = %d, want >= 1200", targets.Calories)
	}
}

// TestComputeBaselineMacros_AllFieldsNonNegative sweeps a grid of profiles
// and verifies every returned field is >= 0.
func TestComputeBaselineMacros_AllFieldsNonNegative(t *testing.T) {
	for _, sex := range []string{sexMale, sexFemale} {
		for _, goal := range []string{goalCut, goalMaintain, goalBulk} {
			for _, weight := range []float64{35, 70, 150} {
				b := makeBiometrics(sex, 45, 170, weight, 3, goal)
				targets := computeBaselineMacros(b)
				if targets.Calories < 0 || targets.ProteinG < 0 || targets.CarbsG < 0 ||
					targets.FatG < 0 || targets.SugarG < 0 || targets.SodiumMg < 0 {
					t.Errorf("negative field for sex=%s goal=%s weight=%v: %+v", sex, goal, weight, targets)
				}
			}
		}
	}
}

// TestComputeBaselineMacros_GoalCalorieShift verifies cut sits 500 kcal below
// bulk (±250 around maintain) for an identical profile well above the floor.
func TestComputeBaselineMacros_GoalCalorieShift(t *testing.T) {
	base := makeBiometrics(sexMale, 30, 180, 80, 4, goalMaintain)

	cut := base
	cut.Goal = goalCut
	bulk := base
	bulk.Goal = goalBulk

	maintainCal := computeBaselineMacros(base).Calories
	cutCal := computeBaselineMacros(cut).Calories
	bulkCal := computeBaselineMacros(bulk).Calories

	if cutCal != maintainCal-250 {
		t.Errorf("cut calories = %d, want %d", cutCal, maintainCal-250)
	}
	if bulkCal != maintainCal+250 {
		t.Errorf("bulk calories = %d, want %d", bulkCal, maintainCal+250)
	}
}

// TestComputeBaselineMacros_ProteinByGoal verifies the per-kg protein
// coefficients: cut 2.0, maintain 1.6, bulk 1.4.
func TestComputeBaselineMacros_ProteinByGoal(t *testing.T) {
	cases := []struct {
		goal string
		want float64
	}{
		{goalCut, 160.0},
		{goalMaintain, 128.0},
		{goalBulk, 112.0},
	}

	for _, tc := range cases {
		t.Run(tc.goal, func(t *testing.T) {
			b := makeBiometrics(sexMale, 30, 180, 80, 4, tc.goal)
			targets := computeBaselineMacros(b)
			if targets.ProteinG != tc.want {
				t.Errorf("protein for %s = %v, want %v", tc.goal, targets.ProteinG, tc.want)
			}
		})
	}
}

// TestComputeBaselineMacros_FatAndSugarShares verifies fat is 25% of calories
// at 9 kcal/g and sugar 5% at 4 kcal/g, both to one decimal.
func TestComputeBaselineMacros_FatAndSugarShares(t *testing.T) {
	b := makeBiometrics(sexMale, 30, 180, 80, 4, goalMaintain)
	targets := computeBaselineMacros(b)

	wantFat := round1(0.25 * float64(targets.Calories) / 9)
	if targets.FatG != wantFat {
		t.Errorf("fat = %v, want %v", targets.FatG, wantFat)
	}
	wantSugar := round1(0.05 * float64(targets.Calories) / 4)
	if targets.SugarG != wantSugar {
		t.Errorf("sugar = %v, want %v", targets.SugarG, wantSugar)
	}
}

// TestComputeBaselineMacros_CarbsNeverNegative verifies carbs floor at zero
// when protein and fat calories exceed the (floored) calorie target — a heavy
// cut profile pinned at 1200 kcal.
func TestComputeBaselineMacros_CarbsNeverNegative(t *testing.T) {
	// 150 kg on a cut: protein alone is 300 g = 1200 kcal, which together
	// with fat exceeds any calorie target near the floor.
	b := makeBiometrics(sexFemale, 80, 150, 150, 0, goalCut)
	targets := computeBaselineMacros(b)
	if targets.CarbsG < 0 {
		t.Errorf("carbs = %v, want >= 0", targets.CarbsG)
	}
}

// TestComputeBaselineMacros_SodiumConstant verifies sodium is always 2300 mg
// regardless of profile.
func TestComputeBaselineMacros_SodiumConstant(t *testing.T) {
	for _, goal := range []string{goalCut, goalMaintain, goalBulk} {
		b := makeBiometrics(sexFemale, 25, 160, 55, 6, goal)
		if got := computeBaselineMacros(b).SodiumMg; got != 2300 {
			t.Errorf("sodium for %s = %d, want 2300", goal, got)
		}
	}
}

// TestComputeBaselineMacros_CarbSplitConsistent verifies the stored targets
// reproduce their own calorie split: re-deriving carbs from calories, protein
// and fat gives back the stored carb value.
func TestComputeBaselineMacros_CarbSplitConsistent(t *testing.T) {
	b := makeBiometrics(sexMale, 42, 178, 85, 5, goalMaintain)
	targets := computeBaselineMacros(b)

	rederived := round1(baseCarbFromCalories(targets.Calories, targets.ProteinG, targets.FatG))
	if rederived != targets.CarbsG {
		t.Errorf("re-derived carbs = %v, stored = %v", rederived, targets.CarbsG)
	}
}
