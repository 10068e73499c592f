package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyCaloriesBMIBands(t *testing.T) {
	cases := []struct {
		bmi  float64
		want int
	}{
		{17.0, 2200},
		{22.0, 2000},
		{27.0, 1800},
		{32.0, 1600},
	}
	for _, tc := range cases {
		got := DailyCalories(40, tc.bmi, 100, false)
		assert.Equal(t, tc.want, got, "bmi %.1f", tc.bmi)
	}
}

func TestDailyCaloriesAgeAdjustment(t *testing.T) {
	assert.Equal(t, 1800, DailyCalories(65, 22, 100, false), "seniors drop 200")
	assert.Equal(t, 2100, DailyCalories(25, 22, 100, false), "under 30 gain 100")
}

func TestDailyCaloriesGlucoseCaps(t *testing.T) {
	// Elevated glucose caps at 1800 even for a low-BMI profile.
	assert.Equal(t, 1800, DailyCalories(25, 17, 150, false))
	// Very high glucose tightens the cap to 1600.
	assert.Equal(t, 1600, DailyCalories(25, 17, 185, false))
	// A diabetes verdict applies the 1800 cap on its own.
	assert.Equal(t, 1800, DailyCalories(25, 17, 100, true))
}

func TestMacronutrientsElevatedGlucose(t *testing.T) {
	m := macronutrients(150, 100, false)
	assert.Equal(t, "40-45%", m.Carbohydrates)
	assert.Equal(t, "30-35g daily", m.Fiber)

	m = macronutrients(185, 100, false)
	assert.Equal(t, "35-40%", m.Carbohydrates)

	m = macronutrients(150, 160, false)
	assert.Contains(t, m.Details, "insulin resistance")
}

func TestMacronutrientsNormalProfile(t *testing.T) {
	m := macronutrients(100, 80, false)
	assert.Equal(t, "45-50%", m.Carbohydrates)
	assert.Equal(t, "Balanced diet to maintain healthy blood sugar levels", m.Details)
}

func TestGenerateDietPlanElevatedGlucoseTip(t *testing.T) {
	plan := GenerateDietPlan(150, 100, 24, 40, false)

	assert.Equal(t, 1800, plan.DailyCalories)
	require.NotEmpty(t, plan.Tips)
	assert.Contains(t, plan.Tips[0], "glucose level (150 mg/dL) is elevated")
}

func TestGenerateDietPlanVeryHighGlucoseTips(t *testing.T) {
	plan := GenerateDietPlan(185, 100, 24, 40, false)

	assert.Contains(t, plan.Tips[0], "is elevated")
	assert.Contains(t, plan.Tips[1], "Avoid sugary drinks and desserts")
}

func TestGenerateDietPlanInsulinTipComesFirst(t *testing.T) {
	plan := GenerateDietPlan(150, 160, 24, 40, false)
	assert.Contains(t, plan.Tips[0], "insulin resistance")
}

func TestGenerateDietPlanObesityTipAppended(t *testing.T) {
	plan := GenerateDietPlan(100, 80, 32, 40, false)
	last := plan.Tips[len(plan.Tips)-1]
	assert.Contains(t, last, "Weight management")
}

func TestMealCaloriesSplit(t *testing.T) {
	meals := mealSuggestions(2000)
	assert.Equal(t, 500, meals.Breakfast.Calories)
	assert.Equal(t, 700, meals.Lunch.Calories)
	assert.Equal(t, 600, meals.Dinner.Calories)
	assert.Equal(t, 200, meals.Snacks.Calories)
}

func TestWeeklyScheduleCoversAllDays(t *testing.T) {
	plan := GenerateDietPlan(100, 80, 24, 40, false)
	require.Len(t, plan.WeeklySchedule, 7)
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
		dayPlan, ok := plan.WeeklySchedule[day]
		require.True(t, ok, day)
		assert.NotEmpty(t, dayPlan.Breakfast)
		assert.NotEmpty(t, dayPlan.Lunch)
		assert.NotEmpty(t, dayPlan.Dinner)
		assert.NotEmpty(t, dayPlan.Snack)
	}
}

func TestHealthMetricsFormatting(t *testing.T) {
	plan := GenerateDietPlan(148.4, 94.6, 33.62, 50, true)
	assert.Equal(t, "148 mg/dL", plan.HealthMetrics.Glucose)
	assert.Equal(t, "95 μU/mL", plan.HealthMetrics.Insulin)
	assert.Equal(t, "33.6", plan.HealthMetrics.BMI)
	assert.Equal(t, 50, plan.HealthMetrics.Age)
}

func TestFoodListsPopulated(t *testing.T) {
	plan := GenerateDietPlan(100, 80, 24, 40, false)

	for _, group := range []string{"vegetables", "proteins", "grains", "fruits", "dairy", "healthy_fats"} {
		assert.NotEmpty(t, plan.DiabeticFriendlyFoods[group], group)
	}
	for _, group := range []string{"high_sugar", "refined_carbs", "unhealthy_fats", "high_sodium"} {
		assert.NotEmpty(t, plan.FoodsToAvoid[group], group)
	}
	assert.True(t, strings.HasPrefix(plan.FoodsToAvoid["high_sugar"][0], "Sugary drinks"))
}
