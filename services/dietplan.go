package services

import "fmt"

// Macronutrients is the recommended split for one day, as display ranges.
type Macronutrients struct {
	Carbohydrates string `json:"carbohydrates"`
	Protein       string `json:"protein"`
	HealthyFats   string `json:"healthy_fats"`
	Fiber         string `json:"fiber"`
	Details       string `json:"details"`
}

// MealSuggestion is one meal slot with its calorie share and options.
type MealSuggestion struct {
	Calories int      `json:"calories"`
	Options  []string `json:"options"`
}

// MealSuggestions covers the four slots of a day.
type MealSuggestions struct {
	Breakfast MealSuggestion `json:"breakfast"`
	Lunch     MealSuggestion `json:"lunch"`
	Dinner    MealSuggestion `json:"dinner"`
	Snacks    MealSuggestion `json:"snacks"`
}

// DayPlan names a concrete pick per slot for one weekday.
type DayPlan struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
	Snack     string `json:"snack"`
}

// HealthMetrics echoes the inputs as display strings.
type HealthMetrics struct {
	Glucose string `json:"glucose"`
	Insulin string `json:"insulin"`
	BMI     string `json:"bmi"`
	Age     int    `json:"age"`
}

// DietPlan is the full personalized plan returned with a prediction.
type DietPlan struct {
	DailyCalories         int                 `json:"daily_calories"`
	Macronutrients        Macronutrients      `json:"macronutrients"`
	DiabeticFriendlyFoods map[string][]string `json:"diabetic_friendly_foods"`
	FoodsToAvoid          map[string][]string `json:"foods_to_avoid"`
	MealSuggestions       MealSuggestions     `json:"meal_suggestions"`
	WeeklySchedule        map[string]DayPlan  `json:"weekly_schedule"`
	Tips                  []string            `json:"tips"`
	HealthMetrics         HealthMetrics       `json:"health_metrics"`
}

// DailyCalories picks a calorie target from BMI band, age and glucose.
// Elevated glucose caps the target regardless of the band.
func DailyCalories(age, bmi, glucose float64, hasDiabetes bool) int {
	var calories int
	switch {
	case bmi < 18.5:
		calories = 2200
	case bmi < 25:
		calories = 2000
	case bmi < 30:
		calories = 1800
	default:
		calories = 1600
	}

	if age > 60 {
		calories -= 200
	} else if age < 30 {
		calories += 100
	}

	if hasDiabetes || glucose > 140 {
		calories = min(calories, 1800)
	}
	if glucose > 180 {
		calories = min(calories, 1600)
	}
	return calories
}

func macronutrients(glucose, insulin float64, hasDiabetes bool) Macronutrients {
	highGlucose := glucose > 140
	highInsulin := insulin > 150

	if hasDiabetes || highGlucose {
		carbs := "40-45%"
		if glucose > 180 {
			carbs = "35-40%"
		}
		details := "Focus on complex carbs with low glycemic index"
		if highInsulin {
			details += ". Limit simple sugars to manage insulin resistance"
		}
		return Macronutrients{
			Carbohydrates: carbs,
			Protein:       "25-30%",
			HealthyFats:   "30-35%",
			Fiber:         "30-35g daily",
			Details:       details,
		}
	}
	return Macronutrients{
		Carbohydrates: "45-50%",
		Protein:       "20-25%",
		HealthyFats:   "25-30%",
		Fiber:         "25-30g daily",
		Details:       "Balanced diet to maintain healthy blood sugar levels",
	}
}

func diabeticFriendlyFoods() map[string][]string {
	return map[string][]string{
		"vegetables": {
			"Leafy greens (spinach, kale, lettuce)",
			"Broccoli and cauliflower",
			"Tomatoes and bell peppers",
			"Cucumber and zucchini",
			"Green beans and asparagus",
		},
		"proteins": {
			"Skinless chicken and turkey",
			"Fish (salmon, tuna, sardines)",
			"Eggs",
			"Legumes (lentils, chickpeas, beans)",
			"Tofu and tempeh",
		},
		"grains": {
			"Whole wheat bread",
			"Brown rice and quinoa",
			"Oatmeal",
			"Whole grain pasta",
			"Barley",
		},
		"fruits": {
			"Berries (strawberries, blueberries)",
			"Apples and pears",
			"Oranges and grapefruits",
			"Peaches",
			"Cherries (in moderation)",
		},
		"dairy": {
			"Low-fat Greek yogurt",
			"Skim or low-fat milk",
			"Low-fat cottage cheese",
			"Sugar-free yogurt",
		},
		"healthy_fats": {
			"Avocado",
			"Nuts (almonds, walnuts)",
			"Olive oil",
			"Chia seeds and flax seeds",
		},
	}
}

func foodsToAvoid() map[string][]string {
	return map[string][]string{
		"high_sugar": {
			"Sugary drinks (soda, energy drinks)",
			"Candy and sweets",
			"Pastries and cakes",
			"Ice cream",
			"Sweetened breakfast cereals",
		},
		"refined_carbs": {
			"White bread and white rice",
			"Regular pasta",
			"Processed snacks",
			"French fries and chips",
		},
		"unhealthy_fats": {
			"Fried foods",
			"Fatty cuts of meat",
			"Full-fat dairy products",
			"Butter and margarine (in excess)",
			"Processed meats (sausages, bacon)",
		},
		"high_sodium": {
			"Canned soups",
			"Processed foods",
			"Pickles and olives (in excess)",
			"Salty snacks",
		},
	}
}

func mealSuggestions(calories int) MealSuggestions {
	return MealSuggestions{
		Breakfast: MealSuggestion{
			Calories: calories * 25 / 100,
			Options: []string{
				"Oatmeal with berries and almonds + boiled eggs",
				"Whole wheat toast with avocado and poached eggs",
				"Greek yogurt with nuts and chia seeds",
				"Vegetable omelet with whole grain toast",
			},
		},
		Lunch: MealSuggestion{
			Calories: calories * 35 / 100,
			Options: []string{
				"Grilled chicken salad with olive oil dressing",
				"Lentil soup with whole wheat bread and side salad",
				"Brown rice with grilled fish and steamed vegetables",
				"Quinoa bowl with chickpeas and mixed vegetables",
			},
		},
		Dinner: MealSuggestion{
			Calories: calories * 30 / 100,
			Options: []string{
				"Baked salmon with roasted vegetables and quinoa",
				"Grilled turkey with sweet potato and green beans",
				"Stir-fried tofu with broccoli and brown rice",
				"Chicken breast with cauliflower rice and salad",
			},
		},
		Snacks: MealSuggestion{
			Calories: calories * 10 / 100,
			Options: []string{
				"A handful of almonds or walnuts",
				"Carrot and cucumber sticks with hummus",
				"Apple slices with peanut butter",
				"Low-fat Greek yogurt",
			},
		},
	}
}

// weeklyRotation indexes into the option lists per weekday:
// breakfast, lunch, dinner, snack.
var weeklyRotation = []struct {
	day     string
	indexes [4]int
}{
	{"Monday", [4]int{0, 0, 0, 0}},
	{"Tuesday", [4]int{1, 1, 1, 1}},
	{"Wednesday", [4]int{2, 2, 2, 2}},
	{"Thursday", [4]int{3, 3, 3, 3}},
	{"Friday", [4]int{0, 2, 1, 0}},
	{"Saturday", [4]int{1, 3, 2, 1}},
	{"Sunday", [4]int{2, 0, 3, 2}},
}

func weeklySchedule(meals MealSuggestions) map[string]DayPlan {
	schedule := make(map[string]DayPlan, len(weeklyRotation))
	for _, rot := range weeklyRotation {
		schedule[rot.day] = DayPlan{
			Breakfast: meals.Breakfast.Options[rot.indexes[0]],
			Lunch:     meals.Lunch.Options[rot.indexes[1]],
			Dinner:    meals.Dinner.Options[rot.indexes[2]],
			Snack:     meals.Snacks.Options[rot.indexes[3]],
		}
	}
	return schedule
}

// GenerateDietPlan builds the complete plan from the four vitals and the
// risk verdict. Pure function, safe for concurrent use.
func GenerateDietPlan(glucose, insulin, bmi, age float64, hasDiabetes bool) *DietPlan {
	calories := DailyCalories(age, bmi, glucose, hasDiabetes)
	meals := mealSuggestions(calories)

	tips := []string{
		"Eat at regular intervals to maintain stable blood sugar",
		"Stay hydrated - drink 8-10 glasses of water daily",
		"Monitor portion sizes carefully",
		"Choose whole grains over refined carbohydrates",
		"Include fiber-rich foods in every meal",
		"Limit saturated fats and avoid trans fats",
		"Exercise regularly for at least 30 minutes daily",
	}
	if glucose > 140 {
		tips = prepend(tips, fmt.Sprintf("Your glucose level (%.0f mg/dL) is elevated. Focus on low glycemic index foods", glucose))
	}
	if glucose > 180 {
		tips = insertAt(tips, 1, "Avoid sugary drinks and desserts completely until glucose levels stabilize")
	}
	if insulin > 150 {
		tips = prepend(tips, fmt.Sprintf("Your insulin level (%.0f μU/mL) suggests possible insulin resistance. Reduce simple carbs", insulin))
	}
	if bmi > 30 {
		tips = append(tips, "Weight management is crucial - combine diet with regular physical activity")
	}

	return &DietPlan{
		DailyCalories:         calories,
		Macronutrients:        macronutrients(glucose, insulin, hasDiabetes),
		DiabeticFriendlyFoods: diabeticFriendlyFoods(),
		FoodsToAvoid:          foodsToAvoid(),
		MealSuggestions:       meals,
		WeeklySchedule:        weeklySchedule(meals),
		Tips:                  tips,
		HealthMetrics: HealthMetrics{
			Glucose: fmt.Sprintf("%.0f mg/dL", glucose),
			Insulin: fmt.Sprintf("%.0f μU/mL", insulin),
			BMI:     fmt.Sprintf("%.1f", bmi),
			Age:     int(age),
		},
	}
}

func prepend(tips []string, tip string) []string {
	return append([]string{tip}, tips...)
}

func insertAt(tips []string, i int, tip string) []string {
	if i >= len(tips) {
		return append(tips, tip)
	}
	tips = append(tips, "")
	copy(tips[i+1:], tips[i:])
	tips[i] = tip
	return tips
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
