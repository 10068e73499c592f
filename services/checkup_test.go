package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBloodPressure(t *testing.T) {
	cases := []struct {
		systolic, diastolic float64
		category, status    string
	}{
		{120, 75, "Normal", "good"},
		{132, 75, "Elevated", "attention"},
		{120, 82, "Elevated", "attention"},
		{145, 95, "High (Hypertension)", "concerning"},
		{145, 70, "High (Hypertension)", "concerning"},
		{120, 92, "High (Hypertension)", "concerning"},
	}
	for _, tc := range cases {
		category, status := ClassifyBloodPressure(tc.systolic, tc.diastolic)
		assert.Equal(t, tc.category, category, "%v/%v", tc.systolic, tc.diastolic)
		assert.Equal(t, tc.status, status, "%v/%v", tc.systolic, tc.diastolic)
	}
}

func testNames(items []TestItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

func TestCheckupPlanBaselineTests(t *testing.T) {
	plan := GenerateCheckupPlan(30, 22, 90, 115, 70, false, false)

	names := testNames(plan.BloodTests.Essential)
	assert.Equal(t, []string{
		"Fasting Blood Glucose (FBG)",
		"HbA1c (Glycated Hemoglobin)",
		"Lipid Panel (Cholesterol)",
	}, names)
	assert.Empty(t, plan.BloodTests.Recommended)
	assert.Equal(t, "Annually", plan.BloodTests.Essential[0].Frequency)
}

func TestCheckupPlanHypertensionAddsTests(t *testing.T) {
	plan := GenerateCheckupPlan(30, 22, 90, 145, 95, false, false)

	assert.Contains(t, testNames(plan.BloodTests.Essential), "Blood Pressure Monitoring")
	assert.Contains(t, testNames(plan.BloodTests.Recommended), "Kidney Function Tests (Creatinine, BUN)")
	assert.Equal(t, "High (Hypertension)", plan.BloodPressureInfo.Category)
	assert.Equal(t, "145/95 mmHg", plan.BloodPressureInfo.Reading)
}

func TestCheckupPlanDiabetesAddsScreenings(t *testing.T) {
	plan := GenerateCheckupPlan(30, 22, 160, 115, 70, true, false)

	assert.Contains(t, testNames(plan.BloodTests.Essential), "Urine Microalbumin")
	recommended := testNames(plan.BloodTests.Recommended)
	assert.Contains(t, recommended, "Eye Examination (Dilated)")
	assert.Contains(t, recommended, "Foot Examination")

	assert.Equal(t, "Every 3 months", plan.BloodTests.Essential[1].Frequency, "HbA1c quarterly for diabetics")
}

func TestCheckupPlanAgeTiers(t *testing.T) {
	over40 := GenerateCheckupPlan(45, 22, 90, 115, 70, false, false)
	assert.Contains(t, testNames(over40.BloodTests.Recommended), "Thyroid Function Tests (TSH)")
	assert.NotContains(t, testNames(over40.BloodTests.Optional), "Bone Density Scan")

	over50 := GenerateCheckupPlan(55, 22, 90, 115, 70, false, false)
	assert.Contains(t, testNames(over50.BloodTests.Recommended), "Vitamin D Levels")
	assert.Contains(t, testNames(over50.BloodTests.Optional), "Bone Density Scan")
}

func TestCheckupPlanFamilyHistoryTests(t *testing.T) {
	plan := GenerateCheckupPlan(30, 22, 90, 115, 70, false, true)

	recommended := testNames(plan.BloodTests.Recommended)
	assert.Contains(t, recommended, "Insulin Levels (Fasting)")
	assert.Contains(t, recommended, "C-Peptide Test")
	assert.True(t, plan.FamilyHistory)
}

func TestCheckupFrequencyLadder(t *testing.T) {
	cases := []struct {
		name   string
		plan   *CheckupPlan
		visits string
	}{
		{"diabetic", GenerateCheckupPlan(30, 22, 90, 115, 70, true, false), "Every 3 months"},
		{"hypertensive", GenerateCheckupPlan(30, 22, 90, 145, 95, false, false), "Every 3-4 months"},
		{"prediabetic", GenerateCheckupPlan(30, 22, 130, 115, 70, false, false), "Every 4-6 months"},
		{"elevated bp", GenerateCheckupPlan(30, 22, 90, 132, 70, false, false), "Every 4-6 months"},
		{"senior", GenerateCheckupPlan(65, 22, 90, 115, 70, false, false), "Every 6 months"},
		{"healthy", GenerateCheckupPlan(30, 22, 90, 115, 70, false, false), "Annually"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.visits, tc.plan.CheckupFrequency.DoctorVisits, tc.name)
	}
}

func TestLifestyleTipsConditional(t *testing.T) {
	obese := GenerateCheckupPlan(30, 32, 90, 115, 70, false, false)
	var exercise LifestyleTip
	for _, tip := range obese.LifestyleTips {
		if tip.Category == "Exercise" {
			exercise = tip
		}
	}
	assert.Contains(t, exercise.Recommendation, "walking")

	categories := func(plan *CheckupPlan) []string {
		var out []string
		for _, tip := range plan.LifestyleTips {
			out = append(out, tip.Category)
		}
		return out
	}

	diabetic := GenerateCheckupPlan(30, 22, 160, 115, 70, true, false)
	assert.Contains(t, categories(diabetic), "Monitoring")

	healthy := GenerateCheckupPlan(30, 22, 90, 115, 70, false, false)
	assert.NotContains(t, categories(healthy), "Monitoring")
	assert.NotContains(t, categories(healthy), "Weight Management")
	assert.Contains(t, categories(healthy), "Hydration")
}

func TestCheckupPlanNextSteps(t *testing.T) {
	plan := GenerateCheckupPlan(30, 22, 90, 115, 70, false, false)
	require.Len(t, plan.NextSteps, 5)
	assert.Contains(t, plan.NextSteps[0], "primary care physician")
}
