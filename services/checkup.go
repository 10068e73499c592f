package services

import "fmt"

// TestItem is one recommended lab test.
type TestItem struct {
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	Frequency string `json:"frequency"`
}

// BloodTests groups recommendations by priority tier.
type BloodTests struct {
	Essential   []TestItem `json:"essential"`
	Recommended []TestItem `json:"recommended"`
	Optional    []TestItem `json:"optional"`
}

// CheckupFrequency states how often to see a doctor and why.
type CheckupFrequency struct {
	DoctorVisits string `json:"doctor_visits"`
	Reason       string `json:"reason"`
}

// LifestyleTip is one category of lifestyle guidance.
type LifestyleTip struct {
	Category       string `json:"category"`
	Icon           string `json:"icon"`
	Recommendation string `json:"recommendation"`
	Details        string `json:"details"`
}

// BloodPressureInfo classifies the reading for display.
type BloodPressureInfo struct {
	Reading  string `json:"reading"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

// CheckupPlan is the full checkup recommendation returned with a prediction.
type CheckupPlan struct {
	BloodPressureInfo BloodPressureInfo `json:"blood_pressure_info"`
	BloodTests        BloodTests        `json:"blood_tests"`
	CheckupFrequency  CheckupFrequency  `json:"checkup_frequency"`
	LifestyleTips     []LifestyleTip    `json:"lifestyle_tips"`
	FamilyHistory     bool              `json:"family_history"`
	NextSteps         []string          `json:"next_steps"`
}

// ClassifyBloodPressure buckets a reading into the three display categories.
// Either number crossing its threshold moves the reading up a category.
func ClassifyBloodPressure(systolic, diastolic float64) (category, status string) {
	switch {
	case systolic >= 140 || diastolic >= 90:
		return "High (Hypertension)", "concerning"
	case systolic >= 130 || diastolic >= 80:
		return "Elevated", "attention"
	default:
		return "Normal", "good"
	}
}

func bloodTestRecommendations(age, bmi, glucose, systolic, diastolic float64, hasDiabetes, familyHistory bool) BloodTests {
	var tests BloodTests

	fbgFreq := "Annually"
	if hasDiabetes || glucose > 100 {
		fbgFreq = "Every 6 months"
	}
	tests.Essential = append(tests.Essential, TestItem{
		Name:      "Fasting Blood Glucose (FBG)",
		Reason:    "Monitor blood sugar levels",
		Frequency: fbgFreq,
	})

	hba1cFreq := "Annually"
	switch {
	case hasDiabetes:
		hba1cFreq = "Every 3 months"
	case glucose > 100:
		hba1cFreq = "Every 6 months"
	}
	tests.Essential = append(tests.Essential, TestItem{
		Name:      "HbA1c (Glycated Hemoglobin)",
		Reason:    "3-month average blood sugar indicator",
		Frequency: hba1cFreq,
	})

	lipidFreq := "Annually"
	if age > 45 || bmi > 30 {
		lipidFreq = "Every 6 months"
	}
	tests.Essential = append(tests.Essential, TestItem{
		Name:      "Lipid Panel (Cholesterol)",
		Reason:    "Check heart health and cholesterol levels",
		Frequency: lipidFreq,
	})

	if systolic >= 140 || diastolic >= 90 {
		tests.Essential = append(tests.Essential, TestItem{
			Name:      "Blood Pressure Monitoring",
			Reason:    "Your BP is elevated - monitor regularly",
			Frequency: "Weekly at home, monthly with doctor",
		})
		tests.Recommended = append(tests.Recommended, TestItem{
			Name:      "Kidney Function Tests (Creatinine, BUN)",
			Reason:    "High BP can affect kidney function",
			Frequency: "Every 6 months",
		})
	}

	if hasDiabetes || glucose > 125 {
		tests.Essential = append(tests.Essential, TestItem{
			Name:      "Urine Microalbumin",
			Reason:    "Screen for kidney damage from diabetes",
			Frequency: "Annually",
		})
		tests.Recommended = append(tests.Recommended,
			TestItem{
				Name:      "Comprehensive Metabolic Panel",
				Reason:    "Monitor kidney and liver function",
				Frequency: "Every 6 months",
			},
			TestItem{
				Name:      "Eye Examination (Dilated)",
				Reason:    "Screen for diabetic retinopathy",
				Frequency: "Annually",
			},
			TestItem{
				Name:      "Foot Examination",
				Reason:    "Check for diabetic neuropathy",
				Frequency: "Every 6 months",
			})
	}

	if age > 40 {
		tests.Recommended = append(tests.Recommended, TestItem{
			Name:      "Thyroid Function Tests (TSH)",
			Reason:    "Screen for thyroid disorders (common after 40)",
			Frequency: "Every 2-3 years",
		})
	}

	if age > 50 {
		tests.Recommended = append(tests.Recommended, TestItem{
			Name:      "Vitamin D Levels",
			Reason:    "Important for bone health",
			Frequency: "Annually",
		})
		tests.Optional = append(tests.Optional, TestItem{
			Name:      "Bone Density Scan",
			Reason:    "Screen for osteoporosis risk",
			Frequency: "Every 2 years",
		})
	}

	if bmi > 30 {
		tests.Recommended = append(tests.Recommended, TestItem{
			Name:      "Liver Function Tests",
			Reason:    "Higher BMI can affect liver health",
			Frequency: "Annually",
		})
	}

	if familyHistory {
		tests.Recommended = append(tests.Recommended,
			TestItem{
				Name:      "Insulin Levels (Fasting)",
				Reason:    "Family history increases diabetes risk",
				Frequency: "Annually",
			},
			TestItem{
				Name:      "C-Peptide Test",
				Reason:    "Assess insulin production",
				Frequency: "Every 2 years",
			})
	}

	tests.Optional = append(tests.Optional, TestItem{
		Name:      "Complete Blood Count (CBC)",
		Reason:    "General health screening",
		Frequency: "Annually",
	})

	b12Freq := "Every 2 years"
	if hasDiabetes {
		b12Freq = "Annually"
	}
	tests.Optional = append(tests.Optional, TestItem{
		Name:      "Vitamin B12",
		Reason:    "Important for nerve function (especially for diabetics)",
		Frequency: b12Freq,
	})

	return tests
}

func checkupFrequency(age, glucose, systolic, diastolic float64, hasDiabetes bool) CheckupFrequency {
	hypertension := systolic >= 140 || diastolic >= 90
	elevatedBP := systolic >= 130 || diastolic >= 80

	switch {
	case hasDiabetes:
		return CheckupFrequency{
			DoctorVisits: "Every 3 months",
			Reason:       "Active diabetes management requires frequent monitoring",
		}
	case hypertension:
		return CheckupFrequency{
			DoctorVisits: "Every 3-4 months",
			Reason:       "Hypertension requires close monitoring and management",
		}
	case glucose > 125 || elevatedBP:
		return CheckupFrequency{
			DoctorVisits: "Every 4-6 months",
			Reason:       "Pre-diabetic or elevated BP requires regular monitoring",
		}
	case age > 60:
		return CheckupFrequency{
			DoctorVisits: "Every 6 months",
			Reason:       "Regular checkups important for seniors",
		}
	default:
		return CheckupFrequency{
			DoctorVisits: "Annually",
			Reason:       "Maintain regular health screening",
		}
	}
}

func lifestyleRecommendations(age, bmi, glucose, systolic float64, hasDiabetes bool) []LifestyleTip {
	var tips []LifestyleTip

	if age < 65 {
		tips = append(tips, LifestyleTip{
			Category:       "Sleep",
			Icon:           "🛌",
			Recommendation: "Aim for 7-9 hours of quality sleep each night",
			Details:        "Good sleep helps regulate blood sugar and blood pressure",
		})
	} else {
		tips = append(tips, LifestyleTip{
			Category:       "Sleep",
			Icon:           "🛌",
			Recommendation: "Aim for 7-8 hours of sleep each night",
			Details:        "Quality sleep is crucial for metabolic health",
		})
	}

	switch {
	case bmi > 30:
		tips = append(tips, LifestyleTip{
			Category:       "Exercise",
			Icon:           "🏃",
			Recommendation: "Start with 20-30 minutes of walking daily",
			Details:        "Gradually increase to 150 minutes of moderate activity per week",
		})
	case hasDiabetes:
		tips = append(tips, LifestyleTip{
			Category:       "Exercise",
			Icon:           "🏃",
			Recommendation: "Exercise 30-45 minutes daily, 5 days a week",
			Details:        "Mix cardio and strength training to improve insulin sensitivity",
		})
	default:
		tips = append(tips, LifestyleTip{
			Category:       "Exercise",
			Icon:           "🏃",
			Recommendation: "Exercise 30 minutes daily, at least 5 days a week",
			Details:        "Regular physical activity prevents chronic diseases",
		})
	}

	tips = append(tips, LifestyleTip{
		Category:       "Hydration",
		Icon:           "💧",
		Recommendation: "Drink 8-10 glasses of water daily",
		Details:        "Proper hydration helps kidney function and blood sugar regulation",
	})

	if systolic >= 140 {
		tips = append(tips, LifestyleTip{
			Category:       "Stress Management",
			Icon:           "🧘",
			Recommendation: "Practice stress reduction techniques daily",
			Details:        "Try meditation, deep breathing, or yoga to lower blood pressure",
		})
	} else {
		tips = append(tips, LifestyleTip{
			Category:       "Stress Management",
			Icon:           "🧘",
			Recommendation: "Manage stress through relaxation techniques",
			Details:        "Chronic stress can raise blood sugar and blood pressure",
		})
	}

	if hasDiabetes || glucose > 125 {
		tips = append(tips, LifestyleTip{
			Category:       "Monitoring",
			Icon:           "📊",
			Recommendation: "Monitor blood sugar regularly",
			Details:        "Check fasting glucose and track patterns with your doctor",
		})
	}

	if bmi > 25 {
		tips = append(tips, LifestyleTip{
			Category:       "Weight Management",
			Icon:           "⚖️",
			Recommendation: "Work towards a healthy weight gradually",
			Details:        "Even 5-10% weight loss can significantly improve health markers",
		})
	}

	tips = append(tips, LifestyleTip{
		Category:       "Avoid Harmful Habits",
		Icon:           "🚭",
		Recommendation: "Avoid smoking and limit alcohol consumption",
		Details:        "Both can worsen diabetes and cardiovascular health",
	})

	return tips
}

// GenerateCheckupPlan builds the full recommendation plan. Pure function,
// safe for concurrent use.
func GenerateCheckupPlan(age, bmi, glucose, systolic, diastolic float64, hasDiabetes, familyHistory bool) *CheckupPlan {
	category, status := ClassifyBloodPressure(systolic, diastolic)

	return &CheckupPlan{
		BloodPressureInfo: BloodPressureInfo{
			Reading:  fmt.Sprintf("%.0f/%.0f mmHg", systolic, diastolic),
			Category: category,
			Status:   status,
		},
		BloodTests:       bloodTestRecommendations(age, bmi, glucose, systolic, diastolic, hasDiabetes, familyHistory),
		CheckupFrequency: checkupFrequency(age, glucose, systolic, diastolic, hasDiabetes),
		LifestyleTips:    lifestyleRecommendations(age, bmi, glucose, systolic, hasDiabetes),
		FamilyHistory:    familyHistory,
		NextSteps: []string{
			"Schedule an appointment with your primary care physician",
			"Discuss these test recommendations with your doctor",
			"Get baseline tests done if you haven't had them recently",
			"Create a health tracking log for blood sugar and blood pressure",
			"Follow up on any abnormal results promptly",
		},
	}
}
