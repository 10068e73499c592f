package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/models"
	"github.com/glucoquest/glucoquest/services"
	"github.com/glucoquest/glucoquest/utils"
)

// PredictController runs the risk check pipeline: classify, persist the
// record, advance the gamification ledger and return the guidance plans.
type PredictController struct {
	db          *gorm.DB
	predictor   *services.Predictor
	progression *services.ProgressionService
	missions    *services.MissionService
	challenges  *services.ChallengeService
}

func NewPredictController(db *gorm.DB, predictor *services.Predictor,
	progression *services.ProgressionService, missions *services.MissionService,
	challenges *services.ChallengeService) *PredictController {
	return &PredictController{
		db:          db,
		predictor:   predictor,
		progression: progression,
		missions:    missions,
		challenges:  challenges,
	}
}

type predictInput struct {
	Glucose       float64
	Insulin       float64
	BMI           float64
	Age           float64
	BPSystolic    float64
	BPDiastolic   float64
	FamilyHistory bool
}

// parsePredictInput accepts the legacy form field names alongside JSON.
func parsePredictInput(ctx *gin.Context) (*predictInput, string) {
	if strings.Contains(ctx.GetHeader("Content-Type"), "application/json") {
		var req struct {
			Glucose       *float64 `json:"glucose"`
			Insulin       *float64 `json:"insulin"`
			BMI           *float64 `json:"bmi"`
			Age           *float64 `json:"age"`
			BPSystolic    *float64 `json:"bp_systolic"`
			BPDiastolic   *float64 `json:"bp_diastolic"`
			FamilyHistory bool     `json:"family_history"`
		}
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, "invalid request payload"
		}
		for name, v := range map[string]*float64{
			"glucose": req.Glucose, "insulin": req.Insulin, "bmi": req.BMI,
			"age": req.Age, "bp_systolic": req.BPSystolic, "bp_diastolic": req.BPDiastolic,
		} {
			if v == nil {
				return nil, "missing field: " + name
			}
		}
		return &predictInput{
			Glucose:       *req.Glucose,
			Insulin:       *req.Insulin,
			BMI:           *req.BMI,
			Age:           *req.Age,
			BPSystolic:    *req.BPSystolic,
			BPDiastolic:   *req.BPDiastolic,
			FamilyHistory: req.FamilyHistory,
		}, ""
	}

	fields := map[string]float64{}
	for _, name := range []string{
		"Glucose Level", "Insulin", "BMI", "Age",
		"Blood Pressure Systolic", "Blood Pressure Diastolic",
	} {
		raw := strings.TrimSpace(ctx.PostForm(name))
		if raw == "" {
			return nil, "missing field: " + name
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, "invalid number for field: " + name
		}
		fields[name] = v
	}

	return &predictInput{
		Glucose:       fields["Glucose Level"],
		Insulin:       fields["Insulin"],
		BMI:           fields["BMI"],
		Age:           fields["Age"],
		BPSystolic:    fields["Blood Pressure Systolic"],
		BPDiastolic:   fields["Blood Pressure Diastolic"],
		FamilyHistory: strings.EqualFold(ctx.PostForm("Family History"), "yes"),
	}, ""
}

func validatePredictInput(in *predictInput) string {
	switch {
	case in.Glucose <= 0 || in.Glucose > 1000:
		return "glucose out of range"
	case in.Insulin < 0 || in.Insulin > 1000:
		return "insulin out of range"
	case in.BMI <= 0 || in.BMI > 100:
		return "bmi out of range"
	case in.Age <= 0 || in.Age > 150:
		return "age out of range"
	case in.BPSystolic <= 0 || in.BPSystolic > 300:
		return "systolic blood pressure out of range"
	case in.BPDiastolic <= 0 || in.BPDiastolic > 200:
		return "diastolic blood pressure out of range"
	}
	return ""
}

// Predict classifies the submitted vitals. For authenticated users the
// record is saved and the whole gamification update runs in one transaction;
// anonymous callers still get the verdict and the plans.
func (p *PredictController) Predict(ctx *gin.Context) {
	input, errMsg := parsePredictInput(ctx)
	if errMsg != "" {
		utils.Error(ctx, http.StatusBadRequest, 40010, errMsg)
		return
	}
	if msg := validatePredictInput(input); msg != "" {
		utils.Error(ctx, http.StatusBadRequest, 40011, msg)
		return
	}

	risky := p.predictor.Predict(input.Glucose, input.Insulin, input.BMI, input.Age)
	predValue := 0
	if risky {
		predValue = 1
	}

	response := gin.H{
		"prediction":      predValue,
		"prediction_text": services.PredictLabel(risky),
		"diet_plan":       services.GenerateDietPlan(input.Glucose, input.Insulin, input.BMI, input.Age, risky),
		"checkup_plan": services.GenerateCheckupPlan(input.Age, input.BMI, input.Glucose,
			input.BPSystolic, input.BPDiastolic, risky, input.FamilyHistory),
		"chart_data": gin.H{
			"bmi":     input.BMI,
			"glucose": input.Glucose,
			"risk":    predValue,
			"nutrition": gin.H{
				"carbs":   45,
				"protein": 30,
				"fats":    25,
			},
		},
	}

	userID, authed := currentUserID(ctx)
	if !authed {
		utils.Success(ctx, response)
		return
	}

	now := time.Now()
	if err := p.missions.EnsureWeeklyMissions(now); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to prepare missions")
		return
	}
	if err := p.challenges.EnsureSeasonalChallenges(now); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to prepare challenges")
		return
	}

	var (
		record            models.HealthRecord
		checkResult       *services.CheckResult
		missionsCompleted []services.CompletedMission
		challengesDone    []services.CompletedChallenge
	)

	err := p.db.Transaction(func(tx *gorm.DB) error {
		record = models.HealthRecord{
			UserID:        userID,
			Glucose:       input.Glucose,
			Insulin:       input.Insulin,
			BMI:           input.BMI,
			Age:           int(input.Age),
			BPSystolic:    input.BPSystolic,
			BPDiastolic:   input.BPDiastolic,
			FamilyHistory: input.FamilyHistory,
			Prediction:    predValue,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		var err error
		checkResult, err = p.progression.ApplyCheckTx(tx, userID, now)
		if err != nil {
			return err
		}

		done, err := p.missions.UpdateProgressTx(tx, userID, services.ActivityHealthChecks, 1, now)
		if err != nil {
			return err
		}
		missionsCompleted = append(missionsCompleted, done...)

		done, err = p.missions.UpdateProgressTx(tx, userID, services.ActivityStreak, checkResult.CurrentStreak, now)
		if err != nil {
			return err
		}
		missionsCompleted = append(missionsCompleted, done...)

		cdone, err := p.challenges.UpdateProgressTx(tx, userID, services.ActivityHealthChecks, 1, now)
		if err != nil {
			return err
		}
		challengesDone = append(challengesDone, cdone...)

		cdone, err = p.challenges.UpdateProgressTx(tx, userID, services.ActivityStreak, checkResult.CurrentStreak, now)
		if err != nil {
			return err
		}
		challengesDone = append(challengesDone, cdone...)
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to save health record")
		return
	}

	utils.InvalidateByPrefix("cache:leaderboard:")

	response["record_id"] = record.ID
	response["check_result"] = checkResult
	response["completed_missions"] = missionsCompleted
	response["completed_challenges"] = challengesDone
	utils.Success(ctx, response)
}

// currentUserID reads the user id set by the auth middleware. The predict
// route is also mounted without auth, so absence is not an error.
func currentUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
