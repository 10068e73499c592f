package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/glucoquest/glucoquest/services"
	"github.com/glucoquest/glucoquest/utils"
)

// AssistantController serves the health question endpoint.
type AssistantController struct {
	db         *gorm.DB
	advisor    *services.Advisor
	missions   *services.MissionService
	challenges *services.ChallengeService
}

func NewAssistantController(db *gorm.DB, advisor *services.Advisor,
	missions *services.MissionService, challenges *services.ChallengeService) *AssistantController {
	return &AssistantController{db: db, advisor: advisor, missions: missions, challenges: challenges}
}

// Ask answers a free-form health question. Authenticated calls also count
// toward the assistant-query missions.
func (a *AssistantController) Ask(ctx *gin.Context) {
	var req struct {
		Question string `json:"question"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	question := strings.TrimSpace(utils.Sanitize(req.Question))
	if question == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "question must not be empty")
		return
	}
	if len([]rune(question)) > 1000 {
		utils.Error(ctx, http.StatusBadRequest, 40022, "question too long")
		return
	}

	advice := a.advisor.GetAdvice(ctx.Request.Context(), question)

	userID, authed := currentUserID(ctx)
	if authed {
		now := time.Now()
		// Mission bookkeeping must not break the answer path.
		if err := a.missions.EnsureWeeklyMissions(now); err == nil {
			_ = a.db.Transaction(func(tx *gorm.DB) error {
				if _, err := a.missions.UpdateProgressTx(tx, userID, services.ActivityAssistantQueries, 1, now); err != nil {
					return err
				}
				_, err := a.challenges.UpdateProgressTx(tx, userID, services.ActivityAssistantQueries, 1, now)
				return err
			})
		}
	}

	utils.Success(ctx, advice)
}
