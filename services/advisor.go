package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Advice is the assistant's structured response: a prose answer plus
// actionable tips.
type Advice struct {
	Answer string   `json:"answer"`
	Tips   []string `json:"tips"`
}

const advisorSystemPrompt = `You are a knowledgeable and empathetic health assistant specializing in diabetes management and general wellness.
Provide helpful, evidence-based advice about diet, exercise, blood sugar monitoring, stress management, and lifestyle choices.
Always remind users to consult healthcare professionals for medical decisions.
Keep responses concise (2-3 paragraphs) and include 3-5 actionable tips.`

// ruleResponses are topic-keyed canned responses. Order matters: topics
// earlier in the list win when a question matches several.
var ruleResponses = []struct {
	keywords []string
	advice   Advice
}{
	{
		keywords: []string{"diet", "eat", "food"},
		advice: Advice{
			Answer: "A balanced diet should include plenty of fruits, vegetables, whole grains, lean proteins, and healthy fats. Aim for variety and moderation.",
			Tips: []string{
				"Eat a rainbow of colorful fruits and vegetables",
				"Stay hydrated with water",
				"Limit processed foods and added sugars",
				"Include fiber-rich foods",
				"Practice mindful eating",
			},
		},
	},
	{
		keywords: []string{"exercise", "workout", "physical"},
		advice: Advice{
			Answer: "Regular physical activity is crucial for managing blood sugar levels and overall health. Aim for at least 150 minutes of moderate aerobic activity per week.",
			Tips: []string{
				"Start with 30 minutes of walking daily",
				"Include strength training twice a week",
				"Try activities you enjoy like dancing, swimming, or cycling",
				"Check blood sugar before and after exercise",
				"Stay consistent with your routine",
			},
		},
	},
	{
		keywords: []string{"blood sugar", "glucose", "monitor"},
		advice: Advice{
			Answer: "Regular blood sugar monitoring helps you understand how food, activity, and stress affect your levels. Keep a log and look for patterns.",
			Tips: []string{
				"Monitor at consistent times daily",
				"Track your readings in a journal",
				"Note what you ate before each reading",
				"Check before and 2 hours after meals",
				"Share your log with your healthcare provider",
			},
		},
	},
	{
		keywords: []string{"stress", "anxiety", "mental"},
		advice: Advice{
			Answer: "Stress can significantly impact blood sugar levels. Managing stress through relaxation techniques and mindfulness is important for diabetes management.",
			Tips: []string{
				"Practice deep breathing exercises daily",
				"Try meditation or yoga",
				"Ensure 7-8 hours of quality sleep",
				"Connect with friends and family",
				"Consider professional counseling if needed",
			},
		},
	},
	{
		keywords: []string{"sleep", "rest"},
		advice: Advice{
			Answer: "Quality sleep is essential for blood sugar regulation and overall health. Poor sleep can increase insulin resistance.",
			Tips: []string{
				"Maintain a consistent sleep schedule",
				"Create a relaxing bedtime routine",
				"Keep your bedroom cool and dark",
				"Avoid screens 1 hour before bed",
				"Limit caffeine in the afternoon",
			},
		},
	},
	{
		keywords: []string{"medication", "medicine", "insulin"},
		advice: Advice{
			Answer: "Always take medications as prescribed by your healthcare provider. Never adjust doses without consulting them first.",
			Tips: []string{
				"Take medications at the same time daily",
				"Set reminders on your phone",
				"Keep a medication log",
				"Report any side effects to your doctor",
				"Never skip doses",
			},
		},
	},
}

var dietDiabetesAdvice = Advice{
	Answer: "For diabetes management, focus on low glycemic index foods like whole grains, lean proteins, non-starchy vegetables, and healthy fats. Avoid refined sugars, white bread, and sugary drinks.",
	Tips: []string{
		"Choose whole grains over refined grains",
		"Include plenty of vegetables in every meal",
		"Opt for lean proteins like chicken, fish, and legumes",
		"Limit processed and packaged foods",
		"Monitor portion sizes",
	},
}

var defaultAdvice = Advice{
	Answer: "I can help with questions about diet, exercise, blood sugar monitoring, stress management, sleep, and general diabetes care. What would you like to know?",
	Tips: []string{
		"Ask about healthy eating habits",
		"Learn about exercise recommendations",
		"Get tips on blood sugar monitoring",
		"Understand stress management",
		"Discover sleep improvement strategies",
	},
}

// RuleAdvice answers a question from the keyword tables. Always succeeds.
func RuleAdvice(question string) Advice {
	q := strings.ToLower(question)

	for _, rule := range ruleResponses {
		for _, kw := range rule.keywords {
			if !strings.Contains(q, kw) {
				continue
			}
			// Diet questions about diabetes get the specialized response.
			if rule.keywords[0] == "diet" &&
				(strings.Contains(q, "diabetes") || strings.Contains(q, "sugar")) {
				return dietDiabetesAdvice
			}
			return rule.advice
		}
	}
	return defaultAdvice
}

// Advisor answers health questions. With an API key configured it asks an
// OpenAI-compatible chat completion endpoint and falls back to the rule
// tables on any failure; without a key it only uses the rules.
type Advisor struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewAdvisor builds an advisor. An empty apiKey disables the remote model.
func NewAdvisor(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) *Advisor {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Advisor{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GetAdvice answers a question, never returning an error: remote failures
// degrade silently to the rule tables.
func (a *Advisor) GetAdvice(ctx context.Context, question string) Advice {
	if a.apiKey == "" {
		return RuleAdvice(question)
	}

	advice, err := a.askModel(ctx, question)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("assistant model call failed, using rule tables", zap.Error(err))
		}
		return RuleAdvice(question)
	}
	return advice
}

func (a *Advisor) askModel(ctx context.Context, question string) (Advice, error) {
	payload, err := json.Marshal(chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: advisorSystemPrompt},
			{Role: "user", Content: question},
		},
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return Advice{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Advice{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return Advice{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Advice{}, fmt.Errorf("chat completion status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Advice{}, err
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return Advice{}, fmt.Errorf("chat completion returned no choices")
	}

	return splitAnswerAndTips(parsed.Choices[0].Message.Content), nil
}

// splitAnswerAndTips separates free-form model output into prose and a tip
// list. Bulleted or numbered lines after a "Tips:" marker (or the first
// numbered line) become tips; if none are found the trailing sentences of
// the answer are promoted instead.
func splitAnswerAndTips(content string) Advice {
	var answerParts, tips []string
	inTips := false

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "tips:") || strings.Contains(line, "1.") || strings.Contains(line, "2.") {
			inTips = true
		}

		if inTips && isTipLine(line) {
			if tip := strings.TrimLeft(line, "-•0123456789. "); tip != "" {
				tips = append(tips, tip)
			}
		} else if !inTips {
			answerParts = append(answerParts, line)
		}
	}

	if len(tips) == 0 {
		sentences := strings.Split(strings.Join(answerParts, " "), ". ")
		if len(sentences) > 3 {
			tips = sentences[len(sentences)-3:]
			answerParts = sentences[:len(sentences)-3]
		}
	}

	answer := strings.Join(answerParts, " ")
	if answer == "" {
		answer = content
	}
	return Advice{Answer: answer, Tips: tips}
}

func isTipLine(line string) bool {
	if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") {
		return true
	}
	for i := 1; i < 10; i++ {
		if strings.HasPrefix(line, fmt.Sprintf("%d.", i)) {
			return true
		}
	}
	return false
}
