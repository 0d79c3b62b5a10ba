// Package openai implements the analyzer directly on OpenAI chat
// completions, for deployments without the Gemini proxy.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
	goopenai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o"

const systemPrompt = "You are a nutrition assistant inside a meal logging app. Reply with a single JSON object and nothing else. " +
	"Keep the tone descriptive and positive. Avoid medical claims, strict targets and guilt."

type Client struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client

	api *goopenai.Client
}

func (c *Client) client() (*goopenai.Client, error) {
	if c.api != nil {
		return c.api, nil
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("missing OpenAI API key (set OPENAI_API_KEY)")
	}
	cfg := goopenai.DefaultConfig(c.APIKey)
	if base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"); base != "" {
		cfg.BaseURL = base
	}
	cfg.HTTPClient = c.HTTPClient
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	c.api = goopenai.NewClientWithConfig(cfg)
	return c.api, nil
}

func (c *Client) model() string {
	if c.Model == "" {
		return defaultModel
	}
	return c.Model
}

// complete sends one prompt, optionally with an image, and decodes the JSON
// object reply into out.
func (c *Client) complete(ctx context.Context, op, prompt, imageDataURL string, out any) error {
	api, err := c.client()
	if err != nil {
		return err
	}
	user := goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser}
	if imageDataURL == "" {
		user.Content = prompt
	} else {
		user.MultiContent = []goopenai.ChatMessagePart{
			{Type: goopenai.ChatMessagePartTypeText, Text: prompt},
			{Type: goopenai.ChatMessagePartTypeImageURL, ImageURL: &goopenai.ChatMessageImageURL{URL: imageDataURL, Detail: goopenai.ImageURLDetailAuto}},
		}
	}
	resp, err := api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model(),
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			user,
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{Type: goopenai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("%s: %w", op, errors.New("no choices in completion"))
	}
	content := cleanJSONResponse(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("decode %s reply: %w", op, err)
	}
	return nil
}

var fencePattern = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

// cleanJSONResponse removes markdown code fences models sometimes add.
func cleanJSONResponse(response string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(response, "$1"))
}

const foodSchema = `{"name": string, "quantity": string, "calories": number, "protein": number, "fat": number, "carbs": number, "fiber": number, "sugar": number, "confidence": number between 0 and 1}`

func (c *Client) DetectFood(ctx context.Context, imageDataURL string) ([]model.FoodItem, error) {
	var out struct {
		Foods []model.FoodItem `json:"foods"`
	}
	prompt := "Analyze this meal photo. Identify all food items, their estimated portion sizes, and detailed nutrition. " +
		"Return {\"foods\": [" + foodSchema + "]}."
	if err := c.complete(ctx, "detect food", prompt, imageDataURL, &out); err != nil {
		return nil, err
	}
	return out.Foods, nil
}

func (c *Client) CalculateNutrition(ctx context.Context, text string) ([]model.FoodItem, error) {
	var out struct {
		Foods []model.FoodItem `json:"foods"`
	}
	prompt := fmt.Sprintf("Estimate nutrition for each food in this list: %q. Return {\"foods\": [%s]}.", text, foodSchema)
	if err := c.complete(ctx, "calculate nutrition", prompt, "", &out); err != nil {
		return nil, err
	}
	return out.Foods, nil
}

func (c *Client) DetectIngredients(ctx context.Context, imageDataURL string) ([]string, error) {
	var out struct {
		Ingredients []string `json:"ingredients"`
	}
	prompt := "List the cooking ingredients visible in this fridge or pantry photo. Return {\"ingredients\": [string]}."
	if err := c.complete(ctx, "detect ingredients", prompt, imageDataURL, &out); err != nil {
		return nil, err
	}
	return out.Ingredients, nil
}

func (c *Client) GenerateRecipes(ctx context.Context, in service.RecipeRequest) ([]model.Recipe, error) {
	var out struct {
		Recipes []model.Recipe `json:"recipes"`
	}
	allergens := "none"
	if len(in.Allergens) > 0 {
		allergens = strings.Join(in.Allergens, ", ")
	}
	prompt := fmt.Sprintf("Suggest 3 recipes using mostly these ingredients: %s. Diet preference: %s. Never include these allergens: %s. "+
		"Return {\"recipes\": [{\"name\": string, \"description\": string, \"cookingTime\": string, \"difficulty\": \"Easy\"|\"Medium\"|\"Hard\", "+
		"\"ingredients\": [%s], \"instructions\": [{\"instruction\": string, \"nutritionalHighlight\": string, \"stepCalories\": number}], "+
		"\"optionalIngredients\": [string], \"drinkPairings\": [string]}]}.",
		strings.Join(in.Ingredients, ", "), in.DietPreference, allergens, foodSchema)
	if err := c.complete(ctx, "generate recipes", prompt, "", &out); err != nil {
		return nil, err
	}
	return out.Recipes, nil
}

func (c *Client) GenerateFoodImage(ctx context.Context, prompt string) (string, error) {
	api, err := c.client()
	if err != nil {
		return "", err
	}
	resp, err := api.CreateImage(ctx, goopenai.ImageRequest{
		Prompt:         prompt,
		Model:          goopenai.CreateImageModelDallE3,
		N:              1,
		Size:           goopenai.CreateImageSize1024x1024,
		ResponseFormat: goopenai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", fmt.Errorf("generate food image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("generate food image: empty response")
	}
	return resp.Data[0].URL, nil
}

func (c *Client) AnalyzeMonthlyBehavior(ctx context.Context, meals []model.MealLog, lastActionPlan string) (model.MonthlyReport, error) {
	summary, err := json.Marshal(service.SummarizeForAnalysis(meals))
	if err != nil {
		return model.MonthlyReport{}, fmt.Errorf("encode meals: %w", err)
	}
	previous := lastActionPlan
	if previous == "" {
		previous = "none"
	}
	prompt := fmt.Sprintf(`Analyze these meal logs (JSON): %s.
Return JSON with: behaviorSummary (1-2 sentence reflection), patterns (2-3 short strings),
actionPlan (exactly one simple line, different from the previous one: %q),
macroDistribution {protein, fat, carbs} as percentages, sourceDistribution {home, ordered} as counts,
trends (1-3 of {label, value, direction in up|down|stable}), consistencyScore between 0 and 1.`, summary, previous)

	var out model.MonthlyReport
	if err := c.complete(ctx, "analyze monthly behavior", prompt, "", &out); err != nil {
		return model.MonthlyReport{}, err
	}
	return out, nil
}

var _ service.Analyzer = (*Client)(nil)
