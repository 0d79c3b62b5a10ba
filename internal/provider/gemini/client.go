// Package gemini calls the serverless proxy that fronts the Gemini model.
// Every operation is a POST of {action, payload} answered by
// {ok, data} or {ok: false, error}.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/service"
)

const (
	actionDetectFood         = "detectFood"
	actionCalculateNutrition = "calculateNutrition"
	actionDetectIngredients  = "detectFridgeIngredients"
	actionGenerateRecipes    = "generateRecipes"
	actionGenerateFoodImage  = "generateFoodImage"
	actionAnalyzeMonthly     = "analyzeMonthlyBehavior"
)

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type request struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (c *Client) call(ctx context.Context, action string, payload any, out any) error {
	baseURL := strings.TrimSpace(c.BaseURL)
	if baseURL == "" {
		return fmt.Errorf("missing AI proxy URL (set MEALWISE_AI_PROXY_URL)")
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	body, err := json.Marshal(request{Action: action, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", action, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute %s request: %w", action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", action, err)
	}
	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && env.Error != "" {
			return fmt.Errorf("%s failed with status %d: %s", action, resp.StatusCode, env.Error)
		}
		return fmt.Errorf("%s failed with status %d", action, resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s response: %w", action, decodeErr)
	}
	if !env.OK {
		if env.Error == "" {
			env.Error = "unknown error from AI proxy"
		}
		return fmt.Errorf("%s: %s", action, env.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", action, err)
	}
	return nil
}

// base64Payload strips the data URL prefix; the proxy expects bare base64.
func base64Payload(imageDataURL string) string {
	if i := strings.Index(imageDataURL, ","); i >= 0 && strings.HasPrefix(imageDataURL, "data:") {
		return imageDataURL[i+1:]
	}
	return imageDataURL
}

func (c *Client) DetectFood(ctx context.Context, imageDataURL string) ([]model.FoodItem, error) {
	var out struct {
		Foods   []model.FoodItem    `json:"foods"`
		Summary model.NutritionInfo `json:"summary"`
	}
	if err := c.call(ctx, actionDetectFood, map[string]string{"base64Image": base64Payload(imageDataURL)}, &out); err != nil {
		return nil, err
	}
	return out.Foods, nil
}

func (c *Client) CalculateNutrition(ctx context.Context, text string) ([]model.FoodItem, error) {
	var out []model.FoodItem
	if err := c.call(ctx, actionCalculateNutrition, map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DetectIngredients(ctx context.Context, imageDataURL string) ([]string, error) {
	var out []string
	if err := c.call(ctx, actionDetectIngredients, map[string]string{"base64Image": base64Payload(imageDataURL)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GenerateRecipes(ctx context.Context, in service.RecipeRequest) ([]model.Recipe, error) {
	var out []model.Recipe
	if err := c.call(ctx, actionGenerateRecipes, in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GenerateFoodImage(ctx context.Context, prompt string) (string, error) {
	var out string
	if err := c.call(ctx, actionGenerateFoodImage, map[string]string{"prompt": prompt}, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (c *Client) AnalyzeMonthlyBehavior(ctx context.Context, meals []model.MealLog, lastActionPlan string) (model.MonthlyReport, error) {
	var out model.MonthlyReport
	payload := map[string]any{
		"meals":          service.SummarizeForAnalysis(meals),
		"lastActionPlan": lastActionPlan,
	}
	if err := c.call(ctx, actionAnalyzeMonthly, payload, &out); err != nil {
		return model.MonthlyReport{}, err
	}
	return out, nil
}

var _ service.Analyzer = (*Client)(nil)
