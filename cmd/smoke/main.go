package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	client     = &http.Client{Timeout: 30 * time.Second}
	testDate   string
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== Meal Planner E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	testDate = time.Now().Format("2006-01-02")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Auth", testDevAuth},
		{"List Recipes", testListRecipes},
		{"Add Meal", testAddMeal},
		{"Get Week", testGetWeek},
		{"Day Nutrition", testDayNutrition},
		{"Shopping List", testShopping},
		{"Remove Meal", testRemoveMeal},
		{"Undo Remove", testUndo},
		{"Create Report (CSV)", testCreateReport},
		{"List Reports", testListReports},
		{"Download Report", testDownloadReport},
		{"Delete Report", testDeleteReport},
		{"Clear Plan", testClearPlan},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	_, err := call("GET", "/healthz", nil, http.StatusOK, nil)
	return err
}

// testDevAuth fetches a token when SMOKE_TOKEN is empty and dev auth is enabled.
func testDevAuth() error {
	if token != "" {
		return nil
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	status, err := call("POST", "/v1/auth/dev", nil, 0, &result)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		token = result.AccessToken
		return nil
	case http.StatusNotFound:
		// AUTH_MODE=none
		return nil
	default:
		return fmt.Errorf("unexpected status=%d", status)
	}
}

func testListRecipes() error {
	var result struct {
		Recipes []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"recipes"`
	}
	if _, err := call("GET", "/v1/recipes", nil, http.StatusOK, &result); err != nil {
		return err
	}
	if len(result.Recipes) == 0 {
		return fmt.Errorf("empty recipe catalog")
	}
	createdIDs["recipe"] = fmt.Sprint(result.Recipes[0].ID)
	createdIDs["recipe_name"] = result.Recipes[0].Name
	return nil
}

func testAddMeal() error {
	var recipeID int
	fmt.Sscan(createdIDs["recipe"], &recipeID)

	payload := map[string]interface{}{
		"recipe_id": recipeID,
		"date":      testDate,
		"meal_type": "Breakfast",
	}

	var result struct {
		Groups []struct {
			Name     string `json:"name"`
			Servings int    `json:"servings"`
		} `json:"groups"`
	}
	if _, err := call("POST", "/v1/planner/meals", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if len(result.Groups) != 1 || result.Groups[0].Servings < 1 {
		return fmt.Errorf("unexpected groups after add: %+v", result.Groups)
	}
	return nil
}

func testGetWeek() error {
	var result struct {
		Days []struct {
			Date string `json:"date"`
		} `json:"days"`
	}
	if _, err := call("GET", "/v1/planner/week?date="+testDate, nil, http.StatusOK, &result); err != nil {
		return err
	}
	if len(result.Days) != 7 {
		return fmt.Errorf("expected 7 days, got %d", len(result.Days))
	}
	return nil
}

func testDayNutrition() error {
	var result struct {
		Totals struct {
			Calories int `json:"calories"`
		} `json:"totals"`
	}
	if _, err := call("GET", "/v1/nutrition/day?date="+testDate, nil, http.StatusOK, &result); err != nil {
		return err
	}
	if result.Totals.Calories <= 0 {
		return fmt.Errorf("expected calories > 0, got %d", result.Totals.Calories)
	}
	return nil
}

func testShopping() error {
	var result struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	if _, err := call("GET", "/v1/shopping?date="+testDate, nil, http.StatusOK, &result); err != nil {
		return err
	}
	if len(result.Items) == 0 {
		return fmt.Errorf("expected shopping items for planned meal")
	}
	return nil
}

func testRemoveMeal() error {
	path := fmt.Sprintf("/v1/planner/meals?date=%s&meal_type=Breakfast&recipe=%s&all=1",
		testDate, url.QueryEscape(createdIDs["recipe_name"]))

	var result struct {
		Groups       []json.RawMessage `json:"groups"`
		Notification *struct {
			ID string `json:"id"`
		} `json:"notification"`
	}
	if _, err := call("DELETE", path, nil, http.StatusOK, &result); err != nil {
		return err
	}
	if len(result.Groups) != 0 {
		return fmt.Errorf("expected empty slot, got %d groups", len(result.Groups))
	}
	if result.Notification == nil {
		return fmt.Errorf("expected undo notification")
	}
	createdIDs["notification"] = result.Notification.ID
	return nil
}

func testUndo() error {
	payload := map[string]string{"id": createdIDs["notification"]}
	var result struct {
		Groups []json.RawMessage `json:"groups"`
	}
	if _, err := call("POST", "/v1/planner/notification/undo", payload, http.StatusOK, &result); err != nil {
		return err
	}
	if len(result.Groups) != 1 {
		return fmt.Errorf("expected restored group, got %d", len(result.Groups))
	}
	return nil
}

func testCreateReport() error {
	payload := map[string]string{
		"kind":   "nutrition",
		"format": "csv",
		"date":   testDate,
	}

	var result struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if _, err := call("POST", "/v1/reports", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.Status != "ready" {
		return fmt.Errorf("report status=%s", result.Status)
	}
	createdIDs["report"] = result.ID
	return nil
}

func testListReports() error {
	var result struct {
		Reports []struct {
			ID string `json:"id"`
		} `json:"reports"`
	}
	if _, err := call("GET", "/v1/reports", nil, http.StatusOK, &result); err != nil {
		return err
	}
	for _, r := range result.Reports {
		if r.ID == createdIDs["report"] {
			return nil
		}
	}
	return fmt.Errorf("created report not listed")
}

func testDownloadReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID to download")
	}

	req, err := http.NewRequest("GET", fmt.Sprintf("%s/v1/reports/%s/download", apiBase, reportID), nil)
	if err != nil {
		return err
	}
	addAuth(req)

	noRedirect := *client
	noRedirect.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := noRedirect.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}
		if len(data) < 10 {
			return fmt.Errorf("report too small: %d bytes", len(data))
		}
		return nil
	case http.StatusFound:
		if resp.Header.Get("Location") == "" {
			return fmt.Errorf("redirect without Location header")
		}
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("unexpected status=%d body=%s", resp.StatusCode, string(body))
}

func testDeleteReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID to delete")
	}
	_, err := call("DELETE", "/v1/reports/"+reportID, nil, http.StatusNoContent, nil)
	return err
}

func testClearPlan() error {
	_, err := call("DELETE", "/v1/planner", nil, http.StatusNoContent, nil)
	return err
}

// Helper functions

// call sends a JSON request. wantStatus 0 accepts any status.
func call(method, path string, payload interface{}, wantStatus int, out interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if wantStatus != 0 && resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, fmt.Errorf("status=%d body=%s", resp.StatusCode, string(data))
	}

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode failed: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
