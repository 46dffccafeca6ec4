package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mabuhanifa/aahaar-backend/internal/db"
	"github.com/mabuhanifa/aahaar-backend/internal/model"
	"github.com/mabuhanifa/aahaar-backend/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)
	server := httptest.NewServer(NewRouter(database, testJWTSecret))
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if _, err := store.CreateUser(ctx, database, "admin@example.org", string(hash), "Admin", []string{model.RoleAdmin}, nil); err != nil {
		t.Fatalf("creating admin: %v", err)
	}

	return server, login(t, server, "admin@example.org", "password123")
}

func login(t *testing.T, server *httptest.Server, email, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token from login")
	}
	return loginResp.Token
}

func doJSON(t *testing.T, method, url, token string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

func TestLoginRejectsBadPassword(t *testing.T) {
	server, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"email": "admin@example.org", "password": "wrong"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
}

func TestRegisterCreatesDonor(t *testing.T) {
	server, _ := setupTestServer(t)

	var created struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}
	status := doJSON(t, "POST", server.URL+"/api/auth/register", "", map[string]string{
		"email":    "donor@example.org",
		"password": "password123",
		"name":     "Donor",
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if created.Token == "" {
		t.Error("expected a token")
	}
	if len(created.User.Roles) != 1 || created.User.Roles[0] != model.RoleDonor {
		t.Errorf("expected donor role, got %v", created.User.Roles)
	}

	// Duplicate registration conflicts.
	status = doJSON(t, "POST", server.URL+"/api/auth/register", "", map[string]string{
		"email":    "donor@example.org",
		"password": "password123",
		"name":     "Donor",
	}, nil)
	if status != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", status)
	}
}

func TestAnonymousDonationFlow(t *testing.T) {
	server, adminToken := setupTestServer(t)

	var d model.Donation
	status := doJSON(t, "POST", server.URL+"/api/donations", "", map[string]any{
		"type":            model.DonationTypeGivingRation,
		"amount":          1500,
		"anonymous_email": "anon@example.org",
	}, &d)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if d.AnonymousReferenceID == "" {
		t.Fatal("expected a reference id")
	}

	// Public lookup by reference.
	var byRef model.Donation
	status = doJSON(t, "GET", server.URL+"/api/donations/ref/"+d.AnonymousReferenceID, "", nil, &byRef)
	if status != http.StatusOK || byRef.ID != d.ID {
		t.Errorf("reference lookup: status %d, donation %d (want %d)", status, byRef.ID, d.ID)
	}

	// Gateway reports success: donation moves to in_progress.
	var p model.Payment
	status = doJSON(t, "GET", server.URL+"/api/donations/1/payment", adminToken, nil, &p)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for payment lookup, got %d", status)
	}
	status = doJSON(t, "POST", server.URL+"/api/payments/webhook", "", map[string]string{
		"transaction_id": p.TransactionID,
		"status":         model.PaymentStatusCompleted,
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from webhook, got %d", status)
	}

	var updated model.Donation
	doJSON(t, "GET", server.URL+"/api/donations/1", adminToken, nil, &updated)
	if updated.Status != model.DonationStatusInProgress {
		t.Errorf("expected in_progress after completed payment, got %s", updated.Status)
	}
}

func TestTaskCompletionViaAPI(t *testing.T) {
	server, adminToken := setupTestServer(t)

	// Stock the kitchen.
	for _, item := range []map[string]any{
		{"name": "Rice", "unit": "kg", "stock": 10.0, "low_stock_threshold": 2.0},
		{"name": "Lentils", "unit": "kg", "stock": 5.0, "low_stock_threshold": 1.0},
	} {
		if status := doJSON(t, "POST", server.URL+"/api/inventory", adminToken, item, nil); status != http.StatusCreated {
			t.Fatalf("creating item: %d", status)
		}
	}

	var d model.Donation
	doJSON(t, "POST", server.URL+"/api/donations", "", map[string]any{
		"type":            model.DonationTypeFeedingPeople,
		"amount":          500,
		"anonymous_email": "anon@example.org",
	}, &d)

	var task model.Task
	status := doJSON(t, "POST", server.URL+"/api/tasks", adminToken, map[string]any{
		"type":        model.TaskTypePrepareFood,
		"donation_id": d.ID,
	}, &task)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 creating task, got %d", status)
	}

	var result struct {
		Task     *model.Task `json:"task"`
		Warnings []string    `json:"warnings"`
	}
	status = doJSON(t, "PUT", server.URL+"/api/tasks/1/status", adminToken, map[string]string{
		"status": model.TaskStatusCompleted,
	}, &result)
	if status != http.StatusOK {
		t.Fatalf("expected 200 updating status, got %d", status)
	}
	if result.Task.Status != model.TaskStatusCompleted {
		t.Errorf("expected completed, got %s", result.Task.Status)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings with full stock, got %v", result.Warnings)
	}

	// Rice went from 10 to 9.
	var items []model.InventoryItem
	doJSON(t, "GET", server.URL+"/api/inventory", adminToken, nil, &items)
	for _, item := range items {
		if item.Name == "Rice" && item.Stock != 9 {
			t.Errorf("expected Rice stock 9, got %v", item.Stock)
		}
	}
}

func TestInventoryStockEndpoints(t *testing.T) {
	server, adminToken := setupTestServer(t)

	if status := doJSON(t, "POST", server.URL+"/api/inventory", adminToken, map[string]any{
		"name": "Oil", "unit": "l", "stock": 3.0, "low_stock_threshold": 1.0,
	}, nil); status != http.StatusCreated {
		t.Fatalf("creating item: %d", status)
	}

	var item model.InventoryItem
	status := doJSON(t, "POST", server.URL+"/api/inventory/Oil/deduct", adminToken, map[string]any{"quantity": 1.5}, &item)
	if status != http.StatusOK || item.Stock != 1.5 {
		t.Errorf("deduct: status %d, stock %v", status, item.Stock)
	}

	status = doJSON(t, "POST", server.URL+"/api/inventory/Oil/add", adminToken, map[string]any{"quantity": 0.5}, &item)
	if status != http.StatusOK || item.Stock != 2 {
		t.Errorf("add: status %d, stock %v", status, item.Stock)
	}

	// Unknown item and bad quantity.
	if status := doJSON(t, "POST", server.URL+"/api/inventory/Ghee/deduct", adminToken, map[string]any{"quantity": 1.0}, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown item, got %d", status)
	}
	if status := doJSON(t, "POST", server.URL+"/api/inventory/Oil/deduct", adminToken, map[string]any{"quantity": -1.0}, nil); status != http.StatusBadRequest {
		t.Errorf("expected 400 for negative quantity, got %d", status)
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/tasks")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
}

func TestRoleBasedAccess(t *testing.T) {
	server, _ := setupTestServer(t)

	doJSON(t, "POST", server.URL+"/api/auth/register", "", map[string]string{
		"email":    "donor@example.org",
		"password": "password123",
		"name":     "Donor",
	}, nil)
	donorToken := login(t, server, "donor@example.org", "password123")

	// Donors cannot create tasks or read inventory.
	if status := doJSON(t, "POST", server.URL+"/api/tasks", donorToken, map[string]any{
		"type": model.TaskTypePrepareFood, "donation_id": 1,
	}, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 for donor creating task, got %d", status)
	}
	if status := doJSON(t, "GET", server.URL+"/api/inventory", donorToken, nil, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 for donor reading inventory, got %d", status)
	}
	if status := doJSON(t, "GET", server.URL+"/api/users", donorToken, nil, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 for donor listing users, got %d", status)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server, adminToken := setupTestServer(t)

	if status := doJSON(t, "POST", server.URL+"/api/auth/logout", adminToken, nil, nil); status != http.StatusOK {
		t.Fatalf("logout failed: %d", status)
	}

	if status := doJSON(t, "GET", server.URL+"/api/users", adminToken, nil, nil); status != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", status)
	}
}
