package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"futonsband/internal/app"
	"futonsband/internal/storage"
	"futonsband/pkg/auth"
	"futonsband/pkg/domain"
	"futonsband/pkg/store"
)

const (
	testAdminEmail    = "admin@futons.band"
	testAdminPassword = "seed-password"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Seed(fs, store.SeedConfig{
		AdminName:     "Admin",
		AdminEmail:    testAdminEmail,
		AdminPassword: testAdminPassword,
	}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	tokens, err := auth.NewTokenManager("test-secret", auth.TokenOptions{})
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	application, err := app.New(app.Config{Store: fs, Tokens: tokens})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	images, err := storage.NewDiskStore(filepath.Join(dir, "img"), "/assets/img")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	srv, err := New(Config{App: application, Images: images})
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && json.Unmarshal(raw, &decoded) != nil {
		// Some endpoints return arrays; callers re-decode if needed.
		decoded = map[string]any{"_raw": string(raw)}
	}
	return resp, decoded
}

func loginAs(t *testing.T, ts *httptest.Server, email, password string) string {
	t.Helper()
	resp, body := doJSON(t, ts, http.MethodPost, "/api/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d body %v", email, resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login response missing token")
	}
	return token
}

func registerUser(t *testing.T, ts *httptest.Server, name, email, password string) {
	t.Helper()
	resp, body := doJSON(t, ts, http.MethodPost, "/api/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d body %v", email, resp.StatusCode, body)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, ts, http.MethodGet, "/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["success"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestRegisterConflict(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "Jon", "jon@example.com", "pw")
	resp, body := doJSON(t, ts, http.MethodPost, "/api/register", "", map[string]any{
		"name":     "Jon Again",
		"email":    "jon@example.com",
		"password": "pw2",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	if body["error"] != "User already exists with this email" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "Jon", "jon@example.com", "pw")
	resp, body := doJSON(t, ts, http.MethodPost, "/api/login", "", map[string]any{
		"email":    "jon@example.com",
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body["error"] != "Invalid credentials" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestVerifyToken(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "Jon", "jon@example.com", "pw")
	token := loginAs(t, ts, "jon@example.com", "pw")

	resp, body := doJSON(t, ts, http.MethodGet, "/api/verify-token", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d body %v", resp.StatusCode, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["email"] != "jon@example.com" {
		t.Errorf("user = %v", user)
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Error("password hash leaked in response")
	}

	// No token at all is 401; a garbage token is 403.
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/verify-token", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("missing token status = %d, want 401", resp.StatusCode)
	}
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/verify-token", "garbage", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("garbage token status = %d, want 403", resp.StatusCode)
	}
}

func TestConcertCreateRequiresAdmin(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "Jon", "jon@example.com", "pw")
	userToken := loginAs(t, ts, "jon@example.com", "pw")

	concert := map[string]any{"title": "Secret Show", "date": "2026-03-01", "venue": "Basement"}

	resp, body := doJSON(t, ts, http.MethodPost, "/api/concerts", userToken, concert)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin status = %d body %v, want 403", resp.StatusCode, body)
	}
	if body["error"] != "Admin access required" {
		t.Errorf("error = %v", body["error"])
	}

	adminToken := loginAs(t, ts, testAdminEmail, testAdminPassword)
	resp, body = doJSON(t, ts, http.MethodPost, "/api/concerts", adminToken, concert)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin status = %d body %v, want 201", resp.StatusCode, body)
	}
}

func TestConcertListSortedAscending(t *testing.T) {
	ts := newTestServer(t)
	adminToken := loginAs(t, ts, testAdminEmail, testAdminPassword)

	// Earlier than both seeded concerts, so it must list first.
	resp, _ := doJSON(t, ts, http.MethodPost, "/api/concerts", adminToken, map[string]any{
		"title": "Early Show", "date": "2024-01-01", "venue": "V",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	resp, body := doJSON(t, ts, http.MethodGet, "/api/concerts", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	concerts, _ := body["concerts"].([]any)
	if len(concerts) != 3 {
		t.Fatalf("len = %d, want 3 (2 seeded + 1 created)", len(concerts))
	}
	first, _ := concerts[0].(map[string]any)
	if first["title"] != "Early Show" {
		t.Errorf("first concert = %v, want Early Show", first["title"])
	}
}

func TestConcertUpdateAndDelete(t *testing.T) {
	ts := newTestServer(t)
	adminToken := loginAs(t, ts, testAdminEmail, testAdminPassword)

	resp, body := doJSON(t, ts, http.MethodPost, "/api/concerts", adminToken, map[string]any{
		"title": "Show", "date": "2026-03-01", "venue": "V",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created, _ := body["concert"].(map[string]any)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("created concert = %v", created)
	}

	resp, body = doJSON(t, ts, http.MethodPut, "/api/concerts/"+id, adminToken, map[string]any{
		"venue": "New Venue",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d body %v", resp.StatusCode, body)
	}
	updated, _ := body["concert"].(map[string]any)
	if updated["venue"] != "New Venue" || updated["title"] != "Show" {
		t.Errorf("updated = %v", updated)
	}

	resp, _ = doJSON(t, ts, http.MethodDelete, "/api/concerts/"+id, adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, ts, http.MethodDelete, "/api/concerts/"+id, adminToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestSongsListPublic(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, ts, http.MethodGet, "/api/songs", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	songs, _ := body["songs"].([]any)
	if len(songs) != 2 {
		t.Fatalf("seeded songs = %d, want 2", len(songs))
	}
	// Newest release first.
	first, _ := songs[0].(map[string]any)
	if first["title"] != "Skeuomorph" {
		t.Errorf("first song = %v", first["title"])
	}
}

func TestAlbumsRequireAuthForMutation(t *testing.T) {
	ts := newTestServer(t)

	// Public read.
	resp, _ := doJSON(t, ts, http.MethodGet, "/api/albums", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}

	// Unauthenticated create is rejected.
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/albums", "", map[string]any{"title": "X"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anon create status = %d, want 401", resp.StatusCode)
	}

	// Any signed-in user can manage albums.
	registerUser(t, ts, "Jon", "jon@example.com", "pw")
	token := loginAs(t, ts, "jon@example.com", "pw")
	resp, body := doJSON(t, ts, http.MethodPost, "/api/albums", token, map[string]any{"title": "Tour 2026"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d body %v", resp.StatusCode, body)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatalf("album = %v", body)
	}

	resp, body = doJSON(t, ts, http.MethodPost, "/api/albums/"+id+"/photos", token, map[string]any{
		"photoPath": "/assets/img/x.jpg",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add photo status = %d body %v", resp.StatusCode, body)
	}
	photos, _ := body["photos"].([]any)
	if len(photos) != 1 {
		t.Errorf("photos = %v", photos)
	}

	resp, body = doJSON(t, ts, http.MethodDelete, "/api/albums/"+id+"/photos", token, map[string]any{
		"photoPath": "/assets/img/x.jpg",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove photo status = %d body %v", resp.StatusCode, body)
	}
	photos, _ = body["photos"].([]any)
	if len(photos) != 0 {
		t.Errorf("photos after remove = %v", photos)
	}
}

func TestContactFlow(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, ts, http.MethodPost, "/api/contact", "", map[string]any{
		"name": "Fan", "email": "fan@example.com", "message": "Come to Boise!",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("contact status = %d", resp.StatusCode)
	}

	// Listing is admin-only.
	registerUser(t, ts, "Jon", "jon@example.com", "pw")
	userToken := loginAs(t, ts, "jon@example.com", "pw")
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/contacts", userToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin contacts status = %d, want 403", resp.StatusCode)
	}

	adminToken := loginAs(t, ts, testAdminEmail, testAdminPassword)
	resp, body := doJSON(t, ts, http.MethodGet, "/api/contacts", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin contacts status = %d", resp.StatusCode)
	}
	contacts, _ := body["contacts"].([]any)
	if len(contacts) != 1 {
		t.Errorf("contacts = %v", contacts)
	}
}

func TestSendNewsletterWithoutMailer(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "Sub", "sub@example.com", "pw")
	// Opt the user in.
	token := loginAs(t, ts, "sub@example.com", "pw")
	subscribed := true
	resp, _ := doJSON(t, ts, http.MethodPost, "/api/newsletter-preference", token, map[string]any{
		"subscribed": subscribed,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preference status = %d", resp.StatusCode)
	}

	adminToken := loginAs(t, ts, testAdminEmail, testAdminPassword)
	resp, body := doJSON(t, ts, http.MethodPost, "/api/send-newsletter", adminToken, map[string]any{
		"subject": "Tour", "message": "We are on tour.",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("send status = %d body %v", resp.StatusCode, body)
	}
	if count, _ := body["subscriberCount"].(float64); count != 1 {
		t.Errorf("subscriberCount = %v, want 1", body["subscriberCount"])
	}
}

func TestUploadPhoto(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "Jon", "jon@example.com", "pw")
	token := loginAs(t, ts, "jon@example.com", "pw")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="photo"; filename="pic.jpg"`},
		"Content-Type":        {"image/jpeg"},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/upload", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d body %s", resp.StatusCode, raw)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	path, _ := body["imagePath"].(string)
	if !strings.HasPrefix(path, "/assets/img/") {
		t.Fatalf("imagePath = %q", path)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "Jon", "jon@example.com", "pw")
	token := loginAs(t, ts, "jon@example.com", "pw")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="photo"; filename="notes.txt"`},
		"Content-Type":        {"text/plain"},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	fmt.Fprint(part, "not an image")
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestFileStoreBackedPersistence(t *testing.T) {
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Seed(fs, store.SeedConfig{AdminEmail: testAdminEmail, AdminPassword: testAdminPassword}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "users.json")); err != nil {
		t.Fatalf("users.json not written: %v", err)
	}
	admin, ok, err := fs.GetUserByEmail(testAdminEmail)
	if err != nil || !ok {
		t.Fatalf("admin lookup: ok=%v err=%v", ok, err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Errorf("role = %q", admin.Role)
	}
}
