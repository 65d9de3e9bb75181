package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanchelmickjr/lets-connect/internal/core/domain"
)

// In-memory fakes behind the repository and gateway interfaces. The
// connection fake mirrors the store's document semantics: records live as
// field maps and partial updates shallow-merge into them.

type fakeProfiles struct {
	byID map[string]domain.UserProfile
	err  error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byID: map[string]domain.UserProfile{}}
}

func (f *fakeProfiles) Create(_ context.Context, req domain.CreateProfileRequest) (*domain.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := domain.UserProfile{
		ID:          uuid.NewString(),
		Name:        req.Name,
		LinkedinURL: req.LinkedinURL,
		Email:       req.Email,
		Title:       req.Title,
		Company:     req.Company,
		CreatedAt:   time.Now().UTC(),
	}
	f.byID[p.ID] = p
	return &p, nil
}

func (f *fakeProfiles) Get(_ context.Context, id string) (*domain.UserProfile, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) List(_ context.Context) ([]domain.UserProfile, error) {
	out := []domain.UserProfile{}
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

type fakeConnections struct {
	docs map[string]map[string]any
}

func newFakeConnections() *fakeConnections {
	return &fakeConnections{docs: map[string]map[string]any{}}
}

func (f *fakeConnections) Create(_ context.Context, req domain.CreateConnectionRequest) (*domain.Connection, error) {
	conn := domain.Connection{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		ContactName:     req.ContactName,
		ContactLinkedin: req.ContactLinkedin,
		ContactEmail:    req.ContactEmail,
		ContactTitle:    req.ContactTitle,
		ContactCompany:  req.ContactCompany,
		EventName:       req.EventName,
		EventType:       req.EventType,
		PersonCategory:  req.PersonCategory,
		Notes:           req.Notes,
		CreatedAt:       time.Now().UTC(),
	}
	raw, err := json.Marshal(conn)
	if err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	f.docs[conn.ID] = doc
	return &conn, nil
}

func (f *fakeConnections) ListForUser(_ context.Context, userID string) ([]domain.Connection, error) {
	out := []domain.Connection{}
	for _, doc := range f.docs {
		if doc["user_id"] != userID {
			continue
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		var conn domain.Connection
		if err := json.Unmarshal(raw, &conn); err != nil {
			return nil, err
		}
		out = append(out, conn)
	}
	return out, nil
}

func (f *fakeConnections) Update(_ context.Context, id string, fields map[string]any) error {
	doc, ok := f.docs[id]
	if !ok {
		return domain.ErrConnectionNotFound
	}
	for k, v := range fields {
		if k == "id" || k == "created_at" {
			continue
		}
		doc[k] = v
	}
	return nil
}

type fakeTranscriber struct {
	transcript string
	err        error

	gotFilename    string
	gotContentType string
	gotAudio       []byte
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio []byte, filename, contentType string) (string, error) {
	f.gotAudio = audio
	f.gotFilename = filename
	f.gotContentType = contentType
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

type fakeDrafter struct {
	message string
	err     error
	gotCtx  domain.DraftContext
}

func (f *fakeDrafter) Draft(_ context.Context, dc domain.DraftContext) (string, error) {
	f.gotCtx = dc
	if f.err != nil {
		return "", f.err
	}
	return f.message, nil
}

type fakeOAuth struct {
	payload json.RawMessage
	err     error
	gotCode string
}

func (f *fakeOAuth) AuthorizationURL() (string, string, error) {
	state := uuid.NewString()
	return "https://www.linkedin.com/oauth/v2/authorization?state=" + state, state, nil
}

func (f *fakeOAuth) ExchangeCode(_ context.Context, code string) (json.RawMessage, error) {
	f.gotCode = code
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

type deps struct {
	profiles    *fakeProfiles
	connections *fakeConnections
	transcriber *fakeTranscriber
	drafter     *fakeDrafter
	oauth       *fakeOAuth
}

func setupRouter(t *testing.T) (*gin.Engine, *deps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	d := &deps{
		profiles:    newFakeProfiles(),
		connections: newFakeConnections(),
		transcriber: &fakeTranscriber{transcript: "hello"},
		drafter:     &fakeDrafter{message: "Great meeting you!"},
		oauth:       &fakeOAuth{payload: json.RawMessage(`{"access_token":"tok"}`)},
	}

	r := gin.New()
	h := NewHandler(d.profiles, d.connections, d.transcriber, d.drafter, d.oauth)
	h.RegisterRoutes(r.Group("/api"))
	return r, d
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestRoot(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lets Connect API - Networking Made Easy", decodeBody(t, w)["message"])
}

func TestCreateAndGetProfile(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/profile", gin.H{"name": "Ada Lovelace"})
	require.Equal(t, http.StatusOK, w.Code)

	created := decodeBody(t, w)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Ada Lovelace", created["name"])

	got := doJSON(t, r, http.MethodGet, "/api/profile/"+id, nil)
	require.Equal(t, http.StatusOK, got.Code)
	assert.JSONEq(t, w.Body.String(), got.Body.String())
}

func TestCreateProfileRequiresName(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/profile", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProfileNotFound(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/profile/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProfiles(t *testing.T) {
	r, _ := setupRouter(t)
	for _, name := range []string{"Ada", "Grace"} {
		w := doJSON(t, r, http.MethodPost, "/api/profile", gin.H{"name": name})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/profiles", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestQRCode(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/profile", gin.H{"name": "Ada Lovelace"})
	require.Equal(t, http.StatusOK, w.Code)
	id := decodeBody(t, w)["id"].(string)

	qrResp := doJSON(t, r, http.MethodGet, "/api/qr-code/"+id, nil)
	require.Equal(t, http.StatusOK, qrResp.Code)

	uri, _ := decodeBody(t, qrResp)["qr_code"].(string)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}

func TestQRCodeNotFound(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/qr-code/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func validConnection(userID string) gin.H {
	return gin.H{
		"user_id":         userID,
		"contact_name":    "Grace Hopper",
		"event_name":      "GopherCon",
		"event_type":      "Conference",
		"person_category": "Industry Expert",
	}
}

func TestCreateConnection(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/connection", validConnection("user-1"))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, false, body["connection_sent"])
}

func TestCreateConnectionValidation(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name string
		drop string
	}{
		{"missing user_id", "user_id"},
		{"missing contact_name", "contact_name"},
		{"missing event_name", "event_name"},
		{"missing event_type", "event_type"},
		{"missing person_category", "person_category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validConnection("user-1")
			delete(body, tt.drop)
			w := doJSON(t, r, http.MethodPost, "/api/connection", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListConnectionsFiltersByUser(t *testing.T) {
	r, _ := setupRouter(t)

	for _, uid := range []string{"user-1", "user-1", "user-2"} {
		w := doJSON(t, r, http.MethodPost, "/api/connection", validConnection(uid))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/connections/user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	for _, conn := range list {
		assert.Equal(t, "user-1", conn["user_id"])
	}
}

func TestUpdateConnectionNotFound(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, http.MethodPut, "/api/connection/does-not-exist", gin.H{"notes": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateConnectionMergesFields(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/connection", validConnection("user-1"))
	require.Equal(t, http.StatusOK, w.Code)
	id := decodeBody(t, w)["id"].(string)

	// Two overlapping partial updates; the second wins for the named field,
	// everything else stays put.
	w = doJSON(t, r, http.MethodPut, "/api/connection/"+id, gin.H{
		"notes":      "first pass",
		"ai_message": "Hi Grace!",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Connection updated successfully", decodeBody(t, w)["message"])

	w = doJSON(t, r, http.MethodPut, "/api/connection/"+id, gin.H{
		"notes":           "second pass",
		"connection_sent": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	list := doJSON(t, r, http.MethodGet, "/api/connections/user-1", nil)
	require.Equal(t, http.StatusOK, list.Code)

	var conns []map[string]any
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &conns))
	require.Len(t, conns, 1)

	conn := conns[0]
	assert.Equal(t, id, conn["id"])
	assert.Equal(t, "second pass", conn["notes"])
	assert.Equal(t, "Hi Grace!", conn["ai_message"], "field untouched by second update survives")
	assert.Equal(t, true, conn["connection_sent"])
	assert.Equal(t, "Grace Hopper", conn["contact_name"], "fields never patched stay unchanged")
}

func TestUpdateConnectionIgnoresImmutableFields(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/connection", validConnection("user-1"))
	require.Equal(t, http.StatusOK, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodPut, "/api/connection/"+id, gin.H{"id": "hijacked", "notes": "kept"})
	require.Equal(t, http.StatusOK, w.Code)

	list := doJSON(t, r, http.MethodGet, "/api/connections/user-1", nil)
	var conns []map[string]any
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &conns))
	require.Len(t, conns, 1)
	assert.Equal(t, id, conns[0]["id"])
	assert.Equal(t, "kept", conns[0]["notes"])
}

func TestGenerateMessage(t *testing.T) {
	r, d := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/generate-message", gin.H{
		"contact_name":    "Grace Hopper",
		"event_name":      "GopherCon",
		"event_type":      "Conference",
		"person_category": "Peer",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Great meeting you!", decodeBody(t, w)["ai_message"])
	assert.Equal(t, "Grace Hopper", d.drafter.gotCtx.ContactName)
	assert.Equal(t, "GopherCon", d.drafter.gotCtx.EventName)
}

func TestGenerateMessageProviderError(t *testing.T) {
	r, d := setupRouter(t)
	d.drafter.err = fmt.Errorf("%w: boom", domain.ErrProvider)

	w := doJSON(t, r, http.MethodPost, "/api/generate-message", gin.H{"contact_name": "X"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTranscribe(t *testing.T) {
	r, d := setupRouter(t)
	d.transcriber.transcript = "talked about go generics"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="audio_file"; filename="memo.webm"`)
	header.Set("Content-Type", "audio/webm")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("audio-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "talked about go generics", decodeBody(t, w)["transcript"])
	assert.Equal(t, "memo.webm", d.transcriber.gotFilename)
	assert.Equal(t, "audio/webm", d.transcriber.gotContentType)
	assert.Equal(t, []byte("audio-bytes"), d.transcriber.gotAudio)
}

func TestTranscribeRequiresFile(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTranscribeProviderError(t *testing.T) {
	r, d := setupRouter(t)
	d.transcriber.err = errors.New("connection reset")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio_file", "memo.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLinkedInAuthURL(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/linkedin/auth-url", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	authURL, _ := body["auth_url"].(string)
	state, _ := body["state"].(string)
	assert.NotEmpty(t, authURL)
	assert.NotEmpty(t, state)
	assert.Contains(t, authURL, state)
}

func TestLinkedInToken(t *testing.T) {
	r, d := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/linkedin/token", gin.H{"code": "abc", "state": "s"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"access_token":"tok"}`, w.Body.String())
	assert.Equal(t, "abc", d.oauth.gotCode)
}

func TestLinkedInTokenRequiresCode(t *testing.T) {
	r, _ := setupRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/linkedin/token", gin.H{"state": "s"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLinkedInTokenRejected(t *testing.T) {
	r, d := setupRouter(t)
	d.oauth.err = fmt.Errorf("%w: invalid_grant", domain.ErrTokenExchange)

	w := doJSON(t, r, http.MethodPost, "/api/linkedin/token", gin.H{"code": "bad", "state": "s"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventTypes(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/event-types", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		EventTypes []string `json:"event_types"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{
		"Conference", "Hackathon", "Networking Event", "Workshop",
		"Trade Show", "Meetup", "Webinar", "Other",
	}, body.EventTypes)
}

func TestPersonCategories(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/person-categories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		PersonCategories []string `json:"person_categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{
		"Potential Collaborator", "Industry Expert", "Investor", "Peer",
		"Client Prospect", "Mentor", "Mentee", "Other",
	}, body.PersonCategories)
}
