// backend/internal/api/handlers/handlers_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/royboker/portfolio-backend/internal/chat"
	"github.com/royboker/portfolio-backend/internal/config"
	"github.com/royboker/portfolio-backend/internal/health"
	"github.com/royboker/portfolio-backend/internal/mailer"
	"github.com/royboker/portfolio-backend/internal/notifier"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	messages []mailer.Message
}

func (s *recordingSender) Send(ctx context.Context, msg mailer.Message) error {
	s.messages = append(s.messages, msg)
	return nil
}

type stubGenerator struct {
	response string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.response, nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusHandler(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.ServiceName = "Roy Boker Portfolio API"
	cfg.Server.HealthName = "Portfolio Backend"

	store := chat.NewStore(time.Hour, nil)
	store.Create("abc", "text", "doc.txt")

	checker := health.NewChecker(cfg, store, logrus.New())
	h := NewStatusHandler(checker, cfg.Server.ServiceName, cfg.Server.HealthName)

	router := gin.New()
	router.GET("/", h.HandleRoot)
	router.GET("/health", h.HandleHealth)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "Roy Boker Portfolio API", body["service"])

	// The health check reports its own name and the live session count
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "Portfolio Backend", body["service"])
	assert.Equal(t, float64(1), body["active_sessions"])
}

func TestContactHandler_Success(t *testing.T) {
	sender := &recordingSender{}
	h := NewContactHandler(mailer.NewServiceWithSender(sender, logrus.New()), logrus.New())

	router := gin.New()
	router.POST("/contact", h.HandleContact)

	payload := `{"name":"Jamie","email":"jamie@example.com","message":"Nice site!"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/contact", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])

	// The mailer ran exactly once
	require.Len(t, sender.messages, 1)
	assert.Equal(t, "Portfolio Contact: Jamie", sender.messages[0].Subject)
}

func TestContactHandler_MissingFields(t *testing.T) {
	sender := &recordingSender{}
	h := NewContactHandler(mailer.NewServiceWithSender(sender, logrus.New()), logrus.New())

	router := gin.New()
	router.POST("/contact", h.HandleContact)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/contact", strings.NewReader(`{"name":"Jamie"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Empty(t, sender.messages)
}

func TestContactHandler_NotConfigured(t *testing.T) {
	h := NewContactHandler(mailer.NewServiceWithSender(nil, logrus.New()), logrus.New())

	router := gin.New()
	router.POST("/contact", h.HandleContact)

	payload := `{"name":"Jamie","email":"jamie@example.com","message":"hi"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/contact", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "not configured")
}

func TestAnalyticsHandler(t *testing.T) {
	sender := &recordingSender{}
	logger := logrus.New()
	mail := mailer.NewServiceWithSender(sender, logger)
	n := notifier.New(mail, 5*time.Minute, logger, nil)
	d := notifier.NewDispatcher(n, 1, 16, logger)

	h := NewAnalyticsHandler(d, logger)
	router := gin.New()
	router.POST("/analytics/event", h.HandleEvent)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/analytics/event", strings.NewReader(`{"event_type":"visit"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	// The response never waits for delivery
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])

	d.Close()
	assert.Len(t, sender.messages, 1)
}

func TestAnalyticsHandler_UnknownEventType(t *testing.T) {
	logger := logrus.New()
	d := notifier.NewDispatcher(notifier.New(mailer.NewServiceWithSender(nil, logger), time.Minute, logger, nil), 1, 4, logger)
	defer d.Close()

	h := NewAnalyticsHandler(d, logger)
	router := gin.New()
	router.POST("/analytics/event", h.HandleEvent)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/analytics/event", strings.NewReader(`{"event_type":"nonsense"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
}

func newChatRouter(t *testing.T, gen *stubGenerator) (*gin.Engine, *chat.Service) {
	t.Helper()
	logger := logrus.New()

	cfg := chat.Config{
		MaxQuestions:   10,
		SessionTTL:     24 * time.Hour,
		MaxUploadBytes: 1024 * 1024,
		DocCharLimit:   12000,
		RequestTimeout: 5 * time.Second,
	}

	var svc *chat.Service
	if gen != nil {
		svc = chat.NewService(gen, cfg, logger, nil)
	} else {
		svc = chat.NewService(nil, cfg, logger, nil)
	}

	h := NewChatHandler(svc, cfg.MaxUploadBytes, logger)
	router := gin.New()
	router.POST("/chat/upload", h.HandleUpload)
	router.POST("/chat/ask", h.HandleAsk)
	router.GET("/chat/session/:id", h.HandleSessionInfo)
	return router, svc
}

func multipartUpload(t *testing.T, filename string, content []byte, sessionID string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	if sessionID != "" {
		require.NoError(t, writer.WriteField("session_id", sessionID))
	}
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestChatHandler_UploadTXT(t *testing.T) {
	router, svc := newChatRouter(t, nil)

	buf, contentType := multipartUpload(t, "hello.txt", []byte("Hello world"), "")
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat/upload", buf)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["session_id"])
	assert.Equal(t, float64(10), body["questions_remaining"])
	assert.Equal(t, 1, svc.Store().Len())
}

func TestChatHandler_UploadRejectsBadExtension(t *testing.T) {
	router, svc := newChatRouter(t, nil)

	buf, contentType := multipartUpload(t, "image.png", []byte("binary"), "")
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat/upload", buf)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "Unsupported file type")
	assert.Equal(t, 0, svc.Store().Len())
}

func TestChatHandler_UploadRejectsOversize(t *testing.T) {
	router, svc := newChatRouter(t, nil)

	buf, contentType := multipartUpload(t, "big.txt", bytes.Repeat([]byte("a"), 2*1024*1024), "")
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat/upload", buf)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, 0, svc.Store().Len())
}

func TestChatHandler_UploadMissingFile(t *testing.T) {
	router, _ := newChatRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat/upload", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_AskFlow(t *testing.T) {
	router, svc := newChatRouter(t, &stubGenerator{response: "It is blue."})

	upload, err := svc.Upload(context.Background(), "doc.txt", []byte("The sky is blue."), "")
	require.NoError(t, err)

	payload, _ := json.Marshal(map[string]string{
		"session_id": upload.SessionID,
		"question":   "What color is the sky?",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat/ask", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "It is blue.", body["answer"])
}

func TestChatHandler_AskUnknownSession(t *testing.T) {
	router, _ := newChatRouter(t, &stubGenerator{response: "x"})

	payload := `{"session_id":"missing","question":"anything"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat/ask", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "not found")
}

func TestChatHandler_RejectsMalformedSessionID(t *testing.T) {
	router, svc := newChatRouter(t, &stubGenerator{response: "x"})

	upload, err := svc.Upload(context.Background(), "doc.txt", []byte("content"), "")
	require.NoError(t, err)

	// Ids that are not UUIDs never reach the store
	payload := `{"session_id":"../../etc/passwd","question":"anything"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/chat/ask", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "not found")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/chat/session/not-a-uuid", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "error", body["status"])

	// A well-formed id still resolves
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/chat/session/"+upload.SessionID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
}

func TestChatHandler_SessionInfo(t *testing.T) {
	router, svc := newChatRouter(t, nil)

	upload, err := svc.Upload(context.Background(), "doc.txt", []byte("content"), "")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/chat/session/"+upload.SessionID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "doc.txt", body["filename"])
	assert.Equal(t, float64(10), body["questions_remaining"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/chat/session/unknown", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
}
