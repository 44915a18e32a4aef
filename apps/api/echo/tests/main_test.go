package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"

	. "github.com/ecowaste/dashboard/apps/api/echo"
	"github.com/ecowaste/dashboard/core"
	"github.com/ecowaste/dashboard/core/chat"
	"github.com/ecowaste/dashboard/core/classify"
	"github.com/ecowaste/dashboard/core/quiz"
	"github.com/ecowaste/dashboard/core/rewards"
	backendsvc "github.com/ecowaste/dashboard/services/backend"
	logsvc "github.com/ecowaste/dashboard/services/logger"
	metricsvc "github.com/ecowaste/dashboard/services/metrics"
	"github.com/ecowaste/dashboard/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed bearer token"}

type testApp struct {
	Server
	upstream *testutil.Upstream
	logger   *logsvc.ConsoleLogger
	metrics  *metricsvc.Service
}

func setup(t *testing.T) testApp {
	upstream := testutil.NewUpstream(t)
	return setupWithBackend(t, upstream, upstream.URL)
}

func setupWithBackend(t *testing.T, upstream *testutil.Upstream, baseURL string) testApp {
	t.Helper()

	conf := *core.Conf
	conf.Debug = false
	conf.TestMode = true
	conf.Server.DisableReqLogs = true
	conf.Server.RequireAuth = true
	conf.Backend.BaseURL = baseURL

	logger := logsvc.NewConsoleLoggerMock()
	metrics := metricsvc.NewService()
	validate, translator := core.NewValidator()
	client := backendsvc.New(baseURL, backendsvc.WithTimeout(5*time.Second))

	app := NewServer(&Options{
		Conf:        &conf,
		Logger:      logger,
		Validate:    validate,
		Translator:  translator,
		Metrics:     metrics,
		Upstream:    client,
		QuizSvc:     quiz.NewService(client, quiz.WithRecorder(metrics), quiz.WithLogger(logger)),
		ClassifySvc: classify.NewService(client),
		ChatSvc:     chat.NewService(client),
		RewardsSvc:  rewards.NewService(client),
	})
	return testApp{Server: app, upstream: upstream, logger: logger, metrics: metrics}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	upstream *testutil.Reply
	wantCode int
	wantData []byte
	extra    interface{}
}

func (app testApp) run(t *testing.T, upstreamMethod, upstreamPath string, tt httpTest) *httptest.ResponseRecorder {
	t.Helper()
	if tt.upstream != nil {
		app.upstream.On(upstreamMethod, upstreamPath, tt.upstream.Status, tt.upstream.Body)
	}
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
	return rec
}

func upstreamOK(body string) *testutil.Reply {
	return &testutil.Reply{Status: http.StatusOK, Body: body}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// getToken signs a session token the way the identity provider would. The gateway never verifies it.
func getToken(t *testing.T, userID, email string) string {
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
		Email: email,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("idp-secret"))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
