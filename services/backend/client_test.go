package backendsvc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecowaste/dashboard/core/chat"
	"github.com/ecowaste/dashboard/core/orchestrator"
	"github.com/ecowaste/dashboard/core/quiz"
	"github.com/ecowaste/dashboard/core/rewards"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithTimeout(5*time.Second))
}

func writeJSON(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}

func TestClient_Handle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, handlePath, r.URL.Path)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))

		var req orchestrator.HandleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, orchestrator.TaskCustom, req.Task)
		assert.Equal(t, []string{"quiz"}, req.Need)
		assert.Equal(t, "glass", req.Payload["topic"])

		writeJSON(w, http.StatusOK, `{"task":"custom","steps":[{"agent":"quiz","output":"{\"question\":\"q\"}"}]}`)
	})

	resp, err := c.Handle(context.Background(), "tkn", orchestrator.HandleRequest{
		Task:    orchestrator.TaskCustom,
		Need:    []string{"quiz"},
		Payload: map[string]interface{}{"topic": "glass"},
	})
	require.NoError(t, err)
	step, ok := resp.Step("quiz")
	require.True(t, ok)
	assert.Equal(t, `{"question":"q"}`, step.Text())
}

func TestClient_Handle_errorReply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"error_type":"ValidationError","detail":"Missing 'needs' list for custom task."}`)
	})

	_, err := c.Handle(context.Background(), "tkn", orchestrator.HandleRequest{Task: orchestrator.TaskCustom})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "ValidationError: Missing 'needs' list for custom task.", apiErr.Detail)
}

func TestClient_errorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		body       string
		sentinel   error
		wantDetail string
		temporary  bool
	}{
		{name: "unauthorized", code: 401, body: `{"detail":"Invalid or missing user authentication"}`, sentinel: ErrUnauthorized, wantDetail: "Invalid or missing user authentication"},
		{name: "forbidden", code: 403, body: `{"detail":"nope"}`, sentinel: ErrForbidden, wantDetail: "nope"},
		{name: "not found", code: 404, body: `{"detail":"Reward not found"}`, sentinel: ErrNotFound, wantDetail: "Reward not found"},
		{name: "server error", code: 500, body: `{"detail":{"error":"boom","trace":"..."}}`, wantDetail: "boom", temporary: true},
		{name: "bad gateway text", code: 502, body: `upstream down`, wantDetail: "upstream down", temporary: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.code, tt.body)
			})

			_, err := c.MyPoints(context.Background(), "tkn")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.code, apiErr.Status)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
			assert.Equal(t, tt.temporary, apiErr.Temporary())
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel))
			}
		})
	}
}

func TestClient_HandleImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, handleImagePath, r.URL.Path)
		assert.Equal(t, "classify", r.URL.Query().Get("needs"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "can.png", header.Filename)
		assert.Equal(t, "png-bytes", string(data))

		writeJSON(w, http.StatusOK, `{"steps":[{"agent":"classifier","output":"Metal"}]}`)
	})

	resp, err := c.HandleImage(context.Background(), "tkn", orchestrator.Image{Filename: "can.png", Body: strings.NewReader("png-bytes")}, orchestrator.NeedClassify)
	require.NoError(t, err)
	step, ok := resp.Step(orchestrator.AgentClassifier)
	require.True(t, ok)
	assert.Equal(t, "Metal", step.Text())
}

func TestClient_SubmitQuizAnswer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, quizAnswerPath, r.URL.Path)
		var req quiz.AnswerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Green", req.SelectedAnswer)
		assert.Equal(t, []string{"Blue", "Green"}, req.QuizData.Options)
		writeJSON(w, http.StatusOK, `{"steps":[{"agent":"quiz","output":{"is_correct":true}}]}`)
	})

	resp, err := c.SubmitQuizAnswer(context.Background(), "tkn", quiz.AnswerRequest{
		QuizData:       quiz.Quiz{Question: "q", Options: []string{"Blue", "Green"}, CorrectAnswer: "Green"},
		SelectedAnswer: "Green",
	})
	require.NoError(t, err)
	step, ok := resp.First()
	require.True(t, ok)
	assert.JSONEq(t, `{"is_correct":true}`, string(step.Output))
}

func TestClient_Health(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, healthPath, r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"status":"healthy","service":"recycling-guide"}`)
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &orchestrator.Health{Status: "healthy", Service: "recycling-guide"}, h)
}

func TestClient_canceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Handle(ctx, "tkn", orchestrator.HandleRequest{Task: orchestrator.TaskQuiz})

	var tErr *TransportError
	require.True(t, errors.As(err, &tErr))
	assert.True(t, tErr.Canceled())
	assert.False(t, tErr.Timeout())
}

func TestClient_chat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == chatPath:
			var msg map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
			assert.Equal(t, map[string]interface{}{
				"message": "hi", "recycling_guide": nil, "waste_category": "Glass", "include_history": true,
			}, msg)
			writeJSON(w, http.StatusOK, `{"response":"hello","metadata":{"has_guide_context":false,"waste_category":"Glass","used_history":true}}`)
		case r.Method == http.MethodGet && r.URL.Path == chatHistoryPath:
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			writeJSON(w, http.StatusOK, `{"history":[{"_id":"1","user_message":"hi","assistant_response":"hello","timestamp":"2024-05-01T10:00:00.000001"}],"stats":{"total_messages":1,"has_history":true}}`)
		case r.Method == http.MethodDelete && r.URL.Path == chatHistoryPath:
			writeJSON(w, http.StatusOK, `{"message":"Chat history cleared successfully","user_id":"u1"}`)
		case r.Method == http.MethodGet && r.URL.Path == chatStatsPath:
			writeJSON(w, http.StatusOK, `{"total_messages":1,"has_history":true}`)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	category := "Glass"
	reply, err := c.SendChat(ctx, "tkn", chat.Message{Message: "hi", WasteCategory: &category, IncludeHistory: true})
	require.NoError(t, err)
	assert.Equal(t, chat.Reply{Response: "hello", Metadata: chat.Metadata{WasteCategory: "Glass", UsedHistory: true}}, reply)

	h, err := c.ChatHistory(ctx, "tkn", 5)
	require.NoError(t, err)
	require.Len(t, h.History, 1)
	assert.Equal(t, "hello", h.History[0].AssistantResponse)
	assert.Equal(t, chat.Stats{TotalMessages: 1, HasHistory: true}, h.Stats)

	cl, err := c.ClearChatHistory(ctx, "tkn")
	require.NoError(t, err)
	assert.Equal(t, "Chat history cleared successfully", cl.Message)

	s, err := c.ChatStats(ctx, "tkn")
	require.NoError(t, err)
	assert.True(t, s.HasHistory)
}

func TestClient_rewards(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/rewards/category/Eco Products":
			writeJSON(w, http.StatusOK, `{"rewards":[{"_id":"r1","name":"Bottle","points_required":50,"category":"Eco Products","stock":-1,"active":true}]}`)
		case "/api/rewards/redemption/d1":
			writeJSON(w, http.StatusOK, `{"redemption":{"_id":"d1","reward_name":"Bottle","points_used":50,"status":"pending","tracking_number":null}}`)
		case "/api/rewards/redeem":
			var rr rewards.RedeemRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rr))
			assert.Equal(t, "r1", rr.RewardID)
			writeJSON(w, http.StatusOK, `{"success":true,"message":"Successfully redeemed Bottle!","redemption_id":"d1","points_remaining":10,"reward_details":{"name":"Bottle","description":"Steel","category":"Eco Products"}}`)
		case "/api/leaderboard/":
			writeJSON(w, http.StatusOK, `{"leaderboard":[{"rank":1,"username":"ada","points":120,"avatar":null,"clerk_id":"u1"}],"total_users":4}`)
		case "/api/leaderboard/user/u1":
			writeJSON(w, http.StatusOK, `{"username":"ada","points":120,"rank":1,"avatar":null}`)
		case "/api/leaderboard/badges/u1":
			writeJSON(w, http.StatusOK, `{"badges":[{"id":"eco-hero","name":"Eco Hero","description":"d","icon":"TrophyIcon","color":"c"}]}`)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	r, err := c.RewardsByCategory(ctx, "tkn", "Eco Products")
	require.NoError(t, err)
	require.Len(t, r.Rewards, 1)
	assert.True(t, r.Rewards[0].Affordable(50))

	d, err := c.Redemption(ctx, "tkn", "d1")
	require.NoError(t, err)
	assert.Equal(t, "pending", d.Status)
	assert.Nil(t, d.TrackingNumber)

	red, err := c.Redeem(ctx, "tkn", rewards.RedeemRequest{RewardID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), red.PointsRemaining)
	assert.Equal(t, "Eco Products", red.RewardDetails.Category)

	l, err := c.Leaderboard(ctx, "tkn")
	require.NoError(t, err)
	assert.Equal(t, 4, l.TotalUsers)
	assert.Equal(t, rewards.Entry{Rank: 1, Username: "ada", Points: 120, ClerkID: "u1"}, l.Leaderboard[0])

	e, err := c.UserRank(ctx, "tkn", "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, e.Rank)

	b, err := c.Badges(ctx, "tkn", "u1")
	require.NoError(t, err)
	assert.Equal(t, "eco-hero", b.Badges[0].ID)
}

func TestErrorDetail(t *testing.T) {
	long := strings.Repeat("x", maxDetailLen+10)
	// "é" is two bytes, so byte maxDetailLen falls inside a rune
	accented := "x" + strings.Repeat("é", maxDetailLen/2)

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "detail string", body: `{"detail":"Reward not found"}`, want: "Reward not found"},
		{name: "nested detail", body: `{"detail":{"error_type":"ParseError","detail":"Failed to parse"}}`, want: "Failed to parse"},
		{name: "nested error", body: `{"detail":{"error":"boom"}}`, want: "boom"},
		{name: "validation list", body: `{"detail":[{"loc":["body","task"]}]}`, want: `[{"loc":["body","task"]}]`},
		{name: "error key", body: `{"error":"bad"}`, want: "bad"},
		{name: "message key", body: `{"message":"bad"}`, want: "bad"},
		{name: "text", body: " Internal Server Error \n", want: "Internal Server Error"},
		{name: "truncated", body: long, want: long[:maxDetailLen] + "..."},
		{name: "truncated on rune boundary", body: accented, want: accented[:maxDetailLen-1] + "..."},
		{name: "empty", body: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorDetail([]byte(tt.body))
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
