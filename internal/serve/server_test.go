package serve

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipcast/internal/model"
	"clipcast/internal/predict"
)

func fittedService(t *testing.T) *predict.Service {
	t.Helper()
	var posts []model.Post
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		play, tag, author := 10, "#meh", "nobody"
		if i%2 == 0 {
			play, tag, author = 30000, "#viral", "star"
		}
		posts = append(posts, model.Post{
			Text:      fmt.Sprintf("clip %d %s", i, tag),
			Author:    author,
			Music:     "track",
			Duration:  30,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			TimeValid: true,
			PlayCount: play,
		})
	}
	svc := predict.NewService()
	_, err := svc.Train(posts, predict.DefaultParams())
	require.NoError(t, err)
	return svc
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv := New(predict.NewService(), 100, 100)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPredictBeforeTraining(t *testing.T) {
	srv := New(predict.NewService(), 100, 100)
	rec := postJSON(t, srv.Router(), "/predict", predictRequest{Text: "#fyp", Author: "a", Music: "m"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPredictSingle(t *testing.T) {
	srv := New(fittedService(t), 100, 100)
	rec := postJSON(t, srv.Router(), "/predict", predictRequest{
		Text: "big moment #viral", Author: "star", Music: "track", Duration: 30, Time: "12:01:00",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp predictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Popular)
	assert.Equal(t, model.LabelPopular, resp.Label)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestPredictBulkRowCount(t *testing.T) {
	srv := New(fittedService(t), 100, 100)
	req := bulkRequest{Posts: []predictRequest{
		{Text: "#viral", Author: "star", Music: "track", Duration: 30, Time: "2024-03-04T10:00:00Z"},
		{Text: "#meh", Author: "nobody", Music: "track", Duration: 30, Time: "not-a-time"},
		{Text: "#viral", Author: "unknown-author", Music: "unknown-track", Duration: 30, Time: "11:00:00"},
	}}
	rec := postJSON(t, srv.Router(), "/predict/bulk", req)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Results []bulkResponseRow `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)
	for i, row := range resp.Results {
		assert.Equal(t, req.Posts[i].Text, row.Text, "row %d order preserved", i)
		assert.NotEmpty(t, row.Label)
	}
}

func TestPredictBadBody(t *testing.T) {
	srv := New(fittedService(t), 100, 100)
	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	srv := New(fittedService(t), 1, 1)
	router := srv.Router()
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := postJSON(t, router, "/predict", predictRequest{Text: "#viral", Author: "star", Music: "track"})
		codes = append(codes, rec.Code)
	}
	assert.Contains(t, codes, http.StatusTooManyRequests)
}
