package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/attendance-insights-api/internal/dto"
	"github.com/campushq/attendance-insights-api/internal/models"
	appErrors "github.com/campushq/attendance-insights-api/pkg/errors"
)

type stubSeeder struct {
	result *dto.SeedResult
	err    error

	lastType  models.ActorType
	lastForce bool
}

func (s *stubSeeder) Seed(_ context.Context, actorType models.ActorType, force bool) (*dto.SeedResult, error) {
	s.lastType = actorType
	s.lastForce = force
	return s.result, s.err
}

func seedRouter(stub *stubSeeder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/admin/analytics/seed", NewSeedHandler(stub).Seed)
	return router
}

func postSeed(t *testing.T, router *gin.Engine, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	recorder := httptest.NewRecorder()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/analytics/seed", reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)

	var env envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env))
	return recorder, env
}

func TestSeedHandlerDefaultsToInstructor(t *testing.T) {
	stub := &stubSeeder{result: &dto.SeedResult{InsertedEvents: 40}}
	router := seedRouter(stub)

	recorder, env := postSeed(t, router, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, env.Error)
	assert.Equal(t, models.ActorInstructor, stub.lastType)
	assert.False(t, stub.lastForce)

	var result dto.SeedResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 40, result.InsertedEvents)
}

func TestSeedHandlerExplicitTypeAndForce(t *testing.T) {
	stub := &stubSeeder{result: &dto.SeedResult{Skipped: true}}
	router := seedRouter(stub)

	recorder, _ := postSeed(t, router, `{"type":"student","force":true}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, models.ActorStudent, stub.lastType)
	assert.True(t, stub.lastForce)
}

func TestSeedHandlerRejectsUnknownType(t *testing.T) {
	stub := &stubSeeder{result: &dto.SeedResult{}}
	router := seedRouter(stub)

	recorder, env := postSeed(t, router, `{"type":"alumni"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)
}

func TestSeedHandlerServiceError(t *testing.T) {
	stub := &stubSeeder{err: appErrors.Clone(appErrors.ErrRecordStore, "")}
	router := seedRouter(stub)

	recorder, env := postSeed(t, router, `{}`)
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	require.NotNil(t, env.Error)
}
