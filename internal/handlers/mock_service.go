package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fhemview/internal/projection"
	"fhemview/internal/rules"
	"fhemview/internal/service"
)

// Hand-rolled fakes for the service interfaces, shared by handler tests.

type mockAuth struct {
	parseID   int
	perms     []string
	parseErr  error
	token     string
	genErr    error
	signUpID  int
	signUpErr error
}

func (m *mockAuth) SignUp(_, _ string, _ []string) (int, error) {
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) GenerateToken(_, _ string) (string, error) {
	return m.token, m.genErr
}

func (m *mockAuth) ParseToken(token string) (int, []string, error) {
	if m.parseErr != nil {
		return 0, nil, m.parseErr
	}
	if token != "valid" {
		return 0, nil, errors.New("bad token")
	}
	return m.parseID, m.perms, nil
}

type mockCatalog struct {
	view       *projection.View
	viewErr    error
	room       *projection.RoomView
	roomOK     bool
	roomErr    error
	refreshErr error
	refreshes  int
	lastPerms  projection.PermissionSet
}

func (m *mockCatalog) Refresh(_ context.Context) error {
	m.refreshes++
	return m.refreshErr
}

func (m *mockCatalog) View(perms projection.PermissionSet) (*projection.View, error) {
	m.lastPerms = perms
	return m.view, m.viewErr
}

func (m *mockCatalog) Room(_ string, perms projection.PermissionSet) (*projection.RoomView, bool, error) {
	m.lastPerms = perms
	return m.room, m.roomOK, m.roomErr
}

func (m *mockCatalog) Run(_ context.Context, _ time.Duration) {}

type mockRules struct {
	report rules.Report
	err    error
}

func (m *mockRules) Check(_ context.Context) (rules.Report, error) {
	return m.report, m.err
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, nil).InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}
