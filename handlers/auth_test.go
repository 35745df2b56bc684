package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"partyinvite/logger"
	"partyinvite/models"
)

type fakeAuth struct {
	gotEmail string
	gotRole  models.Role
	err      error
}

func (f *fakeAuth) Register(_ context.Context, name, email, _ string, role models.Role) (*models.User, string, error) {
	f.gotEmail, f.gotRole = email, role
	if f.err != nil {
		return nil, "", f.err
	}
	return &models.User{ID: "u1", Name: name, Email: email, Role: role}, "token", nil
}

func (f *fakeAuth) Authenticate(_ context.Context, email, _ string) (*models.User, string, error) {
	f.gotEmail = email
	if f.err != nil {
		return nil, "", f.err
	}
	return &models.User{ID: "u1", Email: email, Role: models.RoleAdmin}, "token", nil
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		authErr    error
		wantStatus int
		wantKind   models.Kind
		wantEmail  string
	}{
		{name: "valid", body: `{"name":"Ana","email":" Ana@Example.com ","password":"secret"}`,
			wantStatus: http.StatusCreated, wantEmail: "ana@example.com"},
		{name: "missing name", body: `{"email":"ana@example.com","password":"secret"}`,
			wantStatus: http.StatusBadRequest, wantKind: models.KindValidation},
		{name: "bad email", body: `{"name":"Ana","email":"not-an-email","password":"secret"}`,
			wantStatus: http.StatusBadRequest, wantKind: models.KindValidation},
		{name: "short password", body: `{"name":"Ana","email":"ana@example.com","password":"abc"}`,
			wantStatus: http.StatusBadRequest, wantKind: models.KindValidation},
		{name: "password over 72 bytes", body: `{"name":"Ana","email":"ana@example.com","password":"` + strings.Repeat("p", 80) + `"}`,
			wantStatus: http.StatusBadRequest, wantKind: models.KindValidation},
		{name: "unknown role", body: `{"name":"Ana","email":"ana@example.com","password":"secret","role":"owner"}`,
			wantStatus: http.StatusBadRequest, wantKind: models.KindValidation},
		{name: "taken email", body: `{"name":"Ana","email":"ana@example.com","password":"secret"}`, authErr: models.ErrConflict,
			wantStatus: http.StatusBadRequest, wantKind: models.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{err: tt.authErr}
			h := NewAuthHandler(auth, logger.Discard())

			status, res := serve(t, http.HandlerFunc(h.Register), http.MethodPost, "/register", tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%+v)", status, tt.wantStatus, res)
			}
			if res.Error != tt.wantKind {
				t.Errorf("error kind = %q, want %q", res.Error, tt.wantKind)
			}
			if tt.wantEmail != "" && auth.gotEmail != tt.wantEmail {
				t.Errorf("service got email %q, want %q", auth.gotEmail, tt.wantEmail)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	h := NewAuthHandler(&fakeAuth{}, logger.Discard())
	status, res := serve(t, http.HandlerFunc(h.Login), http.MethodPost, "/login", `{"email":"ana@example.com","password":"secret"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var payload AuthPayload
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Token != "token" || payload.User == nil || payload.User.ID != "u1" {
		t.Errorf("payload = %+v", payload)
	}

	h = NewAuthHandler(&fakeAuth{err: models.ErrInvalidCredentials}, logger.Discard())
	status, res = serve(t, http.HandlerFunc(h.Login), http.MethodPost, "/login", `{"email":"ana@example.com","password":"nope"}`)
	if status != http.StatusUnauthorized || res.Error != models.KindInvalidCredentials {
		t.Errorf("bad login = %d %q", status, res.Error)
	}

	status, res = serve(t, http.HandlerFunc(h.Login), http.MethodPost, "/login", `{"email":"ana@example.com"}`)
	if status != http.StatusBadRequest || res.Error != models.KindValidation {
		t.Errorf("missing password = %d %q", status, res.Error)
	}
}
