package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/user/signup", "", map[string]any{
		"email": "a@x.io", "username": "alice", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "User created successfully", resp["msg"])
	assert.NotEmpty(t, resp["token"])
	assert.NotEmpty(t, resp["userId"])

	stored, err := ts.users.GetByEmail(t.Context(), "a@x.io")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.PasswordHash)
}

func TestSignup_Failures(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "a@x.io", "alice")

	tests := []struct {
		name    string
		body    any
		wantMsg string
	}{
		{
			name:    "duplicate email",
			body:    map[string]any{"email": "a@x.io", "username": "bobby", "password": "hunter22"},
			wantMsg: "Email already registered",
		},
		{
			name:    "duplicate username",
			body:    map[string]any{"email": "b@x.io", "username": "alice", "password": "hunter22"},
			wantMsg: "Username already taken",
		},
		{
			name:    "invalid email",
			body:    map[string]any{"email": "nope", "username": "bobby", "password": "hunter22"},
			wantMsg: "Invalid input",
		},
		{
			name:    "short username",
			body:    map[string]any{"email": "b@x.io", "username": "bo", "password": "hunter22"},
			wantMsg: "Invalid input",
		},
		{
			name:    "malformed json",
			body:    `{"email":`,
			wantMsg: "Invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/v1/user/signup", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMsg, decode(t, w)["msg"])
		})
	}

	assert.Len(t, ts.users.users, 1)
}

func TestSignup_InvalidInputListsErrors(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/user/signup", "", map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs, ok := decode(t, w)["errors"].([]any)
	require.True(t, ok)
	assert.Len(t, errs, 3)
}

func TestSignup_PasswordTooLong(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/user/signup", "", map[string]any{
		"email": "a@x.io", "username": "alice", "password": strings.Repeat("p", 73),
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, "Invalid input", resp["msg"])

	errs, ok := resp["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	violation := errs[0].(map[string]any)
	assert.Equal(t, []any{"password"}, violation["path"])
	assert.Equal(t, "too_big", violation["code"])
	assert.Empty(t, ts.users.users)
}

func TestSignup_BodyErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "truncated", body: `{"email":`, wantCode: "invalid_json"},
		{name: "not an object", body: `["a@x.io"]`, wantCode: "invalid_json"},
		{name: "null", body: `null`, wantCode: "invalid_json"},
		{
			name:     "number out of range",
			body:     `{"email":"a@x.io","username":"alice","password":"hunter22","n":1e400}`,
			wantCode: "invalid_json",
		},
		{
			name:     "over one mebibyte",
			body:     `{"email":"a@x.io","username":"alice","password":"` + strings.Repeat("p", maxBodyBytes) + `"}`,
			wantCode: "too_big",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/v1/user/signup", "", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode(t, w)
			assert.Equal(t, "Invalid input", resp["msg"])

			errs, ok := resp["errors"].([]any)
			require.True(t, ok)
			require.NotEmpty(t, errs)
			first := errs[0].(map[string]any)
			assert.Equal(t, []any{}, first["path"])
			assert.Equal(t, tt.wantCode, first["code"])
		})
	}

	assert.Empty(t, ts.users.users)
}

func TestSignup_EmptyBodyHasNoBodyError(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/user/signup", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs, ok := decode(t, w)["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 3)
	for _, e := range errs {
		assert.NotEqual(t, "invalid_json", e.(map[string]any)["code"])
	}
}

func TestSignin(t *testing.T) {
	ts := newTestServer(t)
	_, userID := ts.signup(t, "a@x.io", "alice")

	w := ts.do(t, http.MethodPost, "/api/v1/user/signin", "", map[string]any{
		"email": "a@x.io", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, userID, resp["userId"])
	assert.NotEmpty(t, resp["token"])

	for _, body := range []map[string]any{
		{"email": "a@x.io", "password": "wrong"},
		{"email": "nobody@x.io", "password": "hunter22"},
	} {
		w = ts.do(t, http.MethodPost, "/api/v1/user/signin", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Incorrect email or password", decode(t, w)["msg"])
	}

	w = ts.do(t, http.MethodPost, "/api/v1/user/signin", "", map[string]any{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe(t *testing.T) {
	ts := newTestServer(t)
	token, userID := ts.signup(t, "a@x.io", "alice")

	w := ts.do(t, http.MethodGet, "/api/v1/user/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+userID+`","username":"alice"}`, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/v1/user/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"msg":"Unauthorized"}`, w.Body.String())

	ts.users.users = nil
	w = ts.do(t, http.MethodGet, "/api/v1/user/me", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())
}

func TestListUsers(t *testing.T) {
	ts := newTestServer(t)
	_, userID := ts.signup(t, "a@x.io", "alice")

	w := ts.do(t, http.MethodGet, "/api/v1/user/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"_id":"`+userID+`","username":"alice","email":"a@x.io"}]`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")
}

func TestListUsers_Protected(t *testing.T) {
	ts := newTestServer(t, withProtectedListings())
	token, _ := ts.signup(t, "a@x.io", "alice")

	w := ts.do(t, http.MethodGet, "/api/v1/user/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/user/users", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
