package server_test

import (
	"net/http"
	"testing"
	"time"

	gofight "github.com/appleboy/gofight/v2"
	"github.com/clouddrop/clouddrop/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastjson"
)

func TestRequestRegistration(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	params := gofight.D{
		"name": "George Abitbol",
	}
	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"validation","message":"All fields are required"}}`, r.Body.String())
	})

	params["email"] = "george.abitbol"
	params["password"] = "password42"
	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"validation","message":"Please enter a valid email address"}}`, r.Body.String())
	})

	params["email"] = "george.abitbol@nowhere.lan"
	params["password"] = "short12"
	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"validation","message":"Password must be at least 8 characters long"}}`, r.Body.String())
	})

	params["password"] = "password42"
	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)

		assert.True(t, v.GetBool("success"))
		assert.Equal(t, "Account created successfully!", string(v.GetStringBytes("message")))
		assert.True(t, v.GetBool("is_new"))
		assert.Regexp(t, `^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-4[a-fA-F0-9]{3}-[8|9|aA|bB][a-fA-F0-9]{3}-[a-fA-F0-9]{12}$`, string(v.Get("user", "id").GetStringBytes()))
		assert.Equal(t, "george.abitbol@nowhere.lan", string(v.Get("user", "email").GetStringBytes()))
		assert.Equal(t, "free", string(v.Get("user", "plan").GetStringBytes()))
		assert.EqualValues(t, 5<<30, v.Get("user", "storage_limit").GetInt64())
		assert.Nil(t, v.Get("user", "password"))
		assert.Len(t, string(v.Get("session", "access_token").GetStringBytes()), 24)

		timestamp, err := time.Parse(time.RFC3339, string(v.Get("user", "created_at").GetStringBytes()))
		assert.NoError(t, err)
		assert.Less(t, time.Since(timestamp).Nanoseconds(), (500 * time.Millisecond).Nanoseconds())
	})

	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusConflict, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"duplicate-email","message":"An account with this email already exists"}}`, r.Body.String())
	})

	// Same email, different case.
	params["email"] = "George.Abitbol@Nowhere.LAN"
	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusConflict, r.Code)
	})
}

func TestRequestRegistrationDisabled(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()

	ctrl.NoRegistration = true
	engine = server.EchoEngine(ctrl)

	params := gofight.D{
		"name":     "George Abitbol",
		"email":    "george.abitbol@nowhere.lan",
		"password": "password42",
	}
	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNotFound, r.Code)
	})
}

func TestRequestLogin(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()
	createUser(ctrl)

	params := gofight.D{
		"email": "george.abitbol@nowhere.lan",
	}
	r.POST("/auth/sign_in").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"validation","message":"Email and password are required"}}`, r.Body.String())
	})

	params["password"] = "wrong-password"
	r.POST("/auth/sign_in").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-credentials","message":"Invalid email or password"}}`, r.Body.String())
	})

	// Unknown email renders the exact same error.
	unknown := gofight.D{"email": "nobody@nowhere.lan", "password": "password42"}
	r.POST("/auth/sign_in").SetJSON(unknown).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-credentials","message":"Invalid email or password"}}`, r.Body.String())
	})

	params["password"] = "password42"
	r.POST("/auth/sign_in").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)

		assert.True(t, v.GetBool("success"))
		assert.Equal(t, "Login successful!", string(v.GetStringBytes("message")))
		// First login after registration.
		assert.False(t, v.GetBool("is_returning"))
		assert.False(t, v.Get("user", "is_new").GetBool())
		assert.NotEmpty(t, string(v.Get("session", "access_token").GetStringBytes()))
	})

	r.POST("/auth/sign_in").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.True(t, v.GetBool("is_returning"))
	})
}

func TestRequestLogout(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()
	createUser(ctrl)
	token := signIn(engine, r)

	r.GET("/dashboard").SetHeader(bearer(token)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
	})

	r.POST("/auth/sign_out").SetHeader(bearer(token)).SetJSON(gofight.D{}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNoContent, r.Code)
	})

	// The token is gone with the session.
	r.GET("/dashboard").SetHeader(bearer(token)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
	})
}

func TestRequestUpdateProfile(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()
	createUser(ctrl)
	token := signIn(engine, r)

	params := gofight.D{
		"name":  "Ada Lovelace",
		"theme": "dark",
	}
	r.POST("/auth/update").SetHeader(bearer(token)).SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)

		assert.Equal(t, "Profile updated successfully", string(v.GetStringBytes("message")))
		assert.Equal(t, "Ada Lovelace", string(v.Get("user", "name").GetStringBytes()))
		assert.Equal(t, "dark", string(v.Get("user", "settings", "theme").GetStringBytes()))
		// Untouched fields survive the merge.
		assert.True(t, v.Get("user", "settings", "notifications").GetBool())
		assert.Equal(t, "george.abitbol@nowhere.lan", string(v.Get("user", "email").GetStringBytes()))
	})

	// The refreshed snapshot feeds the dashboard.
	r.GET("/dashboard").SetHeader(bearer(token)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", string(v.GetStringBytes("name")))
		assert.Equal(t, "AL", string(v.GetStringBytes("initials")))
	})
}

func TestRequestUpdatePassword(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()
	createUser(ctrl)
	token := signIn(engine, r)

	r.POST("/auth/change_pw").SetHeader(bearer(token)).SetJSON(gofight.D{
		"new_password": "password43",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Your current password is required to change your password."}}`, r.Body.String())
	})

	r.POST("/auth/change_pw").SetHeader(bearer(token)).SetJSON(gofight.D{
		"current_password": "password42",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusBadRequest, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Your new password is required to change your password."}}`, r.Body.String())
	})

	r.POST("/auth/change_pw").SetHeader(bearer(token)).SetJSON(gofight.D{
		"current_password": "wrong-password",
		"new_password":     "password43",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-credentials","message":"Current password is incorrect"}}`, r.Body.String())
	})

	r.POST("/auth/change_pw").SetHeader(bearer(token)).SetJSON(gofight.D{
		"current_password": "password42",
		"new_password":     "password43",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, "Password changed successfully", string(v.GetStringBytes("message")))
	})

	// The session is not rotated by a password change.
	r.GET("/dashboard").SetHeader(bearer(token)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
	})

	// Old password fails, new one works.
	r.POST("/auth/sign_in").SetJSON(gofight.D{
		"email":    "george.abitbol@nowhere.lan",
		"password": "password42",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
	})

	r.POST("/auth/sign_in").SetJSON(gofight.D{
		"email":    "george.abitbol@nowhere.lan",
		"password": "password43",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
	})
}

func TestRequestDeleteAccount(t *testing.T) {
	engine, ctrl, r, cleanup := setup()
	defer cleanup()
	createUser(ctrl)
	token := signIn(engine, r)

	r.DELETE("/auth").SetHeader(bearer(token)).SetJSON(gofight.D{
		"password": "wrong-password",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-credentials","message":"Incorrect password"}}`, r.Body.String())
	})

	r.DELETE("/auth").SetHeader(bearer(token)).SetJSON(gofight.D{
		"password": "password42",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		v, err := fastjson.Parse(r.Body.String())
		assert.NoError(t, err)
		assert.Equal(t, "Account deleted successfully", string(v.GetStringBytes("message")))
	})

	// The account and its session are gone.
	r.GET("/dashboard").SetHeader(bearer(token)).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
	})

	r.POST("/auth/sign_in").SetJSON(gofight.D{
		"email":    "george.abitbol@nowhere.lan",
		"password": "password42",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
	})
}
