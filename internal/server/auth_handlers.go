package server

import (
	"net/http"

	"github.com/clouddrop/clouddrop/internal/account"
	"github.com/clouddrop/clouddrop/internal/cderror"
	"github.com/clouddrop/clouddrop/internal/server/serializer"
	"github.com/clouddrop/clouddrop/internal/session"
	"github.com/labstack/echo/v4"
)

// auth contains all authentication handlers.
type auth struct {
	accounts *account.Service
	sessions session.Manager
}

///// Register
////
//

// Register handler is used to register the user and establish its session.
func (h *auth) Register(c echo.Context) error {
	// Filter params
	var params account.RegisterParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, cderror.New("Could not get user's params."))
	}

	result, err := h.accounts.Register(params)
	if err != nil {
		return err
	}

	render := serializer.Result(result)
	render["session"] = serializer.Session(h.sessions.Current())

	return c.JSON(http.StatusOK, render)
}

///// Login
////
//

// Login authenticates a user and establishes its session.
func (h *auth) Login(c echo.Context) error {
	// Filter params
	var params account.LoginParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, cderror.New("Could not get credentials."))
	}

	result, err := h.accounts.Login(params)
	if err != nil {
		return err
	}

	render := serializer.Result(result)
	render["session"] = serializer.Session(h.sessions.Current())

	return c.JSON(http.StatusOK, render)
}

///// Logout
////
//

// Logout terminates the current session and clears the current-user
// snapshot.
func (h *auth) Logout(c echo.Context) error {
	if err := h.sessions.Logout(); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

///// Update
////
//

// Update merges the provided profile fields into the signed-in user.
func (h *auth) Update(c echo.Context) error {
	// Filter params
	var params account.ProfileParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, cderror.New("Could not get parameters."))
	}

	result, err := h.accounts.UpdateProfile(currentUser(c).ID, params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Result(result))
}

///// Update Password
////
//

type updatePasswordParams struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdatePassword replaces the signed-in user's password digest.
func (h *auth) UpdatePassword(c echo.Context) error {
	// Filter params
	var params updatePasswordParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, cderror.New("Could not get parameters."))
	}

	// Check CurrentPassword presence.
	if params.CurrentPassword == "" {
		return c.JSON(http.StatusBadRequest,
			cderror.New("Your current password is required to change your password."))
	}

	// Check NewPassword presence.
	if params.NewPassword == "" {
		return c.JSON(http.StatusBadRequest,
			cderror.New("Your new password is required to change your password."))
	}

	result, err := h.accounts.ChangePassword(currentUser(c).ID, params.CurrentPassword, params.NewPassword)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Result(result))
}

///// Delete
////
//

type deleteAccountParams struct {
	Password string `json:"password"`
}

// Delete removes the signed-in user's account and terminates the session.
func (h *auth) Delete(c echo.Context) error {
	// Filter params
	var params deleteAccountParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, cderror.New("Could not get parameters."))
	}

	if params.Password == "" {
		return c.JSON(http.StatusBadRequest,
			cderror.New("Your password is required to delete your account."))
	}

	result, err := h.accounts.DeleteAccount(currentUser(c).ID, params.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Result(result))
}
