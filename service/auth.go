package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"skywings-cli/model"
	"skywings-cli/session"
)

// Register creates an account and stores the returned session.
func (c *Client) Register(ctx context.Context, user model.UserRegister) (model.AuthResponse, error) {
	if err := user.Validate(user.Password); err != nil {
		return model.AuthResponse{}, err
	}
	var res model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", requestOptions{body: user}, &res); err != nil {
		return model.AuthResponse{}, err
	}
	if err := c.persist(res); err != nil {
		return model.AuthResponse{}, err
	}
	return res, nil
}

// Login authenticates and stores the returned session.
func (c *Client) Login(ctx context.Context, credentials model.UserLogin) (model.AuthResponse, error) {
	if err := credentials.Validate(); err != nil {
		return model.AuthResponse{}, err
	}
	var res model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", requestOptions{body: credentials}, &res); err != nil {
		return model.AuthResponse{}, err
	}
	if err := c.persist(res); err != nil {
		return model.AuthResponse{}, err
	}
	return res, nil
}

func (c *Client) persist(res model.AuthResponse) error {
	if res.AccessToken == "" {
		return errors.New("booking service did not return an access token")
	}
	if err := c.sessions.Save(res.AccessToken, res.User); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	c.logger.Info("signed in", "user_id", res.User.Id)
	return nil
}

// Logout removes the token and user record together.
func (c *Client) Logout() error {
	if err := c.sessions.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	c.logger.Info("signed out")
	return nil
}

// CurrentUser returns the stored user without a network call.
func (c *Client) CurrentUser() (model.User, bool) {
	return c.sessions.User()
}

func (c *Client) IsAuthenticated() bool {
	return session.IsAuthenticated(c.sessions)
}

// GetMe fetches the signed-in user's profile.
func (c *Client) GetMe(ctx context.Context) (model.User, error) {
	if !c.IsAuthenticated() {
		return model.User{}, ErrNotAuthenticated
	}
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", requestOptions{tokenQuery: true}, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// UpdateProfile applies a patch and refreshes the stored user.
func (c *Client) UpdateProfile(ctx context.Context, patch model.UserUpdate) (model.User, error) {
	if !c.IsAuthenticated() {
		return model.User{}, ErrNotAuthenticated
	}
	if patch.IsEmpty() {
		return model.User{}, &model.ValidationError{Message: "Nothing to update"}
	}
	var user model.User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", requestOptions{body: patch, tokenQuery: true}, &user); err != nil {
		return model.User{}, err
	}
	if err := c.sessions.UpdateUser(user); err != nil {
		return model.User{}, fmt.Errorf("save profile: %w", err)
	}
	return user, nil
}

// GetUserBookings lists the signed-in user's bookings.
func (c *Client) GetUserBookings(ctx context.Context) ([]model.Booking, error) {
	if !c.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	var bookings []model.Booking
	if err := c.do(ctx, http.MethodGet, "/auth/bookings", requestOptions{tokenQuery: true}, &bookings); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return bookings, nil
}
