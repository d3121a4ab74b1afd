package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/billtracker/internal/calculator"
	"github.com/mmynk/billtracker/internal/currency"
	"github.com/mmynk/billtracker/internal/models"
	"github.com/mmynk/billtracker/internal/profile"
	"github.com/mmynk/billtracker/pkg/api"
	"github.com/mmynk/billtracker/pkg/api/apiconnect"
)

var _ apiconnect.UserServiceHandler = (*UserService)(nil)

// UserService serves the authenticated user's profile settings.
type UserService struct {
	profiles *profile.Cache
	now      func() time.Time
}

// NewUserService creates a UserService reading through profiles.
func NewUserService(profiles *profile.Cache) *UserService {
	return &UserService{profiles: profiles, now: time.Now}
}

// GetProfile returns the profile of the authenticated user.
func (s *UserService) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.profiles.Get(ctx, userID)
	if err != nil {
		slog.Error("GetProfile failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetProfileResponse{User: toAPIUser(user)}), nil
}

// UpdateProfile applies a partial profile change. Only the fields present in
// the request are modified.
func (s *UserService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	userID, err := ownerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateProfile request received", "user_id", userID)

	update := models.ProfileUpdate{
		DisplayName:       req.Msg.DisplayName,
		DefaultCurrency:   req.Msg.DefaultCurrency,
		CurrencySet:       req.Msg.CurrencySet,
		FirstBillAdded:    req.Msg.FirstBillAdded,
		CalendarTourDone:  req.Msg.CalendarTourDone,
		ChecklistTourDone: req.Msg.ChecklistTourDone,
		BillsPageTourDone: req.Msg.BillsPageTourDone,
	}
	if update.DefaultCurrency != nil {
		code, err := currency.Normalize(*update.DefaultCurrency)
		if err != nil {
			slog.Warn("UpdateProfile rejected", "user_id", userID, "error", err)
			return nil, connectError(&calculator.ValidationError{Field: "default_currency", Reason: err.Error()})
		}
		update.DefaultCurrency = &code
	}
	if update.DisplayName != nil && *update.DisplayName == "" {
		return nil, invalid("display_name", "display name must not be empty")
	}

	user, err := s.profiles.Update(ctx, userID, update, s.now().Unix())
	if err != nil {
		slog.Error("UpdateProfile failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Profile updated", "user_id", userID)
	return connect.NewResponse(&api.UpdateProfileResponse{User: toAPIUser(user)}), nil
}
