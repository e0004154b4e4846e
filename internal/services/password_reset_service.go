package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"gestor/internal/models"
	"gestor/internal/repositories"
)

const passwordResetTTL = time.Hour

type PasswordResetService interface {
	// Request dispatches a reset token by email. A missing account is
	// reported as success to the caller so addresses cannot be probed.
	Request(ctx context.Context, email string) error
	Confirm(ctx context.Context, token, newPassword string) error
}

type passwordResetService struct {
	resets   repositories.PasswordResetRepository
	accounts repositories.AccountRepository
	email    EmailService
	auth     *AuthService
}

func NewPasswordResetService(
	resets repositories.PasswordResetRepository,
	accounts repositories.AccountRepository,
	email EmailService,
	auth *AuthService,
) PasswordResetService {
	return &passwordResetService{resets: resets, accounts: accounts, email: email, auth: auth}
}

func (s *passwordResetService) Request(ctx context.Context, email string) error {
	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			log.Printf("[reset][skip] no account for %q", email)
			return nil
		}
		return err
	}

	token := uuid.NewString()
	pr := &models.PasswordReset{
		ID:        uuid.NewString(),
		AccountID: a.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(passwordResetTTL),
	}
	if err := s.resets.Create(ctx, pr); err != nil {
		return err
	}
	return s.email.SendPasswordResetEmail(a.Email, token)
}

func (s *passwordResetService) Confirm(ctx context.Context, token, newPassword string) error {
	pr, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid reset token")
	}
	if pr.UsedAt != nil || time.Now().After(pr.ExpiresAt) {
		return fmt.Errorf("reset token expired")
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(ctx, pr.AccountID, hash); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, pr.ID)
}
