package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbook/finbook/internal/apperrors"
	"github.com/finbook/finbook/internal/core/domain"
	"github.com/finbook/finbook/internal/core/ports"
	"github.com/finbook/finbook/internal/dto"
	"github.com/finbook/finbook/internal/middleware"
)

type currencyService struct {
	currencyRepo ports.CurrencyRepository
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo ports.CurrencyRepository) ports.CurrencyService {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ ports.CurrencyService = (*currencyService)(nil)

// CreateCurrency registers a currency. The first currency ever created is
// flagged as the base currency; its effective rate is always 1.
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Code == "" || len(req.Code) > domain.MaxCurrencyCodeLength {
		return nil, fmt.Errorf("%w: currency code must be 1-%d characters", apperrors.ErrValidation, domain.MaxCurrencyCodeLength)
	}

	isBase := false
	if _, err := s.currencyRepo.FindBaseCurrency(ctx); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check for base currency: %w", err)
		}
		isBase = true
	}

	currency := domain.Currency{
		Code:      req.Code,
		IsBase:    isBase,
		CreatedAt: time.Now().UTC(),
	}

	saved, err := s.currencyRepo.SaveCurrency(ctx, currency)
	if err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save currency", slog.String("error", err.Error()), slog.String("code", req.Code))
		}
		return nil, err
	}

	logger.Info("Currency created", slog.String("code", saved.Code), slog.Bool("is_base", saved.IsBase))
	return saved, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find currency by code", slog.String("error", err.Error()), slog.String("code", code))
		}
		return nil, err
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}
