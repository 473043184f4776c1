package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/finbook/finbook/internal/apperrors"
	"github.com/finbook/finbook/internal/core/domain"
	"github.com/finbook/finbook/internal/core/ports"
	"github.com/finbook/finbook/internal/dto"
	"github.com/finbook/finbook/internal/middleware"
)

// accountPathPattern accepts non-empty colon-delimited paths of
// alphanumeric/underscore segments.
var accountPathPattern = regexp.MustCompile(`^[A-Za-z0-9_]+(:[A-Za-z0-9_]+)*$`)

type accountService struct {
	accountRepo  ports.AccountRepository
	currencyRepo ports.CurrencyRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo ports.AccountRepository, currencyRepo ports.CurrencyRepository) ports.AccountService {
	return &accountService{
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
	}
}

var _ ports.AccountService = (*accountService)(nil)

// splitAccountPath validates the path charset and splits it into segments.
func splitAccountPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: account path is empty", apperrors.ErrValidation)
	}
	if len(path) > domain.MaxFullNameLength {
		return nil, fmt.Errorf("%w: account path exceeds %d characters", apperrors.ErrValidation, domain.MaxFullNameLength)
	}
	if !accountPathPattern.MatchString(path) {
		return nil, fmt.Errorf("%w: malformed account path %q", apperrors.ErrValidation, path)
	}
	segments := strings.Split(path, domain.PathSeparator)
	for _, name := range segments {
		if len(name) > domain.MaxAccountNameLength {
			return nil, fmt.Errorf("%w: account name %q exceeds %d characters", apperrors.ErrValidation, name, domain.MaxAccountNameLength)
		}
	}
	return segments, nil
}

// ResolveAccount walks the path left to right, looking up (name, parent) one
// level at a time. Any missing level fails the whole resolution; the caller
// cannot tell which level was missing.
func (s *accountService) ResolveAccount(ctx context.Context, path string) (*domain.Account, error) {
	segments, err := splitAccountPath(path)
	if err != nil {
		return nil, err
	}

	var parentID *int64
	var account *domain.Account
	for _, name := range segments {
		account, err = s.accountRepo.FindChildAccount(ctx, name, parentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: account %q", apperrors.ErrNotFound, path)
			}
			return nil, fmt.Errorf("failed to resolve account %q: %w", path, err)
		}
		id := account.AccountID
		parentID = &id
	}
	return account, nil
}

// CreateAccount creates the leaf of the given path. Everything up to the last
// segment must already exist; the full name is derived from the parent chain
// once, here, and never recomputed.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	segments, err := splitAccountPath(req.Path)
	if err != nil {
		return nil, err
	}
	name := segments[len(segments)-1]

	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency %q", apperrors.ErrNotFound, req.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to look up currency %q: %w", req.CurrencyCode, err)
	}

	var parentID *int64
	fullName := name
	if len(segments) > 1 {
		parentPath := strings.Join(segments[:len(segments)-1], domain.PathSeparator)
		parent, err := s.ResolveAccount(ctx, parentPath)
		if err != nil {
			return nil, err
		}
		parentID = &parent.AccountID
		fullName = parent.FullName + domain.PathSeparator + name
	}
	if len(fullName) > domain.MaxFullNameLength {
		return nil, fmt.Errorf("%w: full account name exceeds %d characters", apperrors.ErrValidation, domain.MaxFullNameLength)
	}

	// No two accounts may share the same (name, parent).
	if _, err := s.accountRepo.FindChildAccount(ctx, name, parentID); err == nil {
		return nil, fmt.Errorf("%w: account %q already exists", apperrors.ErrDuplicate, fullName)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing account %q: %w", fullName, err)
	}

	account := domain.Account{
		Name:            name,
		FullName:        fullName,
		ParentAccountID: parentID,
		CurrencyID:      currency.CurrencyID,
		CreatedAt:       time.Now().UTC(),
	}

	saved, err := s.accountRepo.SaveAccount(ctx, account)
	if err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("full_name", fullName))
		}
		return nil, err
	}

	logger.Info("Account created", slog.String("full_name", saved.FullName), slog.Int64("account_id", saved.AccountID))
	return saved, nil
}

// GetAccountTree rebuilds the account hierarchy from the flat records by
// grouping children under their parent ids.
func (s *accountService) GetAccountTree(ctx context.Context) ([]*domain.AccountNode, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	codes := make(map[int64]string, len(currencies))
	for _, c := range currencies {
		codes[c.CurrencyID] = c.Code
	}

	nodes := make(map[int64]*domain.AccountNode, len(accounts))
	for _, acc := range accounts {
		nodes[acc.AccountID] = &domain.AccountNode{
			Name:         acc.Name,
			FullName:     acc.FullName,
			Path:         acc.Path(),
			CurrencyCode: codes[acc.CurrencyID],
		}
	}

	roots := []*domain.AccountNode{}
	for _, acc := range accounts {
		node := nodes[acc.AccountID]
		if acc.ParentAccountID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*acc.ParentAccountID]
		if !ok {
			// Orphaned row; surface it at the top rather than dropping it.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots, nil
}
