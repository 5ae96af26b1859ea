package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	appsales "github.com/leaftolife/backend/internal/application/sales"
	"github.com/leaftolife/backend/internal/infrastructure/config"
)

// LocalInvoiceStore writes invoice PDFs under a base directory. Suited for
// single-node deployments and development.
type LocalInvoiceStore struct {
	basePath string
	logger   *zap.Logger
}

// NewLocalInvoiceStore creates a LocalInvoiceStore rooted at basePath
func NewLocalInvoiceStore(basePath string, logger *zap.Logger) (*LocalInvoiceStore, error) {
	if basePath == "" {
		return nil, errors.New("storage base path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalInvoiceStore{basePath: basePath, logger: logger}, nil
}

// Put writes the PDF to disk, overwriting any previous file
func (s *LocalInvoiceStore) Put(ctx context.Context, key string, pdf []byte) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create invoice directory: %w", err)
	}
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("write invoice PDF: %w", err)
	}

	s.logger.Debug("invoice PDF written",
		zap.String("path", path),
		zap.Int("bytes", len(pdf)))
	return nil
}

// URL returns the local file path of a stored PDF
func (s *LocalInvoiceStore) URL(ctx context.Context, key string) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("invoice PDF not found: %w", err)
	}
	return path, nil
}

// resolve maps an object key to a path under basePath, rejecting keys that
// would escape it.
func (s *LocalInvoiceStore) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.basePath, cleaned), nil
}

// NewInvoiceStore builds the invoice store selected by the configured
// driver
func NewInvoiceStore(cfg *config.StorageConfig, logger *zap.Logger) (appsales.InvoiceStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}

	switch cfg.Driver {
	case "s3":
		return NewS3InvoiceStore(cfg, WithS3Logger(logger))
	case "local", "":
		basePath := cfg.BasePath
		if basePath == "" {
			basePath = "data/invoices"
		}
		return NewLocalInvoiceStore(basePath, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

var _ appsales.InvoiceStore = (*LocalInvoiceStore)(nil)
