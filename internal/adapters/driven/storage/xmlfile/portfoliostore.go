// Package xmlfile persists the portfolio record tree as a single XML
// document on disk. Writes are atomic (temp file + rename) and an
// optional fsnotify watcher reports external edits so the caller can
// trigger an index rebuild.
package xmlfile

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/folio-labs/folio-cli/internal/core/domain"
	"github.com/folio-labs/folio-cli/internal/core/ports/driven"
	"github.com/folio-labs/folio-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.PortfolioStore = (*Store)(nil)

// DefaultFileName is the portfolio file name inside the data directory.
const DefaultFileName = "portfolios.xml"

// Store is a file-based implementation of driven.PortfolioStore.
type Store struct {
	mu         sync.RWMutex
	path       string
	portfolios []domain.Portfolio

	watcher *fsnotify.Watcher
	events  chan struct{}
	done    chan struct{}
}

// NewStore creates a portfolio store backed by the given XML file.
// If path is empty, defaults to ~/.folio/portfolios.xml. A missing
// file is not an error; the store starts with an empty tree.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".folio", DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &Store{
		path:   path,
		events: make(chan struct{}, 1),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading portfolio file: %w", err)
	}

	return s, nil
}

// EnableWatch starts an fsnotify watcher on the portfolio file. Each
// on-disk change reloads the store and signals the Watch channel.
func (s *Store) EnableWatch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the directory: editors replace files by rename, which
	// drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}

	s.watcher = watcher
	s.done = make(chan struct{})

	go s.watchLoop()
	return nil
}

func (s *Store) watchLoop() {
	defer close(s.events)
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Name != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("Portfolio file changed on disk: %s", event.Op)
			if err := s.load(); err != nil {
				logger.Warn("Reload after file change failed: %v", err)
				continue
			}
			select {
			case s.events <- struct{}{}:
			default: // a notification is already pending
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Portfolio file watcher: %v", err)
		}
	}
}

// Watch delivers a notification each time the backing file changes.
func (s *Store) Watch() <-chan struct{} {
	return s.events
}

// GetPortfolios returns a snapshot of the full record tree.
func (s *Store) GetPortfolios(_ context.Context) ([]domain.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePortfolios(s.portfolios), nil
}

// FindProductByID returns a product and its owning portfolio.
func (s *Store) FindProductByID(_ context.Context, productID string) (*domain.Product, *domain.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, portfolio := domain.FindProduct(s.portfolios, productID)
	if product == nil {
		return nil, nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}

	p := cloneProduct(*product)
	pf := clonePortfolio(*portfolio)
	return &p, &pf, nil
}

// SavePortfolios replaces the persisted record tree in full.
func (s *Store) SavePortfolios(_ context.Context, portfolios []domain.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.portfolios = clonePortfolios(portfolios)
	return s.persist()
}

// AddPortfolio appends a new portfolio, minting an ID when absent.
func (s *Store) AddPortfolio(_ context.Context, portfolio domain.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if portfolio.ID == "" {
		portfolio.ID = uuid.NewString()
	}
	for i := range s.portfolios {
		if s.portfolios[i].ID == portfolio.ID {
			return fmt.Errorf("portfolio %s: %w", portfolio.ID, domain.ErrAlreadyExists)
		}
	}

	s.portfolios = append(s.portfolios, clonePortfolio(portfolio))
	return s.persist()
}

// DeletePortfolio removes a portfolio and all its products.
func (s *Store) DeletePortfolio(_ context.Context, portfolioID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.portfolios {
		if s.portfolios[i].ID == portfolioID {
			s.portfolios = append(s.portfolios[:i], s.portfolios[i+1:]...)
			return s.persist()
		}
	}
	return fmt.Errorf("portfolio %s: %w", portfolioID, domain.ErrNotFound)
}

// AddProduct appends a product to the given portfolio, minting an ID
// when absent.
func (s *Store) AddProduct(_ context.Context, portfolioID string, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if p, _ := domain.FindProduct(s.portfolios, product.ID); p != nil {
		return fmt.Errorf("product %s: %w", product.ID, domain.ErrAlreadyExists)
	}

	for i := range s.portfolios {
		if s.portfolios[i].ID == portfolioID {
			s.portfolios[i].Products = append(s.portfolios[i].Products, cloneProduct(product))
			return s.persist()
		}
	}
	return fmt.Errorf("portfolio %s: %w", portfolioID, domain.ErrNotFound)
}

// UpdateProduct replaces a product in place, wherever it lives.
func (s *Store) UpdateProduct(_ context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.portfolios {
		for j := range s.portfolios[i].Products {
			if s.portfolios[i].Products[j].ID == product.ID {
				s.portfolios[i].Products[j] = cloneProduct(product)
				return s.persist()
			}
		}
	}
	return fmt.Errorf("product %s: %w", product.ID, domain.ErrNotFound)
}

// DeleteProduct removes a product from its owning portfolio.
func (s *Store) DeleteProduct(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.portfolios {
		for j := range s.portfolios[i].Products {
			if s.portfolios[i].Products[j].ID == productID {
				s.portfolios[i].Products = append(
					s.portfolios[i].Products[:j], s.portfolios[i].Products[j+1:]...)
				return s.persist()
			}
		}
	}
	return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
}

// Path returns the portfolio file path.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns the serialized form of the current tree, suitable
// for the mirror store.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return marshalPortfolios(s.portfolios)
}

// RestoreSnapshot replaces the in-memory tree from a serialized
// snapshot without touching the file. Used when the portfolio file is
// missing but a mirror copy survives.
func (s *Store) RestoreSnapshot(data []byte) error {
	portfolios, err := unmarshalPortfolios(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.portfolios = portfolios
	s.mu.Unlock()
	return nil
}

// Close releases resources, including any file watcher.
func (s *Store) Close() error {
	if s.watcher != nil {
		close(s.done)
		if err := s.watcher.Close(); err != nil {
			return err
		}
		s.watcher = nil
	}
	return nil
}

// load reads the XML file into memory.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	portfolios, err := unmarshalPortfolios(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.portfolios = portfolios
	s.mu.Unlock()
	return nil
}

// persist writes the current tree atomically. Callers hold s.mu.
func (s *Store) persist() error {
	data, err := marshalPortfolios(s.portfolios)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}

func marshalPortfolios(portfolios []domain.Portfolio) ([]byte, error) {
	doc := toXMLDocument(portfolios)
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal portfolios: %w", err)
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}

func unmarshalPortfolios(data []byte) ([]domain.Portfolio, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal portfolios: %w", err)
	}
	return doc.toDomain(), nil
}
