package folio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"
)

// Store is the ordered collection of holdings, persisted as a JSON array in a single file.
//
// Every mutation rewrites the whole file. Persistence failures are logged and
// never returned: the in-memory collection is authoritative for the session.
//
// A Store is not safe for concurrent use, see Tracker.
type Store struct {
	path     string
	logger   *zap.Logger
	holdings []Holding
}

// NewStore returns an empty store backed by the file at path. Call Load to read it.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger.Named("store")}
}

// Load reads the holdings from the file and returns a copy of them.
//
// A missing file yields an empty portfolio. An unreadable or malformed file is
// reported with a single warning and yields an empty portfolio too.
func (s *Store) Load() []Holding {
	s.holdings = nil
	holdings, err := decodeHoldings(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("portfolio file does not exist, starting with an empty portfolio", zap.String("file", s.path))
	case err != nil:
		s.logger.Warn("error reading portfolio file, starting with an empty portfolio", zap.String("file", s.path), zap.Error(err))
	default:
		s.holdings = holdings
		s.logger.Debug("portfolio loaded", zap.String("file", s.path), zap.Int("holdings", len(holdings)))
	}
	return s.Holdings()
}

// decodeHoldings reads and validates a portfolio file.
func decodeHoldings(path string) ([]Holding, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, errors.New("empty file")
	}
	var holdings []Holding
	if err := json.Unmarshal(content, &holdings); err != nil {
		return nil, fmt.Errorf("format error %q: %w", path, err)
	}
	if holdings == nil {
		// "null" decodes without error.
		return nil, fmt.Errorf("format error %q: not a JSON array", path)
	}
	var errs error
	for i, h := range holdings {
		if err := h.Validate(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("format error %q: holding #%d: %w", path, i, err))
		}
	}
	if errs != nil {
		return nil, errs
	}
	return holdings, nil
}

// Save writes all the holdings to the file, replacing it atomically.
func (s *Store) Save() {
	if err := s.write(); err != nil {
		s.logger.Error("error saving portfolio", zap.String("file", s.path), zap.Error(err))
		return
	}
	s.logger.Debug("portfolio saved", zap.String("file", s.path), zap.Int("holdings", len(s.holdings)))
}

func (s *Store) write() error {
	holdings := s.holdings
	if holdings == nil {
		holdings = []Holding{} // always an array, never null
	}
	content, err := json.MarshalIndent(holdings, "", "  ")
	if err != nil {
		return err
	}

	// sibling temp file then rename: the file is never left truncated.
	dir := filepath.Dir(s.path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = f.Write(append(content, '\n'))
	if err == nil {
		err = f.Chmod(s.fileMode())
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, s.path)
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// fileMode returns the mode of the existing file, or 0644 for a new one.
func (s *Store) fileMode() fs.FileMode {
	if fi, err := os.Stat(s.path); err == nil {
		return fi.Mode().Perm()
	}
	return 0644
}

// Add appends a holding and saves the portfolio.
func (s *Store) Add(h Holding) error {
	if err := h.Validate(); err != nil {
		return err
	}
	s.holdings = append(s.holdings, h)
	s.Save()
	return nil
}

// Remove deletes every holding of symbol and saves the portfolio.
// It returns the number of holdings removed.
//
// An empty symbol returns ErrNoSelection, an unknown one ErrNotHeld, and the
// portfolio is left untouched.
func (s *Store) Remove(symbol string) (int, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return 0, ErrNoSelection
	}
	before := len(s.holdings)
	s.holdings = slices.DeleteFunc(s.holdings, func(h Holding) bool { return h.Symbol == symbol })
	removed := before - len(s.holdings)
	if removed == 0 {
		return 0, fmt.Errorf("cannot remove %q: %w", symbol, ErrNotHeld)
	}
	s.Save()
	return removed, nil
}

// Holdings returns a copy of the holdings, in insertion order.
func (s *Store) Holdings() []Holding {
	return slices.Clone(s.holdings)
}

// Symbols returns the distinct symbols held, in insertion order.
func (s *Store) Symbols() []string {
	var symbols []string
	for _, h := range s.holdings {
		if !slices.Contains(symbols, h.Symbol) {
			symbols = append(symbols, h.Symbol)
		}
	}
	return symbols
}
