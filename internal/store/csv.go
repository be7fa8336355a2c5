// Package store persists lead rows between runs.
package store

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/StaticxViper/lenovo-scripts-cjm/internal/model"
	"github.com/StaticxViper/lenovo-scripts-cjm/internal/scorer"
)

// CSVStore reads and rewrites the persisted lead file.
type CSVStore struct {
	path string
}

// New returns a CSVStore for path.
func New(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the file path backing the store.
func (s *CSVStore) Path() string { return s.path }

// Load reads every row from the store. A missing file yields no rows; an
// unreadable file is logged and treated as empty. Damage inside the file is
// contained to the cell or line it affects: unparseable cells decode as
// missing, short or long lines are fitted to the header, and lines the CSV
// reader rejects are skipped.
func (s *CSVStore) Load(ctx context.Context) ([]model.LeadRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "store: load")
	}
	log := zap.L().With(zap.String("component", "store"), zap.String("path", s.path))

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		log.Warn("store: open failed, starting empty", zap.Error(err))
		return nil, nil
	}
	defer f.Close() //nolint:errcheck

	src := &lenientReader{r: csv.NewReader(f)}
	src.r.FieldsPerRecord = -1

	rows, err := decodeRows(src)
	if err != nil {
		log.Warn("store: read stopped early, keeping rows read so far",
			zap.Int("rows", len(rows)),
			zap.Error(err),
		)
	}
	if src.skipped > 0 {
		log.Warn("store: skipped unparseable lines", zap.Int("lines", src.skipped))
	}

	log.Debug("store: loaded rows", zap.Int("rows", len(rows)))
	return rows, nil
}

// storedRow mirrors LeadRow with every column as text so that one bad cell
// never rejects its line.
type storedRow struct {
	PlaceID         string `csv:"place_id"`
	BusinessName    string `csv:"business_name"`
	Address         string `csv:"address"`
	PhoneGoogle     string `csv:"phone_google"`
	PhoneWebsite    string `csv:"phone_website"`
	Email           string `csv:"email"`
	Website         string `csv:"website"`
	Rating          string `csv:"rating"`
	ReviewCount     string `csv:"user_ratings_total"`
	HTTPS           string `csv:"https"`
	HasViewport     string `csv:"has_viewport"`
	HasTitle        string `csv:"has_title"`
	HasCallToAction string `csv:"has_cta"`
	HTMLLength      string `csv:"html_length"`
	AnalysisStatus  string `csv:"analysis_status"`
	LeadScore       string `csv:"lead_score"`
}

func (r storedRow) leadRow() model.LeadRow {
	return model.LeadRow{
		PlaceID:         strings.TrimSpace(r.PlaceID),
		BusinessName:    r.BusinessName,
		Address:         r.Address,
		PhoneGoogle:     r.PhoneGoogle,
		PhoneWebsite:    r.PhoneWebsite,
		Email:           r.Email,
		Website:         r.Website,
		Rating:          scorer.ParseRating(r.Rating),
		ReviewCount:     scorer.ParseReviewCount(r.ReviewCount),
		HTTPS:           boolCell(r.HTTPS),
		HasViewport:     boolCell(r.HasViewport),
		HasTitle:        boolCell(r.HasTitle),
		HasCallToAction: boolCell(r.HasCallToAction),
		HTMLLength:      intCell(r.HTMLLength),
		AnalysisStatus:  r.AnalysisStatus,
		LeadScore:       intCell(r.LeadScore),
	}
}

// boolCell reads "true"/"True"/"1" style cells; anything else is false.
func boolCell(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

// intCell reads integer cells, accepting integral floats like "800.0".
// Anything else is 0.
func intCell(s string) int {
	if v := scorer.ParseReviewCount(s); v != nil {
		return *v
	}
	return 0
}

// lenientReader feeds csvutil records fitted to the header width and skips
// data lines the CSV parser rejects. A rejected header is an error.
type lenientReader struct {
	r       *csv.Reader
	width   int
	skipped int
}

func (l *lenientReader) Read() ([]string, error) {
	for {
		rec, err := l.r.Read()
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && l.width > 0 {
				l.skipped++
				continue
			}
			return nil, err
		}
		if l.width == 0 {
			l.width = len(rec)
			return rec, nil
		}
		return fit(rec, l.width), nil
	}
}

func fit(rec []string, width int) []string {
	if len(rec) > width {
		return rec[:width]
	}
	for len(rec) < width {
		rec = append(rec, "")
	}
	return rec
}

// decodeRows returns the rows read before any error.
func decodeRows(src csvutil.Reader) ([]model.LeadRow, error) {
	dec, err := csvutil.NewDecoder(src)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: read header")
	}

	var rows []model.LeadRow
	for {
		var sr storedRow
		err := dec.Decode(&sr)
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, eris.Wrap(err, "store: decode row")
		}
		rows = append(rows, sr.leadRow())
	}
}

// Save replaces the store with rows. The file is written to a temporary
// sibling and renamed into place, so readers never observe a partial file.
func (s *CSVStore) Save(ctx context.Context, rows []model.LeadRow) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "store: save")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "store: create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if err := encodeRows(tmp, rows); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrap(err, "store: sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "store: close temp file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return eris.Wrap(err, "store: replace file")
	}

	zap.L().Info("store: saved rows",
		zap.String("path", s.path),
		zap.Int("rows", len(rows)),
	)
	return nil
}

func encodeRows(w io.Writer, rows []model.LeadRow) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if err := enc.EncodeHeader(model.LeadRow{}); err != nil {
		return eris.Wrap(err, "store: write header")
	}
	for i := range rows {
		if err := enc.Encode(rows[i]); err != nil {
			return eris.Wrapf(err, "store: encode row %s", rows[i].PlaceID)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "store: flush")
}
