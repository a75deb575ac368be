package database

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/example/wordcoach/internal/drill"
	"github.com/example/wordcoach/internal/progress"
	"github.com/example/wordcoach/pkg/models"
)

// DriverFile selects the JSON file repository
const DriverFile = "file"

// FileRepository persists drill state as one JSON document
type FileRepository struct {
	path   string
	logger *zap.Logger
}

// NewFileRepository creates a repository backed by the file at path
func NewFileRepository(path string, logger *zap.Logger) *FileRepository {
	return &FileRepository{path: path, logger: logger}
}

type fileWord struct {
	SourceText          string `json:"source_text"`
	TargetText          string `json:"target_text"`
	AddedOn             string `json:"added_on"`
	WrongCount          int    `json:"wrong_count"`
	LastWrongDate       string `json:"last_wrong_date,omitempty"`
	RemediationProgress int    `json:"remediation_progress"`
}

type fileDocument struct {
	Words            []fileWord                   `json:"words"`
	TotalScore       int                          `json:"total_score"`
	Daily            map[string]*models.DayRecord `json:"daily"`
	LastRolloverDate string                       `json:"last_rollover_date,omitempty"`
	CorrectStreak    int                          `json:"correct_streak"`
	WrongStreak      int                          `json:"wrong_streak"`
	ComboMultiplier  float64                      `json:"combo_multiplier"`
	DirectAnswered   int                          `json:"direct_answered"`
	ReverseAnswered  int                          `json:"reverse_answered"`
	ReviewAnswered   int                          `json:"review_answered"`
	RemediationIDs   []string                     `json:"remediation_ids"`
}

// Load reads the document. A missing file yields an empty state; missing
// fields fall back to their defaults.
func (r *FileRepository) Load(_ context.Context) (*drill.State, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return drill.NewState(nil, nil), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read state file")
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode state file")
	}

	entries := make([]models.WordEntry, 0, len(doc.Words))
	for _, w := range doc.Words {
		added, _ := parseDate(w.AddedOn)
		entries = append(entries, models.WordEntry{
			SourceText:          w.SourceText,
			TargetText:          w.TargetText,
			AddedOn:             added,
			WrongCount:          w.WrongCount,
			LastWrongDate:       optionalDate(w.LastWrongDate),
			RemediationProgress: w.RemediationProgress,
		})
	}

	ledger := progress.New()
	ledger.TotalScore = doc.TotalScore
	if doc.Daily != nil {
		ledger.Daily = doc.Daily
	}
	ledger.LastRolloverDate = optionalDate(doc.LastRolloverDate)
	ledger.CorrectStreak = doc.CorrectStreak
	ledger.WrongStreak = doc.WrongStreak
	ledger.DirectAnswered = doc.DirectAnswered
	ledger.ReverseAnswered = doc.ReverseAnswered
	ledger.ReviewAnswered = doc.ReviewAnswered
	ledger.RemediationIDs = doc.RemediationIDs

	return drill.NewState(entries, ledger), nil
}

// Save writes the document to a temporary file and renames it into place
func (r *FileRepository) Save(_ context.Context, state *drill.State) error {
	l := state.Ledger
	doc := fileDocument{
		Words:           make([]fileWord, 0, state.Words.Len()),
		TotalScore:      l.TotalScore,
		Daily:           l.Daily,
		CorrectStreak:   l.CorrectStreak,
		WrongStreak:     l.WrongStreak,
		ComboMultiplier: l.ComboMultiplier,
		DirectAnswered:  l.DirectAnswered,
		ReverseAnswered: l.ReverseAnswered,
		ReviewAnswered:  l.ReviewAnswered,
		RemediationIDs:  l.RemediationIDs,
	}
	if l.LastRolloverDate != nil {
		doc.LastRolloverDate = models.DateKey(*l.LastRolloverDate)
	}
	for _, e := range state.Words.Entries() {
		w := fileWord{
			SourceText:          e.SourceText,
			TargetText:          e.TargetText,
			AddedOn:             formatDate(e.AddedOn),
			WrongCount:          e.WrongCount,
			RemediationProgress: e.RemediationProgress,
		}
		if e.LastWrongDate != nil {
			w.LastWrongDate = models.DateKey(*e.LastWrongDate)
		}
		doc.Words = append(doc.Words, w)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode state")
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create data directory")
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write state")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to write state")
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return errors.Wrap(err, "failed to replace state file")
	}

	r.logger.Debug("state saved", zap.String("path", r.path), zap.Int("words", len(doc.Words)))
	return nil
}
