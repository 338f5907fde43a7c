package history

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/statssync/stats-sync/internal/models"
)

// csvColumns is the expected header of the historical props file.
var csvColumns = []string{"player_name", "date", "prop_type", "line", "actual_result", "hit", "odds", "sport"}

// CSVStore is an in-memory Repository backed by a flat CSV file loaded once
// at startup. Rows that fail to parse are skipped with a warning.
type CSVStore struct {
	records []models.HistoricalPropRecord // sorted by date descending
	byKey   map[string][]int              // player|propType -> indices, date descending
	logger  *logrus.Logger
	now     func() time.Time
}

// NewCSVStore loads the historical props file at path.
func NewCSVStore(path string, logger *logrus.Logger) (*CSVStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open historical props file: %w", err)
	}
	defer f.Close()

	store, err := loadCSV(f, logger)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"path":    path,
		"records": len(store.records),
	}).Info("Loaded historical prop records")

	return store, nil
}

// NewCSVStoreFromRecords builds a store from already-parsed records.
func NewCSVStoreFromRecords(records []models.HistoricalPropRecord, logger *logrus.Logger) *CSVStore {
	store := &CSVStore{logger: logger, now: time.Now}
	store.index(records)
	return store
}

func loadCSV(r io.Reader, logger *logrus.Logger) (*CSVStore, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range csvColumns {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("historical props file missing column %q", required)
		}
	}

	var records []models.HistoricalPropRecord
	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.WithError(err).WithField("line", line).Warn("Skipping unreadable CSV row")
			continue
		}

		record, err := parseRow(row, col)
		if err != nil {
			logger.WithError(err).WithField("line", line).Warn("Skipping malformed historical record")
			continue
		}
		records = append(records, record)
	}

	store := &CSVStore{logger: logger, now: time.Now}
	store.index(records)
	return store, nil
}

func parseRow(row []string, col map[string]int) (models.HistoricalPropRecord, error) {
	var rec models.HistoricalPropRecord

	rec.PlayerName = strings.TrimSpace(row[col["player_name"]])
	if rec.PlayerName == "" {
		return rec, fmt.Errorf("empty player_name")
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(row[col["date"]]))
	if err != nil {
		return rec, fmt.Errorf("invalid date: %w", err)
	}
	rec.Date = date

	propType, err := models.ParsePropType(row[col["prop_type"]])
	if err != nil {
		return rec, err
	}
	rec.PropType = propType

	if rec.Line, err = strconv.ParseFloat(strings.TrimSpace(row[col["line"]]), 64); err != nil {
		return rec, fmt.Errorf("invalid line: %w", err)
	}
	if rec.ActualResult, err = strconv.ParseFloat(strings.TrimSpace(row[col["actual_result"]]), 64); err != nil {
		return rec, fmt.Errorf("invalid actual_result: %w", err)
	}
	if rec.Hit, err = strconv.ParseBool(strings.ToLower(strings.TrimSpace(row[col["hit"]]))); err != nil {
		return rec, fmt.Errorf("invalid hit: %w", err)
	}
	if rec.Odds, err = strconv.Atoi(strings.TrimSpace(row[col["odds"]])); err != nil {
		return rec, fmt.Errorf("invalid odds: %w", err)
	}

	sport, err := models.ParseSportType(row[col["sport"]])
	if err != nil {
		return rec, err
	}
	rec.Sport = sport

	return rec, nil
}

func (s *CSVStore) index(records []models.HistoricalPropRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	s.records = records
	s.byKey = make(map[string][]int)
	for i, rec := range records {
		key := recordKey(rec.PlayerName, rec.PropType)
		s.byKey[key] = append(s.byKey[key], i)
	}
}

func recordKey(player string, propType models.PropType) string {
	return player + "|" + string(propType)
}

// HitRate implements Repository.
func (s *CSVStore) HitRate(ctx context.Context, player string, propType models.PropType, window time.Duration) (float64, int, error) {
	cutoff := s.now().Add(-window)
	hits, total := 0, 0
	for _, i := range s.byKey[recordKey(player, propType)] {
		rec := s.records[i]
		if rec.Date.Before(cutoff) {
			break // indices are date-descending
		}
		total++
		if rec.Hit {
			hits++
		}
	}
	if total == 0 {
		return 0, 0, nil
	}
	return float64(hits) / float64(total), total, nil
}

// PropTypeHitRate implements Repository.
func (s *CSVStore) PropTypeHitRate(ctx context.Context, propType models.PropType, window time.Duration) (float64, int, error) {
	cutoff := s.now().Add(-window)
	hits, total := 0, 0
	for _, rec := range s.records {
		if rec.Date.Before(cutoff) {
			break
		}
		if rec.PropType != propType {
			continue
		}
		total++
		if rec.Hit {
			hits++
		}
	}
	if total == 0 {
		return 0, 0, nil
	}
	return float64(hits) / float64(total), total, nil
}

// RecentForm implements Repository.
func (s *CSVStore) RecentForm(ctx context.Context, player string, propType models.PropType, games int) ([]bool, error) {
	indices := s.byKey[recordKey(player, propType)]
	if games > len(indices) {
		games = len(indices)
	}
	form := make([]bool, 0, games)
	for _, i := range indices[:games] {
		form = append(form, s.records[i].Hit)
	}
	return form, nil
}
