// Package wordfile persists word tables as companion CSV and TOML files and
// imports words from tabular files.
package wordfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/derdiedas/internal/gender"
	"github.com/verte-zerg/derdiedas/internal/wordtable"
)

// DefaultScoreInertia is used when creating a fresh list.
const DefaultScoreInertia = 2

// ErrPersistenceConflict is returned when the save target is inaccessible,
// e.g. locked or opened by another process. Callers retry or abandon.
var ErrPersistenceConflict = errors.New("word list files are inaccessible")

const indexColumn = "Word"

var csvHeader = []string{"Word", "Gender", "Correct", "Wrong", "Weight"}

// metadata mirrors the TOML companion file.
type metadata struct {
	ScoreInertia int               `toml:"score-inertia"`
	Index        string            `toml:"index"`
	Columns      int               `toml:"columns"`
	Genders      map[string]string `toml:"genders"`
	Aliases      map[string]string `toml:"aliases"`
}

// Load reconstructs a table from <base>.csv and <base>.toml. When neither
// file exists a fresh empty table with the default gender set is returned
// (the first-run case). A single missing companion or malformed content is
// an error.
func Load(base string) (*wordtable.Table, error) {
	return LoadWithInertia(base, DefaultScoreInertia)
}

// LoadWithInertia is Load with a custom score inertia for the fresh-list
// case. Existing lists keep their persisted inertia.
func LoadWithInertia(base string, freshInertia int) (*wordtable.Table, error) {
	csvPath := base + ".csv"
	tomlPath := base + ".toml"

	_, csvErr := os.Stat(csvPath)
	_, tomlErr := os.Stat(tomlPath)
	if os.IsNotExist(csvErr) && os.IsNotExist(tomlErr) {
		return wordtable.New(gender.Default(), freshInertia)
	}
	if csvErr != nil {
		return nil, fmt.Errorf("word list %s is incomplete: %w", base, csvErr)
	}
	if tomlErr != nil {
		return nil, fmt.Errorf("word list %s is incomplete: %w", base, tomlErr)
	}

	var meta metadata
	if _, err := toml.DecodeFile(tomlPath, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	set, err := setFromMetadata(meta)
	if err != nil {
		return nil, err
	}
	if meta.Index != indexColumn {
		return nil, fmt.Errorf("unexpected index column %q, want %q", meta.Index, indexColumn)
	}
	if meta.Columns != len(csvHeader)-1 {
		return nil, fmt.Errorf("unexpected column count %d, want %d", meta.Columns, len(csvHeader)-1)
	}

	table, err := wordtable.New(set, meta.ScoreInertia)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", csvPath, err)
	}
	if len(rows) == 0 {
		return table, nil
	}
	for i, row := range rows {
		if i == 0 {
			// Header row.
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d of %s: %w", i+1, csvPath, err)
		}
		if err := table.Insert(rec); err != nil {
			return nil, fmt.Errorf("row %d of %s: %w", i+1, csvPath, err)
		}
	}
	return table, nil
}

// Save rewrites both companion files in full via temp file and rename.
// Failures to write the targets are reported as ErrPersistenceConflict.
func Save(table *wordtable.Table, base string) error {
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceConflict, err)
	}

	var csvBuf bytes.Buffer
	writer := csv.NewWriter(&csvBuf)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range table.Records() {
		row := []string{
			rec.Word,
			string(rec.Gender),
			strconv.Itoa(rec.Correct),
			strconv.Itoa(rec.Wrong),
			strconv.FormatFloat(rec.Weight, 'g', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	var tomlBuf bytes.Buffer
	if err := toml.NewEncoder(&tomlBuf).Encode(metadataFromTable(table)); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	if err := writeFileAtomic(base+".csv", csvBuf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceConflict, err)
	}
	if err := writeFileAtomic(base+".toml", tomlBuf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceConflict, err)
	}
	return nil
}

// ListNames returns the saved word list names in dir: base names that have
// both companion files.
func ListNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read word list directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".csv" {
			continue
		}
		base := name[:len(name)-len(".csv")]
		if _, err := os.Stat(filepath.Join(dir, base+".toml")); err != nil {
			continue
		}
		names = append(names, base)
	}
	sort.Strings(names)
	return names, nil
}

func parseRow(row []string) (wordtable.Record, error) {
	if len(row) != len(csvHeader) {
		return wordtable.Record{}, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(row))
	}
	correct, err := strconv.Atoi(row[2])
	if err != nil {
		return wordtable.Record{}, fmt.Errorf("invalid correct count %q", row[2])
	}
	wrong, err := strconv.Atoi(row[3])
	if err != nil {
		return wordtable.Record{}, fmt.Errorf("invalid wrong count %q", row[3])
	}
	if _, err := strconv.ParseFloat(row[4], 64); err != nil {
		return wordtable.Record{}, fmt.Errorf("invalid weight %q", row[4])
	}
	return wordtable.Record{
		Word:    row[0],
		Gender:  gender.Gender(row[1]),
		Correct: correct,
		Wrong:   wrong,
	}, nil
}

func metadataFromTable(table *wordtable.Table) metadata {
	set := table.Set()
	genders := make(map[string]string, set.Count())
	for _, entry := range set.Entries() {
		genders[string(entry.Canonical)] = entry.Display
	}
	aliases := make(map[string]string)
	for alias, g := range set.Aliases() {
		aliases[alias] = string(g)
	}
	return metadata{
		ScoreInertia: table.ScoreInertia(),
		Index:        indexColumn,
		Columns:      len(csvHeader) - 1,
		Genders:      genders,
		Aliases:      aliases,
	}
}

func setFromMetadata(meta metadata) (*gender.Set, error) {
	if len(meta.Genders) == 0 {
		return nil, fmt.Errorf("metadata has no genders")
	}
	canonicals := make([]string, 0, len(meta.Genders))
	for canonical := range meta.Genders {
		canonicals = append(canonicals, canonical)
	}
	sort.Strings(canonicals)

	aliasesByGender := make(map[string][]string)
	for alias, canonical := range meta.Aliases {
		if _, ok := meta.Genders[canonical]; !ok {
			return nil, fmt.Errorf("alias %q targets unknown gender %q", alias, canonical)
		}
		if alias == canonical {
			continue
		}
		aliasesByGender[canonical] = append(aliasesByGender[canonical], alias)
	}

	entries := make([]gender.Entry, 0, len(canonicals))
	for _, canonical := range canonicals {
		aliases := aliasesByGender[canonical]
		sort.Strings(aliases)
		entries = append(entries, gender.Entry{
			Canonical: gender.Gender(canonical),
			Display:   meta.Genders[canonical],
			Aliases:   aliases,
		})
	}
	return gender.NewSet(entries)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
