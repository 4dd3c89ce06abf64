// package formatter implements the CSV backup codec for the song library.
//
// The format is plain CSV with a fixed header row; array-valued song fields
// (artists, styles, categories) are joined with a pipe delimiter inside one
// CSV field. Decode is not a strict inverse of encode for fields outside
// that fixed set: arbitrary array fields are not auto-detected.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/karalib/internal/models"
)

// ListDelimiter separates the elements of array-valued fields inside a CSV field.
const ListDelimiter = "|"

// songHeader is the fixed column schema for song backups.
var songHeader = []string{
	"id", "title", "artists", "duration", "styles", "categories",
	"thumbnail", "isFavorite", "addedDate", "key", "youtubeUrl",
}

// listFields are the columns decoded as pipe-delimited lists.
var listFields = map[string]bool{"artists": true, "styles": true, "categories": true}

// boolFields are the columns decoded as booleans via exact equality to "true".
var boolFields = map[string]bool{"isFavorite": true, "is_favorite": true}

// Encode serializes songs to CSV with the fixed header schema.
// Fields containing a comma, quote, or newline are quoted with internal
// quotes doubled, per the csv package's RFC 4180 writer.
func Encode(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(songHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			song.ID,
			song.Title,
			strings.Join(song.Artists, ListDelimiter),
			song.Duration,
			strings.Join(song.Styles, ListDelimiter),
			strings.Join(song.Categories, ListDelimiter),
			song.Thumbnail,
			strconv.FormatBool(song.IsFavorite),
			song.AddedDate,
			song.Key,
			song.YouTubeURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// Record is one decoded CSV row keyed by header name. Values are string,
// []string for list fields, or bool for favorite flags.
type Record map[string]any

// String returns the string value for key, or "" when absent or non-string.
func (r Record) String(key string) string {
	v, _ := r[key].(string)
	return v
}

// Strings returns the list value for key, or nil when absent.
func (r Record) Strings(key string) []string {
	v, _ := r[key].([]string)
	return v
}

// Bool returns the boolean value for key, or false when absent.
func (r Record) Bool(key string) bool {
	v, _ := r[key].(bool)
	return v
}

// Decode parses CSV text into records keyed by the header row.
//
// Blank lines are dropped, doubled quotes inside quoted fields decode to one
// literal quote, list fields split on the pipe delimiter (empty string means
// empty list), favorite flags compare exactly against "true", and every
// other field stays a string.
func Decode(text string) ([]Record, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headers := rows[0]
	var records []Record
	for _, row := range rows[1:] {
		record := make(Record, len(headers))
		for i, header := range headers {
			if i >= len(row) {
				break
			}
			value := row[i]
			switch {
			case listFields[header]:
				if value == "" {
					record[header] = []string{}
				} else {
					record[header] = strings.Split(value, ListDelimiter)
				}
			case boolFields[header]:
				record[header] = value == "true"
			default:
				record[header] = value
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// BackupFilename returns the export filename for the given day,
// karaoke-backup-<ISO-date>.csv.
func BackupFilename(t time.Time) string {
	return fmt.Sprintf("karaoke-backup-%s.csv", t.Format("2006-01-02"))
}

// WriteBackup encodes songs and writes them to path. An empty path defaults
// to BackupFilename for today in the working directory. Returns the path written.
func WriteBackup(songs []models.Song, path string) (string, error) {
	if path == "" {
		path = BackupFilename(time.Now())
	}

	data, err := Encode(songs)
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	return path, nil
}
