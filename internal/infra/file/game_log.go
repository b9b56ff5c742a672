package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"timed-quiz-service/internal/domain"
)

const (
	logPrefix = "game-"
	logSuffix = ".log"
)

// GameLog appends tab separated lines to one file per calendar month:
// timestamp, username, category, duration, score, total, device, user agent.
type GameLog struct {
	dir string
	mu  sync.Mutex
}

func NewGameLog(dir string) (*GameLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &GameLog{dir: dir}, nil
}

func (g *GameLog) Append(_ context.Context, at time.Time, entry domain.GameLogEntry) error {
	line := strings.Join([]string{
		entry.Timestamp,
		entry.Username,
		entry.Category,
		entry.Duration,
		strconv.Itoa(entry.Score),
		strconv.Itoa(entry.Total),
		entry.Device,
		entry.UserAgent,
	}, "\t") + "\n"

	g.mu.Lock()
	defer g.mu.Unlock()
	f, err := os.OpenFile(g.monthFile(at.UTC().Format("2006-01")), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Months lists months with a log file, newest first.
func (g *GameLog) Months(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		return nil, err
	}
	months := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}
		months = append(months, strings.TrimSuffix(strings.TrimPrefix(name, logPrefix), logSuffix))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months, nil
}

// Entries parses one month; a month without a file has no entries.
func (g *GameLog) Entries(_ context.Context, month string) ([]domain.GameLogEntry, error) {
	f, err := os.Open(g.monthFile(month))
	if errors.Is(err, os.ErrNotExist) {
		return []domain.GameLogEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries := []domain.GameLogEntry{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, parseLine(line))
	}
	return entries, scanner.Err()
}

func parseLine(line string) domain.GameLogEntry {
	fields := strings.SplitN(line, "\t", 8)
	for len(fields) < 8 {
		fields = append(fields, "")
	}
	score, _ := strconv.Atoi(fields[4])
	total, _ := strconv.Atoi(fields[5])
	return domain.GameLogEntry{
		Timestamp: fields[0],
		Username:  fields[1],
		Category:  fields[2],
		Duration:  fields[3],
		Score:     score,
		Total:     total,
		Device:    fields[6],
		UserAgent: fields[7],
	}
}

func (g *GameLog) monthFile(month string) string {
	return filepath.Join(g.dir, logPrefix+month+logSuffix)
}
