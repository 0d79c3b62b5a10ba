package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samy1995/Mealwise/internal/model"
)

const checksumSuffix = ".sha256"

// totalsTolerance absorbs float drift from incremental edits.
const totalsTolerance = 0.01

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"createdAt"`
	SizeBytes int64     `json:"sizeBytes"`
}

// BackupName is the default file name for a backup taken at t.
func BackupName(t time.Time) string {
	return fmt.Sprintf("mealwise-%s.db", t.Format("20060102-150405"))
}

// CreateBackup copies the device database and writes a sidecar checksum.
func CreateBackup(dbPath, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(dbPath) == "" || strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("db path and backup path are required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if err := copyFile(dbPath, outPath); err != nil {
		return BackupInfo{}, err
	}
	sum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+checksumSuffix, []byte(sum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	return backupInfo(outPath, sum)
}

// VerifyBackup compares a backup with its sidecar checksum. A backup with no
// sidecar is accepted.
func VerifyBackup(path string) error {
	want, err := os.ReadFile(path + checksumSuffix)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read checksum file: %w", err)
	}
	got, err := fileSHA256(path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(want)) != got {
		return fmt.Errorf("backup checksum mismatch for %s", path)
	}
	return nil
}

// RestoreBackup refuses to overwrite an existing database unless force is set.
func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("backup path and db path are required")
	}
	if _, err := os.Stat(dbPath); err == nil && !force {
		return fmt.Errorf("target db already exists; use --force to overwrite")
	}
	if err := VerifyBackup(backupPath); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return copyFile(backupPath, dbPath)
}

// ListBackups returns the .db files in dir, newest first.
func ListBackups(dir string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	out := []BackupInfo{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".db" {
			continue
		}
		full := filepath.Join(dir, e.Name())
		sum := ""
		if b, err := os.ReadFile(full + checksumSuffix); err == nil {
			sum = strings.TrimSpace(string(b))
		}
		info, err := backupInfo(full, sum)
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func backupInfo(path, sum string) (BackupInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	return BackupInfo{Path: path, Checksum: sum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

// DoctorReport counts meal rows that break local invariants.
type DoctorReport struct {
	UnreadableFoods int `json:"unreadableFoods"`
	TotalsDrift     int `json:"totalsDrift"`
	OrphanMeals     int `json:"orphanMeals"`
	FixedTotals     int `json:"fixedTotals,omitempty"`
}

func (r DoctorReport) Healthy() bool {
	return r.UnreadableFoods == 0 && r.TotalsDrift == 0 && r.OrphanMeals == 0
}

// RunDoctor checks that every stored meal's totals still equal the sum of its
// items. With fix set, drifted totals are rewritten from the items.
func RunDoctor(db *sql.DB, fix bool) (DoctorReport, error) {
	var report DoctorReport
	if err := db.QueryRow(`
SELECT COUNT(1) FROM meals m
WHERE EXISTS (SELECT 1 FROM users)
  AND NOT EXISTS (SELECT 1 FROM users u WHERE u.id = m.user_id)`).Scan(&report.OrphanMeals); err != nil {
		return report, fmt.Errorf("doctor orphan check: %w", err)
	}

	rows, err := db.Query(`SELECT id, ingredients_json, calories, protein, fat, carbs, fiber, sugar FROM meals`)
	if err != nil {
		return report, fmt.Errorf("doctor meals query: %w", err)
	}
	drifted := map[string]model.NutritionInfo{}
	for rows.Next() {
		var (
			id, raw string
			stored  model.NutritionInfo
			fiber   float64
			sugar   float64
		)
		if err := rows.Scan(&id, &raw, &stored.Calories, &stored.Protein, &stored.Fat, &stored.Carbs, &fiber, &sugar); err != nil {
			_ = rows.Close()
			return report, fmt.Errorf("doctor meals scan: %w", err)
		}
		stored.Fiber, stored.Sugar = &fiber, &sugar
		var items []model.FoodItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			report.UnreadableFoods++
			continue
		}
		if want := Aggregate(items); !totalsMatch(stored, want) {
			drifted[id] = want
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return report, fmt.Errorf("doctor meals iterate: %w", err)
	}
	_ = rows.Close()
	report.TotalsDrift = len(drifted)

	// The only write to a saved meal: totals go back to the sum of its items.
	if fix && len(drifted) > 0 {
		tx, err := db.Begin()
		if err != nil {
			return report, fmt.Errorf("doctor fix begin tx: %w", err)
		}
		for id, t := range drifted {
			if _, err := tx.Exec(`UPDATE meals SET calories = ?, protein = ?, fat = ?, carbs = ?, fiber = ?, sugar = ? WHERE id = ?`,
				t.Calories, t.Protein, t.Fat, t.Carbs, t.FiberValue(), t.SugarValue(), id); err != nil {
				_ = tx.Rollback()
				return report, fmt.Errorf("doctor fix meal %s: %w", id, err)
			}
			report.FixedTotals++
		}
		if err := tx.Commit(); err != nil {
			return report, fmt.Errorf("doctor fix commit: %w", err)
		}
	}
	return report, nil
}

func totalsMatch(a, b model.NutritionInfo) bool {
	pairs := [][2]float64{
		{a.Calories, b.Calories},
		{a.Protein, b.Protein},
		{a.Fat, b.Fat},
		{a.Carbs, b.Carbs},
		{a.FiberValue(), b.FiberValue()},
		{a.SugarValue(), b.SugarValue()},
	}
	for _, p := range pairs {
		if math.Abs(p[0]-p[1]) > totalsTolerance {
			return false
		}
	}
	return true
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync destination file: %w", err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
