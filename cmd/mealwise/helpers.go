package mealwise

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samy1995/Mealwise/internal/app"
	"github.com/samy1995/Mealwise/internal/auth"
	"github.com/samy1995/Mealwise/internal/config"
	"github.com/samy1995/Mealwise/internal/db"
	"github.com/samy1995/Mealwise/internal/imagestore"
	"github.com/samy1995/Mealwise/internal/logger"
	"github.com/samy1995/Mealwise/internal/model"
	"github.com/samy1995/Mealwise/internal/provider/gemini"
	"github.com/samy1995/Mealwise/internal/provider/openai"
	"github.com/samy1995/Mealwise/internal/service"
	"github.com/samy1995/Mealwise/internal/store/postgres"
	"github.com/samy1995/Mealwise/internal/store/sqlite"
	"github.com/spf13/cobra"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

// application is the state one command runs with. It is built per
// invocation and torn down when the command returns.
type application struct {
	cfg      config.Config
	log      *logger.Logger
	db       *sql.DB
	local    *service.LocalStore
	meals    service.MealStore
	profiles service.ProfileStore
	auth     *auth.Service
	guard    service.SessionGuard
	analyzer service.Analyzer
	images   service.ImageUploader
	now      func() time.Time
}

func (a *application) mealLogger() *service.MealLogger {
	return &service.MealLogger{Meals: a.meals, Images: a.images, Now: a.now, Log: a.log}
}

// signedIn runs the session guard and then the date of birth gate.
func (a *application) signedIn(ctx context.Context) (model.Profile, error) {
	p, err := a.guard.Check(ctx)
	if err != nil {
		return model.Profile{}, err
	}
	if err := service.RequireCompleteProfile(p); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

func withApp(cmd *cobra.Command, run func(context.Context, *application) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.LogLevel)
	logCfg.Format = cfg.LogFormat
	logCfg.Output = cfg.LogOutput
	log := logger.New(logCfg)
	defer log.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return withDB(func(sqldb *sql.DB) error {
		a := &application{cfg: cfg, log: log, db: sqldb, local: service.NewLocalStore(sqldb), now: time.Now}

		var users auth.CredentialStore
		if cfg.CloudStore() {
			pg, err := postgres.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pg.Close()
			a.meals, a.profiles, users = pg, pg, pg
		} else {
			s := sqlite.New(sqldb)
			a.meals, a.profiles, users = s, s, s
		}
		retrier := service.NewRetrier(log.WithComponent("retry"))
		a.meals = service.RetryingMealStore{Next: a.meals, Retrier: retrier}
		a.profiles = service.RetryingProfileStore{Next: a.profiles, Retrier: retrier}

		secret := []byte(cfg.JWTSecret)
		if len(secret) == 0 {
			secret, err = auth.LoadOrCreateSecret(a.local)
			if err != nil {
				return err
			}
		}
		a.auth = &auth.Service{
			Users:    users,
			Profiles: a.profiles,
			Store:    a.local,
			Secret:   secret,
			Now:      a.now,
			Log:      log.WithComponent("auth"),
		}
		a.guard = service.SessionGuard{Store: a.local, Auth: a.auth, Now: a.now}

		switch cfg.AIProvider {
		case config.AIProviderOpenAI:
			a.analyzer = &openai.Client{APIKey: cfg.OpenAIKey, BaseURL: cfg.OpenAIBaseURL, Model: cfg.OpenAIModel}
		default:
			a.analyzer = &gemini.Client{BaseURL: cfg.AIProxyURL, APIKey: cfg.AIProxyKey}
		}

		if cfg.ImageUploadEnabled() {
			up, err := imagestore.NewS3Uploader(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL)
			if err != nil {
				log.Warn("image uploads disabled", "error", err)
			} else {
				a.images = up
			}
		}
		return run(ctx, a)
	})
}

// loadConfig reads --env-file alone when given, otherwise ./.env and then
// the per-user file. Earlier files win.
func loadConfig() (config.Config, error) {
	paths := []string{envFile}
	if envFile == "" {
		p, err := app.DefaultEnvPath()
		if err != nil {
			return config.Config{}, err
		}
		paths = []string{".env", p}
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}

// readImage loads a photo as a data URL.
func readImage(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	contentType := http.DetectContentType(b)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", filepath.Base(path), contentType)
	}
	return imagestore.EncodeDataURL(contentType, b), nil
}

func parseDateTimeOrNow(date, timeStr string) (time.Time, error) {
	date = strings.TrimSpace(date)
	timeStr = strings.TrimSpace(timeStr)
	if date == "" && timeStr == "" {
		return time.Now(), nil
	}
	if date == "" {
		return time.Time{}, fmt.Errorf("--date is required when --time is set")
	}
	if timeStr == "" {
		t, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
		}
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date/--time (expected YYYY-MM-DD and HH:MM)")
	}
	return t, nil
}

// parseIndexes reads a comma separated list of 1-based positions.
func parseIndexes(raw string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid item number %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printItems(w io.Writer, items []model.FoodItem) {
	for i, it := range items {
		fmt.Fprintf(w, "%d. %s (%s)  %.0f kcal | P %.1fg | F %.1fg | C %.1fg  [%.0f%%]\n",
			i+1, it.Name, it.Quantity, it.Calories, it.Protein, it.Fat, it.Carbs, it.Confidence*100)
	}
}

func printTotals(w io.Writer, label string, n model.NutritionInfo) {
	fmt.Fprintf(w, "%s: %.0f kcal | P %.1fg | F %.1fg | C %.1fg | Fiber %.1fg | Sugar %.1fg\n",
		label, n.Calories, n.Protein, n.Fat, n.Carbs, n.FiberValue(), n.SugarValue())
}
