package sqlite

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"todoweb/internal/models"
)

// Store is the sqlite-backed persistence driver, used for local runs
// where a Postgres instance is not around.
type Store struct {
	logger zerolog.Logger
	db     *gorm.DB
}

type taskRow struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"index:idx_tasks_user_deleted"`
	Title       string `gorm:"size:255;not null"`
	Description string
	DueDate     time.Time `gorm:"not null"`
	Repeat      string    `gorm:"not null;default:none"`
	Priority    string    `gorm:"not null"`
	IsDeleted   bool      `gorm:"index:idx_tasks_user_deleted;not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (taskRow) TableName() string { return "tasks" }

type userRow struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRow) TableName() string { return "users" }

type sessionRow struct {
	ID           string `gorm:"primaryKey"`
	UserID       string `gorm:"index"`
	Fingerprint  string
	RefreshToken string `gorm:"index"`
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (sessionRow) TableName() string { return "sessions" }

// Open opens the database file and runs migrations.
func Open(logger zerolog.Logger, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = "todoweb.db"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&userRow{}, &sessionRow{}, &taskRow{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	logger.Info().
		Str("dsn", dsn).
		Msg("opened sqlite database")
	return &Store{logger: logger, db: db}, nil
}

func taskToRow(t *models.Task) taskRow {
	return taskRow{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Repeat:      string(t.Repeat),
		Priority:    string(t.Priority),
		IsDeleted:   t.IsDeleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func rowToTask(r *taskRow) models.Task {
	return models.Task{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Repeat:      models.Repeat(r.Repeat),
		Priority:    models.Priority(r.Priority),
		IsDeleted:   r.IsDeleted,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
