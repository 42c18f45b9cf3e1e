package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

type SnapshotRow struct {
	Key       string         `gorm:"column:snapshot_key;primaryKey" json:"key"`
	Data      datatypes.JSON `gorm:"column:data;not null" json:"data"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (SnapshotRow) TableName() string { return "progression_snapshot" }

type gormBlob struct {
	db *gorm.DB
}

// OpenGorm connects to sqlite or postgres and migrates the snapshot table.
func OpenGorm(driver, dsn string) (Blob, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("gorm storage: unsupported driver %q", driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	return NewGorm(db)
}

// NewGorm wraps an existing connection.
func NewGorm(db *gorm.DB) (Blob, error) {
	if err := db.AutoMigrate(&SnapshotRow{}); err != nil {
		return nil, fmt.Errorf("migrate progression_snapshot: %w", err)
	}
	return &gormBlob{db: db}, nil
}

func (g *gormBlob) Get(ctx context.Context, key string) ([]byte, error) {
	var row SnapshotRow
	err := g.db.WithContext(ctx).Where("snapshot_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.Data), nil
}

func (g *gormBlob) Put(ctx context.Context, key string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("gorm storage: %q is not valid JSON", key)
	}
	row := SnapshotRow{Key: key, Data: datatypes.JSON(data), UpdatedAt: time.Now().UTC()}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
}

func (g *gormBlob) Delete(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Where("snapshot_key = ?", key).Delete(&SnapshotRow{}).Error
}

func (g *gormBlob) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
