package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hydrationdev/hydration-os/internal/content"
	"github.com/hydrationdev/hydration-os/pkg/db"
	"github.com/hydrationdev/hydration-os/pkg/logger"
)

const (
	ContentViewRetentionJobName    = "content_view_retention"
	ExpiredContentUnfeatureJobName = "expired_content_unfeature"

	defaultViewRetentionDays = 90
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ContentViewRetentionJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	Repository    content.Repository
	RetentionDays int
}

// NewContentViewRetentionJob prunes view engagements older than the retention
// window. Likes and shares are kept.
func NewContentViewRetentionJob(params ContentViewRetentionJobParams) (Job, error) {
	if err := requireJobDeps(params.Logger, params.DB, params.Repository); err != nil {
		return nil, err
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = defaultViewRetentionDays
	}
	return &contentViewRetentionJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type contentViewRetentionJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      content.Repository
	retention int
	now       func() time.Time
}

func (j *contentViewRetentionJob) Name() string { return ContentViewRetentionJobName }

func (j *contentViewRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().AddDate(0, 0, -j.retention)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.WithTx(tx).DeleteViewsBefore(ctx, cutoff)
		deleted = rows
		return err
	})
	if skipMissing(ctx, j.logg, err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("content view retention: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	}), "content view retention complete")
	return nil
}

type ExpiredContentUnfeatureJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository content.Repository
}

// NewExpiredContentUnfeatureJob clears the featured flag on expired posts.
func NewExpiredContentUnfeatureJob(params ExpiredContentUnfeatureJobParams) (Job, error) {
	if err := requireJobDeps(params.Logger, params.DB, params.Repository); err != nil {
		return nil, err
	}
	return &expiredContentUnfeatureJob{
		logg: params.Logger,
		db:   params.DB,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type expiredContentUnfeatureJob struct {
	logg *logger.Logger
	db   txRunner
	repo content.Repository
	now  func() time.Time
}

func (j *expiredContentUnfeatureJob) Name() string { return ExpiredContentUnfeatureJobName }

func (j *expiredContentUnfeatureJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var changed int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.WithTx(tx).UnfeatureExpired(ctx, now)
		changed = rows
		return err
	})
	if skipMissing(ctx, j.logg, err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("expired content unfeature: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "rows_updated", changed), "expired content unfeature complete")
	return nil
}

func requireJobDeps(logg *logger.Logger, runner txRunner, repo content.Repository) error {
	if logg == nil {
		return fmt.Errorf("logger required")
	}
	if runner == nil {
		return fmt.Errorf("db runner required")
	}
	if repo == nil {
		return fmt.Errorf("content repository required")
	}
	return nil
}

// skipMissing reports whether err only says the content tables are absent, in
// which case the job has nothing to do.
func skipMissing(ctx context.Context, logg *logger.Logger, err error) bool {
	if err == nil || !db.IsUndefinedTable(err) {
		return false
	}
	logg.WarnErr(ctx, "content tables missing; job skipped", err)
	return true
}
