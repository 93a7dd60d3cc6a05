package bench

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ORMPath runs the same workload through gorm. Operations keep ORM semantics
// on purpose: the update is a read-modify-save round trip, not a hand-tuned
// UPDATE, because that overhead is exactly what gets measured.
type ORMPath struct {
	db *gorm.DB
}

// NewORMPath opens a gorm session over the given dialector with the same
// connection cap as the driver path.
func NewORMPath(dial gorm.Dialector, maxConns int) (*ORMPath, error) {
	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open orm, %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("orm pool, %w", err)
	}
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
		sqlDB.SetMaxIdleConns(maxConns)
	}

	return &ORMPath{db: db}, nil
}

func (p *ORMPath) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *ORMPath) Reset(ctx context.Context) error {
	m := p.db.WithContext(ctx).Migrator()

	if m.HasTable(&BenchRow{}) {
		if err := m.DropTable(&BenchRow{}); err != nil {
			return fmt.Errorf("drop table, %w", err)
		}
	}
	if err := m.AutoMigrate(&BenchRow{}); err != nil {
		return fmt.Errorf("migrate table, %w", err)
	}
	return nil
}

func (p *ORMPath) Seed(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	if err := p.db.WithContext(ctx).CreateInBatches(sampleRows(n), insertChunk).Error; err != nil {
		return fmt.Errorf("seed rows, %w", err)
	}
	return nil
}

func (p *ORMPath) Do(ctx context.Context, c Category, opts Options) error {
	switch c {
	case ConcurrentSelect:
		return forEach(ctx, opts.Workers, opts.Ops, func(ctx context.Context) error {
			row := &BenchRow{}

			err := p.db.WithContext(ctx).First(row, randomID(opts.SeedRows)).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = nil
			}
			return err
		})

	case ConcurrentUpdate:
		return forEach(ctx, opts.Workers, opts.Ops, func(ctx context.Context) error {
			tx := p.db.WithContext(ctx)
			row := &BenchRow{}

			err := tx.First(row, randomID(opts.SeedRows)).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}

			row.LongVal = "updated value"
			return tx.Save(row).Error
		})

	case BatchAdd:
		if opts.Ops <= 0 {
			return nil
		}
		return p.db.WithContext(ctx).CreateInBatches(sampleRows(opts.Ops), insertChunk).Error

	case ConcurrentAdd:
		return forEach(ctx, opts.Workers, opts.Ops, func(ctx context.Context) error {
			s := sampleRow()
			row := &BenchRow{ShortVal: s.ShortVal, LongVal: s.LongVal}

			return p.db.WithContext(ctx).Create(row).Error
		})
	}

	return fmt.Errorf("unknown category %d", c)
}

func (p *ORMPath) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
