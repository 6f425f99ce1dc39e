package pg

import (
	"context"
	"errors"
	"time"

	"fxchart-service/internal/application"
	"fxchart-service/internal/domain"
	"fxchart-service/internal/infrastructure/logx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ application.RecordRepo = (*RecordRepo)(nil)

type RecordRepo struct{ db *DB }

func NewRecordRepo(db *DB) *RecordRepo { return &RecordRepo{db: db} }

const recordColumns = `id::text, time, from_currency, to_currency, sell_price, buy_price`

func scanRecord(row pgx.Row) (domain.QuoteRecord, error) {
	var out domain.QuoteRecord
	if err := row.Scan(&out.ID, &out.Time, &out.FromCurrency, &out.ToCurrency, &out.SellPrice, &out.BuyPrice); err != nil {
		return domain.QuoteRecord{}, err
	}
	out.Time = out.Time.UTC()
	return out, nil
}

func (r *RecordRepo) List(ctx context.Context) ([]domain.QuoteRecord, error) {
	const q = `SELECT ` + recordColumns + ` FROM quote_records ORDER BY time, created_at`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "quote_record"),
		zap.String("operation", "List"),
	)
	log.Debug("sql.query_start", zap.String("sql", q))
	rows, err := r.db.conn(ctx).Query(ctx, q)
	if err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.QuoteRecord, 0, 256)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			log.Error("sql.scan_failed", zap.Error(err))
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return nil, err
	}
	log.Info("sql.query_success", zap.Int("rows", len(out)))
	return out, nil
}

func (r *RecordRepo) Get(ctx context.Context, id string) (domain.QuoteRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.QuoteRecord{}, application.ErrNotFound
	}
	const q = `SELECT ` + recordColumns + ` FROM quote_records WHERE id=$1`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "quote_record"),
		zap.String("operation", "Get"),
		zap.String("id", id),
	)
	log.Debug("sql.query_start", zap.String("sql", q))
	out, err := scanRecord(r.db.conn(ctx).QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Info("sql.query_no_rows")
		return domain.QuoteRecord{}, application.ErrNotFound
	}
	if err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return domain.QuoteRecord{}, err
	}
	return out, nil
}

func (r *RecordRepo) Create(ctx context.Context, rec domain.QuoteRecord) error {
	const ins = `
        INSERT INTO quote_records(id, time, from_currency, to_currency, sell_price, buy_price)
        VALUES ($1, $2, $3, $4, $5, $6)`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "quote_record"),
		zap.String("operation", "Create"),
		zap.String("id", rec.ID),
		zap.String("pair", rec.PairKey()),
	)
	log.Debug("sql.exec_start", zap.String("sql", ins))
	tag, err := r.db.conn(ctx).Exec(ctx, ins, rec.ID, rec.Time, rec.FromCurrency, rec.ToCurrency, rec.SellPrice, rec.BuyPrice)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	log.Info("sql.exec_success", zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}

func (r *RecordRepo) Update(ctx context.Context, id string, p domain.RecordPatch) (domain.QuoteRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.QuoteRecord{}, application.ErrNotFound
	}
	const up = `
        UPDATE quote_records
        SET time          = COALESCE($2::timestamptz, time),
            from_currency = COALESCE($3::text, from_currency),
            to_currency   = COALESCE($4::text, to_currency),
            sell_price    = CASE WHEN $5::boolean THEN $6::float8 ELSE sell_price END,
            buy_price     = CASE WHEN $7::boolean THEN $8::float8 ELSE buy_price END
        WHERE id=$1
        RETURNING ` + recordColumns
	log := logx.WithFields(ctx).With(
		zap.String("repo", "quote_record"),
		zap.String("operation", "Update"),
		zap.String("id", id),
	)
	var at *time.Time
	if p.Time != nil {
		t := p.Time.UTC()
		at = &t
	}
	log.Debug("sql.exec_start", zap.String("sql", up))
	out, err := scanRecord(r.db.conn(ctx).QueryRow(ctx, up,
		id, at, p.FromCurrency, p.ToCurrency,
		p.SellPrice.Set, p.SellPrice.Value,
		p.BuyPrice.Set, p.BuyPrice.Value,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Warn("sql.exec_no_rows")
		return domain.QuoteRecord{}, application.ErrNotFound
	}
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return domain.QuoteRecord{}, err
	}
	log.Info("sql.exec_success")
	return out, nil
}

func (r *RecordRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return application.ErrNotFound
	}
	const del = `DELETE FROM quote_records WHERE id=$1`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "quote_record"),
		zap.String("operation", "Delete"),
		zap.String("id", id),
	)
	log.Debug("sql.exec_start", zap.String("sql", del))
	tag, err := r.db.conn(ctx).Exec(ctx, del, id)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		log.Warn("sql.exec_no_rows")
		return application.ErrNotFound
	}
	log.Info("sql.exec_success", zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}
