package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/wine-investment-service/internal/models"
)

const wineColumns = `id, name, region, country, price_retail, vintage, classification`

// ListWines returns up to limit wines with id greater than afterID, ordered by id
func (db *DB) ListWines(ctx context.Context, afterID, limit int) ([]*models.Wine, error) {
	query := `
		SELECT ` + wineColumns + `
		FROM wines
		WHERE id > $1
		ORDER BY id ASC
		LIMIT $2
	`
	rows, err := db.conn.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list wines: %w", err)
	}
	defer rows.Close()

	var wines []*models.Wine
	for rows.Next() {
		w, err := scanWine(rows)
		if err != nil {
			return nil, err
		}
		wines = append(wines, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wines: %w", err)
	}

	return wines, nil
}

// GetWine retrieves a wine's investment inputs by id
func (db *DB) GetWine(ctx context.Context, id int) (*models.Wine, error) {
	query := `SELECT ` + wineColumns + ` FROM wines WHERE id = $1`

	w, err := scanWine(db.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrWineNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// CountWines returns the number of catalog rows
func (db *DB) CountWines(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM wines`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count wines: %w", err)
	}
	return count, nil
}

// UpdateInvestmentProfile overwrites the investment fields of a wine
func (db *DB) UpdateInvestmentProfile(ctx context.Context, id int, p *models.InvestmentProfile) error {
	history, err := json.Marshal(p.PriceHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal price history: %w", err)
	}

	query := `
		UPDATE wines
		SET
			price_history = $1::jsonb,
			investment_score = $2,
			is_investment_grade = $3,
			storage_type = $4,
			five_year_return = $5,
			liv_ex_score = $6
		WHERE id = $7
	`
	result, err := db.conn.ExecContext(ctx, query,
		string(history),
		decimal.NewFromFloat(p.InvestmentScore).Round(1),
		p.IsInvestmentGrade,
		string(p.StorageType),
		nullableReturn(p.FiveYearReturn),
		nullableInt(p.LivExScore),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update investment data for wine %d: %w", id, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %d", ErrWineNotFound, id)
	}
	return nil
}

// GetInvestmentProfile reads back the stored investment fields of a wine
func (db *DB) GetInvestmentProfile(ctx context.Context, id int) (*models.InvestmentProfile, error) {
	query := `
		SELECT price_history, investment_score, is_investment_grade,
		       storage_type, five_year_return, liv_ex_score
		FROM wines
		WHERE id = $1
	`
	var history []byte
	var score, fiveYear decimal.NullDecimal
	var grade sql.NullBool
	var storage sql.NullString
	var livEx sql.NullInt64

	err := db.conn.QueryRowContext(ctx, query, id).Scan(&history, &score, &grade, &storage, &fiveYear, &livEx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrWineNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get investment profile: %w", err)
	}
	if !score.Valid {
		return nil, fmt.Errorf("%w: %d", ErrProfileNotFound, id)
	}

	p := &models.InvestmentProfile{
		PriceHistory:      []models.PricePoint{},
		IsInvestmentGrade: grade.Bool,
		InvestmentScore:   score.Decimal.InexactFloat64(),
		StorageType:       models.StorageType(storage.String),
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &p.PriceHistory); err != nil {
			return nil, fmt.Errorf("failed to parse price history for wine %d: %w", id, err)
		}
	}
	if fiveYear.Valid {
		v := fiveYear.Decimal.InexactFloat64()
		p.FiveYearReturn = &v
	}
	if livEx.Valid {
		v := int(livEx.Int64)
		p.LivExScore = &v
	}
	return p, nil
}

// GetInvestmentWine retrieves the investment summary of one wine
func (db *DB) GetInvestmentWine(ctx context.Context, id int) (*models.InvestmentWine, error) {
	query := `SELECT ` + investmentWineColumns + ` FROM wines WHERE id = $1`

	w, err := scanInvestmentWine(db.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrWineNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

const investmentWineColumns = `id, name, region, vintage, price_retail, investment_score,
		       five_year_return, storage_type, liv_ex_score`

// ListInvestmentWines returns investment-grade wines matching q, best score first
func (db *DB) ListInvestmentWines(ctx context.Context, q models.InvestmentQuery) ([]*models.InvestmentWine, error) {
	var sb strings.Builder
	args := []interface{}{q.MinScore}

	sb.WriteString(`
		SELECT ` + investmentWineColumns + `
		FROM wines
		WHERE is_investment_grade = true
		  AND investment_score >= $1`)

	if q.Region != "" {
		args = append(args, "%"+strings.ToLower(q.Region)+"%")
		fmt.Fprintf(&sb, "\n\t\t  AND LOWER(region) LIKE $%d", len(args))
	}
	if q.MaxPrice != nil {
		args = append(args, *q.MaxPrice)
		fmt.Fprintf(&sb, "\n\t\t  AND price_retail <= $%d", len(args))
	}
	if q.MinVintage != nil {
		args = append(args, *q.MinVintage)
		fmt.Fprintf(&sb, "\n\t\t  AND vintage >= $%d", len(args))
	}
	if len(q.Regions) > 0 {
		conds := make([]string, len(q.Regions))
		for i, r := range q.Regions {
			args = append(args, "%"+strings.ToLower(r)+"%")
			conds[i] = fmt.Sprintf("LOWER(region) LIKE $%d", len(args))
		}
		fmt.Fprintf(&sb, "\n\t\t  AND (%s)", strings.Join(conds, " OR "))
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit)
	fmt.Fprintf(&sb, "\n\t\tORDER BY investment_score DESC\n\t\tLIMIT $%d", len(args))

	rows, err := db.conn.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment wines: %w", err)
	}
	defer rows.Close()

	var wines []*models.InvestmentWine
	for rows.Next() {
		w, err := scanInvestmentWine(rows)
		if err != nil {
			return nil, err
		}
		wines = append(wines, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investment wines: %w", err)
	}

	return wines, nil
}

// TopInvestmentWines returns the highest scoring investment-grade wines
func (db *DB) TopInvestmentWines(ctx context.Context, limit int) ([]*models.InvestmentWine, error) {
	return db.ListInvestmentWines(ctx, models.InvestmentQuery{Limit: limit})
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWine(row rowScanner) (*models.Wine, error) {
	var w models.Wine
	var name, region, country, classification sql.NullString
	var vintage sql.NullInt64

	err := row.Scan(&w.ID, &name, &region, &country, &w.PriceRetail, &vintage, &classification)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan wine: %w", err)
	}

	w.Name = name.String
	w.Region = region.String
	w.Country = country.String
	w.Classification = classification.String
	if vintage.Valid {
		v := int(vintage.Int64)
		w.Vintage = &v
	}
	return &w, nil
}

func scanInvestmentWine(row rowScanner) (*models.InvestmentWine, error) {
	var w models.InvestmentWine
	var name, region, storage sql.NullString
	var vintage, livEx sql.NullInt64

	err := row.Scan(&w.ID, &name, &region, &vintage, &w.Price, &w.InvestmentScore,
		&w.FiveYearReturn, &storage, &livEx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan investment wine: %w", err)
	}

	w.Name = name.String
	w.Region = region.String
	w.StorageType = storage.String
	if vintage.Valid {
		v := int(vintage.Int64)
		w.Vintage = &v
	}
	if livEx.Valid {
		v := int(livEx.Int64)
		w.LivExScore = &v
	}
	return &w, nil
}

func nullableReturn(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*v).Round(1))
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
