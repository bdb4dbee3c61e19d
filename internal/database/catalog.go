package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trogers1052/wine-investment-service/internal/models"
)

const catalogColumns = `id, name, winery, region, country, grape_variety, vintage, wine_type,
		style, color, price_retail, price_trade, bottle_size, tasting_notes,
		critic_scores, drinking_window, classification, image_url,
		stock_quantity, case_size, is_active, slug`

// ListCatalogWines returns full catalog rows with id greater than afterID
func (db *DB) ListCatalogWines(ctx context.Context, afterID, limit int) ([]*models.CatalogWine, error) {
	query := `
		SELECT ` + catalogColumns + `, created_at, updated_at
		FROM wines
		WHERE id > $1
		ORDER BY id ASC
		LIMIT $2
	`
	rows, err := db.conn.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog wines: %w", err)
	}
	defer rows.Close()

	var wines []*models.CatalogWine
	for rows.Next() {
		var w models.CatalogWine
		var vintage, stock, caseSize sql.NullInt64
		var isActive sql.NullBool
		var createdAt, updatedAt sql.NullTime
		var name, winery, region, country, grape, wineType, style, color sql.NullString
		var bottle, notes, window, classification, image, slug sql.NullString

		err := rows.Scan(
			&w.ID, &name, &winery, &region, &country, &grape, &vintage, &wineType,
			&style, &color, &w.PriceRetail, &w.PriceTrade, &bottle, &notes,
			&w.CriticScores, &window, &classification, &image,
			&stock, &caseSize, &isActive, &slug, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog wine: %w", err)
		}

		w.Name, w.Winery, w.Region, w.Country = stringPtr(name), stringPtr(winery), stringPtr(region), stringPtr(country)
		w.GrapeVariety, w.WineType, w.Style, w.Color = stringPtr(grape), stringPtr(wineType), stringPtr(style), stringPtr(color)
		w.BottleSize, w.TastingNotes, w.DrinkingWindow = stringPtr(bottle), stringPtr(notes), stringPtr(window)
		w.Classification, w.ImageURL, w.Slug = stringPtr(classification), stringPtr(image), stringPtr(slug)
		w.Vintage, w.StockQuantity, w.CaseSize = intPtr(vintage), intPtr(stock), intPtr(caseSize)
		if isActive.Valid {
			w.IsActive = &isActive.Bool
		}
		if createdAt.Valid {
			w.CreatedAt = &createdAt.Time
		}
		if updatedAt.Valid {
			w.UpdatedAt = &updatedAt.Time
		}
		wines = append(wines, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog wines: %w", err)
	}

	return wines, nil
}

// InsertCatalogWine copies a catalog row, keeping its id and timestamps.
// Missing timestamps default to now. It reports false
// when a row with the same id already exists.
func (db *DB) InsertCatalogWine(ctx context.Context, w *models.CatalogWine) (bool, error) {
	query := `
		INSERT INTO wines (` + catalogColumns + `, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22,
		        COALESCE($23::timestamptz, NOW()), COALESCE($24::timestamptz, NOW()))
		ON CONFLICT (id) DO NOTHING
	`
	var criticScores interface{}
	if len(w.CriticScores) > 0 {
		criticScores = string(w.CriticScores)
	}

	result, err := db.conn.ExecContext(ctx, query,
		w.ID, w.Name, w.Winery, w.Region, w.Country, w.GrapeVariety, w.Vintage, w.WineType,
		w.Style, w.Color, w.PriceRetail, w.PriceTrade, w.BottleSize, w.TastingNotes,
		criticScores, w.DrinkingWindow, w.Classification, w.ImageURL,
		w.StockQuantity, w.CaseSize, w.IsActive, w.Slug, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert wine %d: %w", w.ID, err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// ResetWineSequence moves wines_id_seq past the highest copied id
func (db *DB) ResetWineSequence(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `SELECT setval('wines_id_seq', (SELECT COALESCE(MAX(id), 1) FROM wines))`)
	if err != nil {
		return fmt.Errorf("failed to reset wine id sequence: %w", err)
	}
	return nil
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
