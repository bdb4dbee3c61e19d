package investment

import "github.com/trogers1052/wine-investment-service/internal/models"

// AssignStorageType picks a storage type for a wine. High value and
// investment-grade wines are mostly bonded; cheap wines mostly stay retail.
func AssignStorageType(w *models.Wine, rng Rand) models.StorageType {
	price := w.Price()

	switch {
	case price >= highValuePrice || IsInvestmentWine(w):
		if rng.Float64() > 0.3 {
			return models.StorageBonded
		}
		return models.StoragePrivateCellar
	case price >= regionGradeMinPrice:
		if rng.Float64() > 0.5 {
			return models.StorageBonded
		}
		return models.StoragePrivateCellar
	default:
		if rng.Float64() > 0.7 {
			return models.StoragePrivateCellar
		}
		return models.StorageRetail
	}
}
