package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// generateDocumentNumber produces the next sequential document number for
// an organization. Format: PREFIX-YYYY-NNNNN (e.g., BILL-2026-00001). The
// sequence restarts each year and is verified unique before returning.
func generateDocumentNumber(ctx context.Context, db *gorm.DB, model interface{}, column, prefix string, orgID uuid.UUID) (string, error) {
	year := time.Now().Year()
	yearPrefix := fmt.Sprintf("%s-%d-", prefix, year)

	var lastNumbers []string
	if err := db.WithContext(ctx).Model(model).
		Where("org_id = ? AND "+column+" LIKE ?", orgID, yearPrefix+"%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &lastNumbers).Error; err != nil {
		return "", err
	}

	var nextNum int64 = 1
	if len(lastNumbers) > 0 {
		parts := strings.Split(lastNumbers[0], "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	number := fmt.Sprintf("%s%05d", yearPrefix, nextNum)

	// Walk forward past any collision from concurrent generation.
	for i := 0; i < 100; i++ {
		var count int64
		if err := db.WithContext(ctx).Model(model).
			Where("org_id = ? AND "+column+" = ?", orgID, number).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
		nextNum++
		number = fmt.Sprintf("%s%05d", yearPrefix, nextNum)
	}

	return "", fmt.Errorf("failed to generate a unique %s number", prefix)
}
