package repository

import (
	"errors"

	"restaurant-pos/models"

	"gorm.io/gorm"
)

// claimTable marks a table OCCUPIED for a new order. It must run inside the
// same transaction that creates the order, so a failed order creation rolls
// the claim back.
//
// The claim itself is a conditional UPDATE on the expected prior status; the
// affected-row count is the only concurrency control. Two concurrent opens on
// the same table race on this statement and exactly one wins.
func claimTable(tx *gorm.DB, branchID, tableID string) error {
	var table models.Table
	err := tx.Select("id").First(&table, "id = ? AND branch_id = ?", tableID, branchID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrTableNotFound
		}
		return err
	}

	res := tx.Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, models.TableAvailable).
		Update("status", models.TableOccupied)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrTableNotAvailable
	}
	return nil
}

// releaseTableIfIdle frees a table once no active order references it. Runs
// inside the transaction that finalizes the last order, so there is no window
// where the table is wrongly marked.
func releaseTableIfIdle(tx *gorm.DB, tableID string) error {
	var active int64
	err := tx.Model(&models.Order{}).
		Where("table_id = ? AND status IN ?", tableID, models.ActiveStatuses()).
		Count(&active).Error
	if err != nil {
		return err
	}
	if active > 0 {
		return nil
	}
	return tx.Model(&models.Table{}).
		Where("id = ?", tableID).
		Update("status", models.TableAvailable).Error
}
