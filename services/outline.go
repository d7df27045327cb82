package services

import (
	"time"

	"course-folder-api/models"

	"gorm.io/gorm"
)

// MergeOutline folds a partial outline update into the existing content.
// Nested maps merge key by key, scalars and arrays overwrite, an explicit
// null deletes the key. Neither input is mutated.
func MergeOutline(existing, patch models.JSONMap) models.JSONMap {
	merged := models.JSONMap{}
	for k, v := range existing {
		merged[k] = v
	}

	for k, v := range patch {
		if v == nil {
			delete(merged, k)
			continue
		}

		patchMap, patchIsMap := v.(map[string]interface{})
		if !patchIsMap {
			merged[k] = v
			continue
		}

		existingMap, existingIsMap := merged[k].(map[string]interface{})
		if !existingIsMap {
			merged[k] = v
			continue
		}

		merged[k] = map[string]interface{}(
			MergeOutline(models.JSONMap(existingMap), models.JSONMap(patchMap)))
	}

	return merged
}

// SaveOutline merges the patch into the folder's outline, snapshots the
// result, and marks the folder's first activity. Runs inside the caller's
// transaction and mutates the passed folder on success.
func SaveOutline(tx *gorm.DB, folder *models.Folder, patch models.JSONMap, userID int) (models.JSONMap, error) {
	merged := MergeOutline(folder.OutlineContent, patch)

	updates := map[string]interface{}{
		"outline_content": merged,
		"update_at":       time.Now(),
	}
	if !folder.FirstActivityCompleted {
		updates["first_activity_completed"] = true
	}

	if err := tx.Model(&models.Folder{}).
		Where("folder_id = ?", folder.FolderID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	snapshot := models.OutlineSnapshot{
		FolderID: folder.FolderID,
		Content:  merged,
		SavedBy:  userID,
	}
	if err := tx.Create(&snapshot).Error; err != nil {
		return nil, err
	}

	folder.OutlineContent = merged
	folder.FirstActivityCompleted = true

	return merged, nil
}
