package catalog

import (
	"database/sql"
	"errors"
	"time"
)

const itemColumns = "id, external_id, folder_id, folder_path, title, file_name, mime_type, size_bytes, modified_at, status, playback_order, playback_ref, is_hidden, manual_technique_id, ai_technique_id, ai_confidence, suggested_technique_id, suggested_confidence, suggestion_source, phase, created_at, updated_at, deleted_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id            int64
		externalID    string
		folderID      sql.NullString
		folderPath    sql.NullString
		title         string
		fileName      string
		mimeType      sql.NullString
		sizeBytes     sql.NullInt64
		modifiedRaw   sql.NullString
		statusStr     string
		playbackOrder sql.NullInt64
		playbackRef   sql.NullString
		isHidden      sql.NullInt64
		manualID      sql.NullString
		aiID          sql.NullString
		aiConf        sql.NullFloat64
		suggestedID   sql.NullString
		suggestedConf sql.NullFloat64
		suggestionSrc sql.NullString
		phase         sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
		deletedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&externalID,
		&folderID,
		&folderPath,
		&title,
		&fileName,
		&mimeType,
		&sizeBytes,
		&modifiedRaw,
		&statusStr,
		&playbackOrder,
		&playbackRef,
		&isHidden,
		&manualID,
		&aiID,
		&aiConf,
		&suggestedID,
		&suggestedConf,
		&suggestionSrc,
		&phase,
		&createdRaw,
		&updatedRaw,
		&deletedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:                   id,
		ExternalID:           externalID,
		FolderID:             folderID.String,
		FolderPath:           folderPath.String,
		Title:                title,
		FileName:             fileName,
		MimeType:             mimeType.String,
		SizeBytes:            sizeBytes.Int64,
		Status:               Status(statusStr),
		PlaybackOrder:        int(playbackOrder.Int64),
		PlaybackRef:          playbackRef.String,
		ManualTechniqueID:    manualID.String,
		AITechniqueID:        aiID.String,
		SuggestedTechniqueID: suggestedID.String,
		SuggestionSource:     suggestionSrc.String,
		Phase:                phase.String,
	}
	if isHidden.Valid {
		item.IsHidden = isHidden.Int64 != 0
	}
	if aiConf.Valid {
		conf := aiConf.Float64
		item.AIConfidence = &conf
	}
	if suggestedConf.Valid {
		conf := suggestedConf.Float64
		item.SuggestedConfidence = &conf
	}
	if modifiedRaw.Valid {
		if modified, err := parseTimeString(modifiedRaw.String); err == nil {
			item.ModifiedAt = &modified
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	if deletedRaw.Valid {
		if deleted, err := parseTimeString(deletedRaw.String); err == nil {
			item.DeletedAt = &deleted
		}
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
