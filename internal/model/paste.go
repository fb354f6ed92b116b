package model

import "time"

// Paste is one record of the drop box: a text snippet or one uploaded file.
// File records always carry StoredFilename (unique on disk) and OriginalFilename;
// text records carry Content and no StoredFilename.
type Paste struct {
	ID               int64     `json:"id"`
	Content          string    `json:"content,omitempty"`
	StoredFilename   string    `json:"stored_filename,omitempty"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	IsFile           bool      `json:"is_file"`
	FileSize         int64     `json:"file_size"`
	SubmissionID     string    `json:"submission_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Settings keys persisted in the settings table.
const (
	SettingUploadFolder  = "upload_folder"
	SettingSetupComplete = "setup_complete"
)
