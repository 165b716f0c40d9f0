package validation

const (
	// Password requirements. bcrypt ignores bytes past 72.
	MinPasswordLength = 8
	MaxPasswordLength = 72

	MaxNameLength = 100
)
