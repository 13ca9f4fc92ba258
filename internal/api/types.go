package api

import "encoding/json"

// Controller describes a managed IR-blaster device.
type Controller struct {
	Hostname    string          `json:"hostname"`
	DisplayName string          `json:"displayName,omitempty"`
	IPAddress   string          `json:"ipAddress,omitempty"`
	Model       string          `json:"model,omitempty"`
	Firmware    string          `json:"firmwareVersion,omitempty"`
	Online      bool            `json:"online"`
	Tags        []string        `json:"tags,omitempty"`
	Ports       []Port          `json:"ports,omitempty"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// Port is one addressable output on a controller.
type Port struct {
	Number         int    `json:"number"`
	Label          string `json:"label,omitempty"`
	Appliance      string `json:"appliance,omitempty"`
	Brand          string `json:"brand,omitempty"`
	LibraryID      string `json:"libraryId,omitempty"`
	DefaultChannel string `json:"defaultChannel,omitempty"`
	Enabled        bool   `json:"enabled"`
}

// ControllerListResponse wraps the managed controller collection.
type ControllerListResponse struct {
	Controllers []Controller `json:"controllers"`
}

// Channel is an available channel a port can default to.
type Channel struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Logo   string `json:"logoUrl,omitempty"`
}

// ChannelListResponse wraps the available channel list.
type ChannelListResponse struct {
	Channels []Channel `json:"channels"`
}

// PortStatus reports the live state of a single port.
type PortStatus struct {
	Port           int    `json:"port"`
	Power          string `json:"power"`
	CurrentChannel string `json:"currentChannel,omitempty"`
	LastCommand    string `json:"lastCommand,omitempty"`
	LastCommandAt  string `json:"lastCommandAt,omitempty"`
	PendingCount   int    `json:"pendingCount"`
}

// PortStatusResponse is the polling payload for one controller's ports.
type PortStatusResponse struct {
	Hostname string       `json:"hostname"`
	Ports    []PortStatus `json:"ports"`
}

// PortCommand addresses one command at one port.
type PortCommand struct {
	Hostname string `json:"hostname"`
	Port     int    `json:"port"`
	Command  string `json:"command"`
	Channel  string `json:"channel,omitempty"`
}

// BulkCommandRequest submits a batch of commands for dispatch.
type BulkCommandRequest struct {
	Commands      []PortCommand `json:"commands"`
	DelayMS       int           `json:"delayMs,omitempty"`
	CorrelationID string        `json:"correlationId,omitempty"`
}

// BulkCommandResponse acknowledges a queued batch.
type BulkCommandResponse struct {
	BatchID string `json:"batchId"`
	Queued  int    `json:"queued"`
}

// QueueMetrics summarizes the backend command queue.
type QueueMetrics struct {
	Pending    int     `json:"pending"`
	InFlight   int     `json:"inFlight"`
	Completed  int     `json:"completed"`
	Failed     int     `json:"failed"`
	AvgLatency float64 `json:"avgLatencyMs"`
}

// QueuedCommand is one entry of the backend command queue.
type QueuedCommand struct {
	ID        string `json:"id"`
	BatchID   string `json:"batchId,omitempty"`
	Hostname  string `json:"hostname"`
	Port      int    `json:"port"`
	Command   string `json:"command"`
	Status    string `json:"status"`
	QueuedAt  string `json:"queuedAt,omitempty"`
	Error     string `json:"error,omitempty"`
	Attempts  int    `json:"attempts,omitempty"`
	Requester string `json:"requestedBy,omitempty"`
}

// QueueListResponse wraps the full command queue.
type QueueListResponse struct {
	Commands []QueuedCommand `json:"commands"`
}

// Schedule describes a backend-executed cron schedule.
type Schedule struct {
	ID        string        `json:"id,omitempty"`
	Name      string        `json:"name"`
	CronExpr  string        `json:"cronExpression"`
	Enabled   bool          `json:"enabled"`
	Commands  []PortCommand `json:"commands"`
	Timezone  string        `json:"timezone,omitempty"`
	LastRunAt string        `json:"lastRunAt,omitempty"`
	NextRunAt string        `json:"nextRunAt,omitempty"`
	CreatedAt string        `json:"createdAt,omitempty"`
}

// ScheduleListResponse wraps the schedule collection.
type ScheduleListResponse struct {
	Schedules []Schedule `json:"schedules"`
}

// Tag groups controllers for bulk addressing.
type Tag struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Color     string   `json:"color,omitempty"`
	Hostnames []string `json:"hostnames,omitempty"`
}

// TagListResponse wraps the tag collection.
type TagListResponse struct {
	Tags []Tag `json:"tags"`
}

// AppSettings is the backend's application-level settings document.
type AppSettings struct {
	VenueName        string `json:"venueName,omitempty"`
	DefaultTimezone  string `json:"defaultTimezone,omitempty"`
	CommandDelayMS   int    `json:"commandDelayMs,omitempty"`
	QueuePaused      bool   `json:"queuePaused"`
	FirmwareChannel  string `json:"firmwareChannel,omitempty"`
	RetentionDays    int    `json:"logRetentionDays,omitempty"`
	DiscoveryEnabled bool   `json:"discoveryEnabled"`
}

// Backup describes one backup archive held by the backend.
type Backup struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"sizeBytes"`
	CreatedAt string `json:"createdAt,omitempty"`
	Checksum  string `json:"checksum,omitempty"`
}

// BackupListResponse wraps the backup collection.
type BackupListResponse struct {
	Backups []Backup `json:"backups"`
}

// BackupStatus reports in-progress backup or restore activity.
type BackupStatus struct {
	State       string `json:"state"`
	Detail      string `json:"detail,omitempty"`
	StartedAt   string `json:"startedAt,omitempty"`
	LastBackup  string `json:"lastBackupAt,omitempty"`
	LastRestore string `json:"lastRestoreAt,omitempty"`
}

// DatabaseReport summarizes the backend's current database contents.
type DatabaseReport struct {
	Controllers int    `json:"controllers"`
	Schedules   int    `json:"schedules"`
	Users       int    `json:"users"`
	Tags        int    `json:"tags"`
	SizeBytes   int64  `json:"sizeBytes"`
	GeneratedAt string `json:"generatedAt,omitempty"`
}

// User is an operator account.
type User struct {
	ID        string   `json:"id,omitempty"`
	Username  string   `json:"username"`
	Email     string   `json:"email,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Disabled  bool     `json:"disabled"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

// UserListResponse wraps the user collection.
type UserListResponse struct {
	Users []User `json:"users"`
}

// Role names a permission set.
type Role struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// RoleListResponse wraps the role collection.
type RoleListResponse struct {
	Roles []Role `json:"roles"`
}

// LoginRequest carries operator credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is the backend's issued token bundle.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Library is a catalogued IR command set for one brand/model family.
type Library struct {
	ID       string   `json:"id"`
	Brand    string   `json:"brand"`
	Models   []string `json:"models,omitempty"`
	Commands []string `json:"commands,omitempty"`
}

// LibraryListResponse wraps the IR library collection.
type LibraryListResponse struct {
	Libraries []Library `json:"libraries"`
}

// ErrorResponse is the backend's error envelope.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
