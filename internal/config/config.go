package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client towards the world-event feeds.
var UserAgent = "Go-Cosmic-Codex/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Cosmic Codex"
	AppID             = "com.github.tartampluch.go-cosmic-codex"
	KeyringService    = "com.github.tartampluch.go-cosmic-codex"
	KeyringNewsUser   = "news-archive-api-key"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	ConfigFileName    = ".cosmic-codex"
	ConfigFileType    = "yaml"
	EnvPrefix         = "COSMIC"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagConfig          = "config"
	FlagDebug           = "debug"
	FlagBirth           = "birth"
	FlagVCard           = "vcard"
	FlagArchetype       = "archetype"
	FlagNoWorldEvents   = "no-world-events"
	FlagLanguage        = "lang"
	FlagAscendant       = "ascendant"
	FlagPort            = "port"
	FlagDescConfig      = "config file (default .cosmic-codex.yaml)"
	FlagDescDebug       = "Enable debug logging to stderr"
	FlagDescBirth       = "Birth date (YYYY-MM-DD)"
	FlagDescVCard       = "Read the birth date from a vCard file"
	FlagDescArchetype   = "Sol archetype (derived from the sun sign when empty)"
	FlagDescNoWorld     = "Skip world event correlation"
	FlagDescLanguage    = "Narrative language (en, fr)"
	FlagDescAscendant   = "Natal Ascendant longitude in degrees (enables house transits)"
	FlagDescPort        = "HTTP port for the serve command"
	MsgVersionOutput    = "%s version %s (commit %s, built %s, %s/%s)\n"
	MsgKeyPrompt        = "Paste the news archive API key and press Enter: "
	MsgKeyStored        = "API key stored in the system keyring."
	NoAscendantSentinel = -1.0
)

// Command names and help texts.
const (
	CmdRoot          = "go-cosmic-codex"
	CmdTimeline      = "timeline"
	CmdICS           = "ics"
	CmdServe         = "serve"
	CmdKey           = "key"
	CmdKeySet        = "set"
	CmdVersion       = "version"
	CmdShortRoot     = "Astrological life timeline engine"
	CmdLongRoot      = "Go Cosmic Codex computes the significant astrological moments of a life, interprets them and correlates them with world history."
	CmdShortTimeline = "Print the cosmic codex timeline as JSON"
	CmdShortICS      = "Print the cosmic codex timeline as an iCalendar feed"
	CmdShortServe    = "Serve the timeline over HTTP and refresh it periodically"
	CmdShortKey      = "Manage the news archive API key"
	CmdShortKeySet   = "Store the news archive API key in the system keyring"
	CmdShortVersion  = "Print version information"
	JSONIndent       = "  "
)

// -----------------------------------------------------------------------------
// Settings Keys (viper)
// -----------------------------------------------------------------------------

const (
	SettingLanguage       = "language"
	SettingServerPort     = "server.port"
	SettingRefresh        = "server.refresh_interval"
	SettingWorldEnabled   = "world_events.enabled"
	SettingWorldTimeout   = "world_events.timeout"
	SettingWorldParallel  = "world_events.max_parallel"
	SettingWorldRate      = "world_events.requests_per_second"
	SettingWikipediaURL   = "world_events.wikipedia_url"
	SettingHistoryURL     = "world_events.history_url"
	SettingNewsArchiveURL = "world_events.news_archive_url"
	SettingNewsArchiveKey = "world_events.news_archive_key"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort             = "18081"
	DefaultLanguage         = "en"
	DefaultRefreshInterval  = 24 * time.Hour
	DefaultWorldTimeout     = 5 * time.Second
	DefaultWorldParallel    = 4
	DefaultWorldRate        = 5.0
	DefaultWikipediaURL     = "https://api.wikimedia.org/feed/v1/wikipedia/en/onthisday/events"
	DefaultHistoryURL       = "https://history.muffinlabs.com/date"
	DefaultNewsArchiveURL   = "https://api.nytimes.com/svc/archive/v1"
	DefaultCycleLengthYears = 7
	DefaultFutureYears      = 3
	TransitionYears         = 7
	DaysPerYear             = 365.25
	UIDSalt                 = "go-cosmic-codex-v1-"
	UIDHashLength           = 16
	FormatHashInput         = "%s|%s|%s"
	FormatUID               = "%s@%s"
)

// SupportedLanguages defines the list of narrative languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion    = "2.0"
	ICalProdid     = "-//Go Cosmic Codex//Timeline//EN"
	ICalCalName    = "Cosmic Codex"
	ICalMethod     = "PUBLISH"
	ICalScale      = "GREGORIAN"
	ICalComponent  = "VALARM"
	ICalAction     = "DISPLAY"
	ICalDomain     = "gocosmiccodex"
	ICalTrigger    = "-P1D"
	ICalFutureTag  = "FUTURE-POTENTIAL"
	ICalDescJoiner = "\n\n"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropCategories  = "CATEGORIES"
	PropURL         = "URL"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 24 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when a timeline has no events.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields and CLI input.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	MinPort = 1
	MaxPort = 65535
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 8 * 1024 * 1024 // 8MB, archive months are large
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteTimelineJSON   = "/timeline.json"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrEphemerisUnavailable = "ephemeris provider unavailable for every candidate date"
	ErrBirthDateZero        = "birth date is required"
	ErrBirthAfterNow        = "birth date is in the future"
	ErrBirthMissing         = "either --birth or --vcard is required"
	ErrServerStartup        = "server startup failed"
	ErrServerShutdown       = "server shutdown failed"
	ErrPortRequired         = "server port is required"
	ErrPortNumber           = "server port must be a number"
	ErrPortRange            = "server port must be between 1 and 65535"
	ErrInvalidURL           = "invalid URL structure"
	ErrProtocol             = "unsupported protocol scheme (http/https only)"
	ErrFeedStatus           = "feed returned unexpected status"
	ErrFeedEmpty            = "feed returned no usable event"
	ErrFeedKeyMissing       = "feed requires an API key"
	ErrVCardParse           = "failed to parse vCard stream"
	ErrVCardNoBirthday      = "no contact with a birth date found"
	ErrYearUnknown          = "birth date has no year"
	ErrICalEncode           = "failed to encode iCalendar data"
	ErrJSONEncode           = "failed to encode timeline"
	ErrDateParse            = "unable to parse date"
	ErrLogFile              = "failed to open log file"
	ErrCacheDir             = "could not determine user cache dir"
	ErrCreateDir            = "could not create app cache dir"
	ErrAppFailed            = "application failed unexpectedly"
	ErrWriteResp            = "failed to write response body"
	ErrLocalesAccess        = "failed to access embedded locales"
	ErrLocaleLoad           = "failed to load locale file"
	ErrKeyringRead          = "failed to read API key from keyring"
	ErrKeyringWrite         = "failed to store API key in keyring"
	ErrKeyEmpty             = "API key is empty"
	ErrOpenVCard            = "failed to open vCard file"
	ErrConfigRead           = "failed to read config file"
	ErrBirthParse           = "invalid --birth date, expected YYYY-MM-DD"
	ErrAscendantRange       = "--ascendant must be within [0, 360)"
	ErrKeyRead              = "failed to read API key from input"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Timeline initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAssemblyStarted  = "Timeline assembly started"
	MsgAssemblyFinished = "Timeline assembly finished"
	MsgEphemerisMiss    = "Ephemeris returned nothing for date"
	MsgEphemerisFailed  = "Ephemeris provider failed for date"
	MsgKnownEventUsed   = "Known-event table substituted for date"
	MsgDateSkipped      = "No cosmic events for date, skipping"
	MsgArchetypeUnknown = "Unknown archetype, using default"
	MsgFeedFailed       = "World event feed failed"
	MsgFeedSkipped      = "World event feed skipped"
	MsgWorldEventMiss   = "No world event found for date"
	MsgWorldEventFound  = "World event correlated"
	MsgAppStarting      = "Starting application"
	MsgAppStop          = "Application stopped gracefully"
	MsgServerListen     = "HTTP server listening"
	MsgServerStop       = "Shutting down HTTP server..."
	MsgCacheUpdated     = "Timeline cache updated"
	MsgRefreshFailed    = "Timeline refresh failed"
	MsgWorkerStop       = "Worker stopping due to context cancellation"
	MsgWorkerStart      = "Refresh worker started"
	MsgEphemerisSnap    = "Ephemeris snapshot computed"
	MsgLocaleSkip       = "Skipping non-locale file"
	MsgLocaleBadName    = "Skipping malformed locale filename"
	MsgLocaleLoaded     = "Locale loaded successfully"
	MsgTransMissing     = "Missing translation key"
	MsgKeyringMiss      = "No news archive API key in keyring"
	MsgSkippedDate      = "Skipping invalid date format"
	MsgCalendarEncoded  = "Timeline calendar encoded"
	MsgBirthCardRead    = "Birth date read from vCard"
	MsgArchetypeDerived = "Archetype derived from sun sign"
	MsgConfigLoaded     = "Config file loaded"
	MsgLogWarning       = "Warning: %s at %s: %v\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyFeed      = "feed"
	LogKeyDate      = "date"
	LogKeyArchetype = "archetype"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyDOB       = "date_of_birth"
	LogKeyName      = "name"
	LogKeySign      = "sun_sign"
	LogKeyInterval  = "interval"
	LogKeyDuration  = "duration_ms"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyCandidate = "candidate_dates"
	LogKeyEvents    = "timeline_events"
	LogKeyMajor     = "major_events"
	LogKeyWorld     = "world_events"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompEngine    = "engine"
	CompEphemeris = "ephemeris"
	CompWorld     = "world_events"
	CompServer    = "server"
	CompCalendar  = "calendar"
	CompVCard     = "vcard"
	CompWorker    = "worker"
	CompMain      = "main"
	CompI18n      = "i18n"
)
