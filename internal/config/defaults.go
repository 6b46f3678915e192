package config

const (
	defaultDatabasePath   = "~/.local/share/reelsync/catalog.db"
	defaultLogDir         = "~/.local/share/reelsync/logs"
	defaultLockFile       = "~/.local/share/reelsync/sync.lock"
	defaultTokenFile      = "~/.config/reelsync/drive_token.json"
	defaultCredsFile      = "~/.config/reelsync/credentials.json"
	defaultSortLocale     = "nl"
	defaultPageSize       = 1000
	defaultRequestTimeout = 60
	defaultMaxRetries     = 3
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultFolderWeight   = 0.50
	defaultAIWeight       = 0.50
)

// Default returns a Config populated with repository defaults. The skip
// lists, copy prefixes, and number aliases reflect the catalog's upstream
// Drive naming conventions and are expected to be overridden per deployment.
func Default() Config {
	return Config{
		Paths: Paths{
			Database: defaultDatabasePath,
			LogDir:   defaultLogDir,
			LockFile: defaultLockFile,
		},
		Drive: Drive{
			SkipFolderNames: []string{
				"archief", "archief 2", "archief2", "dubbels", "image.canon", "raw",
			},
			CopyPrefixes: []string{"Kopie van ", "Copy of "},
			VideoExtensions: []string{
				".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm", ".m4v", ".mts", ".m2ts",
			},
			TokenFile:       defaultTokenFile,
			CredentialsFile: defaultCredsFile,
			SortLocale:      defaultSortLocale,
			PageSize:        defaultPageSize,
			RequestTimeout:  defaultRequestTimeout,
			MaxRetries:      defaultMaxRetries,
		},
		Taxonomy: Taxonomy{
			Aliases: map[string]string{
				"2.5":   "",
				"2.6":   "",
				"2.7":   "",
				"2.8":   "",
				"2.9":   "",
				"2.10":  "",
				"1.2.1": "1.3",
				"2.1.0": "2.1",
				"4.3.1": "",
				"4.3.3": "",
				"4.3.4": "",
			},
			SkipFolders: []string{
				"image.canon", "archief", "archief 2", "dubbels", "algemeen",
				"intro", "mijn drive", "professioneel", "groep stéphane",
				"hugo herbots", "door hugo geordende videos", "00 - intro",
				"klant", "voorstelling van mezelf", "verkoper", "equilux",
				"aquafresh", "ovezicht onderwerpen", "universele houdingen metafoor",
			},
		},
		Fusion: Fusion{
			FolderWeight: defaultFolderWeight,
			AIWeight:     defaultAIWeight,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
