package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the local highlights database
	DefaultDatabasePath = "./highlights.db"
)

// Mount points the Kobo eReader usually appears under.
const (
	DefaultKoboMountDarwin = "/Volumes/KOBOeReader"
	DefaultKoboMountLinux  = "/media/KOBOeReader"
)
