package constants

const (
	Version        = `0.1.0`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.numdex/`
	EnvPrefix      = `NUMDEX`

	IndexFileName          = `Numbered Folders Index.md`
	DefaultTimestampFormat = `1/2/2006, 3:04:05 PM`
	DefaultLogLevel        = `info`
	WatchLogFile           = `watch.log`

	// LockDir holds lock files inside the vault. Dot-folders are never listed.
	LockDir          = `.numdex`
	GenerateLockFile = `generate.lock`
	WatchLockFile    = `watch.lock`
)
